package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

type gradeItemProvider interface {
	FindModuleGradeItem(ctx context.Context, moduleID, instanceID int64) (*models.GradeItem, error)
	FindCategory(ctx context.Context, id int64) (*models.GradeCategory, error)
	FindCategoryGradeItem(ctx context.Context, categoryID int64) (*models.GradeItem, error)
}

// WeightIndicator classifies how much a module's grade weighs in its
// course's final grade, as an ordinal in 0..4. It implements
// analytics.Indicator for course-module bundles.
//
// Results are memoized per course-module id for the lifetime of the
// instance. Instances are built per computation pass: the grade tree can
// change across data imports, so the memo must not outlive one.
type WeightIndicator struct {
	grades gradeItemProvider
	logger *zap.Logger
	memo   map[int64]*int
}

// NewWeightIndicator constructs WeightIndicator.
func NewWeightIndicator(grades gradeItemProvider, logger *zap.Logger) *WeightIndicator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WeightIndicator{
		grades: grades,
		logger: logger,
		memo:   make(map[int64]*int),
	}
}

// RequiredSampleData names the bundle keys the indicator reads.
func (s *WeightIndicator) RequiredSampleData() []string {
	return []string{models.SampleDataCourseModules}
}

// Calculate returns the weight class of the sample's course module, nil
// when the module carries no grading signal.
func (s *WeightIndicator) Calculate(ctx context.Context, bundle models.SampleBundle) (*int, error) {
	return s.Classify(ctx, bundle.Module)
}

// Classify buckets the composite aggregation weight of a course module.
// Class 0 (and a missing grade item) is reported as nil: a module that does
// not count toward the grade carries no signal.
func (s *WeightIndicator) Classify(ctx context.Context, module models.CourseModule) (*int, error) {
	raw, cached := s.memo[module.ID]
	if !cached {
		var err error
		raw, err = s.classify(ctx, module)
		if err != nil {
			return nil, err
		}
		s.memo[module.ID] = raw
	}

	if raw == nil || *raw == 0 {
		return nil, nil
	}
	class := *raw
	return &class, nil
}

func (s *WeightIndicator) classify(ctx context.Context, module models.CourseModule) (*int, error) {
	item, err := s.grades.FindModuleGradeItem(ctx, module.ModuleID, module.Instance)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if item.GradeType == models.GradeTypeNone {
		// Same as a composite weight of 0: minimum class.
		zero := 0
		return &zero, nil
	}

	weight := item.AggregationCoef2
	categoryID := item.CategoryID
	for categoryID != 0 {
		category, err := s.grades.FindCategory(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		if category.IsCourseRoot() {
			break
		}
		categoryItem, err := s.grades.FindCategoryGradeItem(ctx, category.ID)
		if err != nil {
			return nil, fmt.Errorf("walk grade tree for course module %d: %w", module.ID, err)
		}
		weight *= categoryItem.AggregationCoef2
		categoryID = category.ParentID
	}

	class := bucketWeight(weight)
	return &class, nil
}

func bucketWeight(weight float64) int {
	switch {
	case weight == 0:
		return 0
	case weight < 0.1:
		return 1
	case weight < 0.2:
		return 2
	case weight < 0.5:
		return 3
	default:
		return 4
	}
}
