package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-insight-api/internal/analytics"
	"github.com/noah-isme/lms-insight-api/internal/models"
	appErrors "github.com/noah-isme/lms-insight-api/pkg/errors"
)

// Dataset build modes.
const (
	ModeTraining   = "training"
	ModePrediction = "prediction"
)

type assignmentLister interface {
	ListAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error)
	ResolveByAssignment(ctx context.Context, assignmentID int64) (*models.Activity, error)
}

type sampler interface {
	EnumerateSamples(ctx context.Context, activity models.Activity) ([]int64, map[int64]models.SampleBundle, error)
}

// BuildDatasetRequest scopes one dataset build.
type BuildDatasetRequest struct {
	CourseID int64  `form:"course_id" json:"course_id"`
	Mode     string `form:"mode" json:"mode" validate:"omitempty,oneof=training prediction"`
}

// Dataset is one built feature/label dataset plus the per-activity skip log.
type Dataset struct {
	BuildID     string                `json:"build_id"`
	Model       string                `json:"model"`
	Mode        string                `json:"mode"`
	GeneratedAt time.Time             `json:"generated_at"`
	Rows        []models.DatasetRow   `json:"rows"`
	Skipped     []models.ActivitySkip `json:"skipped"`
}

// DatasetService drives the full pipeline: enumerate candidate activities,
// gate them, enumerate and filter samples, label them and attach indicator
// values. One service instance is safe for concurrent builds because all
// per-pass state lives in the components it constructs per build.
type DatasetService struct {
	activities assignmentLister
	sampler    sampler
	registry   *analytics.Registry
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewDatasetService constructs DatasetService.
func NewDatasetService(activities assignmentLister, sampler sampler, registry *analytics.Registry, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *DatasetService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DatasetService{
		activities: activities,
		sampler:    sampler,
		registry:   registry,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// Build constructs the late-submission dataset for the requested scope. The
// boolean reports whether the result came from cache.
func (s *DatasetService) Build(ctx context.Context, req BuildDatasetRequest) (*Dataset, bool, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid dataset request")
	}
	if req.Mode == "" {
		req.Mode = ModeTraining
	}

	cacheKey := fmt.Sprintf("dataset:%s:%s:%d", analytics.ModelLateSubmission, req.Mode, req.CourseID)
	var cached Dataset
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err != nil {
		return nil, false, fmt.Errorf("get dataset cache: %w", err)
	} else if hit {
		return &cached, true, nil
	}

	target, ok := s.registry.Target(analytics.ModelLateSubmission)
	if !ok {
		return nil, false, appErrors.Clone(appErrors.ErrInternal, "late submission target not registered")
	}
	indicators := s.registry.Indicators(analytics.ModelLateSubmission)

	start := time.Now()
	dataset, err := s.build(ctx, req, target, indicators)
	if err != nil {
		return nil, false, err
	}
	s.metrics.ObserveDatasetBuild(string(analytics.ModelLateSubmission), req.Mode, time.Since(start))

	if err := s.cache.Set(ctx, cacheKey, dataset, 0); err != nil {
		s.logger.Warn("cache dataset", zap.Error(err))
	}
	return dataset, false, nil
}

func (s *DatasetService) build(ctx context.Context, req BuildDatasetRequest, target analytics.Target, indicators []analytics.Indicator) (*Dataset, error) {
	forTraining := req.Mode == ModeTraining

	assignments, err := s.activities.ListAssignments(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}

	dataset := &Dataset{
		BuildID:     uuid.NewString(),
		Model:       string(analytics.ModelLateSubmission),
		Mode:        req.Mode,
		GeneratedAt: time.Now().UTC(),
		Rows:        []models.DatasetRow{},
		Skipped:     []models.ActivitySkip{},
	}

	for _, assignment := range assignments {
		activity, err := s.activities.ResolveByAssignment(ctx, assignment.ID)
		if err != nil {
			return nil, err
		}

		if ok, reason := target.IsValidActivity(*activity, forTraining); !ok {
			dataset.Skipped = append(dataset.Skipped, models.ActivitySkip{ActivityID: assignment.ID, Reason: reason})
			continue
		}

		sampleIDs, bundles, err := s.sampler.EnumerateSamples(ctx, *activity)
		if err != nil {
			return nil, err
		}

		for _, sampleID := range sampleIDs {
			bundle := bundles[sampleID]
			if !bundle.Complete() {
				return nil, fmt.Errorf("sample %d has an incomplete bundle", sampleID)
			}

			valid, err := target.IsValidSample(ctx, bundle, forTraining)
			if err != nil {
				return nil, err
			}
			if !valid {
				continue
			}

			row := models.DatasetRow{
				SampleID:   sampleID,
				ActivityID: activity.Assignment.ID,
				CourseID:   activity.Course.ID,
				UserID:     bundle.User.ID,
			}

			if forTraining {
				label, err := target.CalculateLabel(ctx, bundle, *activity)
				if err != nil {
					return nil, err
				}
				if label == nil {
					// Not an error: the module is not visible to this user,
					// so the sample carries no trustworthy label.
					continue
				}
				row.Label = label
				s.metrics.CountLabeledSample(dataset.Model, *label)
			}

			for _, indicator := range indicators {
				value, err := indicator.Calculate(ctx, bundle)
				if err != nil {
					return nil, err
				}
				if value != nil {
					row.WeightClass = value
				}
			}

			dataset.Rows = append(dataset.Rows, row)
		}
	}

	s.logger.Info("dataset built",
		zap.String("build_id", dataset.BuildID),
		zap.String("mode", dataset.Mode),
		zap.Int("rows", len(dataset.Rows)),
		zap.Int("skipped_activities", len(dataset.Skipped)))

	return dataset, nil
}

// ActivityEligibility resolves one activity and reports whether it could
// contribute samples, with the rejection reason when it cannot.
func (s *DatasetService) ActivityEligibility(ctx context.Context, assignmentID int64, forTraining bool) (*models.Activity, bool, string, error) {
	activity, err := s.activities.ResolveByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, false, "", err
	}
	target, ok := s.registry.Target(analytics.ModelLateSubmission)
	if !ok {
		return nil, false, "", appErrors.Clone(appErrors.ErrInternal, "late submission target not registered")
	}
	accepted, reason := target.IsValidActivity(*activity, forTraining)
	return activity, accepted, reason, nil
}
