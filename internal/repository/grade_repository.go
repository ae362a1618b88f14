package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// GradeRepository navigates the mirrored gradebook: items, categories and
// the per-category grade items needed to walk the aggregation tree.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// FindModuleGradeItem returns the grade item linked to a course module, or
// nil when the module is not in the gradebook.
func (r *GradeRepository) FindModuleGradeItem(ctx context.Context, moduleID, instanceID int64) (*models.GradeItem, error) {
	const query = `SELECT gi.id, gi.courseid, COALESCE(gi.categoryid, 0) AS categoryid, gi.itemtype, gi.itemmodule, gi.iteminstance, gi.gradetype, gi.aggregationcoef2
        FROM mdl_grade_items gi
        JOIN mdl_modules m ON m.name = gi.itemmodule
        WHERE gi.itemtype = 'mod' AND m.id = $1 AND gi.iteminstance = $2`
	var item models.GradeItem
	if err := r.db.GetContext(ctx, &item, query, moduleID, instanceID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find grade item for module %d instance %d: %w", moduleID, instanceID, err)
	}
	return &item, nil
}

// FindCategory returns one grade category node.
func (r *GradeRepository) FindCategory(ctx context.Context, id int64) (*models.GradeCategory, error) {
	const query = `SELECT id, courseid, COALESCE(parent, 0) AS parent, depth
        FROM mdl_grade_categories WHERE id = $1`
	var category models.GradeCategory
	if err := r.db.GetContext(ctx, &category, query, id); err != nil {
		return nil, fmt.Errorf("find grade category %d: %w", id, err)
	}
	return &category, nil
}

// FindCategoryGradeItem returns the grade item a category aggregates into.
func (r *GradeRepository) FindCategoryGradeItem(ctx context.Context, categoryID int64) (*models.GradeItem, error) {
	const query = `SELECT id, courseid, COALESCE(categoryid, 0) AS categoryid, itemtype, itemmodule, iteminstance, gradetype, aggregationcoef2
        FROM mdl_grade_items WHERE itemtype = 'category' AND iteminstance = $1`
	var item models.GradeItem
	if err := r.db.GetContext(ctx, &item, query, categoryID); err != nil {
		return nil, fmt.Errorf("find grade item for category %d: %w", categoryID, err)
	}
	return &item, nil
}
