package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// ActivityRepository resolves assignments together with their course,
// course-module and context records from the mirrored LMS schema.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// FindAssignment returns a single assignment record.
func (r *ActivityRepository) FindAssignment(ctx context.Context, id int64) (*models.Assignment, error) {
	const query = `SELECT id, course, name, allowsubmissionsfromdate, duedate, cutoffdate, teamsubmission
        FROM mdl_assign WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, fmt.Errorf("find assignment %d: %w", id, err)
	}
	return &assignment, nil
}

// ListAssignments returns assignments, optionally scoped to one course.
func (r *ActivityRepository) ListAssignments(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	query := `SELECT id, course, name, allowsubmissionsfromdate, duedate, cutoffdate, teamsubmission
        FROM mdl_assign`
	var args []interface{}
	if courseID != 0 {
		query += " WHERE course = $1"
		args = append(args, courseID)
	}
	query += " ORDER BY id ASC"

	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, args...); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// ResolveByAssignment materialises the full activity for an assignment:
// assignment, course, course-module and module context.
func (r *ActivityRepository) ResolveByAssignment(ctx context.Context, assignmentID int64) (*models.Activity, error) {
	assignment, err := r.FindAssignment(ctx, assignmentID)
	if err != nil {
		return nil, err
	}

	const courseQuery = `SELECT id, shortname, fullname, startdate, enddate FROM mdl_course WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, courseQuery, assignment.CourseID); err != nil {
		return nil, fmt.Errorf("find course %d: %w", assignment.CourseID, err)
	}

	const moduleQuery = `SELECT cm.id, cm.course, cm.module, cm.instance, cm.visible
        FROM mdl_course_modules cm
        JOIN mdl_modules m ON m.id = cm.module
        WHERE m.name = 'assign' AND cm.instance = $1`
	var module models.CourseModule
	if err := r.db.GetContext(ctx, &module, moduleQuery, assignmentID); err != nil {
		return nil, fmt.Errorf("find course module for assignment %d: %w", assignmentID, err)
	}

	const contextQuery = `SELECT id, contextlevel, instanceid FROM mdl_context
        WHERE contextlevel = $1 AND instanceid = $2`
	var moduleContext models.ModuleContext
	if err := r.db.GetContext(ctx, &moduleContext, contextQuery, models.ContextLevelModule, module.ID); err != nil {
		return nil, fmt.Errorf("find context for course module %d: %w", module.ID, err)
	}

	return &models.Activity{
		Assignment: *assignment,
		Course:     course,
		Module:     module,
		Context:    moduleContext,
	}, nil
}

// ModuleVisibleToUser resolves per-user visibility of a course module. The
// sync job writes per-user rows into cm_user_visibility whenever group or
// availability restrictions override the module-level flag.
func (r *ActivityRepository) ModuleVisibleToUser(ctx context.Context, cmID, userID int64) (bool, error) {
	const overrideQuery = `SELECT visible FROM cm_user_visibility WHERE cmid = $1 AND userid = $2`
	var visible bool
	err := r.db.GetContext(ctx, &visible, overrideQuery, cmID, userID)
	if err == nil {
		return visible, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("check user visibility for course module %d: %w", cmID, err)
	}

	const baseQuery = `SELECT visible FROM mdl_course_modules WHERE id = $1`
	if err := r.db.GetContext(ctx, &visible, baseQuery, cmID); err != nil {
		return false, fmt.Errorf("check visibility for course module %d: %w", cmID, err)
	}
	return visible, nil
}
