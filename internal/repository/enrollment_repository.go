package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// EnrollmentRepository reads enrolment windows and course access records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// FindUserEnrolment returns the oldest enrolment of a user in a course, or
// nil when the user is not enrolled. Users can hold several enrolments via
// different methods; the oldest one carries the window we care about.
func (r *EnrollmentRepository) FindUserEnrolment(ctx context.Context, userID, courseID int64) (*models.UserEnrolment, error) {
	const query = `SELECT ue.id, ue.userid, e.courseid, ue.timestart, ue.timeend, ue.timecreated
        FROM mdl_user_enrolments ue
        JOIN mdl_enrol e ON e.id = ue.enrolid
        WHERE ue.userid = $1 AND e.courseid = $2
        ORDER BY ue.timecreated ASC
        LIMIT 1`
	var enrolment models.UserEnrolment
	if err := r.db.GetContext(ctx, &enrolment, query, userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find enrolment for user %d in course %d: %w", userID, courseID, err)
	}
	return &enrolment, nil
}

// FindLastAccess returns the user's last access to a course, or nil when no
// access was ever recorded.
func (r *EnrollmentRepository) FindLastAccess(ctx context.Context, userID, courseID int64) (*models.LastAccess, error) {
	const query = `SELECT userid, courseid, timeaccess FROM mdl_user_lastaccess
        WHERE userid = $1 AND courseid = $2`
	var access models.LastAccess
	if err := r.db.GetContext(ctx, &access, query, userID, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find last access for user %d in course %d: %w", userID, courseID, err)
	}
	return &access, nil
}
