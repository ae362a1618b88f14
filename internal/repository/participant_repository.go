package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// ParticipantRepository lists the users able to submit to an assignment.
type ParticipantRepository struct {
	db *sqlx.DB
}

// NewParticipantRepository constructs the repository.
func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

// ListByAssignment returns the current participants of an assignment in
// non-group mode: every non-deleted user with an active enrolment in the
// assignment's course.
func (r *ParticipantRepository) ListByAssignment(ctx context.Context, assignmentID int64) ([]models.Participant, error) {
	const query = `SELECT DISTINCT u.id, u.username, u.firstname, u.lastname, u.email
        FROM mdl_user u
        JOIN mdl_user_enrolments ue ON ue.userid = u.id
        JOIN mdl_enrol e ON e.id = ue.enrolid
        JOIN mdl_assign a ON a.course = e.courseid
        WHERE a.id = $1 AND ue.status = 0 AND u.deleted = 0
        ORDER BY u.id ASC`
	var participants []models.Participant
	if err := r.db.SelectContext(ctx, &participants, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list participants for assignment %d: %w", assignmentID, err)
	}
	return participants, nil
}
