package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// SubmissionRepository reads assignment submission records.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// ListByAssignmentAndUsers returns submissions for one assignment owned by
// any of the given users.
func (r *SubmissionRepository) ListByAssignmentAndUsers(ctx context.Context, assignmentID int64, userIDs []int64) ([]models.Submission, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(userIDs))
	args := make([]interface{}, 0, len(userIDs)+1)
	args = append(args, assignmentID)
	for i, id := range userIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+2)
		args = append(args, id)
	}
	query := fmt.Sprintf(`SELECT id, assignment, userid, status, timecreated, timemodified
        FROM mdl_assign_submission
        WHERE assignment = $1 AND userid IN (%s)
        ORDER BY id ASC`, strings.Join(placeholders, ","))

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list submissions for assignment %d: %w", assignmentID, err)
	}
	return submissions, nil
}

// ListByIDs returns submissions matching the given ids in one batch.
func (r *SubmissionRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Submission, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const chunkSize = 500
	var submissions []models.Submission
	for start := 0; start < len(ids); start += chunkSize {
		end := start + chunkSize
		if end > len(ids) {
			end = len(ids)
		}
		chunk := ids[start:end]
		placeholders := make([]string, len(chunk))
		args := make([]interface{}, len(chunk))
		for i, id := range chunk {
			placeholders[i] = fmt.Sprintf("$%d", i+1)
			args[i] = id
		}
		query := fmt.Sprintf(`SELECT id, assignment, userid, status, timecreated, timemodified
        FROM mdl_assign_submission WHERE id IN (%s) ORDER BY id ASC`, strings.Join(placeholders, ","))

		var batch []models.Submission
		if err := r.db.SelectContext(ctx, &batch, query, args...); err != nil {
			return nil, fmt.Errorf("list submissions by id: %w", err)
		}
		submissions = append(submissions, batch...)
	}
	return submissions, nil
}
