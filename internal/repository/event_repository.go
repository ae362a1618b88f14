package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

// EventRepository reads the mirrored standard event log.
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository constructs the repository.
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List returns events matching the filter in ascending timecreated order.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.LogEvent, error) {
	query := `SELECT id, eventname, component, action, crud, contextlevel, contextinstanceid, userid, courseid, timecreated
        FROM mdl_logstore_standard_log
        WHERE userid = $1 AND contextlevel = $2 AND contextinstanceid = $3 AND crud = $4 AND eventname = $5
        ORDER BY timecreated ASC`
	args := []interface{}{filter.UserID, filter.ContextLevel, filter.ContextInstanceID, filter.CRUD, filter.EventName}
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var events []models.LogEvent
	if err := r.db.SelectContext(ctx, &events, query, args...); err != nil {
		return nil, fmt.Errorf("list log events: %w", err)
	}
	return events, nil
}

// Earliest returns the first matching event, or nil when none exists.
func (r *EventRepository) Earliest(ctx context.Context, filter models.EventFilter) (*models.LogEvent, error) {
	filter.Limit = 1
	events, err := r.List(ctx, filter)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if len(events) == 0 {
		return nil, nil
	}
	return &events[0], nil
}
