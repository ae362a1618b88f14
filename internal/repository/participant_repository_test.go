package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newParticipantRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestParticipantRepositoryListByAssignment(t *testing.T) {
	db, mock, cleanup := newParticipantRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	rows := sqlmock.NewRows([]string{"id", "username", "firstname", "lastname", "email"}).
		AddRow(int64(7), "student7", "Ana", "Lima", "ana@example.org").
		AddRow(int64(8), "student8", "Bruno", "Costa", "bruno@example.org")
	mock.ExpectQuery(regexp.QuoteMeta("ue.status = 0 AND u.deleted = 0")).
		WithArgs(int64(10)).
		WillReturnRows(rows)

	participants, err := repo.ListByAssignment(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, participants, 2)
	require.Equal(t, "student7", participants[0].Username)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestParticipantRepositoryListByAssignmentNone(t *testing.T) {
	db, mock, cleanup := newParticipantRepoMock(t)
	defer cleanup()
	repo := NewParticipantRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("ue.status = 0 AND u.deleted = 0")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "firstname", "lastname", "email"}))

	participants, err := repo.ListByAssignment(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, participants)
	require.NoError(t, mock.ExpectationsWereMet())
}
