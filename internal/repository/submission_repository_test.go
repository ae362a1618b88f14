package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newSubmissionRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func submissionColumns() []string {
	return []string{"id", "assignment", "userid", "status", "timecreated", "timemodified"}
}

func TestSubmissionRepositoryListByAssignmentAndUsers(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	rows := sqlmock.NewRows(submissionColumns()).
		AddRow(int64(70), int64(10), int64(7), "submitted", int64(1_599_000_000), int64(1_599_500_000)).
		AddRow(int64(80), int64(10), int64(8), "new", int64(1_599_100_000), int64(1_599_100_000))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE assignment = $1 AND userid IN ($2,$3)")).
		WithArgs(int64(10), int64(7), int64(8)).
		WillReturnRows(rows)

	submissions, err := repo.ListByAssignmentAndUsers(context.Background(), 10, []int64{7, 8})
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	require.Equal(t, int64(70), submissions[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryListByAssignmentAndUsersEmpty(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	submissions, err := repo.ListByAssignmentAndUsers(context.Background(), 10, nil)
	require.NoError(t, err)
	require.Empty(t, submissions)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmissionRepositoryListByIDs(t *testing.T) {
	db, mock, cleanup := newSubmissionRepoMock(t)
	defer cleanup()
	repo := NewSubmissionRepository(db)

	rows := sqlmock.NewRows(submissionColumns()).
		AddRow(int64(70), int64(10), int64(7), "submitted", int64(1_599_000_000), int64(1_599_500_000))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id IN ($1)")).
		WithArgs(int64(70)).
		WillReturnRows(rows)

	submissions, err := repo.ListByIDs(context.Background(), []int64{70})
	require.NoError(t, err)
	require.Len(t, submissions, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
