package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-insight-api/internal/models"
)

func newGradeRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func gradeItemColumns() []string {
	return []string{"id", "courseid", "categoryid", "itemtype", "itemmodule", "iteminstance", "gradetype", "aggregationcoef2"}
}

func TestGradeRepositoryFindModuleGradeItem(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows(gradeItemColumns()).
		AddRow(int64(1), int64(3), int64(2), models.GradeItemTypeMod, "assign", int64(10), int(models.GradeTypeValue), 0.3)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_items gi")).
		WithArgs(int64(2), int64(10)).
		WillReturnRows(rows)

	item, err := repo.FindModuleGradeItem(context.Background(), 2, 10)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Equal(t, int64(2), item.CategoryID)
	require.Equal(t, models.GradeTypeValue, item.GradeType)
	require.Equal(t, 0.3, item.AggregationCoef2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindModuleGradeItemNotGraded(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_items gi")).
		WithArgs(int64(2), int64(10)).
		WillReturnError(sql.ErrNoRows)

	item, err := repo.FindModuleGradeItem(context.Background(), 2, 10)
	require.NoError(t, err)
	require.Nil(t, item)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindCategory(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows([]string{"id", "courseid", "parent", "depth"}).
		AddRow(int64(2), int64(3), int64(1), 2)
	mock.ExpectQuery(regexp.QuoteMeta("FROM mdl_grade_categories")).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	category, err := repo.FindCategory(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), category.ParentID)
	require.False(t, category.IsCourseRoot())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindCategoryGradeItem(t *testing.T) {
	db, mock, cleanup := newGradeRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	rows := sqlmock.NewRows(gradeItemColumns()).
		AddRow(int64(5), int64(3), int64(1), models.GradeItemTypeCategory, "", int64(2), int(models.GradeTypeValue), 0.5)
	mock.ExpectQuery(regexp.QuoteMeta("itemtype = 'category'")).
		WithArgs(int64(2)).
		WillReturnRows(rows)

	item, err := repo.FindCategoryGradeItem(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, 0.5, item.AggregationCoef2)
	require.NoError(t, mock.ExpectationsWereMet())
}
