package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Orel-y/U-Schedule/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestDraftScheduleRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO draft_schedules")).
		WithArgs(sqlmock.AnyArg(), "term-1", "batch-1", "sec-1", "user-1", "prog-1",
			string(models.DraftStatusDraft), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	draft := &models.DraftSchedule{
		TermID:             "term-1",
		BatchID:            "batch-1",
		SectionID:          "sec-1",
		CreatedBy:          "user-1",
		CreatedByProgramID: "prog-1",
	}
	require.NoError(t, repo.Create(context.Background(), draft))
	assert.NotEmpty(t, draft.ID)
	assert.Equal(t, models.DraftStatusDraft, draft.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftScheduleRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftScheduleRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "term_id", "batch_id", "section_id", "created_by", "created_by_program_id",
		"status", "courses", "assignments", "created_at", "updated_at",
	}).AddRow("draft-1", "term-1", "batch-1", "sec-1", "user-1", "prog-1",
		string(models.DraftStatusPendingExternal),
		types.JSONText(`[{"id":"co-1","course_code":"SE101"}]`),
		types.JSONText(`[{"id":"a-1","day":"Monday","start_time":"09:00"}]`),
		now, now)

	mock.ExpectQuery("SELECT .+ FROM draft_schedules WHERE id = .+").
		WithArgs("draft-1").
		WillReturnRows(rows)

	draft, err := repo.FindByID(context.Background(), "draft-1")
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPendingExternal, draft.Status)
	require.Len(t, draft.Courses, 1)
	assert.Equal(t, "SE101", draft.Courses[0].CourseCode)
	require.Len(t, draft.Assignments, 1)
	assert.Equal(t, "Monday", draft.Assignments[0].Day)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftScheduleRepositoryUpdateNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE draft_schedules")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.DraftSchedule{ID: "missing"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDraftScheduleRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDraftScheduleRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM draft_schedules WHERE id = $1")).
		WithArgs("draft-1").
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Delete(context.Background(), "draft-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
