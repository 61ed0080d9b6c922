package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/roombook-api/internal/models"
)

func newEventRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func eventRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "resource_id", "group_id", "title", "start_at", "end_at",
		"status", "all_day", "extended_props", "notes", "created_at", "updated_at",
	})
}

func TestEventRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)

	rows := eventRows().AddRow(
		"ev-1", "room-1", nil, "Standup",
		from.Add(9*time.Hour), from.Add(10*time.Hour),
		"booked", false, []byte(`{"isAllDay":false}`), nil, time.Now(), time.Now(),
	)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, resource_id, group_id, title, start_at, end_at, status, all_day, extended_props, notes, created_at, updated_at FROM events WHERE start_at < $1 AND end_at > $2 ORDER BY start_at ASC")).
		WithArgs(to, from).
		WillReturnRows(rows)

	events, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
	require.NotNil(t, events[0].ResourceID)
	assert.Equal(t, "room-1", *events[0].ResourceID)
	assert.Equal(t, models.EventStatusBooked, events[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectQuery("SELECT id, resource_id, .+ FROM events WHERE 1=1 AND resource_id = \\$1 ORDER BY start_at ASC").
		WithArgs("room-1").
		WillReturnRows(eventRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM events WHERE 1=1 AND resource_id = $1")).
		WithArgs("room-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	events, total, err := repo.List(context.Background(), models.EventFilter{ResourceID: "room-1"})
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO events")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "Standup",
			sqlmock.AnyArg(), sqlmock.AnyArg(), "booked", false,
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.Event{
		Title:  "Standup",
		Start:  time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
		End:    time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Status: models.EventStatusBooked,
	}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
	assert.False(t, event.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryUpdateNoRows(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE events SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Event{ID: "missing"})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newEventRepoMock(t)
	defer cleanup()
	repo := NewEventRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM events WHERE id = $1")).
		WithArgs("ev-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "ev-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
