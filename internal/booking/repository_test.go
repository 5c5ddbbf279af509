package booking

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepository_SaveConfirmed(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`INSERT INTO cached_bookings`).
		WithArgs(int64(1001), int64(42), "Iron Temple", int64(7), "2024-09-15T00:00:00Z", 360.0).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SaveConfirmed(context.Background(), &Booking{
		ID:          1001,
		GymID:       42,
		GymName:     "Iron Temple",
		SlotID:      7,
		BookingDate: "2024-09-15T00:00:00Z",
	}, 360.0)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListCached(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT booking_id, gym_id, gym_name, slot_id, booking_date, amount, created_at FROM cached_bookings`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"booking_id", "gym_id", "gym_name", "slot_id", "booking_date", "amount", "created_at"}).
			AddRow(1002, 42, "Iron Temple", 8, "2024-09-16T00:00:00Z", 240.0, time.Now()).
			AddRow(1001, 42, "Iron Temple", 7, "2024-09-15T00:00:00Z", 360.0, time.Now()))

	bookings, err := repo.ListCached(context.Background())

	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, int64(1002), bookings[0].BookingID)
	assert.Equal(t, 360.0, bookings[1].Amount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Clear(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM cached_bookings`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	require.NoError(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
