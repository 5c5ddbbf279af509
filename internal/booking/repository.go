package booking

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// Repository mirrors confirmed bookings into the local sqlite store so the
// bookings list still renders without a network.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) SaveConfirmed(ctx context.Context, b *Booking, amount float64) error {
	query := `
		INSERT INTO cached_bookings (booking_id, gym_id, gym_name, slot_id, booking_date, amount)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(booking_id) DO UPDATE SET
			gym_name = excluded.gym_name,
			booking_date = excluded.booking_date,
			amount = excluded.amount
	`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.GymID, b.GymName, b.SlotID, b.BookingDate, amount)
	return err
}

func (r *Repository) ListCached(ctx context.Context) ([]CachedBooking, error) {
	query := `
		SELECT booking_id, gym_id, gym_name, slot_id, booking_date, amount, created_at
		FROM cached_bookings
		ORDER BY booking_date DESC
	`

	var bookings []CachedBooking
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *Repository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cached_bookings`)
	return err
}
