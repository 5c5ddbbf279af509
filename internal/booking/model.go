package booking

import (
	"time"

	"github.com/souravsatyam/gymapp/internal/gym"
)

// State tracks one booking attempt. There is no automatic retry: a Failed
// attempt stays Failed until the user re-initiates.
type State int

const (
	StateIdle State = iota
	StateOrderCreated
	StateSubmitted
	StateConfirmed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOrderCreated:
		return "order_created"
	case StateSubmitted:
		return "submitted"
	case StateConfirmed:
		return "confirmed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Selection is the user's slot choice. Building one is pure; no I/O
// happens until Submit.
type Selection struct {
	Gym              gym.Gym
	Slot             gym.Slot
	Date             string // MM/DD/YYYY, as delivered by the date picker
	DurationMinutes  int
	SubscriptionType string
	SubscriptionID   int64
}

// Amount is the total charge for the selection: slot price is per hour,
// duration is in minutes.
func (s Selection) Amount() float64 {
	return s.Slot.Price * float64(s.DurationMinutes) / 60
}

// Request is the outbound booking payload. The server is the authority
// for the persisted booking state.
type Request struct {
	SlotID           int64  `json:"slot_id"`
	GymID            int64  `json:"gym_id"`
	BookingDate      string `json:"booking_date"`
	SubscriptionType string `json:"subscription_type"`
	SubscriptionID   int64  `json:"subscription_id"`
	PaymentID        string `json:"payment_id"`
}

// PaymentOrder is the gateway order created before submission.
type PaymentOrder struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Receipt  string  `json:"receipt"`
}

// Booking is the server's confirmation payload.
type Booking struct {
	ID          int64  `json:"id"`
	SlotID      int64  `json:"slot_id"`
	GymID       int64  `json:"gym_id"`
	GymName     string `json:"gym_name"`
	BookingDate string `json:"booking_date"`
	Status      string `json:"status"`
	PaymentID   string `json:"payment_id"`
}

// CachedBooking is the row kept in the local store so "my bookings" works
// offline.
type CachedBooking struct {
	BookingID   int64     `db:"booking_id"`
	GymID       int64     `db:"gym_id"`
	GymName     string    `db:"gym_name"`
	SlotID      int64     `db:"slot_id"`
	BookingDate string    `db:"booking_date"`
	Amount      float64   `db:"amount"`
	CreatedAt   time.Time `db:"created_at"`
}
