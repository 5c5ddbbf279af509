package booking

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/souravsatyam/gymapp/internal/logger"
	"github.com/souravsatyam/gymapp/internal/metrics"
)

// API is the slice of Client the submitter needs; tests substitute a mock.
type API interface {
	InitiateOrder(ctx context.Context, amount float64, receipt string) (*PaymentOrder, error)
	Create(ctx context.Context, req Request) (*Booking, error)
	SendBuddyInvite(ctx context.Context, toUserID, bookingID int64) error
}

// CheckoutFunc takes a created order through the payment gateway and
// returns the payment id to submit the booking with. When none is set the
// order id doubles as the payment id.
type CheckoutFunc func(ctx context.Context, order *PaymentOrder) (string, error)

// Submitter runs one booking attempt through its states, from Idle through
// OrderCreated and Submitted to Confirmed or Failed. Repeat submissions are
// deliberately not deduplicated client-side; the server owns booking
// identity.
type Submitter struct {
	mu       sync.Mutex
	client   API
	repo     *Repository
	checkout CheckoutFunc
	state    State
}

// NewSubmitter builds a submitter. repo may be nil when no local cache is
// wanted; caching is best-effort either way.
func NewSubmitter(client API, repo *Repository) *Submitter {
	return &Submitter{
		client: client,
		repo:   repo,
		state:  StateIdle,
	}
}

// SetCheckout installs the payment gateway step.
func (s *Submitter) SetCheckout(fn CheckoutFunc) {
	s.mu.Lock()
	s.checkout = fn
	s.mu.Unlock()
}

func (s *Submitter) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Submitter) setState(state State) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Submit normalizes the chosen date, creates a payment order for the
// computed amount, and submits the booking. The error return is the only
// failure channel; a nil Booking with nil error never happens.
func (s *Submitter) Submit(ctx context.Context, sel Selection) (*Booking, error) {
	s.setState(StateIdle)

	bookingDate, err := NormalizeBookingDate(sel.Date)
	if err != nil {
		s.setState(StateFailed)
		metrics.RecordBooking("bad_date")
		return nil, err
	}

	order, err := s.client.InitiateOrder(ctx, sel.Amount(), uuid.NewString())
	if err != nil {
		s.setState(StateFailed)
		metrics.RecordBooking("order_failed")
		return nil, err
	}
	s.setState(StateOrderCreated)
	logger.Infof("Payment order %s created for gym %d slot %d", order.ID, sel.Gym.ID, sel.Slot.ID)

	paymentID := order.ID
	s.mu.Lock()
	checkout := s.checkout
	s.mu.Unlock()
	if checkout != nil {
		paymentID, err = checkout(ctx, order)
		if err != nil {
			s.setState(StateFailed)
			metrics.RecordBooking("checkout_failed")
			return nil, err
		}
	}

	req := Request{
		SlotID:           sel.Slot.ID,
		GymID:            sel.Gym.ID,
		BookingDate:      bookingDate,
		SubscriptionType: sel.SubscriptionType,
		SubscriptionID:   sel.SubscriptionID,
		PaymentID:        paymentID,
	}

	s.setState(StateSubmitted)
	confirmed, err := s.client.Create(ctx, req)
	if err != nil {
		s.setState(StateFailed)
		metrics.RecordBooking("failed")
		return nil, err
	}

	s.setState(StateConfirmed)
	metrics.RecordBooking("confirmed")

	if confirmed.GymName == "" {
		confirmed.GymName = sel.Gym.Name
	}

	if s.repo != nil {
		if err := s.repo.SaveConfirmed(ctx, confirmed, sel.Amount()); err != nil {
			logger.Errorf("Failed to cache booking %d: %v", confirmed.ID, err)
		}
	}

	return confirmed, nil
}

// InviteBuddy is fire-and-forget: a failed invite is logged and counted
// but never blocks the confirmation flow.
func (s *Submitter) InviteBuddy(ctx context.Context, bookingID, toUserID int64) {
	if err := s.client.SendBuddyInvite(ctx, toUserID, bookingID); err != nil {
		logger.Errorf("Buddy invite to user %d for booking %d failed: %v", toUserID, bookingID, err)
		metrics.RecordBuddyInvite("failed")
		return
	}
	metrics.RecordBuddyInvite("sent")
}
