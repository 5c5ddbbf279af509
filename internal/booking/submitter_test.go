package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/souravsatyam/gymapp/internal/gym"
)

// MockAPI is a mock implementation of API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) InitiateOrder(ctx context.Context, amount float64, receipt string) (*PaymentOrder, error) {
	args := m.Called(ctx, amount, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PaymentOrder), args.Error(1)
}

func (m *MockAPI) Create(ctx context.Context, req Request) (*Booking, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockAPI) SendBuddyInvite(ctx context.Context, toUserID, bookingID int64) error {
	args := m.Called(ctx, toUserID, bookingID)
	return args.Error(0)
}

func testSelection() Selection {
	return Selection{
		Gym:             gym.Gym{ID: 42, Name: "Iron Temple"},
		Slot:            gym.Slot{ID: 7, Price: 240, Capacity: 20},
		Date:            "09/15/2024",
		DurationMinutes: 90,
	}
}

func TestSelection_Amount(t *testing.T) {
	// 240/hr for 90 minutes.
	assert.Equal(t, 360.0, testSelection().Amount())
}

func TestSubmit_HappyPath(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)

	mockAPI.On("InitiateOrder", mock.Anything, 360.0, mock.AnythingOfType("string")).
		Return(&PaymentOrder{ID: "order_1", Amount: 360}, nil)
	mockAPI.On("Create", mock.Anything, Request{
		SlotID:      7,
		GymID:       42,
		BookingDate: "2024-09-15T00:00:00Z",
		PaymentID:   "order_1",
	}).Return(&Booking{ID: 1001, SlotID: 7, GymID: 42, Status: "confirmed"}, nil)

	confirmed, err := s.Submit(context.Background(), testSelection())

	require.NoError(t, err)
	assert.Equal(t, int64(1001), confirmed.ID)
	assert.Equal(t, StateConfirmed, s.State())
	// Gym name backfilled from the selection for the cache/confirmation.
	assert.Equal(t, "Iron Temple", confirmed.GymName)
	mockAPI.AssertExpectations(t)
}

func TestSubmit_BadDateFailsBeforeAnyIO(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)

	sel := testSelection()
	sel.Date = "15/09/2024"

	confirmed, err := s.Submit(context.Background(), sel)

	assert.ErrorIs(t, err, ErrBadDate)
	assert.Nil(t, confirmed)
	assert.Equal(t, StateFailed, s.State())
	mockAPI.AssertNotCalled(t, "InitiateOrder")
	mockAPI.AssertNotCalled(t, "Create")
}

func TestSubmit_OrderFailureSkipsCreate(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)

	mockAPI.On("InitiateOrder", mock.Anything, 360.0, mock.AnythingOfType("string")).
		Return(nil, errors.New("gateway down"))

	confirmed, err := s.Submit(context.Background(), testSelection())

	require.Error(t, err)
	assert.Nil(t, confirmed)
	assert.Equal(t, StateFailed, s.State())
	mockAPI.AssertNotCalled(t, "Create")
}

func TestSubmit_CreateFailure(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)

	mockAPI.On("InitiateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&PaymentOrder{ID: "order_1"}, nil)
	mockAPI.On("Create", mock.Anything, mock.AnythingOfType("Request")).
		Return(nil, errors.New("slot full"))

	confirmed, err := s.Submit(context.Background(), testSelection())

	require.Error(t, err)
	assert.Nil(t, confirmed)
	assert.Equal(t, StateFailed, s.State())
}

func TestSubmit_RepeatSubmissionIsNotBlocked(t *testing.T) {
	// No client-side dedup: the server owns booking identity, and a second
	// identical submission creates a second booking.
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)

	mockAPI.On("InitiateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&PaymentOrder{ID: "order_1"}, nil).Twice()
	mockAPI.On("Create", mock.Anything, mock.AnythingOfType("Request")).
		Return(&Booking{ID: 1001}, nil).Once()
	mockAPI.On("Create", mock.Anything, mock.AnythingOfType("Request")).
		Return(&Booking{ID: 1002}, nil).Once()

	first, err := s.Submit(context.Background(), testSelection())
	require.NoError(t, err)
	second, err := s.Submit(context.Background(), testSelection())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	mockAPI.AssertNumberOfCalls(t, "Create", 2)
}

func TestSubmit_CheckoutSuppliesPaymentID(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)
	s.SetCheckout(func(ctx context.Context, order *PaymentOrder) (string, error) {
		assert.Equal(t, "order_1", order.ID)
		return "pay_9", nil
	})

	mockAPI.On("InitiateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&PaymentOrder{ID: "order_1"}, nil)
	mockAPI.On("Create", mock.Anything, mock.MatchedBy(func(req Request) bool {
		return req.PaymentID == "pay_9"
	})).Return(&Booking{ID: 1001}, nil)

	_, err := s.Submit(context.Background(), testSelection())

	require.NoError(t, err)
	mockAPI.AssertExpectations(t)
}

func TestSubmit_CheckoutFailure(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)
	s.SetCheckout(func(ctx context.Context, order *PaymentOrder) (string, error) {
		return "", errors.New("user abandoned checkout")
	})

	mockAPI.On("InitiateOrder", mock.Anything, mock.Anything, mock.Anything).
		Return(&PaymentOrder{ID: "order_1"}, nil)

	confirmed, err := s.Submit(context.Background(), testSelection())

	require.Error(t, err)
	assert.Nil(t, confirmed)
	assert.Equal(t, StateFailed, s.State())
	mockAPI.AssertNotCalled(t, "Create")
}

func TestInviteBuddy_FailureDoesNotPropagate(t *testing.T) {
	mockAPI := new(MockAPI)
	s := NewSubmitter(mockAPI, nil)

	mockAPI.On("SendBuddyInvite", mock.Anything, int64(5), int64(1001)).
		Return(errors.New("user not found"))

	// Fire-and-forget: the failure is logged, never returned.
	s.InviteBuddy(context.Background(), 1001, 5)

	mockAPI.AssertExpectations(t)
}
