package bookingsvc

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/skyquest/booking/internal/gateway/razorpay"
	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/models/outbox"
)

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Insert(ctx context.Context, order booking.Order) (booking.Order, error) {
	args := m.Called(ctx, order)

	return args.Get(0).(booking.Order), args.Error(1)
}

func (m *mockOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*booking.Order, error) {
	args := m.Called(ctx, gatewayOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*booking.Order), args.Error(1)
}

func (m *mockOrderRepository) FinalizeIfCreated(
	ctx context.Context,
	gatewayOrderID string,
	status booking.Status,
	gatewayPaymentID string,
	gatewaySignature string,
) (*booking.Order, error) {
	args := m.Called(ctx, gatewayOrderID, status, gatewayPaymentID, gatewaySignature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*booking.Order), args.Error(1)
}

func (m *mockOrderRepository) ListByUser(ctx context.Context, filter *booking.QueryBookingsModel) ([]booking.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]booking.Order), args.Error(1)
}

type mockOutboxRepository struct {
	mock.Mock
}

func (m *mockOutboxRepository) Insert(ctx context.Context, msg outbox.Message) error {
	args := m.Called(ctx, msg)

	return args.Error(0)
}

func (m *mockOutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]outbox.Message), args.Error(1)
}

func (m *mockOutboxRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)

	return args.Error(0)
}

func (m *mockOutboxRepository) UpdateRetry(
	ctx context.Context,
	id int64,
	retryCount int,
	lastError string,
	nextRetryAt time.Time,
) error {
	args := m.Called(ctx, id, retryCount, lastError, nextRetryAt)

	return args.Error(0)
}

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.GatewayOrder, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*razorpay.GatewayOrder), args.Error(1)
}

func (m *mockGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	args := m.Called(gatewayOrderID, gatewayPaymentID, signature)

	return args.Bool(0)
}
