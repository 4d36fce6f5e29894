package iorderrepo

import (
	"context"

	"github.com/skyquest/booking/internal/service/models/booking"
)

// IOrderRepository is an interface for the order postgres repository.
type IOrderRepository interface {
	// Insert persists a new order in created status and returns it with
	// its assigned id.
	Insert(ctx context.Context, order booking.Order) (booking.Order, error)

	// GetByGatewayOrderID looks an order up by its unique gateway order id.
	// Returns booking.ErrOrderNotFound when no such order exists.
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*booking.Order, error)

	// FinalizeIfCreated atomically transitions the order to the given
	// terminal status, attaching payment id and signature, but only while
	// the stored status is still created. Returns the finalized order, or
	// booking.ErrAlreadyFinalized if another call won the transition, or
	// booking.ErrOrderNotFound if the gateway order id is unknown.
	FinalizeIfCreated(
		ctx context.Context,
		gatewayOrderID string,
		status booking.Status,
		gatewayPaymentID string,
		gatewaySignature string,
	) (*booking.Order, error)

	// ListByUser returns the user's orders, most recent first.
	ListByUser(ctx context.Context, filter *booking.QueryBookingsModel) ([]booking.Order, error)
}
