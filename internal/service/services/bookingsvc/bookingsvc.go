package bookingsvc

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/skyquest/booking/internal/dal/interfaces/iorderrepo"
	"github.com/skyquest/booking/internal/dal/interfaces/ioutboxrepo"
	"github.com/skyquest/booking/internal/gateway/razorpay"
	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/models/currency"
	"github.com/skyquest/booking/internal/service/models/outbox"
)

// gateway is the slice of the payment gateway the booking service needs.
type gateway interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.GatewayOrder, error)
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
}

// BookingService implements the order/payment lifecycle: order creation
// against the gateway, local signature verification, and booking queries.
type BookingService struct {
	orderRepo   iorderrepo.IOrderRepository
	outboxRepo  ioutboxrepo.IOutboxRepository
	gateway     gateway
	redisClient *redis.Client
}

// option is a function that configures the BookingService.
type option func(*BookingService)

// MustNewBookingService creates a new BookingService.
func MustNewBookingService(opts ...option) *BookingService {
	s := &BookingService{}
	for _, opt := range opts {
		opt(s)
	}

	if s.orderRepo == nil || s.gateway == nil {
		panic("booking service requires an order repository and a gateway")
	}

	return s
}

// WithOrderRepository sets the order repository for the BookingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOrderRepository(repo iorderrepo.IOrderRepository) option {
	return func(s *BookingService) {
		s.orderRepo = repo
	}
}

// WithOutboxRepository sets the outbox repository for the BookingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithOutboxRepository(repo ioutboxrepo.IOutboxRepository) option {
	return func(s *BookingService) {
		s.outboxRepo = repo
	}
}

// WithGateway sets the payment gateway for the BookingService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithGateway(gw gateway) option {
	return func(s *BookingService) {
		s.gateway = gw
	}
}

// WithRedisClient sets the Redis client used for the bookings cache.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithRedisClient(client *redis.Client) option {
	return func(s *BookingService) {
		s.redisClient = client
	}
}

// CreateOrderInput carries a validated booking request. UserID comes from
// the authenticated session, never from the request body.
type CreateOrderInput struct {
	UserID           string
	AmountPaise      int64
	Currency         currency.Currency
	Receipt          string
	FlightDetails    booking.FlightDetails
	PassengerDetails booking.PassengerDetails
}

// VerifyPaymentInput is the gateway checkout callback payload relayed by
// the client after payment.
type VerifyPaymentInput struct {
	GatewayOrderID   string
	GatewayPaymentID string
	Signature        string
}

// bookingEvent is the payload published for booking.created and
// booking.paid events. EventID lets consumers deduplicate redeliveries.
type bookingEvent struct {
	EventID        string    `json:"eventId"`
	BookingID      int64     `json:"bookingId"`
	UserID         string    `json:"userId"`
	GatewayOrderID string    `json:"gatewayOrderId"`
	AmountPaise    int64     `json:"amount"`
	Currency       string    `json:"currency"`
	Receipt        string    `json:"receipt"`
	Status         string    `json:"status"`
	FlightNumber   string    `json:"flightNumber"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// CreateOrder opens an order on the payment gateway and persists the
// local Order in created status. The local record is written only after
// the gateway confirms, so a gateway failure leaves no orphaned order.
func (s *BookingService) CreateOrder(ctx context.Context, in CreateOrderInput) (*razorpay.GatewayOrder, error) {
	ctx, span := otel.Tracer("booking-svc").Start(ctx, "bookingsvc.CreateOrder")
	defer span.End()

	if err := in.validate(); err != nil {
		return nil, err
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		AmountPaise: in.AmountPaise,
		Currency:    in.Currency,
		Receipt:     in.Receipt,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", booking.ErrGateway, err)
	}
	span.SetAttributes(attribute.String("gateway.order_id", gatewayOrder.ID))

	order := booking.Order{
		UserID:           in.UserID,
		GatewayOrderID:   gatewayOrder.ID,
		AmountPaise:      in.AmountPaise,
		Currency:         in.Currency,
		Receipt:          in.Receipt,
		Status:           booking.StatusCreated,
		FlightDetails:    in.FlightDetails,
		PassengerDetails: in.PassengerDetails,
	}

	order, err = s.orderRepo.Insert(ctx, order)
	if err != nil {
		return nil, err
	}

	s.enqueueEvent(ctx, outbox.QueueBookingCreated, &order)
	s.invalidateBookingsCache(ctx, in.UserID)

	return gatewayOrder, nil
}

func (in *CreateOrderInput) validate() error {
	if in.UserID == "" {
		return fmt.Errorf("%w: missing user", booking.ErrValidation)
	}
	if in.AmountPaise <= 0 {
		return fmt.Errorf("%w: amount must be positive", booking.ErrValidation)
	}
	if in.Currency == "" {
		return fmt.Errorf("%w: missing currency", booking.ErrValidation)
	}
	if in.Receipt == "" {
		return fmt.Errorf("%w: missing receipt", booking.ErrValidation)
	}

	return nil
}

// VerifyPayment recomputes the gateway signature locally and finalizes
// the matching order: paid on a match, failed on a mismatch. The store
// transition is a single conditional update, so duplicate callbacks get
// booking.ErrAlreadyFinalized instead of double-processing. Returns the
// order id as the booking identifier on success.
func (s *BookingService) VerifyPayment(ctx context.Context, userID string, in VerifyPaymentInput) (int64, error) {
	ctx, span := otel.Tracer("booking-svc").Start(ctx, "bookingsvc.VerifyPayment")
	defer span.End()

	if userID == "" || in.GatewayOrderID == "" || in.GatewayPaymentID == "" || in.Signature == "" {
		return 0, fmt.Errorf("%w: missing verification fields", booking.ErrValidation)
	}
	span.SetAttributes(attribute.String("gateway.order_id", in.GatewayOrderID))

	order, err := s.orderRepo.GetByGatewayOrderID(ctx, in.GatewayOrderID)
	if err != nil {
		return 0, err
	}

	// A foreign order must be indistinguishable from a missing one.
	if order.UserID != userID {
		return 0, booking.ErrOrderNotFound
	}

	if order.Status.Terminal() {
		return 0, booking.ErrAlreadyFinalized
	}

	status := booking.StatusPaid
	if !s.gateway.VerifySignature(in.GatewayOrderID, in.GatewayPaymentID, in.Signature) {
		status = booking.StatusFailed
	}

	finalized, err := s.orderRepo.FinalizeIfCreated(ctx, in.GatewayOrderID, status, in.GatewayPaymentID, in.Signature)
	if err != nil {
		return 0, err
	}

	s.invalidateBookingsCache(ctx, userID)

	if status == booking.StatusFailed {
		return 0, booking.ErrSignatureMismatch
	}

	s.enqueueEvent(ctx, outbox.QueueBookingPaid, finalized)

	return finalized.ID, nil
}

// ListBookings returns the user's orders, most recent first. Unpaginated
// reads are served through a short-TTL cache that is invalidated on every
// create and finalize; the verification path never reads it.
func (s *BookingService) ListBookings(ctx context.Context, model booking.QueryBookingsModel) ([]booking.Order, error) {
	ctx, span := otel.Tracer("booking-svc").Start(ctx, "bookingsvc.ListBookings")
	defer span.End()

	if model.UserID == "" {
		return nil, fmt.Errorf("%w: missing user", booking.ErrValidation)
	}

	cacheable := s.redisClient != nil && model.Limit == 0 && model.Offset == 0

	if cacheable {
		if cached, err := s.redisClient.Get(ctx, bookingsCacheKey(model.UserID)).Result(); err == nil {
			var orders []booking.Order
			if err := json.Unmarshal([]byte(cached), &orders); err == nil {
				return orders, nil
			}
		}
	}

	orders, err := s.orderRepo.ListByUser(ctx, &model)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if data, err := json.Marshal(orders); err == nil {
			ttl := viper.GetInt("redis.bookings_ttl_seconds")
			if ttl == 0 {
				ttl = 60
			}
			s.redisClient.Set(ctx, bookingsCacheKey(model.UserID), data, time.Duration(ttl)*time.Second)
		}
	}

	return orders, nil
}

// enqueueEvent stores a booking event in the outbox for asynchronous
// delivery. Event loss is tolerated; the booking itself is already
// durable.
func (s *BookingService) enqueueEvent(ctx context.Context, queue string, order *booking.Order) {
	if s.outboxRepo == nil {
		return
	}

	msg, err := outbox.NewBookingEvent(queue, bookingEvent{
		EventID:        uuid.NewString(),
		BookingID:      order.ID,
		UserID:         order.UserID,
		GatewayOrderID: order.GatewayOrderID,
		AmountPaise:    order.AmountPaise,
		Currency:       order.Currency.String(),
		Receipt:        order.Receipt,
		Status:         order.Status.String(),
		FlightNumber:   order.FlightDetails.FlightNumber,
		OccurredAt:     time.Now(),
	})
	if err != nil {
		slog.Error("Failed to encode booking event", "queue", queue, "error", err)

		return
	}

	if err := s.outboxRepo.Insert(ctx, msg); err != nil {
		slog.Warn("Failed to enqueue booking event", "queue", queue, "booking_id", order.ID, "error", err)
	}
}

func (s *BookingService) invalidateBookingsCache(ctx context.Context, userID string) {
	if s.redisClient == nil {
		return
	}

	if err := s.redisClient.Del(ctx, bookingsCacheKey(userID)).Err(); err != nil {
		slog.Warn("Failed to invalidate bookings cache", "user_id", userID, "error", err)
	}
}

func bookingsCacheKey(userID string) string {
	return "bookings:" + userID
}
