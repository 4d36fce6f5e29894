package createorder

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skyquest/booking/internal/gateway/razorpay"
	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/models/currency"
	"github.com/skyquest/booking/internal/service/services/bookingsvc"
	"github.com/skyquest/booking/internal/transport/http/httperr"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	CreateOrder(ctx context.Context, in bookingsvc.CreateOrderInput) (*razorpay.GatewayOrder, error)
}

var validate = validator.New()

type flightDetailsRequest struct {
	FlightNumber  string    `json:"flightNumber" validate:"required"`
	Departure     string    `json:"departure" validate:"required"`
	Arrival       string    `json:"arrival" validate:"required"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}

type passengerDetailsRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

type createOrderRequest struct {
	Amount           int64                   `json:"amount" validate:"required,gt=0"`
	Currency         string                  `json:"currency" validate:"required"`
	Receipt          string                  `json:"receipt" validate:"required"`
	FlightDetails    flightDetailsRequest    `json:"flightDetails" validate:"required"`
	PassengerDetails passengerDetailsRequest `json:"passengerDetails" validate:"required"`
}

// createOrderResponse mirrors the gateway order descriptor the browser
// checkout SDK consumes.
type createOrderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CreateOrder handles the create-order request: validate, open a gateway
// order, persist the booking in created status.
func CreateOrder(w http.ResponseWriter, r *http.Request, service service) {
	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, fmt.Errorf("%w: malformed request body", booking.ErrValidation))
		slog.Error("Error decoding create-order request", "error", err)

		return
	}

	if err := validate.Struct(&req); err != nil {
		httperr.Write(w, fmt.Errorf("%w: %v", booking.ErrValidation, err))

		return
	}

	cur, err := currency.ParseCurrency(req.Currency)
	if err != nil {
		httperr.Write(w, fmt.Errorf("%w: unsupported currency %q", booking.ErrValidation, req.Currency))

		return
	}

	gatewayOrder, err := service.CreateOrder(r.Context(), bookingsvc.CreateOrderInput{
		UserID:      auth.UserID(r.Context()),
		AmountPaise: req.Amount,
		Currency:    cur,
		Receipt:     req.Receipt,
		FlightDetails: booking.FlightDetails{
			FlightNumber:  req.FlightDetails.FlightNumber,
			Departure:     req.FlightDetails.Departure,
			Arrival:       req.FlightDetails.Arrival,
			DepartureTime: req.FlightDetails.DepartureTime,
			ArrivalTime:   req.FlightDetails.ArrivalTime,
		},
		PassengerDetails: booking.PassengerDetails{
			Name:  req.PassengerDetails.Name,
			Email: req.PassengerDetails.Email,
			Phone: req.PassengerDetails.Phone,
		},
	})
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error creating order", "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(createOrderResponse{
		ID:       gatewayOrder.ID,
		Amount:   gatewayOrder.AmountPaise,
		Currency: gatewayOrder.Currency.String(),
	}); err != nil {
		slog.Error("Error sending create-order response", "error", err)
	}
}
