package listbookings

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/schema"

	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/transport/http/httperr"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	ListBookings(ctx context.Context, model booking.QueryBookingsModel) ([]booking.Order, error)
}

type listBookingsRequest struct {
	Limit  int `schema:"limit,omitempty"`
	Offset int `schema:"offset,omitempty"`
}

// bookingSummary is the booking-history row the profile page renders.
type bookingSummary struct {
	ID               int64                    `json:"id"`
	BookingReference string                   `json:"bookingReference"`
	Status           string                   `json:"status"`
	Amount           int64                    `json:"amount"`
	Currency         string                   `json:"currency"`
	FlightDetails    booking.FlightDetails    `json:"flightDetails"`
	PassengerDetails booking.PassengerDetails `json:"passengerDetails"`
	CreatedAt        time.Time                `json:"createdAt"`
}

// ListBookings returns the authenticated user's bookings, most recent
// first.
func ListBookings(w http.ResponseWriter, r *http.Request, service service) {
	decoder := schema.NewDecoder()
	query := &listBookingsRequest{}
	if err := decoder.Decode(query, r.URL.Query()); err != nil {
		httperr.Write(w, fmt.Errorf("%w: %v", booking.ErrValidation, err))
		slog.Error("Error decoding list-bookings request", "error", err)

		return
	}

	orders, err := service.ListBookings(r.Context(), booking.QueryBookingsModel{
		UserID: auth.UserID(r.Context()),
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error listing bookings", "error", err)

		return
	}

	summaries := make([]bookingSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, bookingSummary{
			ID:               o.ID,
			BookingReference: o.BookingReference(),
			Status:           o.Status.String(),
			Amount:           o.AmountPaise,
			Currency:         o.Currency.String(),
			FlightDetails:    o.FlightDetails,
			PassengerDetails: o.PassengerDetails,
			CreatedAt:        o.CreatedAt,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(summaries); err != nil {
		slog.Error("Error sending list-bookings response", "error", err)
	}
}
