package listbookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/models/currency"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
)

type stubService struct {
	gotModel booking.QueryBookingsModel
	orders   []booking.Order
	err      error
}

func (s *stubService) ListBookings(_ context.Context, model booking.QueryBookingsModel) ([]booking.Order, error) {
	s.gotModel = model

	return s.orders, s.err
}

func doRequest(svc service, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	ListBookings(rec, req, svc)

	return rec
}

func TestListBookingsHandler(t *testing.T) {
	t.Run("renders booking summaries for the caller", func(t *testing.T) {
		svc := &stubService{orders: []booking.Order{{
			ID:          7,
			UserID:      "user-1",
			AmountPaise: 550000,
			Currency:    currency.CurrencyINR,
			Receipt:     "rcpt_6A2B",
			Status:      booking.StatusPaid,
			FlightDetails: booking.FlightDetails{
				FlightNumber: "AI-302",
				Departure:    "DEL",
				Arrival:      "BOM",
			},
			PassengerDetails: booking.PassengerDetails{
				Name:  "Asha Rao",
				Email: "asha@example.com",
				Phone: "+919876543210",
			},
			CreatedAt: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC),
		}}}

		rec := doRequest(svc, "/api/payment/bookings")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "user-1", svc.gotModel.UserID)
		assert.JSONEq(t, `[{
			"id": 7,
			"bookingReference": "rcpt_6A2B",
			"status": "paid",
			"amount": 550000,
			"currency": "INR",
			"flightDetails": {
				"flightNumber": "AI-302",
				"departure": "DEL",
				"arrival": "BOM",
				"departureTime": "0001-01-01T00:00:00Z",
				"arrivalTime": "0001-01-01T00:00:00Z"
			},
			"passengerDetails": {
				"name": "Asha Rao",
				"email": "asha@example.com",
				"phone": "+919876543210"
			},
			"createdAt": "2026-08-01T10:00:00Z"
		}]`, rec.Body.String())
	})

	t.Run("empty history is an empty array, not null", func(t *testing.T) {
		rec := doRequest(&stubService{}, "/api/payment/bookings")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("passes pagination through to the service", func(t *testing.T) {
		svc := &stubService{}

		rec := doRequest(svc, "/api/payment/bookings?limit=5&offset=10")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 5, svc.gotModel.Limit)
		assert.Equal(t, 10, svc.gotModel.Offset)
	})

	t.Run("store failures surface as 503", func(t *testing.T) {
		rec := doRequest(&stubService{err: booking.ErrStore}, "/api/payment/bookings")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
