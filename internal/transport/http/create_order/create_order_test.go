package createorder

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquest/booking/internal/gateway/razorpay"
	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/models/currency"
	"github.com/skyquest/booking/internal/service/services/bookingsvc"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
)

type stubService struct {
	gotInput bookingsvc.CreateOrderInput
	order    *razorpay.GatewayOrder
	err      error
}

func (s *stubService) CreateOrder(_ context.Context, in bookingsvc.CreateOrderInput) (*razorpay.GatewayOrder, error) {
	s.gotInput = in

	return s.order, s.err
}

const validBody = `{
	"amount": 550000,
	"currency": "INR",
	"receipt": "rcpt_6A2B",
	"flightDetails": {
		"flightNumber": "AI-302",
		"departure": "DEL",
		"arrival": "BOM"
	},
	"passengerDetails": {
		"name": "Asha Rao",
		"email": "asha@example.com",
		"phone": "+919876543210"
	}
}`

func doRequest(svc service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/create-order", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	CreateOrder(rec, req, svc)

	return rec
}

func TestCreateOrderHandler(t *testing.T) {
	t.Run("returns the gateway order descriptor on success", func(t *testing.T) {
		svc := &stubService{order: &razorpay.GatewayOrder{
			ID:          "order_abc123",
			AmountPaise: 550000,
			Currency:    currency.CurrencyINR,
		}}

		rec := doRequest(svc, validBody)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"id": "order_abc123", "amount": 550000, "currency": "INR"}`, rec.Body.String())
		assert.Equal(t, "user-1", svc.gotInput.UserID)
		assert.Equal(t, "AI-302", svc.gotInput.FlightDetails.FlightNumber)
	})

	t.Run("rejects a non-positive amount before the service runs", func(t *testing.T) {
		svc := &stubService{}

		rec := doRequest(svc, strings.Replace(validBody, "550000", "0", 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.gotInput.Receipt)
	})

	t.Run("rejects an unsupported currency", func(t *testing.T) {
		rec := doRequest(&stubService{}, strings.Replace(validBody, "INR", "BTC", 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		rec := doRequest(&stubService{}, strings.Replace(validBody, "asha@example.com", "not-an-email", 1))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("gateway failures surface as 502", func(t *testing.T) {
		rec := doRequest(&stubService{err: booking.ErrGateway}, validBody)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}
