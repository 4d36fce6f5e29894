package verifypayment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/services/bookingsvc"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
)

type stubService struct {
	gotUserID string
	gotInput  bookingsvc.VerifyPaymentInput
	bookingID int64
	err       error
}

func (s *stubService) VerifyPayment(_ context.Context, userID string, in bookingsvc.VerifyPaymentInput) (int64, error) {
	s.gotUserID = userID
	s.gotInput = in

	return s.bookingID, s.err
}

func doRequest(svc service, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/payment/verify-payment", strings.NewReader(body))
	req = req.WithContext(auth.WithUserID(req.Context(), "user-1"))
	rec := httptest.NewRecorder()

	VerifyPayment(rec, req, svc)

	return rec
}

func TestVerifyPaymentHandler(t *testing.T) {
	t.Run("returns the booking id on success", func(t *testing.T) {
		svc := &stubService{bookingID: 42}

		rec := doRequest(svc, `{
			"razorpay_order_id": "order_abc123",
			"razorpay_payment_id": "pay_def456",
			"razorpay_signature": "deadbeef"
		}`)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"bookingId": 42}`, rec.Body.String())
		assert.Equal(t, "user-1", svc.gotUserID)
		assert.Equal(t, bookingsvc.VerifyPaymentInput{
			GatewayOrderID:   "order_abc123",
			GatewayPaymentID: "pay_def456",
			Signature:        "deadbeef",
		}, svc.gotInput)
	})

	t.Run("missing signature field is a 400 before the service runs", func(t *testing.T) {
		svc := &stubService{}

		rec := doRequest(svc, `{
			"razorpay_order_id": "order_abc123",
			"razorpay_payment_id": "pay_def456"
		}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, svc.gotInput.GatewayOrderID)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		rec := doRequest(&stubService{}, `{`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service errors map to stable status codes", func(t *testing.T) {
		tests := []struct {
			err  error
			code int
		}{
			{booking.ErrOrderNotFound, http.StatusNotFound},
			{booking.ErrSignatureMismatch, http.StatusUnprocessableEntity},
			{booking.ErrAlreadyFinalized, http.StatusConflict},
			{booking.ErrStore, http.StatusServiceUnavailable},
		}

		for _, tt := range tests {
			rec := doRequest(&stubService{err: tt.err}, `{
				"razorpay_order_id": "order_abc123",
				"razorpay_payment_id": "pay_def456",
				"razorpay_signature": "deadbeef"
			}`)

			assert.Equal(t, tt.code, rec.Code, tt.err.Error())
		}
	})
}
