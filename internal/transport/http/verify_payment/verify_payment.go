package verifypayment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/services/bookingsvc"
	"github.com/skyquest/booking/internal/transport/http/httperr"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
)

// service is an interface for the service layer.
type service interface {
	VerifyPayment(ctx context.Context, userID string, in bookingsvc.VerifyPaymentInput) (int64, error)
}

var validate = validator.New()

// verifyPaymentRequest uses the field names the gateway checkout SDK
// hands back to the browser.
type verifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
}

type verifyPaymentResponse struct {
	BookingID int64 `json:"bookingId"`
}

// VerifyPayment handles the verify-payment callback relay: signature
// check plus the created -> paid|failed transition.
func VerifyPayment(w http.ResponseWriter, r *http.Request, service service) {
	var req verifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.Write(w, fmt.Errorf("%w: malformed request body", booking.ErrValidation))
		slog.Error("Error decoding verify-payment request", "error", err)

		return
	}

	if err := validate.Struct(&req); err != nil {
		httperr.Write(w, fmt.Errorf("%w: %v", booking.ErrValidation, err))

		return
	}

	bookingID, err := service.VerifyPayment(r.Context(), auth.UserID(r.Context()), bookingsvc.VerifyPaymentInput{
		GatewayOrderID:   req.RazorpayOrderID,
		GatewayPaymentID: req.RazorpayPaymentID,
		Signature:        req.RazorpaySignature,
	})
	if err != nil {
		httperr.Write(w, err)
		slog.Error("Error verifying payment", "gateway_order_id", req.RazorpayOrderID, "error", err)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(verifyPaymentResponse{BookingID: bookingID}); err != nil {
		slog.Error("Error sending verify-payment response", "error", err)
	}
}
