package booking

import (
	"time"

	"github.com/skyquest/booking/internal/service/models/currency"
)

// Status is the payment lifecycle state of an order. Transitions are
// one-way: created -> paid or created -> failed, nothing leaves a
// terminal state.
type Status string

const (
	StatusCreated Status = "created"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

func (s Status) String() string {
	return string(s)
}

// Terminal reports whether no further transition is allowed.
func (s Status) Terminal() bool {
	return s == StatusPaid || s == StatusFailed
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusPaid, StatusFailed:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// FlightDetails is informational flight data attached to an order. It is
// not validated against a live flight database.
type FlightDetails struct {
	FlightNumber  string    `json:"flightNumber"`
	Departure     string    `json:"departure"`
	Arrival       string    `json:"arrival"`
	DepartureTime time.Time `json:"departureTime"`
	ArrivalTime   time.Time `json:"arrivalTime"`
}

// PassengerDetails is the contact record for the travelling passenger.
type PassengerDetails struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// Order is the persistent booking record. Amount and currency are fixed
// at creation; GatewayPaymentID and GatewaySignature appear only once a
// verification attempt has been processed.
type Order struct {
	ID               int64             `json:"id"`
	UserID           string            `json:"userId"`
	GatewayOrderID   string            `json:"gatewayOrderId"`
	GatewayPaymentID string            `json:"gatewayPaymentId,omitempty"`
	GatewaySignature string            `json:"gatewaySignature,omitempty"`
	AmountPaise      int64             `json:"amount"`
	Currency         currency.Currency `json:"currency"`
	Receipt          string            `json:"receipt"`
	Status           Status            `json:"status"`
	FlightDetails    FlightDetails     `json:"flightDetails"`
	PassengerDetails PassengerDetails  `json:"passengerDetails"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// BookingReference is the human-readable reference shown to the user.
// The caller-supplied receipt doubles as the merchant reference.
func (o *Order) BookingReference() string {
	return o.Receipt
}
