package booking

import "errors"

// Error taxonomy of the order/payment lifecycle. Transports map these
// to status codes with errors.Is; the service never returns anything
// outside this set plus wrapped store errors.
var (
	ErrValidation        = errors.New("invalid input")
	ErrGateway           = errors.New("payment gateway error")
	ErrOrderNotFound     = errors.New("order not found")
	ErrSignatureMismatch = errors.New("payment signature mismatch")
	ErrAlreadyFinalized  = errors.New("order already finalized")
	ErrStore             = errors.New("order store unavailable")
	ErrInvalidStatus     = errors.New("invalid order status")
)
