package booking

// QueryBookingsModel represents filter parameters for querying a user's
// bookings. UserID is always set from the authenticated session, never
// from client input.
type QueryBookingsModel struct {
	UserID string `json:"userId"`
	Limit  int    `json:"limit,omitempty"`
	Offset int    `json:"offset,omitempty"`
}
