package postgresrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/models/currency"
)

var orderColumns = []string{
	"id",
	"user_id",
	"gateway_order_id",
	"gateway_payment_id",
	"gateway_signature",
	"amount_paise",
	"currency",
	"receipt",
	"status",
	"flight_number",
	"departure",
	"arrival",
	"departure_time",
	"arrival_time",
	"passenger_name",
	"passenger_email",
	"passenger_phone",
	"created_at",
	"updated_at",
}

// OrderDal represents the order data access layer model.
type OrderDal struct {
	ID               int64
	UserID           string
	GatewayOrderID   string
	GatewayPaymentID sql.NullString
	GatewaySignature sql.NullString
	AmountPaise      int64
	Currency         string
	Receipt          string
	Status           string
	FlightNumber     string
	Departure        string
	Arrival          string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	PassengerName    string
	PassengerEmail   string
	PassengerPhone   string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ToModel converts OrderDal to the service layer Order model.
func (o *OrderDal) ToModel() (*booking.Order, error) {
	cur, err := currency.ParseCurrency(o.Currency)
	if err != nil {
		return nil, err
	}

	status, err := booking.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	return &booking.Order{
		ID:               o.ID,
		UserID:           o.UserID,
		GatewayOrderID:   o.GatewayOrderID,
		GatewayPaymentID: o.GatewayPaymentID.String,
		GatewaySignature: o.GatewaySignature.String,
		AmountPaise:      o.AmountPaise,
		Currency:         cur,
		Receipt:          o.Receipt,
		Status:           status,
		FlightDetails: booking.FlightDetails{
			FlightNumber:  o.FlightNumber,
			Departure:     o.Departure,
			Arrival:       o.Arrival,
			DepartureTime: o.DepartureTime,
			ArrivalTime:   o.ArrivalTime,
		},
		PassengerDetails: booking.PassengerDetails{
			Name:  o.PassengerName,
			Email: o.PassengerEmail,
			Phone: o.PassengerPhone,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}, nil
}

func (o *OrderDal) scan(row sq.RowScanner) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.GatewayOrderID,
		&o.GatewayPaymentID,
		&o.GatewaySignature,
		&o.AmountPaise,
		&o.Currency,
		&o.Receipt,
		&o.Status,
		&o.FlightNumber,
		&o.Departure,
		&o.Arrival,
		&o.DepartureTime,
		&o.ArrivalTime,
		&o.PassengerName,
		&o.PassengerEmail,
		&o.PassengerPhone,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

// PostgresOrderRepository implements the order repository for PostgreSQL.
type PostgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates a new order repository.
func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		db: db,
	}
}

// Insert persists a new order and returns it with the id assigned by the
// store. The unique index on gateway_order_id guarantees exactly one
// order per gateway order.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o booking.Order) (booking.Order, error) {
	now := time.Now()

	query, args, err := sq.Insert("orders").
		Columns(
			"user_id",
			"gateway_order_id",
			"amount_paise",
			"currency",
			"receipt",
			"status",
			"flight_number",
			"departure",
			"arrival",
			"departure_time",
			"arrival_time",
			"passenger_name",
			"passenger_email",
			"passenger_phone",
			"created_at",
			"updated_at",
		).
		Values(
			o.UserID,
			o.GatewayOrderID,
			o.AmountPaise,
			o.Currency.String(),
			o.Receipt,
			booking.StatusCreated.String(),
			o.FlightDetails.FlightNumber,
			o.FlightDetails.Departure,
			o.FlightDetails.Arrival,
			o.FlightDetails.DepartureTime,
			o.FlightDetails.ArrivalTime,
			o.PassengerDetails.Name,
			o.PassengerDetails.Email,
			o.PassengerDetails.Phone,
			now,
			now,
		).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return booking.Order{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return booking.Order{}, fmt.Errorf("%w: failed to insert order: %v", booking.ErrStore, err)
	}

	o.Status = booking.StatusCreated

	return o, nil
}

// GetByGatewayOrderID looks an order up by its unique gateway order id.
func (r *PostgresOrderRepository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*booking.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"gateway_order_id": gatewayOrderID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal OrderDal
	if err := dal.scan(r.db.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, booking.ErrOrderNotFound
		}

		return nil, fmt.Errorf("%w: failed to get order: %v", booking.ErrStore, err)
	}

	return dal.ToModel()
}

// FinalizeIfCreated performs the check-status-then-set transition as a
// single conditional UPDATE, so at most one concurrent verification call
// observes status=created. The losing call gets ErrAlreadyFinalized.
func (r *PostgresOrderRepository) FinalizeIfCreated(
	ctx context.Context,
	gatewayOrderID string,
	status booking.Status,
	gatewayPaymentID string,
	gatewaySignature string,
) (*booking.Order, error) {
	if !status.Terminal() {
		return nil, booking.ErrInvalidStatus
	}

	query, args, err := sq.Update("orders").
		Set("status", status.String()).
		Set("gateway_payment_id", gatewayPaymentID).
		Set("gateway_signature", gatewaySignature).
		Set("updated_at", time.Now()).
		Where(sq.Eq{
			"gateway_order_id": gatewayOrderID,
			"status":           booking.StatusCreated.String(),
		}).
		Suffix("RETURNING " + strings.Join(orderColumns, ", ")).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	var dal OrderDal
	if err := dal.scan(r.db.QueryRowContext(ctx, query, args...)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the order never existed or it is already terminal.
			if _, getErr := r.GetByGatewayOrderID(ctx, gatewayOrderID); getErr != nil {
				return nil, getErr
			}

			return nil, booking.ErrAlreadyFinalized
		}

		return nil, fmt.Errorf("%w: failed to finalize order: %v", booking.ErrStore, err)
	}

	return dal.ToModel()
}

// ListByUser returns the user's orders, most recent first.
func (r *PostgresOrderRepository) ListByUser(ctx context.Context, filter *booking.QueryBookingsModel) ([]booking.Order, error) {
	builder := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"user_id": filter.UserID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar)

	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query orders: %v", booking.ErrStore, err)
	}
	defer rows.Close()

	var result []booking.Order
	for rows.Next() {
		var dal OrderDal
		if err := dal.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}

		model, err := dal.ToModel()
		if err != nil {
			return nil, fmt.Errorf("failed to convert order dal to model: %w", err)
		}
		result = append(result, *model)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows iteration error: %v", booking.ErrStore, err)
	}

	return result, nil
}
