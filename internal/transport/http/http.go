package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"

	"github.com/skyquest/booking/internal/gateway/razorpay"
	"github.com/skyquest/booking/internal/service/models/booking"
	"github.com/skyquest/booking/internal/service/services/bookingsvc"
	createorder "github.com/skyquest/booking/internal/transport/http/create_order"
	listbookings "github.com/skyquest/booking/internal/transport/http/list_bookings"
	"github.com/skyquest/booking/internal/transport/http/middleware/auth"
	verifypayment "github.com/skyquest/booking/internal/transport/http/verify_payment"
	"github.com/skyquest/booking/pkg/http/middleware/trace"
	"github.com/skyquest/booking/pkg/logger"
)

type service interface {
	CreateOrder(ctx context.Context, in bookingsvc.CreateOrderInput) (*razorpay.GatewayOrder, error)
	VerifyPayment(ctx context.Context, userID string, in bookingsvc.VerifyPaymentInput) (int64, error)
	ListBookings(ctx context.Context, model booking.QueryBookingsModel) ([]booking.Order, error)
}

type HTTPTransport struct {
	server  *http.Server
	router  *chi.Mux
	service service
}

func NewHTTPTransport(service service) *HTTPTransport {
	router := newRouter()
	server := newServer(router)
	return &HTTPTransport{
		server:  server,
		router:  router,
		service: service,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport. Every
// payment route requires a Bearer token; the user id always comes from
// the token, never from the payload.
func (h *HTTPTransport) RegisterRoutes() {
	authMiddleware := auth.NewAuthMiddleware([]byte(os.Getenv("JWT_SECRET")))

	h.router.Route("/api/payment", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/create-order", h.createOrder)
		r.Post("/verify-payment", h.verifyPayment)
		r.Get("/bookings", h.listBookings)
	})
}

func (h *HTTPTransport) createOrder(w http.ResponseWriter, r *http.Request) {
	createorder.CreateOrder(w, r, h.service)
}

func (h *HTTPTransport) verifyPayment(w http.ResponseWriter, r *http.Request) {
	verifypayment.VerifyPayment(w, r, h.service)
}

func (h *HTTPTransport) listBookings(w http.ResponseWriter, r *http.Request) {
	listbookings.ListBookings(w, r, h.service)
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))
	router.Use(trace.NewTraceMiddleware)

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
