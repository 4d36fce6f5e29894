package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	redisclient "github.com/redis/go-redis/v9"

	"github.com/skyquest/booking/internal/dal/postgres"
	"github.com/skyquest/booking/internal/dal/rabbitmq"
	"github.com/skyquest/booking/internal/dal/redis"
	orderrepo "github.com/skyquest/booking/internal/dal/repositories/order/postgres"
	outboxrepo "github.com/skyquest/booking/internal/dal/repositories/outbox/postgres"
	"github.com/skyquest/booking/internal/gateway/razorpay"
	"github.com/skyquest/booking/internal/otel"
	"github.com/skyquest/booking/internal/service/services/bookingsvc"
	httptransport "github.com/skyquest/booking/internal/transport/http"
	outboxworker "github.com/skyquest/booking/internal/worker/outbox"
)

// App represents the application.
type App struct {
	bookingSvc     *bookingsvc.BookingService
	transport      *httptransport.HTTPTransport
	outboxWorker   *outboxworker.Worker
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	redisClient    *redisclient.Client
	otelController *otel.OtelController
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()
	redisClient := redis.MustNewClient()

	orderRepository := orderrepo.NewPostgresOrderRepository(postgresClient.DB())
	outboxRepository := outboxrepo.NewOutboxRepository(postgresClient)

	bookingSvc := bookingsvc.MustNewBookingService(
		bookingsvc.WithOrderRepository(orderRepository),
		bookingsvc.WithOutboxRepository(outboxRepository),
		bookingsvc.WithGateway(razorpay.MustNewClient()),
		bookingsvc.WithRedisClient(redisClient),
	)

	transport := httptransport.NewHTTPTransport(bookingSvc)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(outboxRepository, rabbitClient)

	return &App{
		bookingSvc:     bookingSvc,
		transport:      transport,
		outboxWorker:   worker,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		redisClient:    redisClient,
		otelController: otelController,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancelWorker := context.WithCancel(context.Background())
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	cancelWorker()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.redisClient.Close(); err != nil {
		slog.Error("Redis connection close error", "error", err)
	} else {
		slog.Info("Redis connection closed gracefully")
	}

	if err := a.postgresClient.Close(); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Trace provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
