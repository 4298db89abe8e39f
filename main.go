package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cheikhabdou2024/Dakar-cut/config"
	"github.com/cheikhabdou2024/Dakar-cut/controllers"
	"github.com/cheikhabdou2024/Dakar-cut/events"
	"github.com/cheikhabdou2024/Dakar-cut/metrics"
	"github.com/cheikhabdou2024/Dakar-cut/routes"
	"github.com/cheikhabdou2024/Dakar-cut/seed"
	"github.com/cheikhabdou2024/Dakar-cut/services"
	"github.com/cheikhabdou2024/Dakar-cut/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type storage interface {
	store.AppointmentStore
	store.CatalogStore
	store.ReminderLogStore
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	hours, err := cfg.OperatingHours()
	if err != nil {
		return err
	}
	loc := cfg.Location()
	checks := map[string]controllers.Check{}

	st, err := openStore(ctx, cfg, logger, checks)
	if err != nil {
		return err
	}

	bookingMetrics := metrics.NewBookingMetrics(prometheus.DefaultRegisterer)

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		logger.Info("publishing booking events to kafka", zap.Strings("brokers", brokers), zap.String("topic", cfg.KafkaTopic))
	}
	defer publisher.Close()

	bookings := services.NewBookingService(st, st, hours, logger).
		WithPublisher(publisher).
		WithMetrics(bookingMetrics).
		WithClock(loc, nil)

	redisClient, err := config.NewRedisClient(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		bookings.WithLocker(services.NewRedisLocker(redisClient, cfg.LockTTL, cfg.LockWait))
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		logger.Info("using redis booking locks", zap.String("addr", cfg.RedisAddr))
	}

	reviews := services.NewReviewService(st, st, cfg.GuestAuthor, logger).
		WithPublisher(publisher).
		WithMetrics(bookingMetrics)

	var sender services.MessageSender = services.NewLogSender(logger)
	if cfg.TwilioEnabled() {
		sender = services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber, cfg.TwilioWhatsAppNumber)
	}
	reminders := services.NewReminderService(st, st, sender, loc, logger).WithMetrics(bookingMetrics)

	scheduler, err := services.NewScheduler(services.SchedulerConfig{
		ReminderSpec:   cfg.ReminderCron,
		CompletionSpec: cfg.CompletionSweepCron,
		Location:       loc,
	}, bookings, reminders, logger)
	if err != nil {
		return err
	}
	scheduler.Start()

	limiter := routes.NewRateLimiter(cfg.BookingRatePerSec, cfg.BookingRateBurst)
	go limiter.Cleanup(ctx)

	r := routes.SetupRouter(routes.Dependencies{
		Config:      cfg,
		Logger:      logger,
		Bookings:    bookings,
		Reviews:     reviews,
		Directory:   services.NewDirectory(st),
		Dashboard:   services.NewDashboardService(st),
		Checks:      checks,
		Gatherer:    prometheus.DefaultGatherer,
		RateLimiter: limiter,
	})
	if !cfg.IsProduction() {
		printRoutes(r)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr), zap.String("store", cfg.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	logger.Info("shutting down")
	scheduler.Stop(shutdownCtx)
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.Config, logger *zap.Logger, checks map[string]controllers.Check) (storage, error) {
	if cfg.StoreDriver != config.StorePostgres {
		return store.NewMemoryStore(seed.Catalog()), nil
	}

	db, err := config.ConnectDB(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	st := store.NewGormStore(db)
	if err := st.Migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if cfg.SeedCatalog {
		if err := st.SeedCatalog(ctx, seed.Catalog()); err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
	}
	checks["database"] = st.Ping
	return st, nil
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
