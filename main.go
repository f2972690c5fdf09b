package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"event-inventory/internal/cache"
	"event-inventory/internal/config"
	"event-inventory/internal/database"
	"event-inventory/internal/discovery"
	"event-inventory/internal/inventory"
	"event-inventory/internal/logging"
	"event-inventory/internal/messaging"
	"event-inventory/internal/router"

	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "event-inventory: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, logCloser, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logCloser.Close()

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer database.Close(db)

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var statsCache inventory.Cache
	if cfg.Redis.Addr != "" {
		client, err := cache.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("init redis: %w", err)
		}
		defer client.Close()
		statsCache = cache.NewRedis(client, time.Duration(cfg.Redis.TTLSeconds)*time.Second)
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("stats cache enabled")
	}

	var publisher interface {
		inventory.Publisher
		Close() error
	} = messaging.Noop{}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		logger.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("event publishing enabled")
	}
	defer publisher.Close()

	svc := inventory.NewService(db, statsCache, publisher, logger)

	// setup router
	r := router.SetupRouter(cfg, db, svc, logger)

	var h http.Handler = r
	if len(cfg.Server.CORSOrigins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins:   cfg.Server.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID", "Content-Disposition"},
			AllowCredentials: true,
		}).Handler(r)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Consul.Addr != "" {
		deregister, err := registerService(cfg, logger)
		if err != nil {
			return err
		}
		defer deregister()
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	logger.Info().Msg("server exited gracefully")
	return nil
}

// registerService announces the API to consul and returns the matching
// deregistration.
func registerService(cfg *config.Config, logger zerolog.Logger) (func(), error) {
	client, err := discovery.NewConsulClient(cfg.Consul.Addr)
	if err != nil {
		return nil, err
	}

	host := cfg.Server.Address
	if host == "" || host == "0.0.0.0" {
		if host, err = os.Hostname(); err != nil {
			return nil, fmt.Errorf("resolve hostname: %w", err)
		}
	}

	id := discovery.ServiceID(cfg.Consul.ServiceName, host, cfg.Server.Port)
	if err := client.RegisterService(id, cfg.Consul.ServiceName, host, cfg.Server.Port); err != nil {
		return nil, err
	}
	logger.Info().Str("service_id", id).Msg("registered with consul")

	return func() {
		if err := client.DeregisterService(id); err != nil {
			logger.Warn().Err(err).Str("service_id", id).Msg("consul deregistration failed")
		}
	}, nil
}
