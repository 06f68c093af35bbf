package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"userdesk/internal/config"
	"userdesk/internal/controller"
	handlers "userdesk/internal/http/handler"
	"userdesk/internal/http/middleware"
	"userdesk/internal/logging"
	"userdesk/internal/otel"
	"userdesk/internal/usersapi"
	"userdesk/internal/view"
)

func main() {
	// Configuration is read once; .env is auto-loaded if present.
	cfg := config.Load()
	logger := logging.Stdout(cfg.Location())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := usersapi.NewClient(cfg.API.BaseURL,
		usersapi.WithTimeout(cfg.API.Timeout),
		usersapi.WithRegisterer(reg),
	)
	if err != nil {
		log.Fatalf("failed to create users api client: %v", err)
	}

	ctrl := controller.New(client, controller.Options{Logger: logger})
	defer ctrl.Close()

	engine, err := view.NewEngine()
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register http metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		Immutable:             true,
		DisableStartupMessage: true,
	})
	app.Use(otelfiber.Middleware())
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(logger))
	app.Use(promMiddleware.Handler())

	handlers.RegisterRoutes(app, ctrl, engine, reg)

	// The page renders "Loading..." until the first fetch lands.
	if cfg.FetchOnStart {
		go func() { _ = ctrl.Initialize(ctx) }()
	}

	go func() {
		<-ctx.Done()
		ctrl.Close()
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(sctx); err != nil {
			logger.Error("shutdown_failed", err, nil)
		}
	}()

	logger.Info("server_starting", map[string]any{"port": cfg.Port, "api_url": cfg.API.BaseURL})
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}

	sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracing(sctx); err != nil {
		logger.Error("tracing_shutdown_failed", err, nil)
	}
}
