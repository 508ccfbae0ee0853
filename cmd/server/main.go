package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/pberthonneau/trello-copilot/internal/analytics"
	"github.com/pberthonneau/trello-copilot/internal/config"
	"github.com/pberthonneau/trello-copilot/internal/handlers"
	"github.com/pberthonneau/trello-copilot/internal/logger"
	"github.com/pberthonneau/trello-copilot/internal/middleware"
	"github.com/pberthonneau/trello-copilot/internal/services/ai"
	"github.com/pberthonneau/trello-copilot/internal/telemetry"
	"github.com/pberthonneau/trello-copilot/internal/trello"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.uber.org/zap"
)

const serviceName = "trello-copilot"

func main() {
	// Parse command-line flags
	debugFlag := flag.Bool("debug", false, "Enable debug mode for LLM API logging")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Override debug mode if flag is set
	debugMode := cfg.ServerDebugMode || *debugFlag

	// Initialize logger
	zapLogger, err := logger.NewProductionLogger(debugMode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() {
		if syncErr := zapLogger.Sync(); syncErr != nil {
			// Ignore sync errors in production
			_ = syncErr
		}
	}()

	zapLogger.Info("starting_server",
		zap.Bool("debug_mode", debugMode),
		zap.String("server_port", cfg.ServerPort),
		zap.String("frontend_url", cfg.FrontendURL),
		zap.String("ai_model", cfg.AIModel),
		zap.Bool("otel_enabled", cfg.OTELEnabled),
	)

	// Initialize OpenTelemetry if enabled
	var tracerProvider interface{ Shutdown(context.Context) error }
	if cfg.OTELEnabled {
		if cfg.OTELEndpoint == "" {
			zapLogger.Warn("otel_enabled_but_endpoint_not_configured")
		} else {
			tp, err := telemetry.InitTracer(context.Background(), serviceName, cfg.OTELEndpoint)
			if err != nil {
				zapLogger.Warn("failed_to_initialize_otel_tracer", zap.Error(err))
			} else {
				tracerProvider = tp
				zapLogger.Info("otel_tracer_initialized",
					zap.String("endpoint", cfg.OTELEndpoint),
				)
				defer func() {
					shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer shutdownCancel()
					if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
						zapLogger.Error("failed_to_shutdown_otel_tracer", zap.Error(err))
					}
				}()
			}
		}
	}

	// Trello client
	clientOpts := []trello.ClientOption{
		trello.WithLogger(zapLogger),
	}
	if cfg.TrelloBaseURL != "" {
		clientOpts = append(clientOpts, trello.WithBaseURL(cfg.TrelloBaseURL))
	}
	if cfg.DefaultBoard != "" {
		clientOpts = append(clientOpts, trello.WithDefaultBoard(cfg.DefaultBoard))
	}
	client := trello.NewClient(cfg.TrelloAPIKey, cfg.TrelloAPIToken, clientOpts...)

	// Narrative provider (optional: summaries and description rewriting
	// are disabled without an OpenAI key)
	var generator ai.Provider
	if cfg.OpenAIKey != "" {
		generator = ai.NewOpenAIProviderWithLogger(cfg.OpenAIKey, cfg.AIBaseURL, cfg.AIModel, zapLogger, debugMode)
		zapLogger.Info("narrative_provider_configured", zap.String("model", cfg.AIModel))
	} else {
		zapLogger.Warn("narrative_provider_not_configured")
	}

	// Operations service and analytics engine
	serviceOpts := []trello.ServiceOption{trello.WithServiceLogger(zapLogger)}
	engineOpts := []analytics.Option{analytics.WithLogger(zapLogger)}
	if generator != nil {
		serviceOpts = append(serviceOpts, trello.WithTextGenerator(generator))
		engineOpts = append(engineOpts, analytics.WithGenerator(generator))
	}
	ops := trello.NewService(client, serviceOpts...)
	engine := analytics.NewEngine(client, engineOpts...)

	// Rate limiting (in-process, per client IP)
	rateLimitMW, err := middleware.RateLimit(cfg.RateLimit)
	if err != nil {
		zapLogger.Fatal("failed_to_configure_rate_limit", zap.Error(err))
	}

	// Handlers
	boardHandler := handlers.NewBoardHandler(engine, ops)
	cardHandler := handlers.NewCardHandler(ops)
	listHandler := handlers.NewListHandler(engine, ops)
	healthChecker := handlers.NewHealthChecker(client)

	// Router and middleware chain
	r := mux.NewRouter()
	if cfg.OTELEnabled && tracerProvider != nil {
		r.Use(otelmux.Middleware(serviceName))
	}
	r.Use(middleware.SecurityHeaders(cfg.EnableHSTS))
	r.Use(middleware.CORSFromEnv(cfg.FrontendURL))
	r.Use(middleware.RequestID)
	r.Use(middleware.MaxRequestSize(middleware.DefaultMaxRequestSize))
	r.Use(middleware.ContentType)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.ErrorHandler(zapLogger))
	r.Use(middleware.Logging(zapLogger))

	r.HandleFunc("/healthz", healthChecker.HealthCheck).Methods("GET")
	r.HandleFunc("/version", versionInfo).Methods("GET")

	openAPIHandler := handlers.NewOpenAPIHandler(handlers.DefaultOpenAPIPath)
	openAPIHandler.RegisterRoutes(r)

	apiRouter := r.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(rateLimitMW)

	boardsRouter := apiRouter.PathPrefix("/boards").Subrouter()
	boardHandler.RegisterRoutes(boardsRouter)

	cardsRouter := apiRouter.PathPrefix("/cards").Subrouter()
	cardHandler.RegisterRoutes(cardsRouter)

	listsRouter := apiRouter.PathPrefix("/lists").Subrouter()
	listHandler.RegisterRoutes(listsRouter)

	// Catch-all OPTIONS handler for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Setup server
	srv := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   75 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 20, // 1MB max header size
	}

	// Start server in a goroutine
	go func() {
		zapLogger.Info("server_starting",
			zap.String("port", cfg.ServerPort),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server_failed_to_start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("server_shutting_down")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server_forced_to_shutdown", zap.Error(err))
	}

	zapLogger.Info("server_exited")
}

func versionInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	// Only expose minimal version info (sanitized for security)
	if _, err := fmt.Fprintf(w, `{"version":"1.0.0","timestamp":"%s"}`, time.Now().UTC().Format(time.RFC3339)); err != nil {
		_ = err
	}
}
