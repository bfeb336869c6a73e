package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"pandochost/internal/builtin"
	"pandochost/internal/config"
	"pandochost/internal/domain/services"
	"pandochost/internal/formats"
	"pandochost/internal/handler"
	"pandochost/internal/middleware"
	"pandochost/internal/pandoc"
	"pandochost/internal/service/conversion"
	"pandochost/internal/workspace"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	logger, closeLog, err := config.NewLogger(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"addr", cfg.Addr(),
		"backend", cfg.ConverterBackend,
	)

	h, ws, err := buildApp(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer ws.Close()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      h,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}

// buildApp wires the routed handler. The workspace is created last so that a
// failed startup check never leaves a temp directory behind.
func buildApp(cfg *config.Config, logger *slog.Logger) (http.Handler, *workspace.Workspace, error) {
	registry, err := formats.NewRegistry()
	if err != nil {
		return nil, nil, fmt.Errorf("initialize format registry: %w", err)
	}
	if cfg.FormatsFile != "" {
		if err := registry.LoadFile(cfg.FormatsFile); err != nil {
			return nil, nil, fmt.Errorf("load formats file: %w", err)
		}
		logger.Info("format overrides loaded", "path", cfg.FormatsFile)
	}

	converter, err := selectConverter(cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("set up converter: %w", err)
	}
	logger.Info("converter selected", "name", converter.Name())

	ws, err := workspace.New(cfg.TempDirPrefix, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("create temp directory: %w", err)
	}

	conversionService := conversion.NewConversionService(
		converter,
		registry,
		ws,
		conversion.Options{PDFEngine: cfg.PDFEngine, PDFMargin: cfg.PDFMargin},
		logger,
	)

	conversionHandler := handler.NewConversionHandler(conversionService, logger)
	formatsHandler := handler.NewFormatsHandler(registry, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handler.HealthCheck)
	mux.HandleFunc("POST /convert", conversionHandler.Convert)
	mux.HandleFunc("GET /formats", formatsHandler.ListFormats)

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → RequestLogger → Recovery → Routes
	var h http.Handler = mux
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestLogger(logger)(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSOriginList(),
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
	})
	return corsHandler.Handler(h), ws, nil
}

// selectConverter picks the conversion backend. In auto mode pandoc is
// preferred and the builtin converter is the fallback.
func selectConverter(cfg *config.Config, logger *slog.Logger) (services.Converter, error) {
	builtinConverter := builtin.NewConverter(builtin.Options{SanitizeHTML: cfg.SanitizeHTML})

	switch cfg.ConverterBackend {
	case config.BackendBuiltin:
		return builtinConverter, nil
	case config.BackendPandoc:
		pc := pandoc.NewConverter(cfg.PandocPath, logger)
		if !pc.Available() {
			// Requests will fail with a conversion error until pandoc is installed
			logger.Warn("pandoc not found on PATH", "path", cfg.PandocPath)
		}
		return pc, nil
	case config.BackendAuto, "":
		pc := pandoc.NewConverter(cfg.PandocPath, logger)
		if pc.Available() {
			return pc, nil
		}
		logger.Warn("pandoc not found, falling back to builtin converter", "path", cfg.PandocPath)
		return builtinConverter, nil
	default:
		return nil, errors.New("unknown CONVERTER_BACKEND: " + cfg.ConverterBackend)
	}
}
