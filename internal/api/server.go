package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/justinas/alice"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

const (
	shutdownTimeout = 10 * time.Second
	corsMaxAge      = 300 // seconds
)

// Config holds the listener settings of the API server.
type Config struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewHandler builds the HTTP handler serving the school endpoints, health checks and metrics.
func NewHandler(
	log *slog.Logger,
	schools SchoolService,
	health HealthChecker,
	gatherer prometheus.Gatherer,
) http.Handler {
	router := httprouter.New()

	hdl := &handlers{log: log, schools: schools, health: health}

	router.POST("/addSchool", hdl.addSchool)
	router.GET("/listSchools", hdl.listSchools)
	router.GET("/schools", hdl.allSchools)
	router.GET("/healthz", hdl.healthz)
	router.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, http.StatusNotFound, ErrorDetail{Code: ErrCodeNotFound, Message: "resource not found"})
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, log, http.StatusMethodNotAllowed, ErrorDetail{
			Code:    ErrCodeMethodNotAllowed,
			Message: "method not allowed",
		})
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, rcv any) {
		log.ErrorContext(r.Context(), "Recovered from panic", "panic", rcv, "path", r.URL.Path)
		w.Header().Set("Connection", "close")
		writeError(w, r, log, http.StatusInternalServerError, ErrorDetail{
			Code:    ErrCodeInternal,
			Message: "internal server error",
		})
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         corsMaxAge,
	})

	return alice.New(corsHandler.Handler, RequestID, Logging(log)).Then(router)
}

// Run serves handler until ctx is cancelled, then shuts the server down gracefully.
func Run(ctx context.Context, log *slog.Logger, cfg Config, handler http.Handler) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "Starting API server", "port", cfg.Port)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	log.InfoContext(ctx, "Stopping API server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}

	return nil
}
