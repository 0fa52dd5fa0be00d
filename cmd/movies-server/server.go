package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"movies-api/internal/config"
	"movies-api/internal/logger"
	"movies-api/internal/middleware"
	"movies-api/internal/movies"
)

// shutdownTimeout — сколько ждём незавершённые запросы при остановке.
const shutdownTimeout = 5 * time.Second

// runServe здесь только:
// - создание зависимостей;
// - настройка middleware;
// - запуск HTTP-сервера и graceful shutdown по ctx.
func runServe(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.LogLevel); err != nil {
		return err
	}

	store := movies.NewMovieStore(cfg.SeedFile)
	svc, err := movies.NewService(ctx, store, movies.WithLegacyGenreFilter(cfg.LegacyGenreFilter))
	if err != nil {
		return err
	}
	logger.Log.WithFields(logrus.Fields{
		"seed_file": cfg.SeedFile,
		"movies":    svc.Len(),
	}).Info("seed loaded")

	gate := middleware.NewOriginGate(cfg.AllowedOrigins)
	handler := movies.NewHandler(svc, gate, cfg.RequestTimeout)

	reg := prometheus.NewRegistry()
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           chiWithMiddleware(handler.Router(), reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infof("listening on http://localhost%s", cfg.Addr())
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

	logger.Log.Warn("shutdown signal received, draining connections")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Log.Info("server exited properly")
	return nil
}

// chiWithMiddleware навешивает общесервисные middleware на уже собранный роутер
// и добавляет служебные эндпоинты (/healthz, /metrics).
func chiWithMiddleware(h http.Handler, reg *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.LoggingMiddleware)
	r.Use(middleware.NewMetrics(reg).Middleware)
	r.Use(chiMiddleware.Recoverer)

	r.Get("/healthz", healthCheck)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	r.Mount("/", h)
	return r
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
