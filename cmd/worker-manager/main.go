// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"contact-harvester/internal/common/camunda"
	"contact-harvester/internal/common/config"
	"contact-harvester/internal/common/database"
	"contact-harvester/internal/common/logger"
	"contact-harvester/internal/common/observability"

	hc "contact-harvester/internal/workers/harvest/harvest-contacts"
	lpc "contact-harvester/internal/workers/harvest/lookup-postal-code"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	log.Info("starting worker manager", map[string]interface{}{
		"app":         cfg.App.Name,
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: true,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	}, log)
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	log.Info("zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	redisClient := connectRedis(ctx, cfg, log)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var workers []worker.JobWorker

	harvestHandler, err := hc.NewHandler(hc.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create harvest-contacts handler", zap.Error(err))
	}
	workers = append(workers, camunda.StartWorker(zeebe.GetClient(), hc.TaskType,
		config.GetWorkerConfig(cfg, hc.TaskType), harvestHandler, log))

	postalOpts := lpc.HandlerOptions{AppConfig: cfg, Logger: log}
	if redisClient != nil {
		postalOpts.Redis = redisClient.Client
	}
	postalHandler, err := lpc.NewHandler(postalOpts)
	if err != nil {
		zapLog.Fatal("failed to create lookup-postal-code handler", zap.Error(err))
	}
	workers = append(workers, camunda.StartWorker(zeebe.GetClient(), lpc.TaskType,
		config.GetWorkerConfig(cfg, lpc.TaskType), postalHandler, log))

	server := &http.Server{
		Addr:              cfg.Metrics.Address,
		Handler:           newOpsMux(zeebe, redisClient),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": server.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	<-ctx.Done()
	log.Info("shutdown signal received, stopping workers", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	camunda.StopWorkers(workers, log)
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health/metrics server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	log.Info("worker manager stopped gracefully", nil)
}

// connectRedis returns nil when no address is configured or the server is
// unreachable; the postal-code worker then runs without a cache.
func connectRedis(ctx context.Context, cfg *config.Config, log logger.Logger) *database.RedisClient {
	if cfg.Redis.Address == "" {
		log.Info("redis not configured, postal code cache disabled", nil)
		return nil
	}
	client, err := database.NewRedis(cfg.Redis)
	if err != nil {
		log.Warn("redis client failed, postal code cache disabled", map[string]interface{}{"error": err.Error()})
		return nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx); err != nil {
		log.Warn("redis unreachable, postal code cache disabled", map[string]interface{}{"error": err.Error()})
		_ = client.Close()
		return nil
	}
	log.Info("redis connected", map[string]interface{}{"address": cfg.Redis.Address})
	return client
}

type healthChecker interface {
	HealthCheck(ctx context.Context) error
}

func newOpsMux(zeebe healthChecker, redisClient *database.RedisClient) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "healthy"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{"status": "ready", "zeebe": "ok"}
		code := http.StatusOK
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			checks["status"], checks["zeebe"] = "not_ready", err.Error()
			code = http.StatusServiceUnavailable
		}
		if redisClient != nil {
			checks["redis"] = "ok"
			// reported only; readiness does not depend on the cache
			if err := redisClient.Ping(r.Context()); err != nil {
				checks["redis"] = err.Error()
			}
		}
		writeStatus(w, code, checks)
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, body map[string]string) {
	body["time"] = time.Now().Format(time.RFC3339)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}
