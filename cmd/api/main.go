package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/deb-sahu/docu-query/internal/adapters/http"
	"github.com/deb-sahu/docu-query/internal/bootstrap"
	"github.com/deb-sahu/docu-query/internal/config"
	"github.com/deb-sahu/docu-query/internal/observability/metrics"
)

const serviceName = "docu-query-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		serviceName,
		app.IngestUC,
		app.ManageUC,
		app.ExtractUC,
		app.AnswerUC,
		metrics.NewHTTPServerMetrics(serviceName),
		httpadapter.Options{
			RateLimitRPS:          cfg.RateLimitRPS,
			RateLimitBurst:        cfg.RateLimitBurst,
			MaxConcurrentRequests: cfg.MaxConcurrentRequests,
		},
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		app.Logger.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		app.Logger.Error("api shutdown", "error", err)
	}
}
