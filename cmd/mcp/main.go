package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	mcpadapter "github.com/deb-sahu/docu-query/internal/adapters/mcp"
	"github.com/deb-sahu/docu-query/internal/bootstrap"
	"github.com/deb-sahu/docu-query/internal/config"
)

const serviceName = "docu-query-mcp"

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

	server := mcpadapter.NewServer(app.IngestUC, app.ManageUC, app.ExtractUC, app.AnswerUC)
	if err := server.Serve(); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
