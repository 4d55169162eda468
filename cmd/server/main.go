package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"taskserver/internal/config"
	"taskserver/internal/dispatcher"
	"taskserver/internal/httpserver"
	"taskserver/internal/mcpserver"
	"taskserver/internal/repository"
	"taskserver/internal/storage"
	"taskserver/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		// Logger is not up yet.
		os.Stderr.WriteString("config load failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.Log.Level)
	defer log.Sync()

	log.Info("Starting task server",
		zap.String("transport", cfg.MCP.Transport),
		zap.String("db_host", cfg.DB.Host),
		zap.Int("db_port", cfg.DB.Port),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DB
	gateway := storage.New(storage.Config{DSN: cfg.DB.DSN()}, log)
	if err := gateway.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer gateway.Close()
	log.Info("Database connection established")

	store := repository.NewStore(gateway, log)
	disp := dispatcher.New(store, log)
	mcpSrv := mcpserver.New(disp, log)

	// Probes and metrics always run; the MCP endpoint joins the mux
	// only on the http transport.
	var mcpHandler http.Handler
	if cfg.MCP.Transport == "http" {
		mcpHandler = mcpSrv.HTTPHandler()
	}
	mux := httpserver.NewRouter(gateway, log, cfg.MCP.Path, mcpHandler)
	httpSrv := httpserver.New(":"+cfg.Server.Port, mux, log)

	errCh := make(chan error, 2)
	runners := 1
	go func() { errCh <- httpSrv.Run(ctx) }()
	if cfg.MCP.Transport == "stdio" {
		runners++
		go func() { errCh <- mcpSrv.Run(ctx) }()
	}

	// The first exit, clean or not, stops the rest.
	for i := 0; i < runners; i++ {
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			log.Error("Server exited", zap.Error(err))
		}
		stop()
	}
	log.Info("Task server stopped")
}
