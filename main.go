// Command siteaudit starts the audit API server.
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

	"github.com/raysh454/siteaudit/internal/logging"
	"github.com/raysh454/siteaudit/internal/server"
)

func main() {
	var (
		listen = flag.String("listen", ":8080", "HTTP listen address")
		dbPath = flag.String("db", ":memory:", "SQLite path for scan history (:memory: keeps it in-process)")
		debug  = flag.Bool("debug", false, "Verbose logging")
	)
	flag.Parse()

	logger, err := logging.NewProduction("siteaudit", *debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "siteaudit: building logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	cfg := server.DefaultConfig()
	cfg.ListenAddr = *listen
	cfg.StorePath = *dbPath
	cfg.Logger = logger

	srv, err := server.NewServer(cfg)
	if err != nil {
		logger.Error("startup failed", logging.Field{Key: "error", Value: err.Error()})
		os.Exit(1)
	}
	defer srv.Close()

	httpSrv := srv.HTTPServer()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", logging.Field{Key: "addr", Value: *listen})
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", logging.Field{Key: "error", Value: err.Error()})
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", logging.Field{Key: "error", Value: err.Error()})
	}
	logger.Info("stopped")
}
