package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/api"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/pkg/logging"
)

func main() {
	logging.Setup()
	cfg := config.Load()

	led := ledger.New(ledger.WithAutoCreate(cfg.AutoCreate))
	svc := service.New(led)
	handler := api.NewRouter(svc)

	// h2c allows HTTP/2 without TLS for in-cluster callers.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2cHandler,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	slog.Info("Ledger server starting",
		"address", cfg.Addr,
		"currency", cfg.Currency,
		"auto_create", cfg.AutoCreate,
	)
	if err := server.ListenAndServe(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
