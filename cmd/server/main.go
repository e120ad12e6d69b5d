package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"tiffinOrderManagement/internal/config"
	"tiffinOrderManagement/internal/db"
	"tiffinOrderManagement/internal/httpserver"
	"tiffinOrderManagement/internal/payments"
	"tiffinOrderManagement/internal/pricing"
	"tiffinOrderManagement/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}

	cfg, err := config.LoadWithDefaults()
	if err != nil {
		log.WithError(err).Fatal("Failed to load config")
	}
	log.WithField("config", cfg.String()).Info("Configuration loaded")

	table, slabs, err := cfg.LoadPricing()
	if err != nil {
		log.WithError(err).Fatal("Failed to load pricing config")
	}
	engine, err := pricing.NewEngine(table, slabs)
	if err != nil {
		log.WithError(err).Fatal("Invalid pricing config")
	}

	d, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.WithError(err).Fatal("Failed to open db")
	}
	defer func() {
		if err := d.Close(); err != nil {
			log.WithError(err).Warn("Failed to close db")
		}
	}()

	orders := repository.NewOrderRepository(d)
	paySvc := payments.NewService(orders, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret)
	links := payments.NewRazorpayClient(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	handler := httpserver.NewHandler(cfg, engine, orders, paySvc, links)
	srv := &http.Server{Addr: cfg.Server.Address, Handler: httpserver.Router(handler)}

	go func() {
		log.WithField("address", cfg.Server.Address).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Shutdown error")
	}
}
