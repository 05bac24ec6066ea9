package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jamesboogie/storefront-api/internal/checkout"
	"github.com/jamesboogie/storefront-api/internal/config"
	"github.com/jamesboogie/storefront-api/internal/jne"
	"github.com/jamesboogie/storefront-api/internal/komerce"
	"github.com/jamesboogie/storefront-api/internal/locations"
	"github.com/jamesboogie/storefront-api/internal/transport"
	"github.com/jamesboogie/storefront-api/internal/woocommerce"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Logger = log.With().Str("service", "storefront-api").Logger()

	log.Info().Msg("Storefront API starting...")

	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	store, err := locations.NewStore()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load location data")
	}

	wcClient := woocommerce.NewClient(
		cfg.WooCommerce.APIURL,
		cfg.WooCommerce.ConsumerKey,
		cfg.WooCommerce.ConsumerSecret,
		cfg.HTTPClientTimeout,
	)
	jneClient := jne.NewClient(cfg.JNE.Endpoint, cfg.JNE.Username, cfg.JNE.APIKey, cfg.HTTPClientTimeout)
	komerceClient := komerce.NewClient(cfg.Komerce.BaseURL, cfg.Komerce.APIKey, cfg.HTTPClientTimeout)
	proxy := woocommerce.NewCheckoutProxy(cfg.WooCommerce.WordPressURL, cfg.HTTPClientTimeout)

	checkoutSvc := checkout.NewService(wcClient, jneClient, wcClient, checkout.Options{
		OriginCode:     cfg.Shipping.OriginCode,
		CarrierID:      cfg.Shipping.CarrierID,
		FrontendURL:    cfg.App.FrontendURL,
		ShippingPolicy: checkout.PolicyDegradeToClientValue,
	})

	router := transport.NewRouter(checkoutSvc, jneClient, komerceClient, proxy, store)

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Shutdown failed")
	}
	log.Info().Msg("Server stopped")
}
