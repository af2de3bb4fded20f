package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/flvvius/ecommerce-jewelry/internal/config"
	"github.com/flvvius/ecommerce-jewelry/internal/db"
	"github.com/flvvius/ecommerce-jewelry/internal/httpserver"
	"github.com/flvvius/ecommerce-jewelry/internal/payment"
	addressrepo "github.com/flvvius/ecommerce-jewelry/internal/repository/address"
	cartrepo "github.com/flvvius/ecommerce-jewelry/internal/repository/cart"
	orderrepo "github.com/flvvius/ecommerce-jewelry/internal/repository/order"
	productrepo "github.com/flvvius/ecommerce-jewelry/internal/repository/product"
	addresssvc "github.com/flvvius/ecommerce-jewelry/internal/service/address"
	cartsvc "github.com/flvvius/ecommerce-jewelry/internal/service/cart"
	checkoutsvc "github.com/flvvius/ecommerce-jewelry/internal/service/checkout"
	paymentsvc "github.com/flvvius/ecommerce-jewelry/internal/service/payment"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "storefront").Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load config")
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString, cfg.DBMaxConns, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to db")
	}
	defer dbpool.Close()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool, logger)
	addressRepo := addressrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)

	provider := payment.NewClient(cfg.PaymentAPIURL, cfg.PaymentAPIKey, cfg.PaymentTimeout, logger)

	cartService := cartsvc.New(cartRepo, productRepo)
	addressService := addresssvc.New(addressRepo)
	checkoutService := checkoutsvc.New(productRepo, orderRepo, addressRepo, provider, cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL, logger)
	reconciler := paymentsvc.NewReconciler(orderRepo, cartRepo, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		CartSvc:                 cartService,
		AddressSvc:              addressService,
		CheckoutSvc:             checkoutService,
		Reconciler:              reconciler,
		Orders:                  orderRepo,
		Catalog:                 productRepo,
		WebhookSecret:           cfg.PaymentWebhookSecret,
		AllowUnverifiedWebhooks: cfg.AllowUnverifiedWebhooks,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("init server")
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("starting http server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
	case err := <-serverErr:
		logger.Error().Err(err).Msg("server error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Dur("timeout", cfg.ShutdownTimeout).Msg("graceful shutdown failed")
	} else {
		logger.Info().Msg("server stopped")
	}
}
