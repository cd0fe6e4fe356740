package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/packfinderz-storefront/internal/cart"
	"github.com/angelmondragon/packfinderz-storefront/internal/gateway"
	"github.com/angelmondragon/packfinderz-storefront/internal/notify"
	"github.com/angelmondragon/packfinderz-storefront/internal/session"
	"github.com/angelmondragon/packfinderz-storefront/internal/ui"
	"github.com/angelmondragon/packfinderz-storefront/internal/wishlist"
	"github.com/angelmondragon/packfinderz-storefront/pkg/config"
	"github.com/angelmondragon/packfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/packfinderz-storefront/pkg/metrics"
)

func main() {
	os.Exit(run())
}

func run() int {
	profilePath := flag.String("profile", "", "path to the profile file (default ~/.config/storefront/profile.toml)")
	token := flag.String("token", "", "session token (overrides the profile)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		return 1
	}

	profile, err := config.LoadProfile(*profilePath)
	if err != nil {
		logg.Error(context.Background(), "failed to load profile", err)
		return 1
	}
	cfg.ApplyProfile(profile)
	if err := cfg.ValidateGateway(); err != nil {
		logg.Error(context.Background(), "gateway configuration is unusable", err)
		return 1
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess := session.New(nil)
	if *token != "" {
		sess.SetToken(*token)
	} else if profile.Token != "" {
		sess.SetToken(profile.Token)
	}

	gatewayMetrics := metrics.NewGatewayMetrics(nil)

	client, err := gateway.NewClient(gateway.ClientParams{
		Config:  cfg.Gateway,
		Tokens:  sess,
		Logger:  logg,
		Metrics: gatewayMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to build gateway client", err)
		return 1
	}

	notices := &notify.Recorder{}
	shippingFee := decimal.New(cfg.Cart.ShippingFeeCents, -2)

	cartStore, err := cart.NewStore(cart.StoreParams{
		Gateway:     client.Cart(),
		Session:     sess,
		Notifier:    notices,
		Logger:      logg,
		Metrics:     gatewayMetrics,
		ShippingFee: shippingFee,
	})
	if err != nil {
		logg.Error(ctx, "failed to build cart store", err)
		return 1
	}

	wishStore, err := wishlist.NewStore(wishlist.StoreParams{
		Gateway:  client.Wishlist(),
		Session:  sess,
		Notifier: notices,
		Logger:   logg,
		Metrics:  gatewayMetrics,
	})
	if err != nil {
		logg.Error(ctx, "failed to build wishlist store", err)
		return 1
	}

	if err := ui.Run(ctx, ui.Options{
		Context:  ctx,
		Cart:     cartStore,
		Wishlist: wishStore,
		Notices:  notices,
		Config:   cfg.Cart,
		Logger:   logg,
	}); err != nil && ctx.Err() == nil {
		logg.Error(ctx, "storefront exited with error", err)
		return 1
	}
	return 0
}
