package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"

	"github.com/solstocks/trading-gateway/internal/api"
	"github.com/solstocks/trading-gateway/internal/archive"
	"github.com/solstocks/trading-gateway/internal/fees"
	"github.com/solstocks/trading-gateway/internal/gateway"
	"github.com/solstocks/trading-gateway/internal/instruments"
	"github.com/solstocks/trading-gateway/internal/ledger"
	"github.com/solstocks/trading-gateway/internal/metrics"
	"github.com/solstocks/trading-gateway/internal/publisher"
	"github.com/solstocks/trading-gateway/internal/purchase"
	"github.com/solstocks/trading-gateway/internal/rate"
	"github.com/solstocks/trading-gateway/internal/secrets"
	"github.com/solstocks/trading-gateway/internal/wallet"
	"github.com/solstocks/trading-gateway/pkg/config"
	"github.com/solstocks/trading-gateway/pkg/logger"
	"github.com/solstocks/trading-gateway/pkg/model"
	"github.com/solstocks/trading-gateway/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Load configuration ---
	cfg := config.Load()

	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	defer logger.Sync()
	logg := logger.S()
	logg.Info("starting [trading-gateway]...")

	// --- Connect to NATS ---
	nc, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		logg.Fatalw("failed to connect to NATS", "error", err)
	}
	defer nc.Drain() //nolint:errcheck

	pub, err := publisher.New(nc, cfg.OutboundSubject, cfg.EventStream, cfg.ServiceName)
	if err != nil {
		logg.Fatalw("failed to init publisher", "error", err)
	}

	// --- Payment ledger (Redis) ---
	led, err := ledger.New(cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass, logger.Named("ledger"))
	if err != nil {
		logg.Fatalw("failed to init ledger", "error", err)
	}
	defer led.Close() //nolint:errcheck

	// --- Optional Postgres archive ---
	var archiveWriter *archive.PaymentWriter
	if cfg.DatabaseURL != "" {
		logg.Info("connecting archive to DSN: ", utils.MaskDSN(cfg.DatabaseURL))
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logg.Fatalw("failed to connect to postgres", "error", err)
		}
		defer pool.Close()
		archiveWriter = archive.NewPaymentWriter(pool, logger.Named("archive"), cfg.ServiceName)
	} else {
		logg.Warn("no DATABASE_URL configured; payment archive mirroring disabled")
		archiveWriter = archive.NewPaymentWriter(nil, logger.Named("archive"), cfg.ServiceName)
	}

	// --- Wallet credentials cache (secrets stay out of env) ---
	credsCache := secrets.NewCache[secrets.WalletCredentials](cfg.CacheTTL)
	cleanerStop := make(chan struct{})
	go credsCache.StartCleaner(cfg.CleanupFreq, cleanerStop)
	defer close(cleanerStop)

	if cfg.Env != "dev" {
		provider, err := secrets.NewAWSProvider(cfg.AWSRegion)
		if err != nil {
			logg.Fatalw("failed to init AWS secrets provider", "error", err)
		}
		resolver := secrets.NewResolver(logger.Named("secrets"), cfg.Env, provider, credsCache)
		if _, err := resolver.Resolve(ctx, "treasury"); err != nil {
			logg.Fatalw("failed to resolve wallet credentials", "error", err)
		}
	}

	// --- Reference data + fee policy ---
	catalog := instruments.NewCatalog(instruments.DefaultListings())
	policy := fees.NewPolicy(
		instruments.DefaultFeeSchedule(),
		catalog.SymbolsByCategory(model.CategoryCrypto),
		catalog.SymbolsByCategory(model.CategoryPremium),
	)

	builder := purchase.NewBuilder(
		policy,
		purchase.StaticTokenPrice{Price: decimal.NewFromFloat(cfg.TokenPrice)},
		"solana-pay",
	)

	// --- Wallet service (mock in dev; real adapter plugs in here) ---
	walletSvc := wallet.NewMock("So11111111111111111111111111111111111111112", 1_000)
	var authGate wallet.Authenticator = wallet.AllowAll{}

	rateMgr := rate.NewManager(rate.Config{
		RequestsPerSecond: 5,
		Burst:             10,
		Cooldown:          1 * time.Second,
	})

	svc := gateway.NewService(
		logger.Named("gateway"),
		catalog,
		builder,
		led,
		walletSvc,
		authGate,
		rateMgr,
		pub,
		archiveWriter,
		config.GetEnv("TREASURY_ADDRESS", "Treas1111111111111111111111111111111111111"),
		cfg.TokenSymbol,
	)

	poller := gateway.NewConfirmationPoller(
		logger.Named("poller"),
		svc,
		walletSvc,
		cfg.ConfirmPollInterval,
		cfg.ConfirmTimeout,
	)
	svc.SetPoller(poller)
	go poller.Start(ctx)

	metrics.StartServer(fmt.Sprintf(":%d", cfg.MetricsPort))

	app := fiber.New()
	h := &api.Handler{
		Logger:  logger.Named("api"),
		Service: svc,
		Wallet:  walletSvc,
	}
	api.RegisterRoutes(app, h)

	go func() {
		logg.Infof("HTTP API listening on :%d", cfg.Port)
		if err := app.Listen(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logg.Fatalw("fiber.listen_failed", "error", err)
		}
	}()

	logg.Infow("[trading-gateway] running",
		"nats", cfg.NATSURL,
		"redis", cfg.RedisAddr,
		"settlement_token", cfg.TokenSymbol,
		"confirm_poll_interval", cfg.ConfirmPollInterval)

	<-ctx.Done()
	stop()
	logg.Info("shutting down [trading-gateway]...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	app.ShutdownWithContext(shutdownCtx) //nolint:errcheck
}
