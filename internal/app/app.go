package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/xenking/storefront-engine/internal/domain/cart"
	"github.com/xenking/storefront-engine/internal/domain/discount"
	"github.com/xenking/storefront-engine/internal/domain/order"
	"github.com/xenking/storefront-engine/internal/domain/stats"
	"github.com/xenking/storefront-engine/internal/handler"
	"github.com/xenking/storefront-engine/internal/memstore"
	"github.com/xenking/storefront-engine/internal/seed"
	"github.com/xenking/storefront-engine/pkg/health"
	"github.com/xenking/storefront-engine/pkg/httpmiddleware"
)

// Run creates all stores and services, seeds the catalog and users, starts
// the HTTP server, and handles graceful shutdown. It is the single wiring
// point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// Stores. Constructed leaf-first: carts have no dependencies; the
	// catalog and directory cascade into carts on removal/deactivation.
	carts := memstore.NewCarts()
	catalog := memstore.NewCatalog(carts)
	users := memstore.NewDirectory(carts)
	codes := memstore.NewDiscounts()
	ledger := memstore.NewLedger()

	// Seed data. State lives for the process lifetime only.
	seeded, err := seed.Catalog(ctx, catalog, cfg.Catalog.SeedFiles)
	if err != nil {
		return errors.Wrap(err, "seed catalog")
	}
	if err := seed.Users(ctx, users); err != nil {
		return errors.Wrap(err, "seed users")
	}
	lg.Info("Store seeded", zap.Int("products", seeded))

	// Services.
	cartSvc := cart.NewService(carts, catalog)
	txn := order.NewService(carts, codes, ledger, discount.RandomGenerator{}, order.Config{
		Interval: cfg.Discount.Interval,
		Percent:  decimal.NewFromInt(int64(cfg.Discount.Percent)),
	})
	aggregator := stats.NewAggregator(ledger, codes)

	// Health check service.
	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))
	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// HTTP surface.
	h := handler.New(catalog, cartSvc, users, txn, aggregator)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	h.Routes(mux)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.CORS(httpmiddleware.CORSConfig{
				AllowOrigins:     cfg.CORS.Origins,
				AllowHeaders:     []string{"Content-Type"},
				AllowCredentials: cfg.CORS.AllowCredentials,
				MaxAge:           86400,
			}),
			httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
				Max:    cfg.RateLimit.Max,
				Window: cfg.RateLimit.Window,
			}),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.Instrument("storefront-api", m),
			httpmiddleware.LogRequests(),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
