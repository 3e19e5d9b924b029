package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"example.com/gameshop/internal/config"
	"example.com/gameshop/internal/infra/catalog"
	"example.com/gameshop/internal/infra/mollie"
	"example.com/gameshop/internal/infra/notify"
	"example.com/gameshop/internal/infra/security"
	httpapi "example.com/gameshop/internal/interface/http"
	"example.com/gameshop/internal/logging"
	cartuc "example.com/gameshop/internal/usecase/cart"
	cataloguc "example.com/gameshop/internal/usecase/catalog"
	checkoutuc "example.com/gameshop/internal/usecase/checkout"
	orderuc "example.com/gameshop/internal/usecase/order"
	paymentuc "example.com/gameshop/internal/usecase/payment"
	webhookuc "example.com/gameshop/internal/usecase/webhook"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		zap.L().Fatal("config_load_failed", zap.Error(err))
	}

	logger := logging.MustNewLogger(logging.Options{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		File:    cfg.App.LogFile,
	})
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server_failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	ctx = logging.ContextWithLogger(ctx, logger)

	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	outbound := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}

	catalogSvc := cataloguc.NewService(catalog.NewRepository(cfg.Catalog.Source, outbound, cfg.Catalog.Timeout))
	cartSvc := cartuc.NewService(st.carts,
		cartuc.WithKeyPrefix(cfg.Cart.KeyPrefix),
		cartuc.WithObserver(httpapi.ObserveCartSize),
	)

	provider := mollie.NewClient(cfg.Payment.APIBaseURL,
		mollie.WithHTTPClient(outbound),
		mollie.WithTimeout(cfg.Payment.Timeout),
		mollie.WithBreaker(mollie.BreakerSettings{
			MaxRequests:         cfg.Breaker.MaxRequests,
			Interval:            cfg.Breaker.Interval,
			Timeout:             cfg.Breaker.Timeout,
			ConsecutiveFailures: cfg.Breaker.ConsecutiveFailures,
		}),
	)
	paymentSvc := paymentuc.NewService(provider, paymentuc.EnvCredentials(cfg.Payment.APIKeyEnv), paymentuc.Config{
		BaseURL:      cfg.App.BaseURL,
		Description:  cfg.Payment.Description,
		Locale:       cfg.Payment.Locale,
		RedirectPath: cfg.Payment.RedirectPath,
		CancelPath:   cfg.Payment.CancelPath,
		WebhookPath:  cfg.Payment.WebhookPath,
	})
	if err := paymentSvc.Ready(); err != nil {
		logger.Warn("payment_provider_not_configured", zap.String("env", cfg.Payment.APIKeyEnv))
	}

	orderOpts := []orderuc.Option{orderuc.WithPersistTimeout(cfg.Orders.PersistTimeout)}
	notifier, err := notify.New(notifyConfig(cfg))
	if err != nil {
		return err
	}
	if notifier != nil {
		orderOpts = append(orderOpts, orderuc.WithNotifier(notifier))
	}
	orderSvc := orderuc.NewService(st.orders, orderOpts...)

	api := httpapi.NewAPI(httpapi.Dependencies{
		CatalogService:  catalogSvc,
		CartService:     cartSvc,
		CheckoutService: checkoutuc.NewService(cartSvc, paymentSvc),
		PaymentService:  paymentSvc,
		WebhookService:  webhookuc.NewService(paymentSvc, orderSvc, webhookuc.WithTimeout(cfg.Payment.Timeout+cfg.Orders.PersistTimeout)),
		OrderService:    orderSvc,
		CartTokens:      security.NewCartTokenService(cfg.Security.CartTokenSecret, cfg.Security.CartTokenTTL),
		Logger:          logger,
		SecureCookie:    isHTTPS(cfg.App.BaseURL),
	})

	srv := &http.Server{
		Addr:         cfg.App.HTTPAddr,
		Handler:      api.Router(),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening",
			zap.String("addr", cfg.App.HTTPAddr),
			zap.String("cart_store", cfg.Cart.Store),
			zap.String("orders_driver", cfg.Orders.Driver),
			zap.String("notify_provider", cfg.Notify.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("http_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func notifyConfig(cfg config.Config) notify.Config {
	return notify.Config{
		Provider:      cfg.Notify.Provider,
		From:          cfg.Notify.From,
		FromName:      cfg.Notify.FromName,
		SMTPAddr:      cfg.Notify.SMTPAddr,
		SMTPUsername:  cfg.Notify.SMTPUsername,
		SMTPPassword:  cfg.Notify.SMTPPassword,
		PostmarkToken: cfg.Notify.PostmarkToken,
		SendGridKey:   cfg.Notify.SendGridKey,
	}
}

func isHTTPS(baseURL string) bool {
	return strings.HasPrefix(strings.ToLower(baseURL), "https://")
}
