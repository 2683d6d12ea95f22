package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"pawprint/internal/adapter/repo"
	"pawprint/internal/http/handlers"
	httpapi "pawprint/internal/http/httpapi"
	"pawprint/internal/infra"
	"pawprint/internal/payments"
	"pawprint/internal/printfile"
	"pawprint/internal/providers/art"
	"pawprint/internal/providers/matting"
	"pawprint/internal/providers/quality"
	"pawprint/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "api")

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	runner := infra.NewSQLRunner(dbpool, logger)
	artworks := repo.NewArtworkRepository(runner)
	orders := repo.NewOrderRepository(runner)

	store, err := storage.New(storage.Config{
		Backend: cfg.StorageBackend,
		Path:    cfg.StoragePath,
		BaseURL: cfg.StorageBaseURL,
		Supabase: storage.SupabaseOptions{
			ProjectURL: cfg.SupabaseURL,
			ServiceKey: cfg.SupabaseServiceKey,
			Bucket:     cfg.SupabaseBucket,
		},
		S3: storage.S3Options{
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Region:        cfg.S3Region,
			Bucket:        cfg.S3Bucket,
			Endpoint:      cfg.S3Endpoint,
			PublicBaseURL: cfg.S3PublicBaseURL,
		},
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure storage")
	}

	layout, err := cfg.LayoutParams()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid print layout configuration")
	}

	generator, err := printfile.New(printfile.Options{
		Store:        store,
		Layout:       layout,
		Recorder:     orders,
		Logger:       logger,
		BaseURL:      cfg.BaseURL,
		FetchTimeout: cfg.FetchTimeout,
		QRPixelWidth: cfg.QRPixelWidth,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure print-file generator")
	}

	artClient, err := art.NewClient(art.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIImageModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure art client")
	}
	qualityClient, err := quality.NewClient(quality.Options{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIScoreModel,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure quality client")
	}
	mattingClient, err := matting.NewClient(matting.Options{
		APIKey:  cfg.CutoutAPIKey,
		BaseURL: cfg.CutoutBaseURL,
		Logger:  &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure matting client")
	}

	checkout, err := payments.NewCheckout(payments.CheckoutOptions{
		SecretKey: cfg.StripeSecretKey,
		SiteURL:   cfg.BaseURL,
		Logger:    &logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to configure stripe checkout")
	}

	app := &handlers.App{
		Logger:    logger,
		Artworks:  artworks,
		Orders:    orders,
		Store:     store,
		Generator: generator,
		Layout:    layout,
		Art:       artClient,
		Quality:   qualityClient,
		Matting:   mattingClient,
		Checkout:  checkout,
		Webhook: payments.WebhookVerifier{
			Secret:           cfg.StripeWebhookSecret,
			SkipVerification: cfg.AppEnv == "development" && cfg.StripeWebhookSecret == "",
		},
		BaseURL: cfg.BaseURL,
	}

	router := httpapi.NewRouter(app, cfg.AllowedOrigins)
	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	logger.Info().Msg("server stopped")
}
