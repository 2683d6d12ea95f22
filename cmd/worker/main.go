package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"pawprint/internal/adapter/repo"
	"pawprint/internal/domain"
	"pawprint/internal/infra"
	"pawprint/internal/printfile"
	"pawprint/internal/sqlinline"
	"pawprint/internal/storage"
)

const orderPollInterval = 2 * time.Second

type claimedOrder struct {
	ID         string
	ArtworkID  string
	ArtworkURL string
}

type printWorker struct {
	ctx       context.Context
	runner    *infra.SQLRunner
	orders    domain.OrderRepository
	generator *printfile.Generator
	logger    infra.Logger
}

var errNoOrderAvailable = errors.New("no order available")

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "worker")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	runner := infra.NewSQLRunner(pool, logger)
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
		logger.Fatal().Err(err).Msg("worker: failed to configure storage")
	}

	layout, err := cfg.LayoutParams()
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: invalid print layout configuration")
	}

	generator, err := printfile.New(printfile.Options{
		Store:        store,
		Layout:       layout,
		HTTPClient:   &http.Client{Timeout: cfg.FetchTimeout},
		Recorder:     orders,
		Logger:       logger,
		BaseURL:      cfg.BaseURL,
		FetchTimeout: cfg.FetchTimeout,
		QRPixelWidth: cfg.QRPixelWidth,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure generator")
	}

	worker := &printWorker{
		ctx:       ctx,
		runner:    runner,
		orders:    orders,
		generator: generator,
		logger:    logger,
	}

	if err := worker.Run(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

// Run polls for paid orders that have no print file yet. These are orders
// whose inline generation failed during the webhook, so the worker is the
// retry path rather than the primary one.
func (w *printWorker) Run() error {
	w.logger.Info().Msg("worker: started")
	for {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		order, err := w.claimOrder()
		if err != nil {
			if errors.Is(err, errNoOrderAvailable) {
				time.Sleep(orderPollInterval)
				continue
			}
			w.logger.Error().Err(err).Msg("worker: failed to claim order")
			time.Sleep(orderPollInterval)
			continue
		}

		w.handleOrder(order)
	}
}

func (w *printWorker) claimOrder() (claimedOrder, error) {
	row := w.runner.QueryRow(w.ctx, sqlinline.QWorkerClaimOrder)
	var o claimedOrder
	if err := row.Scan(&o.ID, &o.ArtworkID, &o.ArtworkURL); err != nil {
		if infra.IsNoRows(err) {
			return claimedOrder{}, errNoOrderAvailable
		}
		return claimedOrder{}, err
	}
	return o, nil
}

func (w *printWorker) handleOrder(order claimedOrder) {
	w.logger.Info().Str("order_id", order.ID).Str("artwork_id", order.ArtworkID).Msg("worker: picked order")

	_, err := w.generator.Generate(w.ctx, printfile.Request{
		ArtworkID:  order.ArtworkID,
		ArtworkURL: order.ArtworkURL,
		OrderID:    order.ID,
	})
	if err != nil {
		w.logger.Error().Err(err).Str("order_id", order.ID).Msg("worker: print-file generation failed")
		if markErr := w.orders.MarkFailed(w.ctx, order.ID); markErr != nil {
			w.logger.Error().Err(markErr).Str("order_id", order.ID).Msg("worker: mark failed errored")
		}
		return
	}
	w.logger.Info().Str("order_id", order.ID).Msg("worker: order fulfilled")
}
