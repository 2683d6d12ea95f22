package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"pawprint/internal/infra"
	"pawprint/internal/printfile"
	"pawprint/internal/printlayout"
	"pawprint/internal/storage"
)

// Generates a print file for one artwork from the command line, without the
// API or the database. Useful for checking layout changes against a real
// artwork before they ship.
func main() {
	var (
		artworkIDFlag  string
		artworkURLFlag string
		orderFlag      string
		variantFlag    string
	)

	flag.StringVar(&artworkIDFlag, "artwork", "", "artwork ID (required)")
	flag.StringVar(&artworkURLFlag, "url", "", "public URL of the artwork PNG (required)")
	flag.StringVar(&orderFlag, "order", "", "order ID to key the output file by (optional)")
	flag.StringVar(&variantFlag, "variant", "", "layout variant override (combined, art_only)")
	flag.Parse()

	artworkID := strings.TrimSpace(artworkIDFlag)
	artworkURL := strings.TrimSpace(artworkURLFlag)
	if artworkID == "" || artworkURL == "" {
		exitWithError(errors.New("both -artwork and -url must be provided"))
	}

	_ = godotenv.Load()
	cfg, err := infra.LoadConfigWithoutDB()
	if err != nil {
		exitWithError(err)
	}
	logger := infra.NewLogger(cfg.AppEnv, "printfile")

	layout, err := cfg.LayoutParams()
	if err != nil {
		exitWithError(err)
	}
	if v := strings.TrimSpace(variantFlag); v != "" {
		variant, err := printlayout.ParseVariant(v)
		if err != nil {
			exitWithError(err)
		}
		layout.Variant = variant
	}

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
		exitWithError(err)
	}

	generator, err := printfile.New(printfile.Options{
		Store:        store,
		Layout:       layout,
		Logger:       logger,
		BaseURL:      cfg.BaseURL,
		FetchTimeout: cfg.FetchTimeout,
		QRPixelWidth: cfg.QRPixelWidth,
	})
	if err != nil {
		exitWithError(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := generator.Generate(ctx, printfile.Request{
		ArtworkID:  artworkID,
		ArtworkURL: artworkURL,
		OrderID:    strings.TrimSpace(orderFlag),
	})
	if err != nil {
		exitWithError(err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		exitWithError(err)
	}
	fmt.Println(string(out))
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
