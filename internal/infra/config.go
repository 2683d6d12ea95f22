package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"pawprint/internal/printlayout"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv      string
	Port        string
	DatabaseURL string

	// BaseURL is the public site URL; QR redirect links and checkout return
	// URLs are built from it.
	BaseURL string

	StorageBackend string
	StoragePath    string
	StorageBaseURL string

	SupabaseURL        string
	SupabaseServiceKey string
	SupabaseBucket     string

	S3AccessKey     string
	S3SecretKey     string
	S3Region        string
	S3Bucket        string
	S3Endpoint      string
	S3PublicBaseURL string

	StripeSecretKey     string
	StripeWebhookSecret string

	OpenAIAPIKey     string
	OpenAIBaseURL    string
	OpenAIImageModel string
	OpenAIScoreModel string

	CutoutAPIKey  string
	CutoutBaseURL string

	CanvasSize             int
	PrintAreaWidthPercent  float64
	PrintAreaHeightPercent float64
	ArtBandFraction        float64
	QRSizeFraction         float64
	QRMinPixels            int
	QRPixelWidth           int
	LayoutVariant          string

	AllowedOrigins []string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	FetchTimeout     time.Duration
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

// LoadConfigWithoutDB loads configuration for tools that never touch the
// database, such as the standalone print-file generator.
func LoadConfigWithoutDB() (*Config, error) {
	return loadConfig()
}

func loadConfig() (*Config, error) {
	defaults := printlayout.DefaultParams()

	cfg := &Config{
		AppEnv:      getEnv("APP_ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),

		StorageBackend: getEnv("STORAGE_BACKEND", "filesystem"),
		StoragePath:    getEnv("STORAGE_PATH", "./storage"),
		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:8080/static"),

		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		SupabaseBucket:     getEnv("SUPABASE_ARTWORKS_BUCKET", "artworks"),

		S3AccessKey:     os.Getenv("S3_ACCESS_KEY"),
		S3SecretKey:     os.Getenv("S3_SECRET_KEY"),
		S3Region:        getEnv("S3_REGION", "eu-west-2"),
		S3Bucket:        os.Getenv("S3_BUCKET"),
		S3Endpoint:      os.Getenv("S3_ENDPOINT"),
		S3PublicBaseURL: os.Getenv("S3_PUBLIC_BASE_URL"),

		StripeSecretKey:     os.Getenv("STRIPE_SECRET_KEY"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),

		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIImageModel: getEnv("OPENAI_IMAGE_MODEL", "gpt-image-1"),
		OpenAIScoreModel: getEnv("OPENAI_SCORE_MODEL", "gpt-4.1"),

		CutoutAPIKey:  os.Getenv("CUTOUT_PRO_API_KEY"),
		CutoutBaseURL: getEnv("CUTOUT_PRO_BASE_URL", "https://www.cutout.pro"),

		CanvasSize:             getEnvInt("CANVAS_SIZE", defaults.CanvasSize),
		PrintAreaWidthPercent:  getEnvFloat("PRINT_AREA_WIDTH_PERCENT", defaults.WidthPercent),
		PrintAreaHeightPercent: getEnvFloat("PRINT_AREA_HEIGHT_PERCENT", defaults.HeightPercent),
		ArtBandFraction:        getEnvFloat("ART_BAND_FRACTION", defaults.ArtBandFraction),
		QRSizeFraction:         getEnvFloat("QR_SIZE_FRACTION", defaults.QRSizeFraction),
		QRMinPixels:            getEnvInt("QR_MIN_PIXELS", defaults.QRMinPixels),
		QRPixelWidth:           getEnvInt("QR_PIXEL_WIDTH", 400),
		LayoutVariant:          getEnv("LAYOUT_VARIANT", string(defaults.Variant)),

		AllowedOrigins: splitCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		FetchTimeout:     time.Second * time.Duration(getEnvInt("FETCH_TIMEOUT_SECONDS", 20)),
	}

	if _, err := cfg.LayoutParams(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LayoutParams assembles the print-layout parameters from configuration and
// validates them, so a bad constant set fails at startup rather than on the
// first paid order.
func (c *Config) LayoutParams() (printlayout.Params, error) {
	variant, err := printlayout.ParseVariant(c.LayoutVariant)
	if err != nil {
		return printlayout.Params{}, err
	}
	p := printlayout.Params{
		CanvasSize:      c.CanvasSize,
		WidthPercent:    c.PrintAreaWidthPercent,
		HeightPercent:   c.PrintAreaHeightPercent,
		ArtBandFraction: c.ArtBandFraction,
		QRSizeFraction:  c.QRSizeFraction,
		QRMinPixels:     c.QRMinPixels,
		Variant:         variant,
	}
	if err := p.Validate(); err != nil {
		return printlayout.Params{}, err
	}
	return p, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
