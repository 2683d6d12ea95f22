package storage

import (
	"fmt"
	"path/filepath"
)

// Config selects and configures a blob store backend. Backend is one of
// "filesystem", "supabase" or "s3".
type Config struct {
	Backend string

	Path    string
	BaseURL string

	Supabase SupabaseOptions
	S3       S3Options
}

// New builds the configured BlobStore.
func New(cfg Config) (BlobStore, error) {
	switch cfg.Backend {
	case "", "filesystem":
		path := cfg.Path
		if path == "" {
			path = "./storage"
		}
		if !filepath.IsAbs(path) {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
		}
		return NewFileStore(path, cfg.BaseURL)
	case "supabase":
		return NewSupabaseStore(cfg.Supabase)
	case "s3":
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
}
