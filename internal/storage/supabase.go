package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrMissingServiceKey indicates the Supabase store was configured without
// credentials.
var ErrMissingServiceKey = errors.New("storage: supabase service key is required")

// SupabaseOptions configures the Supabase Storage client.
type SupabaseOptions struct {
	ProjectURL string
	ServiceKey string
	Bucket     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// SupabaseStore uploads assets through the Supabase Storage object API.
// Uploads always set the upsert header so deterministic keys overwrite
// previous generations of the same asset.
type SupabaseStore struct {
	projectURL string
	serviceKey string
	bucket     string
	httpClient *http.Client
}

// NewSupabaseStore constructs a store with sane defaults.
func NewSupabaseStore(opts SupabaseOptions) (*SupabaseStore, error) {
	if strings.TrimSpace(opts.ServiceKey) == "" {
		return nil, ErrMissingServiceKey
	}
	projectURL := strings.TrimRight(strings.TrimSpace(opts.ProjectURL), "/")
	if projectURL == "" {
		return nil, errors.New("storage: supabase project url is required")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		bucket = "artworks"
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &SupabaseStore{
		projectURL: projectURL,
		serviceKey: opts.ServiceKey,
		bucket:     bucket,
		httpClient: httpClient,
	}, nil
}

// Upload writes data under key in the configured bucket and returns the
// public object URL.
func (s *SupabaseStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s", s.projectURL, s.bucket, cleanKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", ErrUploadFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("%w: status %d: %s", ErrUploadFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return s.PublicURL(cleanKey), nil
}

// PublicURL returns the public URL of an object in the configured bucket.
func (s *SupabaseStore) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.projectURL, s.bucket, key)
}

var _ BlobStore = (*SupabaseStore)(nil)
