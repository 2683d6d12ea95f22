// Package storage provides the blob-store backends print files and QR
// assets are persisted to. Every backend exposes upsert semantics: uploading
// the same key twice overwrites, so re-generating a print file for an order
// replaces the previous asset instead of duplicating it.
package storage

import (
	"context"
	"errors"
)

// ErrUploadFailed indicates the blob store write failed or timed out. The
// caller owns the retry policy.
var ErrUploadFailed = errors.New("storage: upload failed")

// BlobStore persists a byte payload under a key and returns its public URL.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
