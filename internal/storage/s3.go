package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures the S3-compatible object store backend.
type S3Options struct {
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	Endpoint string
	// PublicBaseURL is the prefix objects are publicly served from, e.g. a
	// CDN or the bucket website endpoint.
	PublicBaseURL string
}

// S3Store uploads assets to an S3 (or S3-compatible) bucket. S3 put-object
// is upsert by nature, which matches the deterministic-key overwrite
// semantics of print-file regeneration.
type S3Store struct {
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store builds a self-contained S3 client from static credentials.
func NewS3Store(opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("storage: s3 bucket is required")
	}
	if opts.PublicBaseURL == "" {
		return nil, errors.New("storage: s3 public base url is required")
	}
	creds := credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")
	clientOpts := s3.Options{
		Region:      opts.Region,
		Credentials: creds,
	}
	if opts.Endpoint != "" {
		clientOpts.BaseEndpoint = aws.String(opts.Endpoint)
		clientOpts.UsePathStyle = true
	}
	client := s3.New(clientOpts)
	return &S3Store{
		uploader: manager.NewUploader(client),
		bucket:   opts.Bucket,
		baseURL:  strings.TrimRight(opts.PublicBaseURL, "/"),
	}, nil
}

// Upload writes data under key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(cleanKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: object %s in bucket %s: %v", ErrUploadFailed, cleanKey, s.bucket, err)
	}
	return s.baseURL + "/" + cleanKey, nil
}

var _ BlobStore = (*S3Store)(nil)
