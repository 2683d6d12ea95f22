// Package matting removes the background from a pet photo via the cutout.pro
// matting API before the art generator sees it.
package matting

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pawprint/internal/domain"
	"pawprint/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("matting: api key is required")

// Preview mode charges a fraction of a credit per image and caps output at
// 500x500, which is plenty for the on-screen flow.
const defaultEndpointPath = "/api/v1/matting2?mattingType=6&crop=true&preview=true"

// Options configures the cutout.pro client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the cutout.pro matting API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

type mattingResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		ImageBase64 string `json:"imageBase64"`
	} `json:"data"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://www.cutout.pro"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// RemoveBackground uploads the photo and returns the matted PNG bytes.
func (c *Client) RemoveBackground(ctx context.Context, image []byte) ([]byte, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if len(image) == 0 {
		return nil, errors.New("matting: source image is required")
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	filePart, err := form.CreateFormFile("file", "upload.png")
	if err != nil {
		return nil, fmt.Errorf("matting: encode form file: %w", err)
	}
	if _, err := filePart.Write(image); err != nil {
		return nil, fmt.Errorf("matting: write image: %w", err)
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("matting: close form: %w", err)
	}

	endpoint := c.baseURL + defaultEndpointPath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("matting: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("APIKEY", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("matting: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("matting: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: matting: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded mattingResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("matting: decode response: %w", err)
	}
	if decoded.Code != 0 || decoded.Data.ImageBase64 == "" {
		return nil, fmt.Errorf("%w: matting: code %d: %s", domain.ErrProviderFailure, decoded.Code, decoded.Msg)
	}
	data, err := base64.StdEncoding.DecodeString(decoded.Data.ImageBase64)
	if err != nil {
		return nil, fmt.Errorf("matting: decode image: %w", err)
	}
	c.logger.Debug().Int("bytes", len(data)).Msg("matting: removed background")
	return data, nil
}
