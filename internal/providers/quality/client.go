// Package quality scores uploaded pet photos against a fixed rubric before
// any paid generation happens, so bad source photos are caught up front.
package quality

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pawprint/internal/domain"
	"pawprint/internal/infra"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("quality: api key is required")

// ErrInvalidReport indicates the model returned output that does not match
// the rubric contract.
var ErrInvalidReport = errors.New("quality: model returned an invalid report")

const rubricPrompt = `You are grading whether this pet photo is suitable for AI art generation on a printed flask.

Evaluate from 0-10 for each:
- face: How clearly the pet's face is visible and facing the camera.
- sharpness: How sharp and in-focus the pet is.
- lighting: How well-lit the pet's face is (no harsh shadows or blown highlights).
- background: How simple and uncluttered the background is (plain is best).

Then:
- score: overall average from 0-10.
- status:
  - "good" if score >= 7
  - "warn" if 4 <= score < 7
  - "bad" if score < 4

Return ONLY valid JSON, no extra text, exactly in this shape:

{
  "face": number,
  "sharpness": number,
  "lighting": number,
  "background": number,
  "score": number,
  "status": "good" | "warn" | "bad"
}`

// Options configures the photo scoring client.
type Options struct {
	APIKey         string
	BaseURL        string
	Model          string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client calls the OpenAI responses API with the rubric prompt and the photo.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type scoreRequest struct {
	Model string         `json:"model"`
	Input []scoreMessage `json:"input"`
}

type scoreMessage struct {
	Role    string         `json:"role"`
	Content []scoreContent `json:"content"`
}

type scoreContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

type scoreResponse struct {
	Output []struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
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
		baseURL = "https://api.openai.com/v1"
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = "gpt-4.1"
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
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Score grades the photo and returns the parsed rubric report.
func (c *Client) Score(ctx context.Context, image []byte) (*domain.QualityReport, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	if len(image) == 0 {
		return nil, errors.New("quality: source image is required")
	}

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(image)
	payload := scoreRequest{
		Model: c.model,
		Input: []scoreMessage{{
			Role: "user",
			Content: []scoreContent{
				{Type: "input_text", Text: rubricPrompt},
				{Type: "input_image", ImageURL: dataURL, Detail: "auto"},
			},
		}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("quality: encode request: %w", err)
	}
	endpoint := c.baseURL + "/responses"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("quality: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("quality: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("quality: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: quality: status %d: %s", domain.ErrProviderFailure, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var decoded scoreResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("quality: decode response: %w", err)
	}
	text := outputText(decoded)
	if text == "" {
		return nil, fmt.Errorf("%w: quality: empty model output", domain.ErrProviderFailure)
	}
	return parseReport(text)
}

func outputText(resp scoreResponse) string {
	for _, item := range resp.Output {
		for _, content := range item.Content {
			if content.Type == "output_text" && strings.TrimSpace(content.Text) != "" {
				return strings.TrimSpace(content.Text)
			}
		}
	}
	return ""
}

func parseReport(text string) (*domain.QualityReport, error) {
	// Some models wrap JSON in a fenced code block despite the prompt.
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var report domain.QualityReport
	if err := json.Unmarshal([]byte(text), &report); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidReport, err)
	}
	for _, v := range []float64{report.Face, report.Sharpness, report.Lighting, report.Background, report.Score} {
		if v < 0 || v > 10 {
			return nil, fmt.Errorf("%w: value %v out of range", ErrInvalidReport, v)
		}
	}
	switch report.Status {
	case domain.QualityGood, domain.QualityWarn, domain.QualityBad:
	default:
		report.Status = domain.QualityStatusFor(report.Score)
	}
	return &report, nil
}
