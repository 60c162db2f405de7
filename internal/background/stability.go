package background

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/kpauljoseph/deckforge/pkg/logger"
	"github.com/kpauljoseph/deckforge/pkg/models"
	"github.com/kpauljoseph/deckforge/pkg/utils"
)

const (
	DefaultStabilityURL = "https://api.stability.ai/v2beta/stable-image/generate/sd3"
	DefaultRetryDelay   = 2 * time.Second

	maxDiagnosticBody = 2048
)

// StatusError is a non-200 answer from the image API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("image API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("image API returned status %d: %s", e.StatusCode, e.Body)
}

func (e *StatusError) retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

type StabilityOptions struct {
	URL          string
	APIKey       string
	OutputFormat string
	Retries      int
	RetryDelay   time.Duration
	// Client defaults to a plain http.Client; per-request deadlines come from the context.
	Client *http.Client
}

// StabilityProvider generates backgrounds with the Stability AI image API.
type StabilityProvider struct {
	opts    StabilityOptions
	prompts *PromptBuilder
	client  *http.Client
	logger  *logger.Logger
}

func NewStabilityProvider(opts StabilityOptions, prompts *PromptBuilder, logger *logger.Logger) (*StabilityProvider, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("%w: missing API key", ErrNotConfigured)
	}
	if opts.URL == "" {
		opts.URL = DefaultStabilityURL
	}
	if opts.OutputFormat == "" {
		opts.OutputFormat = "jpeg"
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{}
	}

	return &StabilityProvider{
		opts:    opts,
		prompts: prompts,
		client:  client,
		logger:  logger,
	}, nil
}

func (p *StabilityProvider) CacheKey(rec models.CardRecord) (string, error) {
	prompt, err := p.prompts.Build(rec)
	if err != nil {
		return "", err
	}
	return utils.HashKey("stability", p.opts.URL, p.opts.OutputFormat, prompt), nil
}

func (p *StabilityProvider) Fetch(ctx context.Context, rec models.CardRecord) (image.Image, error) {
	prompt, err := p.prompts.Build(rec)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("Requesting background for %s: %q", rec, prompt)

	var lastErr error
	for attempt := 0; attempt <= p.opts.Retries; attempt++ {
		if attempt > 0 {
			p.logger.Info("Retrying background for %s (attempt %d/%d)...", rec.Name, attempt+1, p.opts.Retries+1)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(p.opts.RetryDelay):
			}
		}

		data, err := p.request(ctx, prompt)
		if err == nil {
			return Decode(data)
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var statusErr *StatusError
		if errors.As(err, &statusErr) && !statusErr.retryable() {
			break
		}
	}

	return nil, fmt.Errorf("%w: %v", ErrNoBackground, lastErr)
}

func (p *StabilityProvider) request(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	if err := form.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := form.WriteField("output_format", p.opts.OutputFormat); err != nil {
		return nil, err
	}
	// The endpoint only accepts multipart requests; an empty file part forces one.
	if _, err := form.CreateFormFile("none", ""); err != nil {
		return nil, err
	}
	if err := form.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.URL, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+p.opts.APIKey)
	req.Header.Set("Accept", "image/*")
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach image API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxDiagnosticBody))
		p.logDiagnostic(resp.StatusCode, raw)
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: summarize(raw)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return data, nil
}

func (p *StabilityProvider) logDiagnostic(status int, raw []byte) {
	p.logger.Debug("Image API response code: %d", status)
	var payload map[string]interface{}
	if err := json.Unmarshal(raw, &payload); err == nil {
		p.logger.Debug("Response JSON: %v", payload)
		return
	}
	p.logger.Debug("Response is not valid JSON, raw text: %s", string(raw))
}

// summarize pulls a short message out of an error body.
func summarize(raw []byte) string {
	var payload struct {
		Name   string   `json:"name"`
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Errors) > 0 {
		return payload.Errors[0]
	}
	s := string(bytes.TrimSpace(raw))
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return s
}
