package ai

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/nextmac/internal/infrastructure/logging"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/nextmac/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/nextmac/internal/shared/media"
)

// Client talks to the model and wallpaper services
type Client struct {
	cfg     Config
	resty   *resty.Client
	breaker *resilience.Breaker
	metrics *monitoring.Metrics
	log     *logging.Logger
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	log      *logging.Logger
	metrics  *monitoring.Metrics
	settings *resilience.Settings
}

// WithLogger sets the logger
func WithLogger(log *logging.Logger) Option {
	return func(o *clientOptions) { o.log = log }
}

// WithMetrics records call counts and latencies
func WithMetrics(m *monitoring.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithBreakerSettings overrides the circuit breaker policy
func WithBreakerSettings(s resilience.Settings) Option {
	return func(o *clientOptions) { o.settings = &s }
}

// NewClient creates a client with retrying transport and circuit breaker
func NewClient(cfg Config, opts ...Option) *Client {
	o := clientOptions{log: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log.Component("ai")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = nil

	restyClient := resty.NewWithClient(retryClient.StandardClient()).
		SetHeader("User-Agent", "NextMac/1.0")
	if cfg.Timeout > 0 {
		restyClient.SetTimeout(cfg.Timeout)
	}

	settings := resilience.Settings{
		MaxRequests: 2,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts resilience.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	if o.settings != nil {
		settings = *o.settings
	}
	userHook := settings.OnStateChange
	settings.OnStateChange = func(name string, from, to resilience.State) {
		log.Warn("Circuit breaker state change",
			zap.String("breaker", name),
			zap.Stringer("from", from),
			zap.Stringer("to", to))
		if userHook != nil {
			userHook(name, from, to)
		}
	}

	return &Client{
		cfg:     cfg,
		resty:   restyClient,
		breaker: resilience.New("ai", settings),
		metrics: o.metrics,
		log:     log,
	}
}

// BreakerState exposes the breaker for health reporting
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}

// Configured reports whether model calls can be made
func (c *Client) Configured() bool {
	return c.cfg.APIKey != ""
}

// Chat answers the latest message given the prior conversation
func (c *Client) Chat(ctx context.Context, history []Message, message string) (reply string, err error) {
	if strings.TrimSpace(message) == "" {
		return "", fmt.Errorf("%w: message is empty", ErrInvalidInput)
	}
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	timer := monitoring.NewTimer(c.metrics, "chat")
	defer func() { timer.Stop(err) }()

	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		role := m.Role
		if role != RoleModel {
			role = RoleUser
		}
		parts := make([]part, 0, len(m.Content))
		for _, t := range m.Content {
			parts = append(parts, part{Text: t.Text})
		}
		if len(parts) == 0 {
			continue
		}
		contents = append(contents, content{Role: role, Parts: parts})
	}
	contents = append(contents, content{Role: RoleUser, Parts: []part{{Text: message}}})

	resp, err := c.generate(ctx, c.cfg.ChatModel, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: SystemPrompt}}},
		Contents:          contents,
	})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if len(resp.Candidates) > 0 {
		for _, p := range resp.Candidates[0].Content.Parts {
			b.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return FallbackReply, nil
	}
	return b.String(), nil
}

// EditImage applies a text instruction to an image data URI and returns the
// edited image as a data URI
func (c *Client) EditImage(ctx context.Context, imageDataURI, prompt string) (edited string, err error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", ErrInvalidInput)
	}
	mime, data, err := media.ParseDataURI(imageDataURI)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !c.Configured() {
		return "", ErrNotConfigured
	}
	timer := monitoring.NewTimer(c.metrics, "edit_image")
	defer func() { timer.Stop(err) }()

	resp, err := c.generate(ctx, c.cfg.ImageModel, generateRequest{
		Contents: []content{{
			Role: RoleUser,
			Parts: []part{
				{InlineData: &inlineData{MimeType: mime, Data: base64.StdEncoding.EncodeToString(data)}},
				{Text: prompt},
			},
		}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"TEXT", "IMAGE"}},
		SafetySettings:   permissiveSafety,
	})
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				mt := p.InlineData.MimeType
				if mt == "" {
					mt = media.OctetStream
				}
				return "data:" + mt + ";base64," + p.InlineData.Data, nil
			}
		}
	}
	return "", ErrNoImage
}

// Wallpaper fetches the image for a theme. The same theme always maps to
// the same image.
func (c *Client) Wallpaper(ctx context.Context, theme string) (uri string, err error) {
	if strings.TrimSpace(theme) == "" {
		return "", fmt.Errorf("%w: theme is empty", ErrInvalidInput)
	}
	timer := monitoring.NewTimer(c.metrics, "wallpaper")
	defer func() { timer.Stop(err) }()

	url := fmt.Sprintf("%s/seed/%d/%d/%d",
		strings.TrimRight(c.cfg.WallpaperBaseURL, "/"), Seed(theme), WallpaperWidth, WallpaperHeight)

	resp, err := resilience.Call(c.breaker, func() (*resty.Response, error) {
		resp, err := c.resty.R().SetContext(ctx).Get(url)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("failed to fetch wallpaper: status %d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		c.log.Warn("Wallpaper fetch failed", zap.String("theme", theme), zap.Error(err))
		return "", err
	}

	body := resp.Body()
	mime := media.Detect(body, resp.Header().Get("Content-Type"))
	if !media.IsImage(mime) {
		mime = media.JPEG
	}
	return media.DataURI(mime, body), nil
}

func (c *Client) generate(ctx context.Context, model string, req generateRequest) (*generateResponse, error) {
	out, err := resilience.Call(c.breaker, func() (*generateResponse, error) {
		var out generateResponse
		resp, err := c.resty.R().
			SetContext(ctx).
			SetHeader("x-goog-api-key", c.cfg.APIKey).
			SetPathParam("model", model).
			SetBody(req).
			SetResult(&out).
			Post(strings.TrimRight(c.cfg.BaseURL, "/") + "/models/{model}:generateContent")
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, fmt.Errorf("model %s returned status %d", model, resp.StatusCode())
		}
		return &out, nil
	})
	if err != nil {
		c.log.Warn("Model call failed", zap.String("model", model), zap.Error(err))
		return nil, fmt.Errorf("failed to call model: %w", err)
	}
	return out, nil
}
