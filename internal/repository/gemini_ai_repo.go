package repository

import (
	"context"
	"errors"
	"fmt"
	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/pkg/common"
	"geodrive-insight/pkg/httpclient"
	"geodrive-insight/pkg/logger"
	"geodrive-insight/pkg/ratelimit"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

var (
	// ErrOracleUnavailable covers network errors, timeouts and non-2xx answers.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrOracleEmptyResponse is returned when the oracle answers without any candidate text.
	ErrOracleEmptyResponse = errors.New("oracle returned no content")
)

// ClassificationOracle returns the raw, untrusted classification text for a post.
type ClassificationOracle interface {
	ClassifySentiment(ctx context.Context, text string) (string, error)
}

// PriceOracle returns the raw, untrusted price answer for a car model.
type PriceOracle interface {
	LookupPrice(ctx context.Context, modelName string) (string, error)
}

type AIRepository interface {
	ClassificationOracle
	PriceOracle
}

// geminiAIRepository implements AIRepository on top of the Gemini generateContent REST API.
type geminiAIRepository struct {
	httpClient   httpclient.HTTPClient
	cfg          config.Gemini
	logger       *logger.Logger
	tokenLimiter *ratelimit.TokenLimiter
	limiters     *ratelimit.RequestLimiter
	genAiClient  *genai.Client
}

type GeminiOption func(*geminiOptions)

type geminiOptions struct {
	httpClient *http.Client
}

// WithGeminiHTTPClient routes oracle calls through hc instead of a fresh client.
func WithGeminiHTTPClient(hc *http.Client) GeminiOption {
	return func(o *geminiOptions) {
		o.httpClient = hc
	}
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg config.Gemini, log *logger.Logger, opts ...GeminiOption) (AIRepository, error) {
	var o geminiOptions
	for _, opt := range opts {
		opt(&o)
	}

	var client httpclient.HTTPClient
	if o.httpClient != nil {
		client = httpclient.NewWithClient(o.httpClient, cfg.BaseURL, cfg.Timeout, "")
	} else {
		client = httpclient.New(cfg.BaseURL, cfg.Timeout, "")
	}

	repo := &geminiAIRepository{
		httpClient:   client,
		cfg:          cfg,
		logger:       log,
		tokenLimiter: ratelimit.NewTokenLimiter(cfg.MaxTokenPerMinute),
		limiters: ratelimit.NewRequestLimiter(cfg.MaxRequestPerMinute, map[string]int{
			common.ORACLE_PRICE: cfg.MaxPriceRequestPerMinute,
		}),
	}

	if cfg.CountTokens && cfg.APIKey != "" {
		genAiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  cfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		repo.genAiClient = genAiClient
	}

	return repo, nil
}

func (r *geminiAIRepository) ClassifySentiment(ctx context.Context, text string) (string, error) {
	prompt := r.promptClassifySentiment(text)
	resp, err := r.sendRequest(ctx, common.ORACLE_CLASSIFY, prompt, &dto.GenerationConfig{
		Temperature:      0,
		ResponseMimeType: "application/json",
		MaxOutputTokens:  256,
	})
	if err != nil {
		return "", err
	}
	return r.firstText(resp)
}

func (r *geminiAIRepository) LookupPrice(ctx context.Context, modelName string) (string, error) {
	modelName = strings.TrimSpace(modelName)
	if modelName == "" {
		return "", fmt.Errorf("empty model name: %w", ErrOracleEmptyResponse)
	}

	ctx, cancel := withTimeout(ctx, r.cfg.PriceTimeout)
	defer cancel()

	prompt := r.promptLookupPrice(modelName)
	resp, err := r.sendRequest(ctx, common.ORACLE_PRICE, prompt, &dto.GenerationConfig{
		Temperature:     0,
		MaxOutputTokens: 32,
	})
	if err != nil {
		return "", err
	}
	return r.firstText(resp)
}

func (r *geminiAIRepository) sendRequest(ctx context.Context, oracle, prompt string, genCfg *dto.GenerationConfig) (*dto.GeminiAPIResponse, error) {
	if err := r.waitTokens(ctx, prompt); err != nil {
		return nil, fmt.Errorf("failed to wait for token gemini limit: %w", errors.Join(ErrOracleUnavailable, err))
	}

	if err := r.limiters.Wait(ctx, oracle); err != nil {
		return nil, fmt.Errorf("failed to wait for request gemini limit: %w", errors.Join(ErrOracleUnavailable, err))
	}

	payload := dto.GeminiAPIRequest{
		Contents:         []dto.Content{{Role: "user", Parts: []dto.Part{{Text: prompt}}}},
		GenerationConfig: genCfg,
	}

	geminiAPIResponse := dto.GeminiAPIResponse{}

	apiURL := fmt.Sprintf("/%s:generateContent?key=%s", r.cfg.BaseModel, r.cfg.APIKey)

	geminiResp, err := r.httpClient.Post(ctx, apiURL, payload, nil, &geminiAPIResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to gemini: %w", errors.Join(ErrOracleUnavailable, err))
	}

	if geminiResp.StatusCode < http.StatusOK || geminiResp.StatusCode >= http.StatusMultipleChoices {
		r.logger.WarnContext(ctx, "gemini returned non-2xx status",
			logger.StringField("oracle", oracle),
			logger.IntField("status_code", geminiResp.StatusCode),
		)
		return nil, fmt.Errorf("gemini status %d: %w", geminiResp.StatusCode, ErrOracleUnavailable)
	}

	return &geminiAPIResponse, nil
}

// waitTokens charges the token limiter when token counting is enabled.
func (r *geminiAIRepository) waitTokens(ctx context.Context, prompt string) error {
	if r.genAiClient == nil {
		return nil
	}

	contents := []*genai.Content{
		genai.NewContentFromText(prompt, genai.RoleUser),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.BaseModel, contents, nil)
	if err != nil {
		r.logger.WarnContext(ctx, "failed to count gemini tokens", logger.ErrorField(err))
		return nil
	}

	r.logger.DebugContext(ctx, "Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)
	return r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens))
}

func (r *geminiAIRepository) firstText(resp *dto.GeminiAPIResponse) (string, error) {
	text, ok := resp.FirstText()
	if !ok || strings.TrimSpace(text) == "" {
		return "", ErrOracleEmptyResponse
	}
	return text, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
