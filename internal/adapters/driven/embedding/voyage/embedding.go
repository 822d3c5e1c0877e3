// Package voyage provides an embedding service adapter using the
// Voyage AI API.
package voyage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/draftly-ai/ragcore/internal/core/domain"
	"github.com/draftly-ai/ragcore/internal/core/ports/driven"
	"github.com/draftly-ai/ragcore/internal/logger"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.voyageai.com/v1"
	DefaultModel   = "voyage-3"
	LiteModel      = "voyage-3-lite"
	DefaultTimeout = 60 * time.Second

	// MaxBatchSize is the API limit on texts per request. Larger
	// inputs are split into sequential requests.
	MaxBatchSize = 128
)

// Model dimensions for Voyage embedding models.
var modelDimensions = map[string]int{
	"voyage-3":      1024,
	"voyage-3-lite": 512,
	"voyage-2":      1024,
}

// modelPricing is USD per million input tokens.
var modelPricing = map[string]float64{
	"voyage-3":      0.06,
	"voyage-3-lite": 0.02,
	"voyage-2":      0.10,
}

// Config holds configuration for the Voyage embedding service.
type Config struct {
	// APIKey is the Voyage API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.voyageai.com/v1).
	BaseURL string

	// Model is the embedding model to use (default: voyage-3).
	Model string

	// Timeout is the per-request timeout (default: 60s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests. Zero disables
	// throttling.
	RequestsPerSecond float64

	// Burst is the throttle burst size (default: 5 when throttled).
	Burst int
}

// EmbeddingService generates embeddings using the Voyage AI API.
type EmbeddingService struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
	limiter *rate.Limiter
}

// embeddingRequest is the Voyage API request format.
type embeddingRequest struct {
	Input       []string `json:"input"`
	Model       string   `json:"model"`
	OutputDtype string   `json:"output_dtype"`
}

// embeddingResponse is the Voyage API response format.
type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService creates a new Voyage embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("voyage: %w: API key is required", domain.ErrCredentialMissing)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 5
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		limiter: limiter,
	}, nil
}

// Embed generates a vector embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("voyage: %w: empty text", domain.ErrInvalidInput)
	}

	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("voyage: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, splitting the
// input into API-sized batches and issuing them sequentially. Empty
// entries are dropped; results follow the order of the remaining texts.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	kept := make([]string, 0, len(texts))
	for _, t := range texts {
		if strings.TrimSpace(t) != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return nil, fmt.Errorf("voyage: %w: no texts to embed", domain.ErrInvalidInput)
	}

	embeddings := make([][]float32, 0, len(kept))
	for start := 0; start < len(kept); start += MaxBatchSize {
		end := start + MaxBatchSize
		if end > len(kept) {
			end = len(kept)
		}

		batch, err := s.embedOnce(ctx, kept[start:end])
		if err != nil {
			return nil, err
		}
		embeddings = append(embeddings, batch...)
	}

	return embeddings, nil
}

// embedOnce issues one embeddings request for at most MaxBatchSize texts.
func (s *EmbeddingService) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("voyage: rate limit wait: %w", err)
		}
	}

	jsonBody, err := json.Marshal(embeddingRequest{
		Input:       texts,
		Model:       s.model,
		OutputDtype: "float",
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/embeddings",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	logger.Debug("Voyage request: %d texts, model %s", len(texts), s.model)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var embedResp embeddingResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &domain.ProviderError{
				Message:    string(body),
				StatusCode: resp.StatusCode,
			}
		}
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if embedResp.Error != nil {
		return nil, &domain.ProviderError{
			Message:    embedResp.Error.Message,
			Code:       embedResp.Error.Code,
			StatusCode: resp.StatusCode,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{
			Message:    string(body),
			StatusCode: resp.StatusCode,
		}
	}

	logger.Debug("Voyage response: %d vectors, %d tokens", len(embedResp.Data), embedResp.Usage.TotalTokens)

	// Convert float64 to float32, ordered by response index.
	embeddings := make([][]float32, len(texts))
	for _, data := range embedResp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("voyage: response index %d out of range", data.Index)
		}
		vec := make([]float32, len(data.Embedding))
		for i, v := range data.Embedding {
			vec[i] = float32(v)
		}
		embeddings[data.Index] = vec
	}

	for i, vec := range embeddings {
		if vec == nil {
			return nil, fmt.Errorf("voyage: missing embedding for input %d", i)
		}
	}

	return embeddings, nil
}

// Dimensions returns the embedding vector size for the configured model.
func (s *EmbeddingService) Dimensions() int {
	if d, ok := modelDimensions[s.model]; ok {
		return d
	}
	return 1024
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// TruncateToTokens shortens text to approximately maxTokens by the
// character-ratio heuristic. Text already within the budget is
// returned unchanged.
func TruncateToTokens(text string, maxTokens int) string {
	estimated := domain.EstimateTokens(text)
	if estimated <= maxTokens || maxTokens <= 0 {
		return text
	}

	keep := len(text) * maxTokens / estimated
	if keep >= len(text) {
		return text
	}
	return text[:keep]
}

// EstimateCost returns the approximate USD cost of embedding the texts
// with the given model. Unknown models price as voyage-3.
func EstimateCost(texts []string, model string) float64 {
	perMillion, ok := modelPricing[model]
	if !ok {
		perMillion = modelPricing[DefaultModel]
	}

	tokens := 0
	for _, t := range texts {
		tokens += domain.EstimateTokens(t)
	}

	return float64(tokens) / 1_000_000 * perMillion
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
