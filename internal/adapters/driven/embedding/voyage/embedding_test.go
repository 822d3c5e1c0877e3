package voyage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftly-ai/ragcore/internal/core/domain"
)

// newTestServer returns a server that answers each text with a
// one-dimensional vector equal to the text's length, echoing the API's
// index-keyed response shape.
func newTestServer(t *testing.T, requests *[]embeddingRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req embeddingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "float", req.OutputDtype)
		if requests != nil {
			*requests = append(*requests, req)
		}

		type datum struct {
			Embedding []float64 `json:"embedding"`
			Index     int       `json:"index"`
		}
		data := make([]datum, len(req.Input))
		for i, text := range req.Input {
			data[i] = datum{Embedding: []float64{float64(len(text))}, Index: i}
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":`+mustJSON(t, data)+`,"usage":{"total_tokens":10}}`)
	}))
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func newTestService(t *testing.T, baseURL string) *EmbeddingService {
	t.Helper()
	svc, err := NewEmbeddingService(Config{APIKey: "test-key", BaseURL: baseURL})
	require.NoError(t, err)
	return svc
}

func TestNewEmbeddingService_RequiresAPIKey(t *testing.T) {
	_, err := NewEmbeddingService(Config{})
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, 1024, svc.Dimensions())
}

func TestEmbed_Single(t *testing.T) {
	server := newTestServer(t, nil)
	defer server.Close()

	svc := newTestService(t, server.URL)
	vec, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	require.Len(t, vec, 1)
	assert.Equal(t, float32(5), vec[0])
}

func TestEmbed_EmptyText(t *testing.T) {
	svc := newTestService(t, "http://unused")
	_, err := svc.Embed(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbedBatch_SplitsAtBatchLimit(t *testing.T) {
	var requests []embeddingRequest
	server := newTestServer(t, &requests)
	defer server.Close()

	texts := make([]string, 300)
	for i := range texts {
		texts[i] = strings.Repeat("x", i+1)
	}

	svc := newTestService(t, server.URL)
	vecs, err := svc.EmbedBatch(context.Background(), texts)

	require.NoError(t, err)
	require.Len(t, vecs, 300)

	// 300 texts split into 128 + 128 + 44.
	require.Len(t, requests, 3)
	assert.Len(t, requests[0].Input, 128)
	assert.Len(t, requests[1].Input, 128)
	assert.Len(t, requests[2].Input, 44)

	// Results preserve input order across sub-batches.
	for i, vec := range vecs {
		require.Len(t, vec, 1)
		assert.Equal(t, float32(i+1), vec[0])
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc := newTestService(t, "http://unused")

	_, err := svc.EmbedBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.EmbedBatch(context.Background(), []string{"", "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbedBatch_DropsEmptyEntries(t *testing.T) {
	var requests []embeddingRequest
	server := newTestServer(t, &requests)
	defer server.Close()

	svc := newTestService(t, server.URL)
	vecs, err := svc.EmbedBatch(context.Background(), []string{"ab", "", "abcd"})

	require.NoError(t, err)
	require.Len(t, vecs, 2)
	require.Len(t, requests, 1)
	assert.Equal(t, []string{"ab", "abcd"}, requests[0].Input)
}

func TestEmbedBatch_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":{"message":"rate limited","type":"rate_limit_error","code":"429"}}`)
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.EmbedBatch(context.Background(), []string{"hello"})

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, "rate limited", provErr.Message)
	assert.Equal(t, "429", provErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
}

func TestEmbedBatch_NonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "upstream unavailable")
	}))
	defer server.Close()

	svc := newTestService(t, server.URL)
	_, err := svc.EmbedBatch(context.Background(), []string{"hello"})

	var provErr *domain.ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusBadGateway, provErr.StatusCode)
	assert.Contains(t, provErr.Message, "upstream unavailable")
}

func TestTruncateToTokens(t *testing.T) {
	text := strings.Repeat("x", 100) // 25 estimated tokens

	assert.Equal(t, text, TruncateToTokens(text, 25))
	assert.Equal(t, text, TruncateToTokens(text, 100))

	truncated := TruncateToTokens(text, 10)
	assert.Len(t, truncated, 40)
}

func TestEstimateCost(t *testing.T) {
	text := strings.Repeat("x", 400) // 100 tokens

	assert.InDelta(t, 100.0/1_000_000*0.06, EstimateCost([]string{text}, "voyage-3"), 1e-12)
	assert.InDelta(t, 100.0/1_000_000*0.02, EstimateCost([]string{text}, "voyage-3-lite"), 1e-12)
	// Unknown models price as the default.
	assert.InDelta(t, 100.0/1_000_000*0.06, EstimateCost([]string{text}, "mystery"), 1e-12)
}
