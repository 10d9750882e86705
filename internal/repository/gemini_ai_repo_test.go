package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"geodrive-insight/config"
	"geodrive-insight/internal/dto"
	"geodrive-insight/pkg/logger"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGeminiURL = "https://gemini.test/v1beta/models/gemini-test:generateContent"

func newTestGemini(t *testing.T) AIRepository {
	t.Helper()

	hc := &http.Client{}
	httpmock.ActivateNonDefault(hc)
	t.Cleanup(httpmock.DeactivateAndReset)

	repo, err := NewGeminiAIRepository(config.Gemini{
		APIKey:       "secret",
		BaseURL:      "https://gemini.test/v1beta/models",
		BaseModel:    "gemini-test",
		Timeout:      time.Second,
		PriceTimeout: time.Second,
	}, logger.NewNop(), WithGeminiHTTPClient(hc))
	require.NoError(t, err)
	return repo
}

func geminiResponder(t *testing.T, text string) httpmock.Responder {
	t.Helper()
	resp := dto.GeminiAPIResponse{
		Candidates: []dto.Candidate{{Content: dto.Content{Role: "model", Parts: []dto.Part{{Text: text}}}}},
	}
	responder, err := httpmock.NewJsonResponder(http.StatusOK, resp)
	require.NoError(t, err)
	return responder
}

func TestGeminiAIRepository_ClassifySentiment(t *testing.T) {
	repo := newTestGemini(t)

	var sent dto.GeminiAPIRequest
	httpmock.RegisterResponder(http.MethodPost, testGeminiURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "secret", req.URL.Query().Get("key"))
		require.NoError(t, json.NewDecoder(req.Body).Decode(&sent))
		return geminiResponder(t, "```json\n{\"sentiment\":\"positive\"}\n```")(req)
	})

	raw, err := repo.ClassifySentiment(context.Background(), "Creta mileage is great in Pune")

	require.NoError(t, err)
	assert.Contains(t, raw, `"sentiment":"positive"`)
	require.Len(t, sent.Contents, 1)
	assert.Contains(t, sent.Contents[0].Parts[0].Text, "Creta mileage is great in Pune")
	assert.Contains(t, sent.Contents[0].Parts[0].Text, `"mileage" | "engine"`)
	assert.Contains(t, sent.Contents[0].Parts[0].Text, `| "other"`)
	assert.NotContains(t, sent.Contents[0].Parts[0].Text, `["mileage"`)
	require.NotNil(t, sent.GenerationConfig)
	assert.Equal(t, "application/json", sent.GenerationConfig.ResponseMimeType)
}

func TestGeminiAIRepository_ClassifySentiment_Errors(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
		wantErr   error
	}{
		{
			name:      "non-2xx",
			responder: httpmock.NewStringResponder(http.StatusTooManyRequests, `{"error":"quota"}`),
			wantErr:   ErrOracleUnavailable,
		},
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, "boom"),
			wantErr:   ErrOracleUnavailable,
		},
		{
			name:      "transport error",
			responder: httpmock.NewErrorResponder(assert.AnError),
			wantErr:   ErrOracleUnavailable,
		},
		{
			name:      "no candidates",
			responder: httpmock.NewStringResponder(http.StatusOK, `{"candidates":[]}`).HeaderSet(http.Header{"Content-Type": {"application/json"}}),
			wantErr:   ErrOracleEmptyResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newTestGemini(t)
			httpmock.RegisterResponder(http.MethodPost, testGeminiURL, tt.responder)

			raw, err := repo.ClassifySentiment(context.Background(), "anything")

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, raw)
		})
	}
}

func TestGeminiAIRepository_LookupPrice(t *testing.T) {
	repo := newTestGemini(t)
	httpmock.RegisterResponder(http.MethodPost, testGeminiURL, func(req *http.Request) (*http.Response, error) {
		var body dto.GeminiAPIRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.True(t, strings.Contains(body.Contents[0].Parts[0].Text, `"Hyundai Creta"`))
		return geminiResponder(t, "11.0 lakh")(req)
	})

	raw, err := repo.LookupPrice(context.Background(), "Hyundai Creta")

	require.NoError(t, err)
	assert.Equal(t, "11.0 lakh", raw)
}

func TestGeminiAIRepository_LookupPrice_EmptyModel(t *testing.T) {
	repo := newTestGemini(t)

	_, err := repo.LookupPrice(context.Background(), "  ")

	assert.ErrorIs(t, err, ErrOracleEmptyResponse)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}
