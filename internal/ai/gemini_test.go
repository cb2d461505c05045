package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiClient_GenerateReply(t *testing.T) {
	var gotPath string
	var gotBody generateContentRequest

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{"content": map[string]interface{}{
					"role":  "model",
					"parts": []map[string]string{{"text": "Stay hydrated."}},
				}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer upstream.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", upstream.URL)

	reply, err := client.GenerateReply(context.Background(), Request{Message: "I have a fever"})
	require.NoError(t, err)
	assert.Equal(t, "Stay hydrated.", reply)

	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)
	require.Len(t, gotBody.Contents, 1)
	assert.Equal(t, "user", gotBody.Contents[0].Role)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	assert.Equal(t, "I have a fever", gotBody.Contents[0].Parts[0].Text)
	require.NotNil(t, gotBody.SystemInstruction, "Системная инструкция должна уходить с каждым запросом")
}

func TestGeminiClient_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{"code": 429, "message": "quota exceeded"},
		})
	}))
	defer upstream.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", upstream.URL)

	_, err := client.GenerateReply(context.Background(), Request{Message: "Hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestGeminiClient_NoCandidates(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"candidates": []interface{}{}})
	}))
	defer upstream.Close()

	client := NewGeminiClient("test-key", "gemini-1.5-flash", upstream.URL)

	_, err := client.GenerateReply(context.Background(), Request{Message: "Hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiClient_MissingAPIKey(t *testing.T) {
	client := NewGeminiClient("", "gemini-1.5-flash", "")

	_, err := client.GenerateReply(context.Background(), Request{Message: "Hello"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
