package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kiyotox/starbridge/internal/config"
)

func TestGeminiGenerate_Success(t *testing.T) {
	var gotPath, gotKey string
	var gotBody geminiRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates": [{"content": {"parts": [{"text": "Shields holding."}]}}]}`))
	}))
	defer srv.Close()

	p := newGeminiProvider(config.LLMConfig{
		APIKey:  "secret-key",
		Model:   "gemini-1.5-flash",
		BaseURL: srv.URL,
	}, "system instruction")

	out, err := p.Generate(context.Background(), "shield status?")
	require.NoError(t, err)
	require.Equal(t, "Shields holding.", out)

	require.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)
	require.Equal(t, "secret-key", gotKey)
	require.NotNil(t, gotBody.SystemInstruction)
	require.Len(t, gotBody.Contents, 1)
	require.Equal(t, "shield status?", gotBody.Contents[0].Parts[0].Text)
}

func TestGeminiGenerate_VendorError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "API key not valid"}}`, http.StatusForbidden)
	}))
	defer srv.Close()

	p := newGeminiProvider(config.LLMConfig{APIKey: "bad", Model: "m", BaseURL: srv.URL}, "")

	_, err := p.Generate(context.Background(), "hello")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestGeminiGenerate_UnrecognizedShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	p := newGeminiProvider(config.LLMConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, "")

	_, err := p.Generate(context.Background(), "hello")
	require.ErrorIs(t, err, ErrUnexpectedShape)
}

func TestGeminiGenerate_ConnectionRefused(t *testing.T) {
	// Server closed before the call: transport error, not a shape error.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	p := newGeminiProvider(config.LLMConfig{APIKey: "k", Model: "m", BaseURL: srv.URL}, "")

	_, err := p.Generate(context.Background(), "hello")
	require.ErrorIs(t, err, ErrUnavailable)
}
