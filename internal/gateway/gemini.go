package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/kiyotox/starbridge/internal/config"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com"

// geminiProvider calls the generative-language REST API directly. The
// credential travels in a request header, never in the URL, so it cannot
// end up in access logs.
type geminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	system  string
	client  *http.Client
}

func newGeminiProvider(cfg config.LLMConfig, system string) *geminiProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	return &geminiProvider{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: baseURL,
		system:  system,
		client:  &http.Client{Timeout: vendorTimeout},
	}
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
}

func (p *geminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
	}
	if p.system != "" {
		reqBody.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: p.system}}}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent", p.baseURL, url.PathEscape(p.model))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: vendor status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := readBounded(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	text, ok := extractReplyText(body)
	if !ok {
		return "", fmt.Errorf("%w: no text in vendor payload", ErrUnexpectedShape)
	}
	return text, nil
}

// maxVendorBody caps how much of a vendor response is held in memory.
const maxVendorBody = 4 << 20

func readBounded(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, maxVendorBody))
}
