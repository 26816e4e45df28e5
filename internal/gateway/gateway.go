// Package gateway wraps the generative-model vendor call. It isolates all
// vendor-specific response parsing and classifies every failure into one of
// a small set of sentinel errors; raw vendor errors are logged here and
// never cross the package boundary.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kiyotox/starbridge/internal/config"
	"github.com/kiyotox/starbridge/internal/knowledge"
	"github.com/kiyotox/starbridge/internal/logger"
)

// Classified failures. The relay maps these to HTTP statuses; callers must
// compare with errors.Is rather than string matching.
var (
	ErrEmptyPrompt       = errors.New("prompt must not be empty")
	ErrMissingCredential = errors.New("model credential is not configured")
	ErrUnavailable       = errors.New("model vendor is unavailable")
	ErrUnexpectedShape   = errors.New("model vendor returned an unrecognized response shape")
)

// vendorTimeout bounds a single vendor call. One call is one attempt; no
// retries are performed here.
const vendorTimeout = 30 * time.Second

// Provider turns a prompt into reply text. Implementations return errors
// wrapping the sentinels above.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Gateway validates preconditions, applies the call timeout and reduces
// provider failures to their classified sentinel.
type Gateway struct {
	provider Provider
	needsKey bool
	hasKey   bool
	timeout  time.Duration
}

// New builds a Gateway for the configured provider. The grounding dataset
// is rendered once into the system instruction.
func New(cfg config.LLMConfig, base knowledge.Base) (*Gateway, error) {
	system := knowledge.SystemPrompt(base)

	g := &Gateway{
		needsKey: true,
		hasKey:   cfg.HasCredential(),
		timeout:  vendorTimeout,
	}

	switch cfg.Provider {
	case "", "gemini":
		g.provider = newGeminiProvider(cfg, system)
	case "openai":
		g.provider = newOpenAIProvider(cfg, system)
	case "mock":
		g.provider = mockProvider{}
		g.needsKey = false
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}

	if g.needsKey && !g.hasKey {
		logger.L.Warn("model credential not configured; chat requests will fail until GEMINI_API_KEY is set")
	}
	return g, nil
}

// Send relays one prompt to the vendor and returns the extracted reply
// text. The reply is non-empty on success.
func (g *Gateway) Send(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	// Fail fast before any network I/O.
	if g.needsKey && !g.hasKey {
		return "", ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	text, err := g.provider.Generate(ctx, prompt)
	if err != nil {
		return "", classify(err)
	}
	if text == "" {
		return "", ErrUnexpectedShape
	}
	return text, nil
}

// classify logs the raw vendor error and returns its stable sentinel.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrMissingCredential):
		return ErrMissingCredential
	case errors.Is(err, ErrUnexpectedShape):
		logger.L.Error("vendor response shape not recognized", "error", err)
		return ErrUnexpectedShape
	case errors.Is(err, ErrUnavailable), errors.Is(err, context.DeadlineExceeded):
		logger.L.Error("vendor call failed", "error", err)
		return ErrUnavailable
	default:
		logger.L.Error("vendor call failed with unclassified error", "error", err)
		return ErrUnavailable
	}
}

// mockProvider echoes a canned reply; used for local development without a
// credential.
type mockProvider struct{}

func (mockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return "[mock] acknowledged: " + prompt, nil
}
