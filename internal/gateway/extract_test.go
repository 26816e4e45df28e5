package gateway

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_TypedAccessorBeatsCandidates(t *testing.T) {
	raw := []byte(`{
		"text": "from accessor",
		"candidates": [{"content": {"parts": [{"text": "from candidates"}]}}]
	}`)

	out, ok := extractReplyText(raw)
	require.True(t, ok)
	require.Equal(t, "from accessor", out)
}

func TestExtract_OutputArray(t *testing.T) {
	raw := []byte(`{"output": [{"content": [{"type": "image"}, {"text": "from output"}]}]}`)

	out, ok := extractReplyText(raw)
	require.True(t, ok)
	require.Equal(t, "from output", out)
}

func TestExtract_OutputBeatsCandidates(t *testing.T) {
	raw := []byte(`{
		"output": [{"content": [{"text": "from output"}]}],
		"candidates": [{"content": {"parts": [{"text": "from candidates"}]}}]
	}`)

	out, ok := extractReplyText(raw)
	require.True(t, ok)
	require.Equal(t, "from output", out)
}

func TestExtract_Candidates(t *testing.T) {
	raw := []byte(`{"candidates": [{"content": {"parts": [{"text": "Fuel at 87%."}]}}]}`)

	out, ok := extractReplyText(raw)
	require.True(t, ok)
	require.Equal(t, "Fuel at 87%.", out)
}

func TestExtract_CandidatesSweepOnOddNesting(t *testing.T) {
	// A shape the typed decoders do not know: text buried one level deeper.
	raw := []byte(`{"candidates": [{"message": {"chunks": [{"text": "swept up"}]}}]}`)

	out, ok := extractReplyText(raw)
	require.True(t, ok)
	require.Equal(t, "swept up", out)
}

func TestExtract_StringifiedFallbackIsBounded(t *testing.T) {
	big := strings.Repeat("x", 2*maxStringifiedReply)
	raw, err := json.Marshal(map[string]string{"verdict": big})
	require.NoError(t, err)

	out, ok := extractReplyText(raw)
	require.True(t, ok)
	require.LessOrEqual(t, len(out), maxStringifiedReply)
	require.Contains(t, out, "verdict")
}

func TestExtract_UnrecognizedShapes(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, `[]`, `not json at all`} {
		_, ok := extractReplyText([]byte(raw))
		require.False(t, ok, "payload %q must not extract", raw)
	}
}
