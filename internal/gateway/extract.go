package gateway

import (
	"bytes"
	"encoding/json"
)

// maxStringifiedReply caps the last-resort stringified fallback so a huge
// unrecognized payload never reaches the client whole.
const maxStringifiedReply = 4096

// extractReplyText pulls reply text out of a vendor response body. Vendor
// SDK versions disagree on the response shape, so each known variant is
// attempted in a fixed priority order:
//
//  1. a top-level text field (the SDK's typed accessor),
//  2. an output[] array of content pieces,
//  3. candidates[].content.parts[].text, then a generic sweep of the
//     candidates subtree for any text leaf,
//  4. a bounded stringified rendering of the whole payload.
//
// Returns false only when every variant fails, which callers classify as
// an unrecognized shape.
func extractReplyText(raw []byte) (string, bool) {
	var accessor struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &accessor); err == nil && accessor.Text != "" {
		return accessor.Text, true
	}

	var output struct {
		Output []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &output); err == nil {
		for _, item := range output.Output {
			for _, piece := range item.Content {
				if piece.Text != "" {
					return piece.Text, true
				}
			}
		}
	}

	var candidates struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &candidates); err == nil {
		for _, c := range candidates.Candidates {
			for _, p := range c.Content.Parts {
				if p.Text != "" {
					return p.Text, true
				}
			}
		}
	}

	var generic map[string]json.RawMessage
	if err := json.Unmarshal(raw, &generic); err != nil {
		return "", false
	}
	if cands, ok := generic["candidates"]; ok {
		if text := sweepForText(cands); text != "" {
			return text, true
		}
	}

	return stringifyBounded(raw)
}

// sweepForText walks an arbitrary JSON subtree looking for the first
// non-empty "text" string value.
func sweepForText(raw json.RawMessage) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if t, ok := obj["text"]; ok {
			var s string
			if json.Unmarshal(t, &s) == nil && s != "" {
				return s
			}
		}
		for _, v := range obj {
			if s := sweepForText(v); s != "" {
				return s
			}
		}
		return ""
	}

	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		for _, v := range arr {
			if s := sweepForText(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// stringifyBounded renders the payload itself as the reply, size-capped.
// Empty or contentless payloads do not qualify.
func stringifyBounded(raw []byte) (string, bool) {
	var compact bytes.Buffer
	if err := json.Compact(&compact, raw); err != nil {
		return "", false
	}
	s := compact.String()
	switch s {
	case "", "{}", "[]", "null":
		return "", false
	}
	if len(s) > maxStringifiedReply {
		s = s[:maxStringifiedReply]
	}
	return s, true
}
