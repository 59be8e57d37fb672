// Package service implements the flow generation and normalization pipeline:
// raw text or screenshots in, repaired and validated features out.
package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/flowforge-labs/flowforge-backend/internal/flows/domain"
	"github.com/flowforge-labs/flowforge-backend/internal/flows/llm"
)

// Completer is the completion upstream. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, system string, content []llm.ContentBlock) (*llm.CompletionResponse, error)
}

type Generator struct {
	client Completer
}

func NewGenerator(client Completer) *Generator {
	return &Generator{client: client}
}

// Generate runs the whole pipeline for one request. It is pure and stateless:
// all-or-nothing, no partial results, no automatic retry.
func (g *Generator) Generate(ctx context.Context, in GenerateInput) ([]domain.Feature, error) {
	content, err := buildContent(in)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Complete(ctx, systemPrompt, content)
	if err != nil {
		return nil, err
	}

	raw := resp.JoinText()
	if raw == "" {
		return nil, ErrEmptyResponse
	}

	features, err := parseFeatures(raw)
	if err != nil {
		return nil, err
	}

	return domain.Normalize(features), nil
}

// parseFeatures turns the model's candidate JSON into features. The response
// is untrusted input: fences are stripped, the payload may be wrapped in an
// object, and an empty result is an error.
func parseFeatures(raw string) ([]domain.Feature, error) {
	clean := stripFences(raw)

	var parsed any
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	payload, ok := coerceArray(parsed)
	if !ok {
		return nil, &InvalidResponseShapeError{Reason: "expected a JSON array of features"}
	}
	if len(payload) == 0 {
		return nil, &InvalidResponseShapeError{Reason: "expected a non-empty array of features"}
	}

	// Round-trip through JSON to get typed features out of the coerced value.
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}
	var features []domain.Feature
	if err := json.Unmarshal(b, &features); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	return features, nil
}

// stripFences removes Markdown code-fence markers the model may have added
// despite instructions.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// coerceArray accepts a bare array, an object with a "features" or "data"
// key, or an object whose first array-valued property is the payload.
func coerceArray(parsed any) ([]any, bool) {
	if arr, ok := parsed.([]any); ok {
		return arr, true
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, false
	}

	for _, key := range []string{"features", "data"} {
		if arr, ok := obj[key].([]any); ok {
			return arr, true
		}
	}

	for _, v := range obj {
		if arr, ok := v.([]any); ok {
			return arr, true
		}
	}

	return nil, false
}
