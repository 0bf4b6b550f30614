package service

import (
	"concierge/internal/model"
	"fmt"
	"strings"
)

// Normalizer canonicalizes raw input for pattern matching.
type Normalizer struct{}

// NewNormalizer creates a new normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize coerces raw to text, lowercases it, strips surrounding
// whitespace, and collapses inner whitespace runs to single spaces. It
// never fails: non-string input is stringified. The coerced original is
// kept for display and for the AI provider; matching always uses the
// normalized form.
func (n *Normalizer) Normalize(raw any) model.NormalizedInput {
	original, ok := raw.(string)
	if !ok {
		original = fmt.Sprintf("%v", raw)
	}
	normalized := strings.Join(strings.Fields(strings.ToLower(original)), " ")
	return model.NormalizedInput{
		Original:   original,
		Normalized: normalized,
	}
}
