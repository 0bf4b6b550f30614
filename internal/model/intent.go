package model

import (
	"errors"
	"fmt"
	"hash/fnv"
)

// Intent is a named category of user request: literal substrings to look
// for in a message, and canned replies to answer with. Patterns are plain
// substrings, not regular expressions.
type Intent struct {
	Name      string   `json:"name" bson:"name"`
	Patterns  []string `json:"patterns" bson:"patterns"`
	Responses []string `json:"responses" bson:"responses"`
	Position  int      `json:"-" bson:"position"` // load order; scoring ties break to the lowest
}

// KnowledgeBase is the full intent catalog plus the fallback reply pool.
// It is loaded once at startup and read-only afterwards, so any number of
// requests can score against it concurrently.
type KnowledgeBase struct {
	Intents           []Intent `json:"intents" bson:"-"`
	FallbackResponses []string `json:"fallbackResponses" bson:"fallbackResponses"`
}

var ErrNoIntents = errors.New("knowledge base has no intents")

// Validate checks the invariants the pipeline relies on: at least one
// intent, and unique non-empty intent names.
func (kb *KnowledgeBase) Validate() error {
	if len(kb.Intents) == 0 {
		return ErrNoIntents
	}
	seen := make(map[string]bool, len(kb.Intents))
	for _, intent := range kb.Intents {
		if intent.Name == "" {
			return errors.New("intent with empty name")
		}
		if seen[intent.Name] {
			return fmt.Errorf("duplicate intent name %q", intent.Name)
		}
		seen[intent.Name] = true
	}
	return nil
}

// Find returns the intent with the given name, or nil if it is not known.
func (kb *KnowledgeBase) Find(name string) *Intent {
	for i := range kb.Intents {
		if kb.Intents[i].Name == name {
			return &kb.Intents[i]
		}
	}
	return nil
}

// Fingerprint identifies this knowledge base's contents, so cached
// detection results from an older catalog are never served against a
// newer one.
func (kb *KnowledgeBase) Fingerprint() string {
	h := fnv.New32a()
	for _, intent := range kb.Intents {
		h.Write([]byte(intent.Name))
		h.Write([]byte{0})
		for _, p := range intent.Patterns {
			h.Write([]byte(p))
			h.Write([]byte{0})
		}
	}
	return fmt.Sprintf("%d-%08x", len(kb.Intents), h.Sum32())
}
