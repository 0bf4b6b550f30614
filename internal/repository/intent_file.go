package repository

import (
	"concierge/internal/model"
	"encoding/json"
	"fmt"
	"os"
)

// LoadKnowledgeBaseFile reads and validates a knowledge base from a JSON
// file. Intent positions are assigned from array order, which is the order
// scoring ties break on.
func LoadKnowledgeBaseFile(path string) (*model.KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var kb model.KnowledgeBase
	if err := json.Unmarshal(data, &kb); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	for i := range kb.Intents {
		kb.Intents[i].Position = i
	}

	if err := kb.Validate(); err != nil {
		return nil, fmt.Errorf("invalid knowledge base: %w", err)
	}
	return &kb, nil
}
