package service

import (
	"concierge/internal/cache"
	"concierge/internal/model"
	"context"
	"fmt"
	"log"
	"strings"
)

// DetectorService scores every known intent against a normalized message
// using pattern-ratio scoring: the fraction of an intent's patterns found
// in the text.
//
// Matching is raw substring containment with no word-boundary check, so a
// short pattern can match inside an unrelated word ("hi" inside "this").
// Known limitation, kept as-is: every confidence value and routing
// threshold downstream is calibrated against it.
type DetectorService struct {
	kb    *model.KnowledgeBase
	cache cache.DetectionCache
}

// NewDetectorService creates a new detector over a loaded knowledge base
func NewDetectorService(kb *model.KnowledgeBase) *DetectorService {
	return &DetectorService{kb: kb}
}

// SetCache enables read-through memoization of detection results
func (s *DetectorService) SetCache(c cache.DetectionCache) {
	s.cache = c
}

// Detect scores the message against every intent and selects the strictly
// highest score; ties keep the earlier intent in knowledge-base order. If
// nothing matches, the intent is the "unknown" sentinel at confidence 0.
// Detect never fails: a miss is a normal outcome.
func (s *DetectorService) Detect(ctx context.Context, normalized string) model.DetectionResult {
	var cacheKey string
	if s.cache != nil {
		cacheKey = s.kb.Fingerprint() + ":" + normalized
		if cached, err := s.cache.Get(ctx, cacheKey); err == nil && cached != nil {
			return *cached
		}
	}

	result := s.score(normalized)

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, &result); err != nil {
			log.Printf("detection cache write failed: %v", err)
		}
	}
	return result
}

func (s *DetectorService) score(normalized string) model.DetectionResult {
	result := model.DetectionResult{
		Intent:          model.IntentUnknown,
		MatchedPatterns: []string{},
		AllScores:       make(map[string]float64, len(s.kb.Intents)),
	}

	for i := range s.kb.Intents {
		score := scoreIntent(normalized, &s.kb.Intents[i])
		result.AllScores[score.Name] = score.Confidence

		// Strictly greater: a tie keeps the earlier intent, and a zero
		// score can never displace the unknown sentinel.
		if score.Confidence > result.Confidence {
			result.Intent = score.Name
			result.Confidence = score.Confidence
			result.MatchedPatterns = score.MatchedPatterns
		}
	}

	if result.Intent == model.IntentUnknown {
		result.Explanation = "no patterns matched any known intent"
	} else {
		result.Explanation = fmt.Sprintf("matched %q via patterns: %s",
			result.Intent, strings.Join(result.MatchedPatterns, ", "))
	}
	return result
}

// scoreIntent computes the fraction of the intent's patterns contained in
// the message. An intent with no patterns scores 0 rather than dividing by
// zero.
func scoreIntent(normalized string, intent *model.Intent) model.ScoreResult {
	score := model.ScoreResult{
		Name:            intent.Name,
		MatchedPatterns: []string{},
	}
	if len(intent.Patterns) == 0 {
		return score
	}

	for _, p := range intent.Patterns {
		if p != "" && strings.Contains(normalized, p) {
			score.MatchedPatterns = append(score.MatchedPatterns, p)
		}
	}
	score.Confidence = float64(len(score.MatchedPatterns)) / float64(len(intent.Patterns))
	return score
}
