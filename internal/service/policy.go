package service

import (
	"concierge/internal/model"
	"fmt"
)

// Confidence thresholds for escalation-capable intents. Safe intents
// ignore them entirely.
const (
	HighConfidence   = 0.7
	MediumConfidence = 0.4
)

// safeIntents are always answered from the knowledge base and never
// escalated to the AI provider, whatever their confidence. This is the
// pipeline's core safety invariant.
var safeIntents = map[string]bool{
	"greeting":     true,
	"identity":     true,
	"purpose":      true,
	"farewell":     true,
	"help":         true,
	"capabilities": true,
}

// IsSafeIntent reports whether an intent is policy-marked safe.
func IsSafeIntent(name string) bool {
	return safeIntents[name]
}

// RoutingService decides between answering from the knowledge base and
// escalating to the AI provider.
type RoutingService struct{}

// NewRoutingService creates a new routing service
func NewRoutingService() *RoutingService {
	return &RoutingService{}
}

// Route maps a detection result onto a strategy. The cases are evaluated
// in order: an unknown intent escalates, a safe intent stays on the
// knowledge base unconditionally, and anything else escalates only when
// its confidence falls below the medium threshold. Every detection result
// is routable; Route never fails.
func (s *RoutingService) Route(detection model.DetectionResult) model.RoutingDecision {
	decision := model.RoutingDecision{
		DetectionResult: detection,
		ConfidenceLevel: LevelFor(detection.Confidence),
		IsSafeIntent:    IsSafeIntent(detection.Intent),
	}

	switch {
	case detection.Intent == model.IntentUnknown:
		decision.Strategy = model.StrategyAIFallback
		decision.ShouldUseAI = true
		decision.RoutingExplanation = "no known intent matched, so the message is escalated to the AI model"

	case decision.IsSafeIntent:
		decision.Strategy = model.StrategyKnowledgeBase
		decision.RoutingExplanation = fmt.Sprintf(
			"%q is a safe intent and is always answered from the knowledge base (confidence %.2f)",
			detection.Intent, detection.Confidence)

	case detection.Confidence >= MediumConfidence:
		decision.Strategy = model.StrategyKnowledgeBase
		decision.RoutingExplanation = fmt.Sprintf(
			"%q scored %.2f (%s), enough to answer from the knowledge base",
			detection.Intent, detection.Confidence, decision.ConfidenceLevel)

	default:
		decision.Strategy = model.StrategyAIFallback
		decision.ShouldUseAI = true
		decision.RoutingExplanation = fmt.Sprintf(
			"%q scored only %.2f (%s), below the %.2f threshold, so the message is escalated to the AI model",
			detection.Intent, detection.Confidence, decision.ConfidenceLevel, MediumConfidence)
	}

	return decision
}

// LevelFor buckets a numeric confidence for display. It is informational
// only and never drives routing for safe intents.
func LevelFor(confidence float64) model.ConfidenceLevel {
	switch {
	case confidence >= HighConfidence:
		return model.ConfidenceHigh
	case confidence >= MediumConfidence:
		return model.ConfidenceMedium
	default:
		return model.ConfidenceLow
	}
}
