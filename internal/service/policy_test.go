package service

import (
	"concierge/internal/model"
	"strings"
	"testing"
)

func detection(intent string, confidence float64) model.DetectionResult {
	return model.DetectionResult{
		Intent:          intent,
		Confidence:      confidence,
		MatchedPatterns: []string{},
		AllScores:       map[string]float64{intent: confidence},
	}
}

func TestRoute(t *testing.T) {
	router := NewRoutingService()

	tests := []struct {
		name            string
		intent          string
		confidence      float64
		wantStrategy    model.Strategy
		wantShouldUseAI bool
	}{
		{
			name:            "unknown escalates",
			intent:          model.IntentUnknown,
			confidence:      0,
			wantStrategy:    model.StrategyAIFallback,
			wantShouldUseAI: true,
		},
		{
			name:            "escalation-capable above medium stays on knowledge base",
			intent:          "pricing",
			confidence:      0.5,
			wantStrategy:    model.StrategyKnowledgeBase,
			wantShouldUseAI: false,
		},
		{
			name:            "escalation-capable at exactly medium stays on knowledge base",
			intent:          "pricing",
			confidence:      0.4,
			wantStrategy:    model.StrategyKnowledgeBase,
			wantShouldUseAI: false,
		},
		{
			name:            "escalation-capable below medium escalates",
			intent:          "pricing",
			confidence:      0.3,
			wantStrategy:    model.StrategyAIFallback,
			wantShouldUseAI: true,
		},
		{
			name:            "safe intent at low confidence stays on knowledge base",
			intent:          "greeting",
			confidence:      0.1,
			wantStrategy:    model.StrategyKnowledgeBase,
			wantShouldUseAI: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := router.Route(detection(tt.intent, tt.confidence))

			if got.Strategy != tt.wantStrategy {
				t.Errorf("Route(%q, %v).Strategy = %q, want %q", tt.intent, tt.confidence, got.Strategy, tt.wantStrategy)
			}
			if got.ShouldUseAI != tt.wantShouldUseAI {
				t.Errorf("Route(%q, %v).ShouldUseAI = %v, want %v", tt.intent, tt.confidence, got.ShouldUseAI, tt.wantShouldUseAI)
			}
			if got.RoutingExplanation == "" {
				t.Error("RoutingExplanation is empty")
			}
		})
	}
}

func TestRouteSafeIntentsNeverEscalate(t *testing.T) {
	router := NewRoutingService()

	safe := []string{"greeting", "identity", "purpose", "farewell", "help", "capabilities"}
	confidences := []float64{0, 0.01, 0.39, 0.5, 1.0}

	for _, intent := range safe {
		for _, confidence := range confidences {
			got := router.Route(detection(intent, confidence))
			if got.Strategy != model.StrategyKnowledgeBase {
				t.Errorf("Route(%q, %v).Strategy = %q, safe intents must stay on the knowledge base",
					intent, confidence, got.Strategy)
			}
			if got.ShouldUseAI {
				t.Errorf("Route(%q, %v).ShouldUseAI = true, want false", intent, confidence)
			}
			if !got.IsSafeIntent {
				t.Errorf("Route(%q, %v).IsSafeIntent = false, want true", intent, confidence)
			}
		}
	}
}

func TestRouteExplanationNamesIntent(t *testing.T) {
	router := NewRoutingService()

	got := router.Route(detection("pricing", 0.3))
	if !strings.Contains(got.RoutingExplanation, "pricing") {
		t.Errorf("RoutingExplanation %q does not name the intent", got.RoutingExplanation)
	}
}

func TestLevelFor(t *testing.T) {
	tests := []struct {
		confidence float64
		want       model.ConfidenceLevel
	}{
		{1.0, model.ConfidenceHigh},
		{0.7, model.ConfidenceHigh},
		{0.69, model.ConfidenceMedium},
		{0.4, model.ConfidenceMedium},
		{0.39, model.ConfidenceLow},
		{0, model.ConfidenceLow},
	}

	for _, tt := range tests {
		if got := LevelFor(tt.confidence); got != tt.want {
			t.Errorf("LevelFor(%v) = %q, want %q", tt.confidence, got, tt.want)
		}
	}
}
