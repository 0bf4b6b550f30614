package model

import "time"

// IntentUnknown is the sentinel detection result when no pattern matched.
const IntentUnknown = "unknown"

// Strategy is the chosen response-generation path.
type Strategy string

const (
	StrategyKnowledgeBase Strategy = "knowledge_base"
	StrategyAIFallback    Strategy = "ai_fallback"
)

// ConfidenceLevel buckets a numeric confidence for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ResponseSource records where the reply text came from.
type ResponseSource string

const (
	SourceKnowledgeBase   ResponseSource = "knowledge_base"
	SourceAI              ResponseSource = "ai"
	SourceAIErrorFallback ResponseSource = "ai_error_fallback"
	SourceErrorFallback   ResponseSource = "error_fallback"
	SourceError           ResponseSource = "error"
)

// ChatRequest is the inbound request body. Message is deliberately untyped:
// whatever JSON value arrives, the normalizer coerces it to text.
type ChatRequest struct {
	Message any `json:"message"`
}

// NormalizedInput carries both forms of the user's message. Matching always
// uses Normalized; Original is kept for display and for the AI provider.
type NormalizedInput struct {
	Original   string `json:"original"`
	Normalized string `json:"normalized"`
}

// ScoreResult is one intent's score against a message.
type ScoreResult struct {
	Name            string   `json:"name"`
	Confidence      float64  `json:"confidence"`
	MatchedPatterns []string `json:"matchedPatterns"`
}

// DetectionResult is the scorer's verdict over the whole knowledge base.
type DetectionResult struct {
	Intent          string             `json:"intent"`
	Confidence      float64            `json:"confidence"`
	MatchedPatterns []string           `json:"matchedPatterns"`
	AllScores       map[string]float64 `json:"allScores"`
	Explanation     string             `json:"explanation"`
}

// RoutingDecision is a detection result plus the policy outcome.
type RoutingDecision struct {
	DetectionResult
	Strategy           Strategy        `json:"strategy"`
	ConfidenceLevel    ConfidenceLevel `json:"confidenceLevel"`
	IsSafeIntent       bool            `json:"isSafeIntent"`
	ShouldUseAI        bool            `json:"shouldUseAI"`
	RoutingExplanation string          `json:"routingExplanation"`
}

// AIContext is the routing context handed to the AI provider alongside the
// user's original message.
type AIContext struct {
	Intent          string          `json:"intent"`
	Confidence      float64         `json:"confidence"`
	ConfidenceLevel ConfidenceLevel `json:"confidenceLevel"`
}

// AIResult is the provider's answer. Success false is a reported failure:
// Reply still carries the provider's own friendly fallback text, never an
// empty string.
type AIResult struct {
	Success  bool           `json:"success"`
	Reply    string         `json:"reply"`
	Source   string         `json:"source"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    string         `json:"error,omitempty"`
}

// ResponseMetadata is the audit section of the envelope.
type ResponseMetadata struct {
	Strategy       Strategy           `json:"strategy"`
	ResponseSource ResponseSource     `json:"responseSource"`
	ShouldUseAI    bool               `json:"shouldUseAI"`
	IsSafeIntent   bool               `json:"isSafeIntent"`
	AllScores      map[string]float64 `json:"allScores"`
	RequestID      string             `json:"requestId"`
	Timestamp      time.Time          `json:"timestamp"`
	AI             map[string]any     `json:"ai,omitempty"`
}

// ResponseEnvelope is the terminal artifact of the pipeline, returned to
// the caller for every request without exception.
type ResponseEnvelope struct {
	Reply           string           `json:"reply"`
	Intent          string           `json:"intent"`
	Confidence      float64          `json:"confidence"`
	ConfidenceLevel ConfidenceLevel  `json:"confidenceLevel"`
	Explanation     string           `json:"explanation"`
	MatchedPatterns []string         `json:"matchedPatterns"`
	Metadata        ResponseMetadata `json:"metadata"`
}
