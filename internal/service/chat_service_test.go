package service

import (
	"concierge/internal/model"
	"context"
	"errors"
	"strings"
	"testing"
)

type stubAI struct {
	result  *model.AIResult
	err     error
	panics  bool
	called  bool
	lastCtx model.AIContext
}

func (s *stubAI) Call(ctx context.Context, message string, aiCtx model.AIContext) (*model.AIResult, error) {
	s.called = true
	s.lastCtx = aiCtx
	if s.panics {
		panic("provider exploded")
	}
	return s.result, s.err
}

func chatKB() *model.KnowledgeBase {
	return &model.KnowledgeBase{
		Intents: []model.Intent{
			{Name: "greeting", Patterns: []string{"hello", "hi", "hey"}, Responses: []string{"Hello!", "Hi there!"}},
			{Name: "help", Patterns: []string{"help"}, Responses: []string{}},
			{Name: "pricing", Patterns: []string{"price", "cost"}, Responses: []string{"It costs $12."}},
		},
		FallbackResponses: []string{"Sorry, I came up empty."},
	}
}

func newTestChatService(kb *model.KnowledgeBase, ai AICollaborator) *ChatService {
	svc := NewChatService(kb, NewDetectorService(kb), NewRoutingService(), ai)
	svc.SetPicker(func(n int) int { return 0 })
	return svc
}

func TestChatSafeIntentAnsweredFromKnowledgeBase(t *testing.T) {
	ai := &stubAI{}
	svc := newTestChatService(chatKB(), ai)

	got := svc.Chat(context.Background(), "Hello there")

	if got.Intent != "greeting" {
		t.Errorf("Intent = %q, want %q", got.Intent, "greeting")
	}
	if got.Reply != "Hello!" {
		t.Errorf("Reply = %q, want the first greeting response", got.Reply)
	}
	if got.Metadata.Strategy != model.StrategyKnowledgeBase {
		t.Errorf("Strategy = %q, want %q", got.Metadata.Strategy, model.StrategyKnowledgeBase)
	}
	if got.Metadata.ResponseSource != model.SourceKnowledgeBase {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceKnowledgeBase)
	}
	if got.ConfidenceLevel != model.ConfidenceLow {
		t.Errorf("ConfidenceLevel = %q, want %q", got.ConfidenceLevel, model.ConfidenceLow)
	}
	if len(got.MatchedPatterns) != 1 || got.MatchedPatterns[0] != "hello" {
		t.Errorf("MatchedPatterns = %v, want [hello]", got.MatchedPatterns)
	}
	if ai.called {
		t.Error("AI provider was called for a safe intent")
	}
	if !strings.Contains(got.Explanation, "safe intent") {
		t.Errorf("Explanation %q should note the safe-intent override at low confidence", got.Explanation)
	}
	if got.Metadata.RequestID == "" {
		t.Error("RequestID is empty")
	}
	if got.Metadata.Timestamp.IsZero() {
		t.Error("Timestamp is zero")
	}
	if len(got.Metadata.AllScores) == 0 {
		t.Error("AllScores is empty")
	}
}

func TestChatUnknownEscalatesToAI(t *testing.T) {
	ai := &stubAI{
		result: &model.AIResult{
			Success:  true,
			Reply:    "Here is a generated answer.",
			Source:   "gemini",
			Metadata: map[string]any{"model": "gemini-2.0-flash"},
		},
	}
	svc := newTestChatService(chatKB(), ai)

	got := svc.Chat(context.Background(), "asdkjasd")

	if got.Intent != model.IntentUnknown {
		t.Errorf("Intent = %q, want %q", got.Intent, model.IntentUnknown)
	}
	if got.Confidence != 0 {
		t.Errorf("Confidence = %v, want 0", got.Confidence)
	}
	if got.Metadata.Strategy != model.StrategyAIFallback {
		t.Errorf("Strategy = %q, want %q", got.Metadata.Strategy, model.StrategyAIFallback)
	}
	if got.Metadata.ResponseSource != model.SourceAI {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceAI)
	}
	if got.Reply != "Here is a generated answer." {
		t.Errorf("Reply = %q, want the AI reply", got.Reply)
	}
	if got.Metadata.AI == nil {
		t.Error("AI metadata missing from the envelope")
	}
	if !ai.called {
		t.Fatal("AI provider was not called")
	}
	if ai.lastCtx.Intent != model.IntentUnknown {
		t.Errorf("AI context intent = %q, want %q", ai.lastCtx.Intent, model.IntentUnknown)
	}
}

func TestChatAIReportedFailure(t *testing.T) {
	ai := &stubAI{
		result: &model.AIResult{
			Success:  false,
			Reply:    "I can't reach my model right now.",
			Source:   "gemini",
			Error:    "missing credentials",
			Metadata: map[string]any{"model": "gemini-2.0-flash"},
		},
	}
	svc := newTestChatService(chatKB(), ai)

	got := svc.Chat(context.Background(), "qwertyuiop")

	if got.Metadata.ResponseSource != model.SourceAIErrorFallback {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceAIErrorFallback)
	}
	if got.Reply != "I can't reach my model right now." {
		t.Errorf("Reply = %q, want the provider's own fallback text", got.Reply)
	}
	if got.Reply == "" {
		t.Error("Reply must never be empty on a reported failure")
	}
	if got.Metadata.AI == nil {
		t.Error("provider metadata should still be attached on a reported failure")
	}
}

func TestChatAIError(t *testing.T) {
	ai := &stubAI{err: errors.New("connection refused")}
	svc := newTestChatService(chatKB(), ai)

	got := svc.Chat(context.Background(), "qwertyuiop")

	if got.Metadata.ResponseSource != model.SourceErrorFallback {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceErrorFallback)
	}
	if got.Reply != "Sorry, I came up empty." {
		t.Errorf("Reply = %q, want the knowledge base's fallback reply", got.Reply)
	}
}

func TestChatAIPanicIsContained(t *testing.T) {
	ai := &stubAI{panics: true}
	svc := newTestChatService(chatKB(), ai)

	got := svc.Chat(context.Background(), "qwertyuiop")

	if got.Metadata.ResponseSource != model.SourceErrorFallback {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceErrorFallback)
	}
	if got.Reply == "" {
		t.Error("Reply is empty after a provider panic")
	}
}

func TestChatIntentWithoutResponses(t *testing.T) {
	ai := &stubAI{}
	svc := newTestChatService(chatKB(), ai)

	// "help" is a safe intent but its response list is empty, an
	// authoring defect that must degrade instead of crash.
	got := svc.Chat(context.Background(), "help")

	if got.Intent != "help" {
		t.Fatalf("Intent = %q, want %q", got.Intent, "help")
	}
	if got.Metadata.Strategy != model.StrategyKnowledgeBase {
		t.Errorf("Strategy = %q, want %q", got.Metadata.Strategy, model.StrategyKnowledgeBase)
	}
	if got.Metadata.ResponseSource != model.SourceErrorFallback {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceErrorFallback)
	}
	if got.Reply != "Sorry, I came up empty." {
		t.Errorf("Reply = %q, want the knowledge base's fallback reply", got.Reply)
	}
	if ai.called {
		t.Error("AI provider was called for a safe intent")
	}
}

func TestChatNonStringMessageIsCoerced(t *testing.T) {
	ai := &stubAI{
		result: &model.AIResult{Success: true, Reply: "ok", Source: "gemini"},
	}
	svc := newTestChatService(chatKB(), ai)

	got := svc.Chat(context.Background(), 12345)

	if got.Intent != model.IntentUnknown {
		t.Errorf("Intent = %q, want %q", got.Intent, model.IntentUnknown)
	}
	if got.Reply == "" {
		t.Error("Reply is empty for a coerced message")
	}
}

func TestAssembleUnknownStrategy(t *testing.T) {
	svc := newTestChatService(chatKB(), &stubAI{})

	decision := model.RoutingDecision{
		DetectionResult: model.DetectionResult{
			Intent:          "pricing",
			MatchedPatterns: []string{},
			AllScores:       map[string]float64{},
		},
		Strategy: model.Strategy("teleport"),
	}

	got := svc.assemble(context.Background(), decision, "whatever")

	if got.Metadata.ResponseSource != model.SourceError {
		t.Errorf("ResponseSource = %q, want %q", got.Metadata.ResponseSource, model.SourceError)
	}
	if got.Reply == "" {
		t.Error("Reply is empty for an unknown strategy")
	}
}

func TestChatKnowledgeBaseEscalationCapableIntent(t *testing.T) {
	ai := &stubAI{result: &model.AIResult{Success: true, Reply: "gen", Source: "gemini"}}
	svc := newTestChatService(chatKB(), ai)

	// Both pricing patterns present: confidence 1.0, well above the
	// medium threshold, so the knowledge base answers.
	got := svc.Chat(context.Background(), "what's the price and total cost?")

	if got.Intent != "pricing" {
		t.Fatalf("Intent = %q, want %q", got.Intent, "pricing")
	}
	if got.Metadata.Strategy != model.StrategyKnowledgeBase {
		t.Errorf("Strategy = %q, want %q", got.Metadata.Strategy, model.StrategyKnowledgeBase)
	}
	if got.Reply != "It costs $12." {
		t.Errorf("Reply = %q, want the pricing response", got.Reply)
	}
	if ai.called {
		t.Error("AI provider was called despite sufficient confidence")
	}
}
