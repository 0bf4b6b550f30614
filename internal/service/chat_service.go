package service

import (
	"concierge/internal/model"
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Compiled-in last resorts, used only when even the knowledge base cannot
// supply a fallback reply.
const (
	apologyReply      = "I'm sorry, something went wrong while preparing an answer. Please try again."
	genericErrorReply = "Something went wrong. Please try again."
)

// ChatService runs the full pipeline for one message: normalize, detect,
// route, and assemble the response envelope.
type ChatService struct {
	kb         *model.KnowledgeBase
	normalizer *Normalizer
	detector   *DetectorService
	router     *RoutingService
	ai         AICollaborator
	pick       func(n int) int
}

// NewChatService creates a new chat service
func NewChatService(kb *model.KnowledgeBase, detector *DetectorService, router *RoutingService, ai AICollaborator) *ChatService {
	return &ChatService{
		kb:         kb,
		normalizer: NewNormalizer(),
		detector:   detector,
		router:     router,
		ai:         ai,
		pick:       rand.Intn,
	}
}

// SetPicker overrides the random response picker. Tests use this to make
// knowledge-base replies deterministic.
func (s *ChatService) SetPicker(pick func(n int) int) {
	s.pick = pick
}

// Chat processes one message end to end. It never returns an error: every
// input, however malformed, yields a response envelope.
func (s *ChatService) Chat(ctx context.Context, message any) *model.ResponseEnvelope {
	input := s.normalizer.Normalize(message)
	detection := s.detector.Detect(ctx, input.Normalized)
	decision := s.router.Route(detection)
	return s.assemble(ctx, decision, input.Original)
}

func (s *ChatService) assemble(ctx context.Context, decision model.RoutingDecision, original string) *model.ResponseEnvelope {
	var (
		reply  string
		source model.ResponseSource
		aiMeta map[string]any
	)

	switch decision.Strategy {
	case model.StrategyKnowledgeBase:
		reply, source = s.fromKnowledgeBase(decision.Intent)
	case model.StrategyAIFallback:
		reply, source, aiMeta = s.fromAI(ctx, decision, original)
	default:
		// unreachable given the router's cases, but never worth a crash
		reply, source = genericErrorReply, model.SourceError
	}

	return &model.ResponseEnvelope{
		Reply:           reply,
		Intent:          decision.Intent,
		Confidence:      decision.Confidence,
		ConfidenceLevel: decision.ConfidenceLevel,
		Explanation:     s.explain(decision, source),
		MatchedPatterns: decision.MatchedPatterns,
		Metadata: model.ResponseMetadata{
			Strategy:       decision.Strategy,
			ResponseSource: source,
			ShouldUseAI:    decision.ShouldUseAI,
			IsSafeIntent:   decision.IsSafeIntent,
			AllScores:      decision.AllScores,
			RequestID:      uuid.New().String(),
			Timestamp:      time.Now().UTC(),
			AI:             aiMeta,
		},
	}
}

// fromKnowledgeBase picks one of the intent's canned responses uniformly
// at random. A missing intent or an empty response list is an authoring
// defect and gets a fallback reply instead of a crash.
func (s *ChatService) fromKnowledgeBase(intentName string) (string, model.ResponseSource) {
	intent := s.kb.Find(intentName)
	if intent == nil || len(intent.Responses) == 0 {
		return s.fallbackReply(), model.SourceErrorFallback
	}
	return intent.Responses[s.pick(len(intent.Responses))], model.SourceKnowledgeBase
}

// fromAI makes the single guarded call to the AI provider. A reported
// failure keeps the provider's own apology text; an escaped error or panic
// degrades to the knowledge base's fallback pool. No retries.
func (s *ChatService) fromAI(ctx context.Context, decision model.RoutingDecision, original string) (string, model.ResponseSource, map[string]any) {
	result, err := s.callAI(ctx, decision, original)
	if err != nil {
		log.Printf("ai call failed: %v", err)
		return s.fallbackReply(), model.SourceErrorFallback, nil
	}
	if !result.Success {
		return result.Reply, model.SourceAIErrorFallback, result.Metadata
	}
	return result.Reply, model.SourceAI, result.Metadata
}

// callAI shields the pipeline from a panicking provider.
func (s *ChatService) callAI(ctx context.Context, decision model.RoutingDecision, original string) (result *model.AIResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result, err = nil, fmt.Errorf("ai provider panicked: %v", r)
		}
	}()

	result, err = s.ai.Call(ctx, original, model.AIContext{
		Intent:          decision.Intent,
		Confidence:      decision.Confidence,
		ConfidenceLevel: decision.ConfidenceLevel,
	})
	if err == nil && result == nil {
		err = fmt.Errorf("ai provider returned no result")
	}
	return result, err
}

func (s *ChatService) fallbackReply() string {
	if len(s.kb.FallbackResponses) > 0 {
		return s.kb.FallbackResponses[s.pick(len(s.kb.FallbackResponses))]
	}
	return apologyReply
}

// explain builds the human-readable account of every decision the
// pipeline made. Callers depend on it for transparency; it is part of the
// contract, not a debug aid.
func (s *ChatService) explain(decision model.RoutingDecision, source model.ResponseSource) string {
	var b strings.Builder

	if decision.Intent == model.IntentUnknown {
		b.WriteString("No specific intent was detected. ")
	} else if len(decision.MatchedPatterns) > 0 {
		fmt.Fprintf(&b, "Detected intent %q via patterns [%s]. ",
			decision.Intent, strings.Join(decision.MatchedPatterns, ", "))
	} else {
		fmt.Fprintf(&b, "Detected intent %q with no matched patterns. ", decision.Intent)
	}

	fmt.Fprintf(&b, "Confidence was %.2f (%s). ", decision.Confidence, decision.ConfidenceLevel)

	if decision.IsSafeIntent && decision.Confidence < MediumConfidence {
		fmt.Fprintf(&b, "It was answered from the knowledge base despite the low confidence because %q is a safe intent. ",
			decision.Intent)
	}

	switch source {
	case model.SourceKnowledgeBase:
		b.WriteString("The reply was taken from the knowledge base.")
	case model.SourceAI:
		b.WriteString("The reply was generated by the AI model.")
	case model.SourceAIErrorFallback:
		b.WriteString("The AI provider reported a failure, so its fallback reply was used.")
	case model.SourceErrorFallback:
		b.WriteString("A fallback reply was used because no proper answer could be produced.")
	default:
		b.WriteString("The reply came from an unexpected source: " + string(source) + ".")
	}

	return b.String()
}
