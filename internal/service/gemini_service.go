package service

import (
	"bytes"
	"concierge/internal/config"
	"concierge/internal/model"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AICollaborator generates a reply when the knowledge base cannot. A
// reported failure (Success false) must still carry a usable Reply.
type AICollaborator interface {
	Call(ctx context.Context, message string, aiCtx model.AIContext) (*model.AIResult, error)
}

// geminiFallbackReply is the provider-side apology returned on any
// reported failure, so the caller always has something friendly to say.
const geminiFallbackReply = "I'm sorry, I can't reach my language model right now. Could you rephrase your question, or try again in a moment?"

// GeminiService handles AI generation via the Gemini API
type GeminiService struct {
	config *config.AIConfig
	client *http.Client
}

// NewGeminiService creates a new Gemini service
func NewGeminiService() *GeminiService {
	cfg := config.DefaultAIConfig()
	return &GeminiService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// Call sends the user's message to Gemini, folding the classifier's
// verdict into the prompt. Missing credentials, upstream errors, and empty
// generations are all reported failures, never returned errors. The client
// timeout bounds the call, and there are no retries.
func (s *GeminiService) Call(ctx context.Context, message string, aiCtx model.AIContext) (*model.AIResult, error) {
	started := time.Now()

	if !s.config.IsEnabled() {
		return s.failure(started, "GEMINI_API_KEY not set"), nil
	}

	reply, meta, err := s.generate(ctx, s.buildPrompt(message, aiCtx))
	if err != nil {
		return s.failure(started, err.Error()), nil
	}
	if strings.TrimSpace(reply) == "" {
		return s.failure(started, "empty generation"), nil
	}

	meta["durationMs"] = time.Since(started).Milliseconds()
	return &model.AIResult{
		Success:  true,
		Reply:    strings.TrimSpace(reply),
		Source:   "gemini",
		Metadata: meta,
	}, nil
}

func (s *GeminiService) failure(started time.Time, reason string) *model.AIResult {
	return &model.AIResult{
		Success: false,
		Reply:   geminiFallbackReply,
		Source:  "gemini",
		Error:   reason,
		Metadata: map[string]any{
			"model":      s.config.Model,
			"durationMs": time.Since(started).Milliseconds(),
		},
	}
}

func (s *GeminiService) buildPrompt(message string, aiCtx model.AIContext) string {
	return fmt.Sprintf(`You are a friendly support assistant for a small product team.
Answer the user's message helpfully and concisely, in plain text.

A rule-based classifier looked at the message first:
- detected intent: %s
- confidence: %.2f (%s)

User's message: %s`,
		aiCtx.Intent, aiCtx.Confidence, aiCtx.ConfidenceLevel, message)
}

// generate makes a generateContent request and extracts the first
// candidate's text plus usage metadata
func (s *GeminiService) generate(ctx context.Context, prompt string) (string, map[string]any, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", nil, err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return "", nil, fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", nil, err
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", nil, fmt.Errorf("empty response from Gemini")
	}

	meta := map[string]any{
		"model":        s.config.Model,
		"finishReason": geminiResp.Candidates[0].FinishReason,
		"promptTokens": geminiResp.UsageMetadata.PromptTokenCount,
		"replyTokens":  geminiResp.UsageMetadata.CandidatesTokenCount,
		"totalTokens":  geminiResp.UsageMetadata.TotalTokenCount,
	}
	return geminiResp.Candidates[0].Content.Parts[0].Text, meta, nil
}
