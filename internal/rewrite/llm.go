package rewrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"NewsImporter/internal/config"
	"NewsImporter/internal/ports"
)

// LLMRewriter rewrites articles via an OpenAI-compatible chat API,
// constrained to a fixed JSON result shape. Any failure falls back to
// the original pair; the orchestrator never sees an error from here.
type LLMRewriter struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	httpClient   *http.Client
	logger       *slog.Logger
}

var _ ports.Rewriter = (*LLMRewriter)(nil)

// NewLLMRewriter builds the generative strategy from configuration.
func NewLLMRewriter(cfg config.OpenAIConfig, logger *slog.Logger) *LLMRewriter {
	return &LLMRewriter{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type rewriteResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Rewrite asks the model for a {"title", "content"} JSON object.
func (r *LLMRewriter) Rewrite(ctx context.Context, title, body string) (string, string) {
	rewritten, err := r.call(ctx, title, body)
	if err != nil {
		if r.logger != nil {
			r.logger.Warn("llm rewrite failed, keeping original", "error", err)
		}
		return title, body
	}
	if strings.TrimSpace(rewritten.Title) == "" || strings.TrimSpace(rewritten.Content) == "" {
		return title, body
	}
	return rewritten.Title, rewritten.Content
}

func (r *LLMRewriter) call(ctx context.Context, title, body string) (rewriteResult, error) {
	var result rewriteResult

	if r.apiKey == "" || r.endpoint == "" || r.model == "" {
		return result, fmt.Errorf("llm rewriter misconfigured")
	}

	userPrompt, err := json.Marshal(map[string]string{"title": title, "content": body})
	if err != nil {
		return result, fmt.Errorf("marshal article: %w", err)
	}

	payload, err := json.Marshal(map[string]any{
		"model": r.model,
		"messages": []map[string]string{
			{"role": "system", "content": r.systemPrompt},
			{"role": "user", "content": string(userPrompt)},
		},
		"response_format": map[string]string{"type": "json_object"},
	})
	if err != nil {
		return result, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return result, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return result, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return result, fmt.Errorf("llm error %s: %s", resp.Status, strings.TrimSpace(string(detail)))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return result, fmt.Errorf("decode response: %w", err)
	}
	if len(chat.Choices) == 0 {
		return result, fmt.Errorf("llm returned no choices")
	}

	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &result); err != nil {
		return result, fmt.Errorf("decode rewrite result: %w", err)
	}
	return result, nil
}
