package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/nandoesporte/gut59/backend/internal/apperr"
	"github.com/nandoesporte/gut59/backend/internal/logging"
)

// LLMConfig configures the chat-completions client
type LLMConfig struct {
	APIURL            string
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerSecond float64
}

// LLMClient sends single-attempt chat completion requests to an OpenAI-compatible endpoint
type LLMClient struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Ensure LLMClient implements ILLMClient
var _ ILLMClient = (*LLMClient)(nil)

// NewLLMClient creates a new LLMClient instance
func NewLLMClient(cfg LLMConfig) *LLMClient {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return &LLMClient{
		apiURL:     cfg.APIURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request represents a chat completions request
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
}

// CompletionRequest is what callers hand to Complete
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

const maxErrorBody = 512

// Complete sends one request and returns the first choice's content.
// There is no retry; failures are tagged by kind.
func (c *LLMClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	const op = "llm completion"
	requestID := uuid.NewString()
	log := logging.Component(ctx, "llm").WithFields(logrus.Fields{
		"llm_request_id": requestID,
		"model":          c.model,
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return "", classifyTransport(ctx, op, err)
	}

	body, err := json.Marshal(Request{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    req.Temperature,
		MaxTokens:      req.MaxTokens,
	})
	if err != nil {
		return "", apperr.Wrapf(apperr.KindInternal, op, err, "failed to marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", apperr.Wrapf(apperr.KindInternal, op, err, "failed to create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		log.WithError(err).Warn("llm request failed")
		return "", classifyTransport(ctx, op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(ctx, op, err)
	}
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "latency_ms": time.Since(start).Milliseconds()})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warn("llm returned non-success status")
		return "", apperr.New(apperr.KindUpstream, op, "generation service returned an error").
			WithDetail("status", resp.StatusCode).
			WithDetail("body", truncate(string(raw), maxErrorBody))
	}

	var parsed completionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperr.Wrapf(apperr.KindInvalidPayload, op, err, "failed to decode completion response")
	}
	if len(parsed.Choices) == 0 {
		return "", apperr.New(apperr.KindInvalidPayload, op, "no response from generation service")
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", apperr.New(apperr.KindInvalidPayload, op, "empty response from generation service")
	}

	log.WithField("finish_reason", parsed.Choices[0].FinishReason).Info("llm completion received")
	return content, nil
}

func classifyTransport(ctx context.Context, op string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperr.New(apperr.KindTimeout, op, "generation request timed out")
	case errors.As(err, &netErr) && netErr.Timeout():
		return apperr.New(apperr.KindTimeout, op, "generation request timed out")
	case errors.Is(err, context.Canceled):
		return apperr.Wrapf(apperr.KindUnavailable, op, err, "generation request cancelled")
	default:
		return apperr.Wrapf(apperr.KindUnavailable, op, err, "generation service unreachable")
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + fmt.Sprintf("... (%d bytes)", len(s))
}
