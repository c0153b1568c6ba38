package openai

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

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/infrastructure/resilience"
)

const systemPrompt = "You are a strict JSON API. Always respond with valid JSON only, no extra text."

// CallObserver receives the outcome of every model call, for metrics.
type CallObserver func(operation string, outcome string, duration time.Duration)

// Client talks to an OpenAI-compatible chat completions endpoint and
// enforces JSON-only output. One bounded attempt per call; both transport
// failures and malformed content come back as typed errors the extraction
// strategies turn into degraded records.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
	executor    *resilience.Executor
	observer    CallObserver
}

func New(baseURL, apiKey, model string, executor *resilience.Executor) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: 0.1,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		executor:    executor,
	}
}

// SetObserver attaches a metrics callback. Not safe to call after the client
// is in use.
func (c *Client) SetObserver(observer CallObserver) {
	c.observer = observer
}

func (c *Client) CompleteJSON(ctx context.Context, prompt string) (map[string]any, error) {
	const operation = "chat_completion"
	start := time.Now()

	var result map[string]any
	call := func(callCtx context.Context) error {
		out, err := c.completeOnce(callCtx, operation, prompt)
		if err != nil {
			return err
		}
		result = out
		return nil
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, operation, call, classifyOpenAIError)
	} else {
		err = call(ctx)
	}

	c.observe(operation, err, time.Since(start))
	if err != nil {
		if domain.IsKind(err, domain.ErrModelOutput) {
			return nil, err
		}
		return nil, domain.WrapError(domain.ErrModelCall, operation, err)
	}
	return result, nil
}

func (c *Client) completeOnce(ctx context.Context, operation, prompt string) (map[string]any, error) {
	payload := map[string]any{
		"model":           c.model,
		"temperature":     c.temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, "/chat/completions", payload, &response, operation); err != nil {
		return nil, err
	}
	if len(response.Choices) == 0 {
		return nil, domain.WrapError(domain.ErrModelOutput, operation, errors.New("no choices in response"))
	}

	content := extractJSONObject(strings.TrimSpace(response.Choices[0].Message.Content))
	var result map[string]any
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return nil, domain.WrapError(domain.ErrModelOutput, operation, fmt.Errorf("parse content: %w", err))
	}
	return result, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, out any, operation string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("openai %s request: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &HTTPStatusError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(raw)),
		}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) observe(operation string, err error, duration time.Duration) {
	if c.observer == nil {
		return
	}
	outcome := "ok"
	switch {
	case err == nil:
	case domain.IsKind(err, domain.ErrModelOutput):
		outcome = "malformed"
	default:
		outcome = "error"
	}
	c.observer(operation, outcome, duration)
}

// extractJSONObject strips any non-JSON wrapper the model may have produced
// around the object, such as markdown fences.
func extractJSONObject(raw string) string {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "openai status error"
	}
	if e.Body == "" {
		return fmt.Sprintf("openai %s status: %s", e.Operation, e.Status)
	}
	return fmt.Sprintf("openai %s status: %s: %s", e.Operation, e.Status, e.Body)
}

// classifyOpenAIError decides what counts against the circuit breaker.
// Cancellation, malformed model output, and plain 4xx responses say nothing
// about upstream availability.
func classifyOpenAIError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{RecordFailure: false}
	}
	if domain.IsKind(err, domain.ErrModelOutput) {
		return resilience.ErrorClassification{RecordFailure: false}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		return resilience.ErrorClassification{
			RecordFailure: isAvailabilityStatus(statusErr.StatusCode),
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{RecordFailure: true}
	}

	return resilience.ErrorClassification{RecordFailure: true}
}

func isAvailabilityStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	default:
		return statusCode >= 500
	}
}
