package AI

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Advisor generates free-text farming advice from an LLM. It is an optional
// dependency: components receiving a nil Advisor must handle the unavailable
// case themselves. Calls may fail or be rate limited; callers treat each
// failure as recoverable per-call.
type Advisor interface {
	// PreventiveMeasures returns personalized prevention advice for a farmer
	// growing crop at location after disease was reported nearby.
	PreventiveMeasures(ctx context.Context, disease, crop, location string) (string, error)

	// GrowthGuide returns a newbie-to-pro growing roadmap for crop at location.
	GrowthGuide(ctx context.Context, crop, location string) (string, error)
}

// openAI talks to any OpenAI-compatible chat-completions endpoint.
type openAI struct {
	endpoint string
	key      string
	model    string
	http     *http.Client
}

func NewOpenAI(endpoint, key, model string) Advisor {
	return &openAI{
		endpoint: endpoint,
		key:      key,
		model:    model,
		http:     &http.Client{Timeout: 25 * time.Second},
	}
}

func (c *openAI) PreventiveMeasures(ctx context.Context, disease, crop, location string) (string, error) {
	system := "You are an expert agricultural advisor. Provide concise, actionable advice for small to medium-sized farms."
	user := fmt.Sprintf(
		"A nearby farm has reported a case of %q. A farmer in the same area (%s) is growing %q. "+
			"Provide a short list of preventive measures they should take immediately.",
		disease, location, crop)
	return c.chat(ctx, system, user)
}

func (c *openAI) GrowthGuide(ctx context.Context, crop, location string) (string, error) {
	system := "You are an expert agronomist who writes concise, practical growing guides in Markdown."
	user := fmt.Sprintf(
		"Write a short growth roadmap for a farmer in %s growing %q, from planting to harvest, "+
			"with concrete actions per stage.", location, crop)
	return c.chat(ctx, system, user)
}

func (c *openAI) chat(ctx context.Context, system, user string) (string, error) {
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": user},
		},
		"temperature": 0.2,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := strings.TrimRight(c.endpoint, "/") + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("advisor request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", fmt.Errorf("advisor rate limited (429)")
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advisor returned status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("advisor response decode failed: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("advisor returned no choices")
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("advisor returned empty content")
	}
	return content, nil
}

// IsRateLimited reports whether err looks like an upstream rate limit, so
// handlers can show the "AI is busy" message instead of a generic failure.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource has been exhausted")
}
