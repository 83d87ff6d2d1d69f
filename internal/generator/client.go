package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mind-engage/culturetest/internal/assessment"
	"github.com/mind-engage/culturetest/internal/log"
	"github.com/mind-engage/culturetest/internal/metrics"
)

const (
	MinCount = 10
	MaxCount = 50

	defaultModel   = "gpt-4"
	defaultBaseURL = "https://api.openai.com/v1"
)

var ErrGeneration = errors.New("question generation failed")

type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return "generate questions: " + e.Reason + ": " + e.Err.Error()
	}
	return "generate questions: " + e.Reason
}

func (e *GenerationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrGeneration, e.Err}
	}
	return []error{ErrGeneration}
}

func genErr(reason string, err error) error { return &GenerationError{Reason: reason, Err: err} }

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
	HTTP    HTTPClient
}

type Request struct {
	TestName  string `json:"test_name"`
	Behaviors string `json:"behaviors"`
	Count     int    `json:"question_count"`
}

// ClampCount bounds a requested question count to MinCount..MaxCount.
func ClampCount(n int) int {
	switch {
	case n < MinCount:
		return MinCount
	case n > MaxCount:
		return MaxCount
	}
	return n
}

// Generate asks the model for r.Count questions. When fewer come back it
// asks once more for the remainder; a failed retry keeps the first batch.
func (c *Client) Generate(ctx context.Context, r Request) (qs []assessment.Question, err error) {
	done := metrics.GenerationTimer()
	defer func() {
		if err != nil {
			done("error")
		} else {
			done("ok")
		}
	}()

	if strings.TrimSpace(c.APIKey) == "" {
		return nil, genErr("api key not configured", nil)
	}
	if r.Count <= 0 {
		r.Count = MinCount
	}

	raw, err := c.complete(ctx, systemPrompt, buildPrompt(r.TestName, r.Behaviors, r.Count), 4000)
	if err != nil {
		return nil, err
	}
	got, err := parseQuestions(raw)
	if err != nil {
		return nil, err
	}

	if missing := r.Count - len(got); missing > 0 {
		log.WithFields(log.Fields{"requested": r.Count, "received": len(got)}).Infof("retrying for %d more questions", missing)
		raw, rerr := c.complete(ctx, retrySystemPrompt, buildRetryPrompt(r.TestName, r.Behaviors, missing), 2000)
		if rerr == nil {
			var more []generated
			more, rerr = parseQuestions(raw)
			if len(more) > missing {
				more = more[:missing]
			}
			got = append(got, more...)
		}
		if rerr != nil {
			log.Warnf("question generation retry failed: %v", rerr)
		}
	}
	if len(got) > r.Count {
		got = got[:r.Count]
	}
	if len(got) == 0 {
		return nil, genErr("model returned no questions", nil)
	}
	return normalize(got), nil
}

func (c *Client) complete(ctx context.Context, system, prompt string, maxTokens int) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	model := c.Model
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	payload := map[string]any{
		"model":       model,
		"temperature": 0.7,
		"max_tokens":  maxTokens,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
	}
	pb, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(c.BaseURL), bytes.NewReader(pb))
	if err != nil {
		return "", genErr("build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	hc := c.HTTP
	if hc == nil {
		hc = http.DefaultClient
	}
	resp, err := hc.Do(req)
	if err != nil {
		return "", genErr("transport", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", genErr(fmt.Sprintf("upstream status %d", resp.StatusCode), errors.New(strings.TrimSpace(string(b))))
	}
	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&cc); err != nil {
		return "", genErr("decode response", err)
	}
	if len(cc.Choices) == 0 {
		return "", genErr("no choices", nil)
	}
	return cc.Choices[0].Message.Content, nil
}

func endpoint(base string) string {
	b := strings.TrimRight(strings.TrimSpace(base), "/")
	if b == "" {
		b = defaultBaseURL
	}
	if strings.HasSuffix(b, "/chat/completions") {
		return b
	}
	return b + "/chat/completions"
}
