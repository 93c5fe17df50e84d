// Package ai converts free text into a task draft. The primary path
// asks a hosted completion service; any failure there degrades to a
// deterministic keyword heuristic, so parsing never fails.
package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bytedance/sonic"
	"github.com/sirupsen/logrus"

	"todoai/internal/core"
)

const (
	// DefaultEndpoint is the hosted chat-completions endpoint.
	DefaultEndpoint = "https://api.groq.com/openai/v1/chat/completions"

	// DefaultModel is the completion model.
	DefaultModel = "llama-3.3-70b-versatile"

	temperature = 0.7
	maxTokens   = 500

	// APITimeout bounds the completion call; the fallback makes a slow
	// answer no better than no answer.
	APITimeout = 15 * time.Second
)

const promptTemplate = `Parse this task input and return ONLY a JSON object with these fields:
- title: the main task (string)
- priority: "low", "medium", or "high" (string, optional)
- due_days: days from now for due date (number, optional)

Input: "%s"

Return only valid JSON, no explanation.`

// Assistant is the ingestion engine.
type Assistant struct {
	http     *http.Client
	endpoint string
	apiKey   string
	model    string
	now      func() time.Time
	log      *logrus.Entry
}

// New creates an Assistant. An empty apiKey disables the completion
// call entirely; every parse then takes the offline path.
func New(apiKey string) *Assistant {
	return &Assistant{
		http:     &http.Client{},
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		model:    DefaultModel,
		now:      time.Now,
		log:      logrus.NewEntry(logrus.StandardLogger()),
	}
}

// NewWithHTTPClient creates an Assistant against a custom endpoint and
// HTTP client (for testing).
func NewWithHTTPClient(apiKey, endpoint string, httpClient *http.Client) *Assistant {
	a := New(apiKey)
	a.endpoint = endpoint
	a.http = httpClient
	return a
}

// Parse turns free text into a draft. It is total: whatever goes wrong
// on the primary path, the offline heuristic produces a draft.
func (a *Assistant) Parse(ctx context.Context, input string) core.Draft {
	if a.apiKey == "" {
		return a.offlineParse(input)
	}

	answer, err := a.complete(ctx, fmt.Sprintf(promptTemplate, input))
	if err != nil {
		a.log.WithError(err).Debug("completion call failed, using offline parser")
		return a.offlineParse(input)
	}

	draft, err := a.decodeAnswer(answer)
	if err != nil {
		a.log.WithError(err).Debug("completion answer unusable, using offline parser")
		return a.offlineParse(input)
	}
	return draft
}

type completionRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message message `json:"message"`
	} `json:"choices"`
}

// complete performs the chat-completions round trip and returns the
// first candidate message.
func (a *Assistant) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	payload, err := sonic.Marshal(completionRequest{
		Model:       a.model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned status %d", resp.StatusCode)
	}

	var cr completionResponse
	if err := sonic.Unmarshal(body, &cr); err != nil {
		return "", err
	}
	if len(cr.Choices) == 0 {
		return "", errors.New("no response from completion service")
	}
	return cr.Choices[0].Message.Content, nil
}

type parsedTask struct {
	Title    string `json:"title"`
	Priority string `json:"priority"`
	DueDays  *int   `json:"due_days"`
}

// decodeAnswer strips Markdown code fences and decodes the JSON the
// model was asked for.
func (a *Assistant) decodeAnswer(answer string) (core.Draft, error) {
	cleaned := strings.TrimSpace(answer)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var parsed parsedTask
	if err := sonic.Unmarshal([]byte(cleaned), &parsed); err != nil {
		return core.Draft{}, err
	}

	draft := core.Draft{Title: parsed.Title, Priority: core.Medium}
	switch parsed.Priority {
	case "high":
		draft.Priority = core.High
	case "low":
		draft.Priority = core.Low
	}
	if parsed.DueDays != nil {
		due := a.now().UTC().AddDate(0, 0, *parsed.DueDays)
		draft.DueDate = &due
	}
	return draft, nil
}

// Keywords the offline parser strips from the title. "week" is checked
// for the due date but deliberately left in the title, matching
// long-standing behavior.
var strippedKeywords = []string{"urgent", "high", "low", "today", "tomorrow"}

// offlineParse is the deterministic fallback. It scans a lower-cased
// copy for priority and due-date keywords, then strips those keywords
// from the original-case input to form the title. The substring match
// can corrupt unrelated words that contain a keyword (e.g.
// "lowercase"); that quirk is preserved on purpose.
func (a *Assistant) offlineParse(input string) core.Draft {
	lower := strings.ToLower(input)

	draft := core.Draft{Priority: core.Medium}
	if strings.Contains(lower, "urgent") || strings.Contains(lower, "high") {
		draft.Priority = core.High
	} else if strings.Contains(lower, "low") {
		draft.Priority = core.Low
	}

	switch {
	case strings.Contains(lower, "today"):
		due := a.now().UTC()
		draft.DueDate = &due
	case strings.Contains(lower, "tomorrow"):
		due := a.now().UTC().AddDate(0, 0, 1)
		draft.DueDate = &due
	case strings.Contains(lower, "week"):
		due := a.now().UTC().AddDate(0, 0, 7)
		draft.DueDate = &due
	}

	title := input
	for _, kw := range strippedKeywords {
		title = removeFold(title, kw)
	}
	draft.Title = strings.TrimSpace(title)
	return draft
}

// removeFold removes every case-insensitive occurrence of sub from s,
// keeping the rest of s in its original case. Matching walks s itself
// rune by rune: lowering a string can change its byte length, so
// offsets found in a lowered copy must never be used to slice the
// original.
func removeFold(s, sub string) string {
	if sub == "" {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); {
		if n := foldPrefixLen(s[i:], sub); n > 0 {
			i += n
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

// foldPrefixLen returns the byte length of a case-insensitive match of
// sub at the start of s, or 0 when there is none.
func foldPrefixLen(s, sub string) int {
	n := 0
	for _, want := range sub {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 {
			return 0
		}
		if unicode.ToLower(r) != unicode.ToLower(want) {
			return 0
		}
		n += size
	}
	return n
}
