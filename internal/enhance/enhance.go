// Package enhance runs the optional model-assisted pass over a
// document's combined text and turns the response into proposed items.
// Its failures never propagate: every outcome is a typed Result so the
// caller can distinguish "nothing new found" from "call errored".
package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/pkg/anthropic"
)

// Status classifies the outcome of an enhancement call.
type Status int

const (
	// StatusOK means the call returned at least one usable item.
	StatusOK Status = iota
	// StatusDegraded means the call worked but produced nothing
	// usable; callers fall back to rule-only output.
	StatusDegraded
	// StatusFailed means the call itself errored or timed out.
	StatusFailed
)

// Result is the typed outcome of Propose.
type Result struct {
	Status Status
	Items  []model.ExtractedItem
	Reason string
	Usage  anthropic.TokenUsage
}

const (
	// maxTextChars hard-truncates the document text sent out. Larger
	// documents lose their tail rather than failing.
	maxTextChars = 16000

	defaultTimeout   = 90 * time.Second
	defaultMaxTokens = 4096
)

const systemPrompt = `You are a construction takeoff analyst. You read text extracted from engineering and construction drawings and identify every fixture, piece of equipment, and material item.

Respond with ONLY a JSON object of the form:
{"items": [{"fixture_type": "...", "quantity": 0, "model_number": "...", "dimensions": "...", "mounting_type": "...", "spec_reference": "...", "page_number": 0}]}

Rules:
- fixture_type: the item name, e.g. "Valve Package", "Circulating Pump", "Eye Wash Station"
- quantity: integer count, or a string reference like "31.1, 31" when the drawing gives only a reference
- model_number: catalog or model number, e.g. "OM-141", "HUH-13"
- dimensions: associated dimensions if any, e.g. "1 1/2\"ø", "2 x 4 x 6"
- mounting_type: e.g. "wall-mounted", "floor-mounted"
- spec_reference: specification or page reference if stated
- page_number: page where the item appears, if determinable
- Omit fields you cannot determine. Do not invent items.`

const userPrompt = `Extract every construction item from the following document text.

DOCUMENT TEXT:
%s`

// Enhancer wraps the Anthropic client for the enhancement pass.
type Enhancer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	timeout   time.Duration
}

// Option customizes an Enhancer.
type Option func(*Enhancer)

func WithTimeout(d time.Duration) Option {
	return func(e *Enhancer) { e.timeout = d }
}

func WithMaxTokens(n int64) Option {
	return func(e *Enhancer) { e.maxTokens = n }
}

// New creates an Enhancer using the given client and model ID.
func New(client anthropic.Client, modelID string, opts ...Option) *Enhancer {
	e := &Enhancer{
		client:    client,
		model:     modelID,
		maxTokens: defaultMaxTokens,
		timeout:   defaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Warm issues a minimal primer request so concurrent document runs
// started afterwards all read the cached system prompt.
func (e *Enhancer) Warm(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := anthropic.PrimerRequest(ctx, e.client, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: 16,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: "Reply with OK."},
		},
	})
	if err != nil {
		return err
	}
	resp.Usage.LogCost(e.model, "primer")
	return nil
}

// Propose asks the model for items over the document text. The text is
// truncated to a fixed budget and the call runs under a timeout. All
// failure modes come back as a Result, never an error.
func (e *Enhancer) Propose(ctx context.Context, text string) Result {
	if len(text) > maxTextChars {
		text = text[:maxTextChars]
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:     e.model,
		MaxTokens: e.maxTokens,
		System:    anthropic.BuildCachedSystemBlocks(systemPrompt),
		Messages: []anthropic.Message{
			{Role: "user", Content: fmt.Sprintf(userPrompt, text)},
		},
	})
	if err != nil {
		reason := classifyError(err)
		zap.L().Warn("enhancement call failed", zap.String("reason", reason))
		return Result{Status: StatusFailed, Reason: reason}
	}
	resp.Usage.LogCost(e.model, "enhance")

	items, reason := parseProposed(resp.Text())
	if len(items) == 0 {
		if reason == "" {
			reason = "no items proposed"
		}
		return Result{Status: StatusDegraded, Reason: reason, Usage: resp.Usage}
	}
	return Result{Status: StatusOK, Items: items, Usage: resp.Usage}
}

// proposedItem tolerates the loose typing of model output: quantity and
// page_number may be numbers or strings.
type proposedItem struct {
	FixtureType   string `json:"fixture_type"`
	Quantity      any    `json:"quantity"`
	ModelNumber   string `json:"model_number"`
	Dimensions    string `json:"dimensions"`
	MountingType  string `json:"mounting_type"`
	SpecReference string `json:"spec_reference"`
	PageNumber    any    `json:"page_number"`
}

func parseProposed(text string) ([]model.ExtractedItem, string) {
	var payload struct {
		Items []proposedItem `json:"items"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(text)), &payload); err != nil {
		return nil, "malformed response"
	}

	items := make([]model.ExtractedItem, 0, len(payload.Items))
	for _, p := range payload.Items {
		it := model.ExtractedItem{
			FixtureType:   strings.TrimSpace(p.FixtureType),
			Quantity:      coerceQuantity(p.Quantity),
			ModelNumber:   strings.ToUpper(strings.TrimSpace(p.ModelNumber)),
			Dimensions:    strings.TrimSpace(p.Dimensions),
			MountingType:  strings.TrimSpace(p.MountingType),
			SpecReference: strings.TrimSpace(p.SpecReference),
			PageNumber:    coerceInt(p.PageNumber),
		}
		if it.HasCore() {
			items = append(items, it)
		}
	}
	return items, ""
}

func coerceQuantity(v any) model.Quantity {
	switch q := v.(type) {
	case float64:
		return model.Quantity{Count: int(q)}
	case string:
		q = strings.TrimSpace(q)
		if q == "" {
			return model.Quantity{}
		}
		if n, err := strconv.Atoi(q); err == nil {
			return model.Quantity{Count: n}
		}
		return model.Quantity{Ref: q}
	default:
		return model.Quantity{}
	}
}

func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i
		}
	}
	return 0
}

// classifyError maps API failures to short operator-facing reasons.
func classifyError(err error) string {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "429"):
		return "quota exceeded"
	case strings.Contains(msg, "model_not_found") || strings.Contains(msg, "404"):
		return "model not available"
	case strings.Contains(msg, "api_key") || strings.Contains(msg, "401"):
		return "invalid API key"
	case strings.Contains(msg, "deadline exceeded") || strings.Contains(msg, "timeout"):
		return "timed out"
	default:
		if len(msg) > 50 {
			msg = msg[:50]
		}
		return msg
	}
}

// cleanJSON attempts to extract a JSON object from text that may contain
// markdown code fences or other wrapping.
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)

	// Strip markdown code fences.
	if strings.HasPrefix(text, "```json") {
		text = strings.TrimPrefix(text, "```json")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	} else if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
	}

	// Find first { and last }.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		text = text[start : end+1]
	}

	return strings.TrimSpace(text)
}
