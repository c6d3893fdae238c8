// Package extraction turns resume text into profile records: one structured
// model request produces candidates, and the persister keeps the valid ones.
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/jonathan/rezoom/internal/llm"
	"github.com/jonathan/rezoom/internal/safeguards"
	"github.com/jonathan/rezoom/internal/schemas"
	"github.com/jonathan/rezoom/internal/types"
	"go.uber.org/zap"
)

// Extractor runs resume text through the language model
type Extractor struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewExtractor creates an extractor. A nil client yields ModelUnavailableError on every call.
func NewExtractor(client llm.Client, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{client: client, tier: llm.TierStandard, logger: logger}
}

// Extract issues one structured request and parses the response into an ExtractionResult
func (e *Extractor) Extract(ctx context.Context, text string) (*types.ExtractionResult, error) {
	if e.client == nil {
		return nil, &ModelUnavailableError{Message: "no language model configured"}
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ParseError{Message: "input text is empty"}
	}

	if check := safeguards.Inspect(text); check.Suspicious {
		e.logger.Warn("resume text contains instruction-like phrases",
			zap.Strings("matches", check.Matches))
	}

	prompt := llm.BuildExtractionPrompt(llm.ResumeExtractionSchema(), text)
	raw, err := e.client.GenerateJSON(ctx, prompt, e.tier)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, &ModelUnavailableError{Message: "model request failed", Cause: err}
	}

	result, err := ParseResult(raw)
	if err != nil {
		e.logger.Warn("extraction response could not be parsed",
			zap.Int("response_length", len(raw)),
			zap.Error(err))
		return nil, err
	}

	e.logger.Debug("extraction complete",
		zap.Int("experiences", len(result.Experiences)),
		zap.Int("education", len(result.Education)),
		zap.Int("skills", len(result.Skills)),
		zap.Int("projects", len(result.Projects)),
		zap.Int("certifications", len(result.Certifications)))
	return result, nil
}

// ParseResult locates the JSON payload in a model response and validates its shape.
// Every object-shaped span is tried in turn; the first that is valid JSON and
// carries all five arrays wins.
func ParseResult(raw string) (*types.ExtractionResult, error) {
	candidates := llm.JSONObjectCandidates(raw)
	if len(candidates) == 0 {
		return nil, &ParseError{Message: "no JSON object found in model response", Raw: raw}
	}

	schema, err := schemas.ExtractionResult()
	if err != nil {
		return nil, &ParseError{Message: "extraction schema unavailable", Cause: err}
	}

	var candidate string
	var shapeErr error
	for _, c := range candidates {
		if !json.Valid([]byte(c)) {
			continue
		}
		if err := schema.ValidateString(c); err != nil {
			if shapeErr == nil {
				shapeErr = err
			}
			continue
		}
		candidate = c
		break
	}
	if candidate == "" {
		if shapeErr != nil {
			return nil, &ParseError{Message: "model response does not match the extraction shape", Raw: raw, Cause: shapeErr}
		}
		return nil, &ParseError{Message: "model response is not valid JSON", Raw: raw}
	}

	var result types.ExtractionResult
	if err := json.Unmarshal([]byte(candidate), &result); err != nil {
		return nil, &ParseError{Message: "model response has malformed records", Raw: raw, Cause: err}
	}
	return &result, nil
}
