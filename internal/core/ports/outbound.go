package ports

import (
	"context"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

// TextExtractor turns raw file bytes into plain text. It never fails: parse
// errors and empty documents come back as sentinel strings so the pipeline
// can keep going against garbage input.
type TextExtractor interface {
	Extract(ctx context.Context, content []byte) string
}

// DocumentClassifier assigns a category to extracted text. It never fails
// and never returns a label outside the closed enumeration; anything the
// model gets wrong is coerced to CategoryOther.
type DocumentClassifier interface {
	Classify(ctx context.Context, text string) domain.Category
}

// FieldExtractor parses category-specific structured fields out of document
// text. On any model failure it returns the category's degraded full-shape
// record instead of an error.
type FieldExtractor interface {
	Parse(ctx context.Context, text string) domain.FieldSet
}

// JSONCompleter is the narrow contract with the external language model:
// given a prompt, either a parsed JSON object or an error. One attempt, no
// retries; the caller owns graceful degradation.
type JSONCompleter interface {
	CompleteJSON(ctx context.Context, prompt string) (map[string]any, error)
}

// DecisionPublisher emits claim decisions for downstream consumers.
// Publishing is best effort and must never affect the claim response.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, claimID string, report domain.ValidationReport) error
}
