package openai

import (
	"context"
	"log/slog"

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/core/ports"
)

// Classifier assigns a document category via a closed-enumeration model
// prompt. It never fails: any call error or out-of-enumeration label is
// coerced to CategoryOther.
type Classifier struct {
	client ports.JSONCompleter
}

func NewClassifier(client ports.JSONCompleter) *Classifier {
	return &Classifier{client: client}
}

func (c *Classifier) Classify(ctx context.Context, text string) domain.Category {
	result, err := c.client.CompleteJSON(ctx, buildClassificationPrompt(text))
	if err != nil {
		slog.Warn("classification_degraded", "error", err)
		return domain.CategoryOther
	}
	label, _ := result["doc_type"].(string)
	return domain.ParseCategory(label)
}
