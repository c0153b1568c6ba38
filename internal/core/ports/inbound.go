package ports

import (
	"context"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

// ClaimProcessor is the inbound contract for processing one claim: every
// uploaded file goes through the full pipeline, then the decision engine
// runs once over the assembled document list.
type ClaimProcessor interface {
	ProcessClaim(ctx context.Context, files []domain.UploadedFile) (*domain.ClaimResponse, error)
}
