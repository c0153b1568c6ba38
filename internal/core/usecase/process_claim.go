package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/core/ports"
)

var errNoFiles = errors.New("no files supplied")

// ProcessClaimUseCase runs the per-document pipeline (text extraction,
// classification, field parsing) and then the decision engine exactly once
// over the complete document list. Documents are independent and read-only
// with respect to each other, so they are processed concurrently; the engine
// is the single synchronization point.
type ProcessClaimUseCase struct {
	extractor   ports.TextExtractor
	classifier  ports.DocumentClassifier
	fieldParser map[domain.Category]ports.FieldExtractor
	validator   *Validator
	publisher   ports.DecisionPublisher
	maxParallel int
}

func NewProcessClaimUseCase(
	extractor ports.TextExtractor,
	classifier ports.DocumentClassifier,
	fieldParsers map[domain.Category]ports.FieldExtractor,
	validator *Validator,
	publisher ports.DecisionPublisher,
	maxParallel int,
) *ProcessClaimUseCase {
	if maxParallel <= 0 {
		maxParallel = 1
	}
	return &ProcessClaimUseCase{
		extractor:   extractor,
		classifier:  classifier,
		fieldParser: fieldParsers,
		validator:   validator,
		publisher:   publisher,
		maxParallel: maxParallel,
	}
}

func (uc *ProcessClaimUseCase) ProcessClaim(ctx context.Context, files []domain.UploadedFile) (*domain.ClaimResponse, error) {
	if len(files) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "process claim", errNoFiles)
	}

	claimID := uuid.NewString()
	documents := make([]domain.ClaimDocument, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(uc.maxParallel)
	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			documents[i] = uc.processDocument(groupCtx, file)
			return nil
		})
	}
	// Per-document failures degrade into the document itself; only request
	// cancellation aborts the claim, so the engine never sees a partial list.
	if err := group.Wait(); err != nil {
		return nil, err
	}

	report := uc.validator.Validate(documents)
	uc.publishDecision(ctx, claimID, report)

	slog.Info("claim_processed",
		"claim_id", claimID,
		"documents", len(documents),
		"status", report.Decision.Status,
		"missing", len(report.Validation.MissingDocuments),
		"discrepancies", len(report.Validation.Discrepancies),
	)

	return &domain.ClaimResponse{
		Documents:  documents,
		Validation: report.Validation,
		Decision:   report.Decision,
	}, nil
}

func (uc *ProcessClaimUseCase) processDocument(ctx context.Context, file domain.UploadedFile) domain.ClaimDocument {
	text := uc.extractor.Extract(ctx, file.Content)

	category, hinted := categoryFromFilename(file.Filename)
	if !hinted {
		category = uc.classifier.Classify(ctx, text)
	}

	var fields domain.FieldSet
	if parser, ok := uc.fieldParser[category]; ok {
		fields = parser.Parse(ctx, text)
	}

	return domain.ClaimDocument{
		Filename:       file.Filename,
		DocType:        category,
		RawText:        text,
		StructuredData: fields,
	}
}

// categoryFromFilename short-circuits classification on filename substrings.
// Hints are checked in order, so a name carrying both "discharge" and "bill"
// resolves to bill.
func categoryFromFilename(filename string) (domain.Category, bool) {
	name := strings.ToLower(filename)
	switch {
	case strings.Contains(name, "bill"):
		return domain.CategoryBill, true
	case strings.Contains(name, "discharge"):
		return domain.CategoryDischargeSummary, true
	case strings.Contains(name, "idcard"), strings.Contains(name, "id_card"), strings.Contains(name, "insurance"):
		return domain.CategoryIDCard, true
	default:
		return "", false
	}
}

func (uc *ProcessClaimUseCase) publishDecision(ctx context.Context, claimID string, report domain.ValidationReport) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishDecision(ctx, claimID, report); err != nil {
		slog.Warn("decision_publish_failed", "claim_id", claimID, "error", err)
	}
}
