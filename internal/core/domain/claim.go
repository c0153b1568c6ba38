package domain

import "strings"

// Category is the closed classification label for one uploaded document.
type Category string

const (
	CategoryBill             Category = "bill"
	CategoryDischargeSummary Category = "discharge_summary"
	CategoryIDCard           Category = "id_card"
	CategoryPharmacyBill     Category = "pharmacy_bill"
	CategoryClaimForm        Category = "claim_form"
	CategoryOther            Category = "other"
)

// RequiredCategories is the set whose absence alone forces manual review.
// Order is the fixed check order, not document order.
var RequiredCategories = []Category{
	CategoryBill,
	CategoryDischargeSummary,
	CategoryIDCard,
}

// ParseCategory coerces a raw classifier label into the closed enumeration.
// Matching is case-insensitive and whitespace-trimmed; anything outside the
// enumeration maps to CategoryOther.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryBill:
		return CategoryBill
	case CategoryDischargeSummary:
		return CategoryDischargeSummary
	case CategoryIDCard:
		return CategoryIDCard
	case CategoryPharmacyBill:
		return CategoryPharmacyBill
	case CategoryClaimForm:
		return CategoryClaimForm
	default:
		return CategoryOther
	}
}

// UploadedFile is one raw file as supplied by the caller.
type UploadedFile struct {
	Filename string
	Content  []byte
}

// ClaimDocument is one uploaded file's fully processed result. Created once
// per file at pipeline time and never mutated afterwards.
type ClaimDocument struct {
	Filename       string   `json:"filename"`
	DocType        Category `json:"doc_type"`
	RawText        string   `json:"raw_text"`
	StructuredData FieldSet `json:"structured_data"`
}

type DecisionStatus string

const (
	StatusApproved     DecisionStatus = "approved"
	StatusRejected     DecisionStatus = "rejected" // reserved, never synthesized
	StatusManualReview DecisionStatus = "manual_review"
)

// ValidationResult lists what the decision engine found across the claim.
type ValidationResult struct {
	MissingDocuments []Category `json:"missing_documents"`
	Discrepancies    []string   `json:"discrepancies"`
}

type ClaimDecision struct {
	Status DecisionStatus `json:"status"`
	Reason string         `json:"reason"`
}

// ValidationReport is the full output of the decision engine.
type ValidationReport struct {
	Validation ValidationResult
	Decision   ClaimDecision
}

// ClaimResponse is the caller-visible result for one claim request.
type ClaimResponse struct {
	Documents  []ClaimDocument  `json:"documents"`
	Validation ValidationResult `json:"validation"`
	Decision   ClaimDecision    `json:"claim_decision"`
}
