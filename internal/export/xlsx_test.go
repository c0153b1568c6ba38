package export

import (
	"testing"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

func strPtr(s string) *string { return &s }

func sampleResponse() *domain.ClaimResponse {
	bill := domain.FieldSet{Bill: &domain.BillFields{
		PatientName: strPtr("John Doe"),
		LineItems:   []domain.LineItem{},
	}}
	degraded := domain.DegradedFieldSet(domain.CategoryIDCard, "model call failed")

	return &domain.ClaimResponse{
		Documents: []domain.ClaimDocument{
			{Filename: "bill.pdf", DocType: domain.CategoryBill, StructuredData: bill},
			{Filename: "id.pdf", DocType: domain.CategoryIDCard, StructuredData: degraded},
		},
		Validation: domain.ValidationResult{
			MissingDocuments: []domain.Category{domain.CategoryDischargeSummary},
			Discrepancies:    []string{"Bill total_amount must be positive."},
		},
		Decision: domain.ClaimDecision{
			Status: domain.StatusManualReview,
			Reason: "Missing required documents: discharge_summary",
		},
	}
}

func TestWorkbookSheetsAndContent(t *testing.T) {
	f, err := Workbook(sampleResponse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Documents" || sheets[1] != "Validation" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	name, err := f.GetCellValue("Documents", "A2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if name != "bill.pdf" {
		t.Fatalf("expected first document filename, got %q", name)
	}

	patient, err := f.GetCellValue("Documents", "C2")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if patient != "John Doe" {
		t.Fatalf("expected patient name, got %q", patient)
	}

	failed, err := f.GetCellValue("Documents", "D3")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if failed != "TRUE" {
		t.Fatalf("expected degraded row marked failed, got %q", failed)
	}

	decision, err := f.GetCellValue("Validation", "B1")
	if err != nil {
		t.Fatalf("read cell: %v", err)
	}
	if decision != "manual_review" {
		t.Fatalf("expected decision status, got %q", decision)
	}
}

func TestWorkbookBytesProducesNonEmptyFile(t *testing.T) {
	buf, err := WorkbookBytes(sampleResponse())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty workbook")
	}
}
