package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

const (
	documentsSheet  = "Documents"
	validationSheet = "Validation"
)

// Workbook renders a processed claim as an XLSX workbook with one sheet for
// the per-document results and one for the validation outcome.
func Workbook(resp *domain.ClaimResponse) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", documentsSheet)
	if _, err := f.NewSheet(validationSheet); err != nil {
		return nil, fmt.Errorf("create validation sheet: %w", err)
	}

	if err := writeDocuments(f, resp.Documents); err != nil {
		return nil, err
	}
	if err := writeValidation(f, resp); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// WorkbookBytes is a convenience wrapper for handlers that stream the file.
func WorkbookBytes(resp *domain.ClaimResponse) (*bytes.Buffer, error) {
	f, err := Workbook(resp)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.WriteToBuffer()
}

func writeDocuments(f *excelize.File, docs []domain.ClaimDocument) error {
	header := []any{"Filename", "Document Type", "Patient Name", "Extraction Failed", "Error"}
	if err := f.SetSheetRow(documentsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write documents header: %w", err)
	}

	for i, doc := range docs {
		status := doc.StructuredData.Status()
		row := []any{
			doc.Filename,
			string(doc.DocType),
			stringOrEmpty(doc.StructuredData.PatientName()),
			status.ExtractionFailed,
			status.ErrorMessage,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(documentsSheet, cell, &row); err != nil {
			return fmt.Errorf("write document row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeValidation(f *excelize.File, resp *domain.ClaimResponse) error {
	rows := [][]any{
		{"Decision", string(resp.Decision.Status)},
		{"Reason", resp.Decision.Reason},
		{},
		{"Missing Documents"},
	}
	for _, category := range resp.Validation.MissingDocuments {
		rows = append(rows, []any{string(category)})
	}
	rows = append(rows, []any{}, []any{"Discrepancies"})
	for _, finding := range resp.Validation.Discrepancies {
		rows = append(rows, []any{finding})
	}

	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(validationSheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write validation row %d: %w", i+1, err)
		}
	}
	return nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
