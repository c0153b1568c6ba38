package openai

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mkravchenko/claimflow/internal/core/domain"
	"github.com/mkravchenko/claimflow/internal/core/ports"
)

// One extraction strategy per document category, selected by table dispatch.
// Every strategy shares the same shape: build the category prompt, call the
// model once, validate the output against the category schema (sanitizing
// near-misses), decode into the typed record. Any failure along the way
// degrades into the category's full-shape all-null record; the pipeline
// never sees an error from here.
type fieldExtractor struct {
	client   ports.JSONCompleter
	category domain.Category
	prompt   func(text string) string
	fields   []fieldSpec
	schema   *jsonschema.Schema
	decode   func(raw []byte) (domain.FieldSet, error)
}

func (e *fieldExtractor) Parse(ctx context.Context, text string) domain.FieldSet {
	result, err := e.client.CompleteJSON(ctx, e.prompt(text))
	if err != nil {
		slog.Warn("field_extraction_degraded", "category", e.category, "error", err)
		return domain.DegradedFieldSet(e.category, err.Error())
	}

	cleaned, err := e.validate(result)
	if err != nil {
		err = domain.WrapError(domain.ErrModelOutput, "validate "+string(e.category)+" fields", err)
		slog.Warn("field_extraction_degraded", "category", e.category, "error", err)
		return domain.DegradedFieldSet(e.category, err.Error())
	}

	fields, err := e.decode(cleaned)
	if err != nil {
		err = domain.WrapError(domain.ErrModelOutput, "decode "+string(e.category)+" fields", err)
		slog.Warn("field_extraction_degraded", "category", e.category, "error", err)
		return domain.DegradedFieldSet(e.category, err.Error())
	}
	return fields
}

// validate checks the raw object strictly first, then retries once after
// sanitizing. Output the sanitizer cannot rescue is malformed.
func (e *fieldExtractor) validate(result map[string]any) ([]byte, error) {
	if err := e.schema.Validate(result); err == nil {
		return json.Marshal(sanitizeFields(e.fields, result))
	}

	cleaned := sanitizeFields(e.fields, result)
	if err := e.schema.Validate(cleaned); err != nil {
		return nil, err
	}
	return json.Marshal(cleaned)
}

func decodeBill(raw []byte) (domain.FieldSet, error) {
	var fields domain.BillFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.FieldSet{}, err
	}
	if fields.LineItems == nil {
		fields.LineItems = []domain.LineItem{}
	}
	return domain.FieldSet{Bill: &fields}, nil
}

func decodePharmacyBill(raw []byte) (domain.FieldSet, error) {
	var fields domain.PharmacyBillFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.FieldSet{}, err
	}
	if fields.Items == nil {
		fields.Items = []domain.PharmacyItem{}
	}
	return domain.FieldSet{PharmacyBill: &fields}, nil
}

func decodeDischargeSummary(raw []byte) (domain.FieldSet, error) {
	var fields domain.DischargeSummaryFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.FieldSet{}, err
	}
	if fields.SecondaryDiagnoses == nil {
		fields.SecondaryDiagnoses = []string{}
	}
	if fields.Procedures == nil {
		fields.Procedures = []string{}
	}
	return domain.FieldSet{Discharge: &fields}, nil
}

func decodeIDCard(raw []byte) (domain.FieldSet, error) {
	var fields domain.IDCardFields
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.FieldSet{}, err
	}
	return domain.FieldSet{IDCard: &fields}, nil
}

// NewFieldExtractors builds the category dispatch table. claim_form and
// other have no entry on purpose: the dispatcher's zero FieldSet marks
// intentionally-absent fields, distinct from extraction failure.
func NewFieldExtractors(client ports.JSONCompleter) map[domain.Category]ports.FieldExtractor {
	return map[domain.Category]ports.FieldExtractor{
		domain.CategoryBill: &fieldExtractor{
			client:   client,
			category: domain.CategoryBill,
			prompt:   buildBillPrompt,
			fields:   billFields,
			schema:   mustCompileSchema("bill", billFields),
			decode:   decodeBill,
		},
		domain.CategoryPharmacyBill: &fieldExtractor{
			client:   client,
			category: domain.CategoryPharmacyBill,
			prompt:   buildPharmacyBillPrompt,
			fields:   pharmacyBillFields,
			schema:   mustCompileSchema("pharmacy_bill", pharmacyBillFields),
			decode:   decodePharmacyBill,
		},
		domain.CategoryDischargeSummary: &fieldExtractor{
			client:   client,
			category: domain.CategoryDischargeSummary,
			prompt:   buildDischargeSummaryPrompt,
			fields:   dischargeSummaryFields,
			schema:   mustCompileSchema("discharge_summary", dischargeSummaryFields),
			decode:   decodeDischargeSummary,
		},
		domain.CategoryIDCard: &fieldExtractor{
			client:   client,
			category: domain.CategoryIDCard,
			prompt:   buildIDCardPrompt,
			fields:   idCardFields,
			schema:   mustCompileSchema("id_card", idCardFields),
			decode:   decodeIDCard,
		},
	}
}
