package openai

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Each category's record shape is declared once and drives both the JSON
// schema the model output is validated against and the sanitizer that
// rescues near-miss output.

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
	kindStringList
	kindObjectList
)

type fieldSpec struct {
	name       string
	kind       fieldKind
	itemFields []fieldSpec
}

var lineItemFields = []fieldSpec{
	{name: "description", kind: kindString},
	{name: "quantity", kind: kindNumber},
	{name: "unit_price", kind: kindNumber},
	{name: "amount", kind: kindNumber},
}

var billFields = []fieldSpec{
	{name: "patient_name", kind: kindString},
	{name: "hospital_name", kind: kindString},
	{name: "bill_date", kind: kindString},
	{name: "total_amount", kind: kindNumber},
	{name: "currency", kind: kindString},
	{name: "line_items", kind: kindObjectList, itemFields: lineItemFields},
}

var pharmacyItemFields = []fieldSpec{
	{name: "drug_name", kind: kindString},
	{name: "dosage", kind: kindString},
	{name: "quantity", kind: kindNumber},
	{name: "unit_price", kind: kindNumber},
	{name: "amount", kind: kindNumber},
}

var pharmacyBillFields = []fieldSpec{
	{name: "patient_name", kind: kindString},
	{name: "pharmacy_name", kind: kindString},
	{name: "bill_date", kind: kindString},
	{name: "total_amount", kind: kindNumber},
	{name: "currency", kind: kindString},
	{name: "items", kind: kindObjectList, itemFields: pharmacyItemFields},
}

var dischargeSummaryFields = []fieldSpec{
	{name: "patient_name", kind: kindString},
	{name: "hospital_name", kind: kindString},
	{name: "admission_date", kind: kindString},
	{name: "discharge_date", kind: kindString},
	{name: "primary_diagnosis", kind: kindString},
	{name: "secondary_diagnoses", kind: kindStringList},
	{name: "procedures", kind: kindStringList},
	{name: "attending_physician", kind: kindString},
}

var idCardFields = []fieldSpec{
	{name: "patient_name", kind: kindString},
	{name: "id_number", kind: kindString},
	{name: "policy_number", kind: kindString},
	{name: "insurer_name", kind: kindString},
	{name: "date_of_birth", kind: kindString},
	{name: "valid_from", kind: kindString},
	{name: "valid_to", kind: kindString},
}

func buildSchemaDocument(fields []fieldSpec) map[string]any {
	props := make(map[string]any, len(fields))
	for _, field := range fields {
		props[field.name] = fieldSchema(field)
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
	}
}

func fieldSchema(field fieldSpec) map[string]any {
	switch field.kind {
	case kindNumber:
		return map[string]any{"type": []string{"number", "null"}}
	case kindStringList:
		return map[string]any{
			"type":  "array",
			"items": map[string]any{"type": []string{"string", "null"}},
		}
	case kindObjectList:
		return map[string]any{
			"type":  "array",
			"items": buildSchemaDocument(field.itemFields),
		}
	default:
		return map[string]any{"type": []string{"string", "null"}}
	}
}

func mustCompileSchema(name string, fields []fieldSpec) *jsonschema.Schema {
	raw, err := json.Marshal(buildSchemaDocument(fields))
	if err != nil {
		panic(err)
	}
	schema, err := jsonschema.CompileString(name+".schema.json", string(raw))
	if err != nil {
		panic(err)
	}
	return schema
}

// sanitizeFields rescues near-miss model output before re-validation: unknown
// keys are dropped, numeric-looking strings become numbers, anything else
// with the wrong type degrades to null rather than failing the whole record.
// List fields always come back as lists.
func sanitizeFields(fields []fieldSpec, data map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for _, field := range fields {
		value, ok := data[field.name]
		if !ok || value == nil {
			if field.kind == kindStringList || field.kind == kindObjectList {
				out[field.name] = []any{}
			} else {
				out[field.name] = nil
			}
			continue
		}
		out[field.name] = sanitizeValue(field, value)
	}
	return out
}

func sanitizeValue(field fieldSpec, value any) any {
	switch field.kind {
	case kindString:
		if s, ok := value.(string); ok {
			return s
		}
		return nil
	case kindNumber:
		return sanitizeNumber(value)
	case kindStringList:
		items, ok := value.([]any)
		if !ok {
			return []any{}
		}
		kept := make([]any, 0, len(items))
		for _, item := range items {
			if s, ok := item.(string); ok {
				kept = append(kept, s)
			}
		}
		return kept
	case kindObjectList:
		items, ok := value.([]any)
		if !ok {
			return []any{}
		}
		kept := make([]any, 0, len(items))
		for _, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			kept = append(kept, sanitizeFields(field.itemFields, obj))
		}
		return kept
	default:
		return nil
	}
}

func sanitizeNumber(value any) any {
	switch v := value.(type) {
	case float64:
		return v
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return nil
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
		return nil
	default:
		return nil
	}
}
