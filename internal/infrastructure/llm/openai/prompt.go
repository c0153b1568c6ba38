package openai

// Prompt builders demand a fixed JSON shape per document category. Snippet
// bounds keep prompts inside the model's context window; value semantics are
// the decision engine's problem, not the prompt's.

const (
	classifySnippetLimit = 3000
	extractSnippetLimit  = 4000
)

func snippet(text string, limit int) string {
	if len(text) > limit {
		return text[:limit]
	}
	return text
}

func buildClassificationPrompt(text string) string {
	return `You are a classifier for a health insurance claim system.
You MUST choose exactly ONE of these types for the ENTIRE document:
- bill
- discharge_summary
- id_card
- pharmacy_bill
- claim_form
- other

Return JSON ONLY with this exact schema:
{ "doc_type": "bill | discharge_summary | id_card | pharmacy_bill | claim_form | other" }

Classification rules:
- If it looks like a hospital invoice, hospital bill, medical charges, admission/discharge dates, or itemized hospital charges -> classify as "bill".
- If it is a narrative clinical document describing admission, discharge, diagnoses, procedures, and recommendations -> classify as "discharge_summary".
- If it is an insurance / health card with insurer name, policy number, member id -> classify as "id_card".
- If it is a bill from a pharmacy / medicines invoice -> classify as "pharmacy_bill".
- If it is a generic insurance form with many fields to fill, signatures, etc. -> classify as "claim_form".
- Use "other" ONLY if it clearly does NOT match any of the above types.

Document text:
` + snippet(text, classifySnippetLimit)
}

func buildBillPrompt(text string) string {
	return `You are an agent that extracts structured data from a medical bill.
Return strict JSON only with this schema:
{
  "patient_name": string | null,
  "hospital_name": string | null,
  "bill_date": string | null,
  "total_amount": number | null,
  "currency": string | null,
  "line_items": [
    {
      "description": string | null,
      "quantity": number | null,
      "unit_price": number | null,
      "amount": number | null
    }
  ]
}
Rules:
- Respond with valid JSON only, no explanations.
- Use null for missing or unknown values.
- If the document is not a bill, still follow the schema.

Document text:
` + snippet(text, extractSnippetLimit)
}

func buildDischargeSummaryPrompt(text string) string {
	return `You are an agent that extracts structured data from a hospital discharge summary.
Return strict JSON only with this schema:
{
  "patient_name": string | null,
  "hospital_name": string | null,
  "admission_date": string | null,
  "discharge_date": string | null,
  "primary_diagnosis": string | null,
  "secondary_diagnoses": [string],
  "procedures": [string],
  "attending_physician": string | null
}
Rules:
- Respond with valid JSON only, no explanations.
- Use null for missing or unknown values.
- Use ISO-like date strings when possible (e.g., 2024-01-31).

Document text:
` + snippet(text, extractSnippetLimit)
}

func buildIDCardPrompt(text string) string {
	return `You are an agent that extracts structured data from a patient ID card or insurance card.
Return strict JSON only with this schema:
{
  "patient_name": string | null,
  "id_number": string | null,
  "policy_number": string | null,
  "insurer_name": string | null,
  "date_of_birth": string | null,
  "valid_from": string | null,
  "valid_to": string | null
}
Rules:
- Respond with valid JSON only, no explanations.
- Use null for missing or unknown values.
- Use ISO-like date strings when possible.

Document text:
` + snippet(text, extractSnippetLimit)
}

func buildPharmacyBillPrompt(text string) string {
	return `You are an agent that extracts structured data from a pharmacy bill or medicine invoice.
Return strict JSON only with this schema:
{
  "patient_name": string | null,
  "pharmacy_name": string | null,
  "bill_date": string | null,
  "total_amount": number | null,
  "currency": string | null,
  "items": [
    {
      "drug_name": string | null,
      "dosage": string | null,
      "quantity": number | null,
      "unit_price": number | null,
      "amount": number | null
    }
  ]
}
Rules:
- Respond with valid JSON only, no explanations.
- Use null for missing or unknown values.
- If this is not a pharmacy bill, still follow the schema.

Document text:
` + snippet(text, extractSnippetLimit)
}
