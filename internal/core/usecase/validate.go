package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/mkravchenko/claimflow/internal/core/domain"
)

// Validator is the cross-document consistency and decision engine. It is
// pure: no I/O, no clock, fully deterministic over its input list, so the
// same documents always yield byte-identical reports.
type Validator struct {
	// CalendarDates switches the temporal containment check to parsed
	// YYYY-MM-DD comparison. Off by default: the compatible behavior is
	// lexicographic ordering on the literal extracted strings, which is only
	// correct when all three dates share a sortable format. A date that does
	// not parse falls back to string ordering either way.
	CalendarDates bool
}

func NewValidator(calendarDates bool) *Validator {
	return &Validator{CalendarDates: calendarDates}
}

// Validate runs the fixed check sequence (presence, name, date, amount) over
// the complete document list and synthesizes the decision.
func (v *Validator) Validate(documents []domain.ClaimDocument) domain.ValidationReport {
	missing := missingCategories(documents)

	var discrepancies []string
	discrepancies = append(discrepancies, v.checkPatientNames(documents)...)
	discrepancies = append(discrepancies, v.checkBillDateWithinStay(documents)...)
	discrepancies = append(discrepancies, v.checkTotalAmount(documents)...)
	if discrepancies == nil {
		discrepancies = []string{}
	}

	return domain.ValidationReport{
		Validation: domain.ValidationResult{
			MissingDocuments: missing,
			Discrepancies:    discrepancies,
		},
		Decision: decide(missing, discrepancies),
	}
}

// missingCategories collects absent required categories in the fixed check
// order. Presence is category-based: a degraded (unreadable) document still
// counts as present.
func missingCategories(documents []domain.ClaimDocument) []domain.Category {
	present := make(map[domain.Category]bool, len(documents))
	for _, doc := range documents {
		present[doc.DocType] = true
	}

	missing := []domain.Category{}
	for _, category := range domain.RequiredCategories {
		if !present[category] {
			missing = append(missing, category)
		}
	}
	return missing
}

// firstByCategory returns the first document of the category in list order.
// Multiples of the same category are tolerated; only the first participates
// in cross-checks.
func firstByCategory(documents []domain.ClaimDocument, category domain.Category) *domain.ClaimDocument {
	for i := range documents {
		if documents[i].DocType == category {
			return &documents[i]
		}
	}
	return nil
}

// checkPatientNames compares normalized patient names across the required
// categories, baseline-vs-rest: every entry after the first is compared to
// the first only. Two later entries that disagree with each other but both
// match the baseline raise nothing; that asymmetry is part of the contract.
func (v *Validator) checkPatientNames(documents []domain.ClaimDocument) []string {
	type namedSource struct {
		category domain.Category
		name     string
	}

	var names []namedSource
	for _, category := range domain.RequiredCategories {
		doc := firstByCategory(documents, category)
		if doc == nil {
			continue
		}
		raw := doc.StructuredData.PatientName()
		if raw == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(*raw))
		if name == "" {
			continue
		}
		names = append(names, namedSource{category: category, name: name})
	}

	// Fewer than two data points cannot disagree.
	if len(names) < 2 {
		return nil
	}

	var findings []string
	base := names[0]
	for _, other := range names[1:] {
		if other.name != base.name {
			findings = append(findings, fmt.Sprintf(
				"Patient name mismatch between %s and %s ('%s' vs '%s').",
				base.category, other.category, base.name, other.name,
			))
		}
	}
	return findings
}

// checkBillDateWithinStay verifies admission <= bill <= discharge. The check
// is skipped, not flagged, when any of the three dates is absent.
func (v *Validator) checkBillDateWithinStay(documents []domain.ClaimDocument) []string {
	billDoc := firstByCategory(documents, domain.CategoryBill)
	dischargeDoc := firstByCategory(documents, domain.CategoryDischargeSummary)
	if billDoc == nil || dischargeDoc == nil || billDoc.StructuredData.Bill == nil || dischargeDoc.StructuredData.Discharge == nil {
		return nil
	}

	billDate := deref(billDoc.StructuredData.Bill.BillDate)
	admission := deref(dischargeDoc.StructuredData.Discharge.AdmissionDate)
	discharge := deref(dischargeDoc.StructuredData.Discharge.DischargeDate)
	if billDate == "" || admission == "" || discharge == "" {
		return nil
	}

	if v.dateLTE(admission, billDate) && v.dateLTE(billDate, discharge) {
		return nil
	}
	return []string{fmt.Sprintf(
		"Bill date %s is outside admission period %s–%s.",
		billDate, admission, discharge,
	)}
}

// dateLTE compares two date strings. Default mode is plain lexicographic
// ordering; calendar mode parses YYYY-MM-DD and only falls back to string
// ordering when either side does not parse.
func (v *Validator) dateLTE(a, b string) bool {
	if v.CalendarDates {
		ta, errA := time.Parse("2006-01-02", a)
		tb, errB := time.Parse("2006-01-02", b)
		if errA == nil && errB == nil {
			return !ta.After(tb)
		}
	}
	return a <= b
}

// checkTotalAmount flags a non-positive bill total. A missing amount is not
// evidence of a problem at this layer; unreadable bills already carry the
// extraction_failed marker upstream.
func (v *Validator) checkTotalAmount(documents []domain.ClaimDocument) []string {
	billDoc := firstByCategory(documents, domain.CategoryBill)
	if billDoc == nil || billDoc.StructuredData.Bill == nil {
		return nil
	}
	amount := billDoc.StructuredData.Bill.TotalAmount
	if amount == nil || *amount > 0 {
		return nil
	}
	return []string{"Bill total_amount must be positive."}
}

// decide synthesizes the final status, first match wins. The rejected status
// exists in the schema for forward compatibility; no rule here produces it.
func decide(missing []domain.Category, discrepancies []string) domain.ClaimDecision {
	if len(missing) > 0 {
		return domain.ClaimDecision{
			Status: domain.StatusManualReview,
			Reason: "Missing required documents: " + joinCategories(missing),
		}
	}
	if len(discrepancies) > 0 {
		return domain.ClaimDecision{
			Status: domain.StatusManualReview,
			Reason: fmt.Sprintf("Found %d potential inconsistencies.", len(discrepancies)),
		}
	}
	return domain.ClaimDecision{
		Status: domain.StatusApproved,
		Reason: "All required documents present and basic checks passed.",
	}
}

func joinCategories(categories []domain.Category) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
