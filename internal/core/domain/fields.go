package domain

import "encoding/json"

// ExtractionStatus marks a degraded record: the document was present but the
// model call (or its output) failed, so every value field is null. Distinct
// from the zero FieldSet, which means no extractor is registered for the
// category at all.
type ExtractionStatus struct {
	ExtractionFailed bool   `json:"extraction_failed,omitempty"`
	ErrorMessage     string `json:"error_message,omitempty"`
}

type LineItem struct {
	Description *string  `json:"description"`
	Quantity    *float64 `json:"quantity"`
	UnitPrice   *float64 `json:"unit_price"`
	Amount      *float64 `json:"amount"`
}

type BillFields struct {
	PatientName  *string    `json:"patient_name"`
	HospitalName *string    `json:"hospital_name"`
	BillDate     *string    `json:"bill_date"`
	TotalAmount  *float64   `json:"total_amount"`
	Currency     *string    `json:"currency"`
	LineItems    []LineItem `json:"line_items"`
	ExtractionStatus
}

type PharmacyItem struct {
	DrugName  *string  `json:"drug_name"`
	Dosage    *string  `json:"dosage"`
	Quantity  *float64 `json:"quantity"`
	UnitPrice *float64 `json:"unit_price"`
	Amount    *float64 `json:"amount"`
}

type PharmacyBillFields struct {
	PatientName  *string        `json:"patient_name"`
	PharmacyName *string        `json:"pharmacy_name"`
	BillDate     *string        `json:"bill_date"`
	TotalAmount  *float64       `json:"total_amount"`
	Currency     *string        `json:"currency"`
	Items        []PharmacyItem `json:"items"`
	ExtractionStatus
}

type DischargeSummaryFields struct {
	PatientName        *string  `json:"patient_name"`
	HospitalName       *string  `json:"hospital_name"`
	AdmissionDate      *string  `json:"admission_date"`
	DischargeDate      *string  `json:"discharge_date"`
	PrimaryDiagnosis   *string  `json:"primary_diagnosis"`
	SecondaryDiagnoses []string `json:"secondary_diagnoses"`
	Procedures         []string `json:"procedures"`
	AttendingPhysician *string  `json:"attending_physician"`
	ExtractionStatus
}

type IDCardFields struct {
	PatientName  *string `json:"patient_name"`
	IDNumber     *string `json:"id_number"`
	PolicyNumber *string `json:"policy_number"`
	InsurerName  *string `json:"insurer_name"`
	DateOfBirth  *string `json:"date_of_birth"`
	ValidFrom    *string `json:"valid_from"`
	ValidTo      *string `json:"valid_to"`
	ExtractionStatus
}

// FieldSet is the one-of container for a document's structured record. At
// most one member is set; the zero value marshals as {} and means the
// category has no dedicated extractor.
type FieldSet struct {
	Bill         *BillFields
	PharmacyBill *PharmacyBillFields
	Discharge    *DischargeSummaryFields
	IDCard       *IDCardFields
}

func (f FieldSet) MarshalJSON() ([]byte, error) {
	switch {
	case f.Bill != nil:
		return json.Marshal(f.Bill)
	case f.PharmacyBill != nil:
		return json.Marshal(f.PharmacyBill)
	case f.Discharge != nil:
		return json.Marshal(f.Discharge)
	case f.IDCard != nil:
		return json.Marshal(f.IDCard)
	default:
		return []byte("{}"), nil
	}
}

// PatientName returns whichever patient name the record carries, or nil.
func (f FieldSet) PatientName() *string {
	switch {
	case f.Bill != nil:
		return f.Bill.PatientName
	case f.PharmacyBill != nil:
		return f.PharmacyBill.PatientName
	case f.Discharge != nil:
		return f.Discharge.PatientName
	case f.IDCard != nil:
		return f.IDCard.PatientName
	default:
		return nil
	}
}

// Status reports the extraction status of whichever record is set.
func (f FieldSet) Status() ExtractionStatus {
	switch {
	case f.Bill != nil:
		return f.Bill.ExtractionStatus
	case f.PharmacyBill != nil:
		return f.PharmacyBill.ExtractionStatus
	case f.Discharge != nil:
		return f.Discharge.ExtractionStatus
	case f.IDCard != nil:
		return f.IDCard.ExtractionStatus
	default:
		return ExtractionStatus{}
	}
}

// DegradedFieldSet builds the fully-shaped, all-null record for a category
// whose extraction failed. List fields stay empty, never null, so consumers
// can always iterate them.
func DegradedFieldSet(category Category, message string) FieldSet {
	status := ExtractionStatus{ExtractionFailed: true, ErrorMessage: message}
	switch category {
	case CategoryBill:
		return FieldSet{Bill: &BillFields{LineItems: []LineItem{}, ExtractionStatus: status}}
	case CategoryPharmacyBill:
		return FieldSet{PharmacyBill: &PharmacyBillFields{Items: []PharmacyItem{}, ExtractionStatus: status}}
	case CategoryDischargeSummary:
		return FieldSet{Discharge: &DischargeSummaryFields{
			SecondaryDiagnoses: []string{},
			Procedures:         []string{},
			ExtractionStatus:   status,
		}}
	case CategoryIDCard:
		return FieldSet{IDCard: &IDCardFields{ExtractionStatus: status}}
	default:
		return FieldSet{}
	}
}
