package domain

// Severity grades a validation finding.
type Severity string

const (
	SeverityInfo    Severity = "INFO"
	SeverityWarning Severity = "WARNING"
	SeverityError   Severity = "ERROR"
)

// Machine-readable finding codes.
const (
	CodeMissingClaimLines    = "MISSING_CLAIM_LINES"
	CodeMissingDiagnosis     = "MISSING_DIAGNOSIS"
	CodeAmountMismatch       = "AMOUNT_MISMATCH"
	CodeInvalidServiceCode   = "INVALID_SERVICE_CODE"
	CodeInvalidDiagnosisCode = "INVALID_DIAGNOSIS_CODE"
	CodePrimaryDiagnosis     = "PRIMARY_DIAGNOSIS"
	CodeEligibilityFailed    = "ELIGIBILITY_FAILED"
)

// Finding is one validation outcome attached to a submission response.
type Finding struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Field    string   `json:"field,omitempty"`
}

// HasErrors reports whether any finding carries ERROR severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// NonBlocking returns the findings that do not block submission.
func NonBlocking(findings []Finding) []Finding {
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		if f.Severity != SeverityError {
			out = append(out, f)
		}
	}
	return out
}
