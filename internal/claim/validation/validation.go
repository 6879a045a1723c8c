// Package validation evaluates structural and business rules over a claim
// submission. The engine is pure: no I/O, deterministic output ordering, and
// every rule runs even when an earlier rule already produced an error.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nphies/claims-service/internal/claim/domain"
)

var (
	// 4-5 digits with an optional trailing letter, e.g. 99213 or 0001A.
	serviceCodePattern = regexp.MustCompile(`^\d{4,5}[A-Z]?$`)
	// One letter, two digits, optional dot plus 1-4 alphanumerics, e.g. E11.9.
	icd10Pattern = regexp.MustCompile(`^[A-Z]\d{2}(\.[0-9A-Z]{1,4})?$`)
)

const icd10CodeType = "ICD-10"

// Validate runs every rule over the submission and accumulates findings in
// rule order. ERROR findings block submission; WARNING and INFO do not.
func Validate(req domain.SubmitClaimRequest) []domain.Finding {
	var findings []domain.Finding

	if len(req.ClaimLines) == 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityError,
			Code:     domain.CodeMissingClaimLines,
			Message:  "at least one claim line is required",
			Field:    "claim_lines",
		})
	}

	if len(req.DiagnosisCodes) == 0 {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityError,
			Code:     domain.CodeMissingDiagnosis,
			Message:  "at least one diagnosis code is required",
			Field:    "diagnosis_codes",
		})
	}

	var calculated domain.Money
	for _, line := range req.ClaimLines {
		calculated += line.ChargedAmount.MulUnits(line.Units)
	}
	if calculated != req.TotalAmount {
		findings = append(findings, domain.Finding{
			Severity: domain.SeverityWarning,
			Code:     domain.CodeAmountMismatch,
			Message: fmt.Sprintf("declared total %s does not match claim line total %s",
				req.TotalAmount, calculated),
			Field: "total_amount",
		})
	}

	for i, line := range req.ClaimLines {
		if !serviceCodePattern.MatchString(line.ServiceCode) {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Code:     domain.CodeInvalidServiceCode,
				Message:  fmt.Sprintf("invalid service code: %s", line.ServiceCode),
				Field:    fmt.Sprintf("claim_lines[%d].service_code", i),
			})
		}
	}

	for i, diag := range req.DiagnosisCodes {
		if !validDiagnosisCode(diag.Code, diag.CodeType) {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityError,
				Code:     domain.CodeInvalidDiagnosisCode,
				Message:  fmt.Sprintf("invalid diagnosis code: %s", diag.Code),
				Field:    fmt.Sprintf("diagnosis_codes[%d].code", i),
			})
		}
	}

	if len(req.DiagnosisCodes) > 0 {
		primary := 0
		for _, diag := range req.DiagnosisCodes {
			if diag.IsPrimary {
				primary++
			}
		}
		if primary != 1 {
			findings = append(findings, domain.Finding{
				Severity: domain.SeverityWarning,
				Code:     domain.CodePrimaryDiagnosis,
				Message:  fmt.Sprintf("expected exactly one primary diagnosis, found %d", primary),
				Field:    "diagnosis_codes",
			})
		}
	}

	return findings
}

func validDiagnosisCode(code, codeType string) bool {
	if codeType == icd10CodeType {
		return icd10Pattern.MatchString(code)
	}
	return strings.TrimSpace(code) != ""
}
