package validation

import (
	"testing"

	"github.com/nphies/claims-service/internal/claim/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() domain.SubmitClaimRequest {
	return domain.SubmitClaimRequest{
		ProviderID:  "PRV-001",
		MemberID:    "MBR-001",
		PayerID:     "PAY-001",
		TotalAmount: 15000,
		ClaimLines: []domain.ClaimLineRequest{
			{ServiceCode: "99213", Units: 2, ChargedAmount: 5000},
			{ServiceCode: "0001A", Units: 1, ChargedAmount: 5000},
		},
		DiagnosisCodes: []domain.DiagnosisCodeRequest{
			{Code: "E11.9", CodeType: "ICD-10", IsPrimary: true},
			{Code: "I10", CodeType: "ICD-10"},
		},
	}
}

func findingCodes(findings []domain.Finding) []string {
	codes := make([]string, 0, len(findings))
	for _, f := range findings {
		codes = append(codes, f.Code)
	}
	return codes
}

func TestValidate_CleanClaim(t *testing.T) {
	findings := Validate(validRequest())
	assert.Empty(t, findings)
}

func TestValidate_MissingLinesAndDiagnoses(t *testing.T) {
	req := validRequest()
	req.ClaimLines = nil
	req.DiagnosisCodes = nil
	req.TotalAmount = 0

	findings := Validate(req)
	assert.ElementsMatch(t,
		[]string{domain.CodeMissingClaimLines, domain.CodeMissingDiagnosis},
		findingCodes(findings),
	)
	assert.True(t, domain.HasErrors(findings))
}

func TestValidate_AmountMismatchIsWarning(t *testing.T) {
	req := validRequest()
	req.TotalAmount = 15001

	findings := Validate(req)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.CodeAmountMismatch, findings[0].Code)
	assert.Equal(t, domain.SeverityWarning, findings[0].Severity)
	assert.False(t, domain.HasErrors(findings))
}

func TestValidate_AmountMismatchWithoutLines(t *testing.T) {
	// An empty claim with a nonzero declared total still trips the
	// reconciliation rule against a calculated total of zero.
	req := validRequest()
	req.ClaimLines = nil
	req.TotalAmount = 100

	findings := Validate(req)
	assert.Contains(t, findingCodes(findings), domain.CodeAmountMismatch)
}

func TestValidate_ServiceCodes(t *testing.T) {
	tests := []struct {
		code  string
		valid bool
	}{
		{"99213", true},
		{"0001A", true},
		{"1234", true},
		{"123", false},
		{"123456", false},
		{"99213a", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			req := validRequest()
			req.ClaimLines = []domain.ClaimLineRequest{
				{ServiceCode: tt.code, Units: 1, ChargedAmount: 15000},
			}

			findings := Validate(req)
			if tt.valid {
				assert.NotContains(t, findingCodes(findings), domain.CodeInvalidServiceCode)
			} else {
				assert.Contains(t, findingCodes(findings), domain.CodeInvalidServiceCode)
			}
		})
	}
}

func TestValidate_DiagnosisCodes(t *testing.T) {
	req := validRequest()
	req.DiagnosisCodes = []domain.DiagnosisCodeRequest{
		{Code: "E11.9", CodeType: "ICD-10", IsPrimary: true},
		{Code: "bogus", CodeType: "ICD-10"},
		{Code: "LOCAL-42", CodeType: "LOCAL"},
	}

	findings := Validate(req)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.CodeInvalidDiagnosisCode, findings[0].Code)
	assert.Equal(t, "diagnosis_codes[1].code", findings[0].Field)
}

func TestValidate_PrimaryDiagnosisWarning(t *testing.T) {
	req := validRequest()
	req.DiagnosisCodes = []domain.DiagnosisCodeRequest{
		{Code: "E11.9", CodeType: "ICD-10"},
		{Code: "I10", CodeType: "ICD-10"},
	}

	findings := Validate(req)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.CodePrimaryDiagnosis, findings[0].Code)
	assert.Equal(t, domain.SeverityWarning, findings[0].Severity)

	req.DiagnosisCodes[0].IsPrimary = true
	req.DiagnosisCodes[1].IsPrimary = true
	findings = Validate(req)
	require.Len(t, findings, 1)
	assert.Equal(t, domain.CodePrimaryDiagnosis, findings[0].Code)
}
