package domain

// Status is the claim lifecycle state.
type Status string

const (
	StatusSubmitted    Status = "SUBMITTED"
	StatusProcessing   Status = "PROCESSING"
	StatusUnderReview  Status = "UNDER_REVIEW"
	StatusApproved     Status = "APPROVED"
	StatusRejected     Status = "REJECTED"
	StatusReprocessing Status = "REPROCESSING"
	StatusDuplicate    Status = "DUPLICATE"
	StatusError        Status = "ERROR"
)

// Terminal reports whether the status permits no further transitions.
// Downstream adjudication may reopen approved or rejected claims, but that
// is outside this service.
func (s Status) Terminal() bool {
	switch s {
	case StatusApproved, StatusRejected, StatusDuplicate, StatusError:
		return true
	}
	return false
}

// Valid reports whether the value is a known lifecycle status.
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusProcessing, StatusUnderReview, StatusApproved,
		StatusRejected, StatusReprocessing, StatusDuplicate, StatusError:
		return true
	}
	return false
}
