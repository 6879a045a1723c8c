package service

import "github.com/nphies/claims-service/internal/claim/domain"

// transitionAllowed encodes the claim lifecycle:
//
//	SUBMITTED → PROCESSING
//	PROCESSING → UNDER_REVIEW | APPROVED | REJECTED
//	UNDER_REVIEW → APPROVED | REJECTED | REPROCESSING
//	REPROCESSING → PROCESSING
//
// Reprocessing may be requested from any non-terminal state, and any
// non-terminal claim may fall into ERROR on an unrecoverable failure.
// APPROVED, REJECTED, DUPLICATE and ERROR are terminal here.
func transitionAllowed(current, target domain.Status) bool {
	if current.Terminal() {
		return false
	}
	switch target {
	case domain.StatusReprocessing, domain.StatusError:
		return true
	}

	switch current {
	case domain.StatusSubmitted:
		return target == domain.StatusProcessing
	case domain.StatusProcessing:
		return target == domain.StatusUnderReview ||
			target == domain.StatusApproved ||
			target == domain.StatusRejected
	case domain.StatusUnderReview:
		return target == domain.StatusApproved ||
			target == domain.StatusRejected
	case domain.StatusReprocessing:
		return target == domain.StatusProcessing
	default:
		return false
	}
}
