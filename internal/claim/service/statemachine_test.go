package service

import (
	"testing"

	"github.com/nphies/claims-service/internal/claim/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.Status
		to      domain.Status
		allowed bool
	}{
		{"submitted to processing", domain.StatusSubmitted, domain.StatusProcessing, true},
		{"submitted to approved", domain.StatusSubmitted, domain.StatusApproved, false},
		{"processing to under review", domain.StatusProcessing, domain.StatusUnderReview, true},
		{"processing to approved", domain.StatusProcessing, domain.StatusApproved, true},
		{"processing to rejected", domain.StatusProcessing, domain.StatusRejected, true},
		{"under review to approved", domain.StatusUnderReview, domain.StatusApproved, true},
		{"under review to rejected", domain.StatusUnderReview, domain.StatusRejected, true},
		{"under review to processing", domain.StatusUnderReview, domain.StatusProcessing, false},
		{"reprocessing to processing", domain.StatusReprocessing, domain.StatusProcessing, true},
		{"any active to reprocessing", domain.StatusUnderReview, domain.StatusReprocessing, true},
		{"any active to error", domain.StatusSubmitted, domain.StatusError, true},
		{"approved is terminal", domain.StatusApproved, domain.StatusReprocessing, false},
		{"rejected is terminal", domain.StatusRejected, domain.StatusProcessing, false},
		{"duplicate is terminal", domain.StatusDuplicate, domain.StatusProcessing, false},
		{"error is terminal", domain.StatusError, domain.StatusReprocessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, transitionAllowed(tt.from, tt.to))
		})
	}
}
