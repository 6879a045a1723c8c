package domain

import (
	"context"
	"errors"
	"time"

	"github.com/nphies/claims-service/pkg/db/pagination"
)

// SubmitClaimRequest is a provider's claim submission.
type SubmitClaimRequest struct {
	ProviderID     string                 `json:"provider_id" binding:"required"`
	MemberID       string                 `json:"member_id" binding:"required"`
	PayerID        string                 `json:"payer_id" binding:"required"`
	ServiceDate    time.Time              `json:"service_date"`
	TotalAmount    Money                  `json:"total_amount"`
	Type           string                 `json:"type"`
	IdempotencyKey string                 `json:"idempotency_key"`
	CreatedBy      string                 `json:"-"`
	ClaimLines     []ClaimLineRequest     `json:"claim_lines"`
	DiagnosisCodes []DiagnosisCodeRequest `json:"diagnosis_codes"`
}

type ClaimLineRequest struct {
	ServiceCode    string    `json:"service_code"`
	ServiceDate    time.Time `json:"service_date"`
	Units          int       `json:"units"`
	ChargedAmount  Money     `json:"charged_amount"`
	PlaceOfService string    `json:"place_of_service"`
	Modifiers      []string  `json:"modifiers"`
	Description    string    `json:"description"`
}

type DiagnosisCodeRequest struct {
	Code           string `json:"code"`
	CodeType       string `json:"code_type"`
	Description    string `json:"description"`
	IsPrimary      bool   `json:"is_primary"`
	SequenceNumber int    `json:"sequence_number"`
}

// SubmissionResult summarizes the outcome of a submit or reprocess call.
// ClaimID and TrackingNumber are empty when no claim record exists (an
// eligibility rejection creates nothing).
type SubmissionResult struct {
	ClaimID        string     `json:"claim_id,omitempty"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	Status         Status     `json:"status"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	Findings       []Finding  `json:"findings,omitempty"`
}

type ClaimStatusResponse struct {
	ClaimID        string    `json:"claim_id"`
	Status         Status    `json:"status"`
	TrackingNumber string    `json:"tracking_number"`
	LastUpdated    time.Time `json:"last_updated"`
	TotalAmount    Money     `json:"total_amount"`
}

type ListClaimsRequest struct {
	ProviderID string
	MemberID   string
	Status     string
	Page       pagination.Pagination
}

type ListClaimsResponse struct {
	pagination.PageInfo
	Claims []*Claim `json:"claims"`
}

type Service interface {
	Submit(ctx context.Context, req SubmitClaimRequest) (SubmissionResult, error)
	Reprocess(ctx context.Context, claimID string) (SubmissionResult, error)
	GetStatus(ctx context.Context, claimID string) (ClaimStatusResponse, error)
	Get(ctx context.Context, claimID string) (*Claim, error)
	Transition(ctx context.Context, claimID string, target Status) (*Claim, error)
	ListByProvider(ctx context.Context, req ListClaimsRequest) (ListClaimsResponse, error)
	ListByMember(ctx context.Context, req ListClaimsRequest) (ListClaimsResponse, error)
}

var (
	ErrClaimNotFound       = errors.New("claim_not_found")
	ErrInvalidClaimID      = errors.New("invalid_claim_id")
	ErrInvalidProvider     = errors.New("invalid_provider")
	ErrInvalidMember       = errors.New("invalid_member")
	ErrInvalidPayer        = errors.New("invalid_payer")
	ErrInvalidTotalAmount  = errors.New("invalid_total_amount")
	ErrInvalidTargetStatus = errors.New("invalid_target_status")
	ErrInvalidTransition   = errors.New("invalid_status_transition")
)
