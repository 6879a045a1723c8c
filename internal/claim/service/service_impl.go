package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/nphies/claims-service/internal/claim/domain"
	"github.com/nphies/claims-service/internal/claim/validation"
	"github.com/nphies/claims-service/internal/clock"
	"github.com/nphies/claims-service/internal/eligibility"
	"github.com/nphies/claims-service/internal/events"
	obsmetrics "github.com/nphies/claims-service/internal/observability/metrics"
	"github.com/nphies/claims-service/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Repo        domain.Repository
	Eligibility eligibility.Checker
	Publisher   events.Publisher `optional:"true"`
	Clock       clock.Clock
	Metrics     *obsmetrics.Metrics `optional:"true"`
}

// Service orchestrates the submission pipeline: idempotency guard,
// validation, eligibility gate, persistence under the state machine, and
// event emission.
type Service struct {
	db  *gorm.DB
	log *zap.Logger

	genID       *snowflake.Node
	repo        domain.Repository
	eligibility eligibility.Checker
	publisher   events.Publisher
	clock       clock.Clock
	metrics     *obsmetrics.Metrics
}

func NewService(p ServiceParam) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("claim.service"),

		genID:       p.GenID,
		repo:        p.Repo,
		eligibility: p.Eligibility,
		publisher:   p.Publisher,
		clock:       p.Clock,
		metrics:     p.Metrics,
	}
}

// Submit runs the full pipeline for one claim submission. Duplicate,
// validation-rejected and eligibility-rejected submissions are normal
// outcomes, not errors; only infrastructure failures return a non-nil
// error.
func (s *Service) Submit(ctx context.Context, req domain.SubmitClaimRequest) (domain.SubmissionResult, error) {
	if strings.TrimSpace(req.ProviderID) == "" {
		return domain.SubmissionResult{}, domain.ErrInvalidProvider
	}
	if strings.TrimSpace(req.MemberID) == "" {
		return domain.SubmissionResult{}, domain.ErrInvalidMember
	}
	if strings.TrimSpace(req.PayerID) == "" {
		return domain.SubmissionResult{}, domain.ErrInvalidPayer
	}
	if req.TotalAmount < 0 {
		return domain.SubmissionResult{}, domain.ErrInvalidTotalAmount
	}

	key := normalizeIdempotencyKey(req.IdempotencyKey)
	if key != "" {
		existing, err := s.repo.FindByIdempotencyKey(ctx, s.db, key)
		if err != nil {
			return domain.SubmissionResult{}, fmt.Errorf("idempotency lookup: %w", err)
		}
		if existing != nil {
			s.metrics.RecordSubmission(string(domain.StatusDuplicate))
			return duplicateResult(existing), nil
		}
	}

	findings := validation.Validate(req)

	eligible := s.eligibility.CheckEligibility(ctx, req.MemberID, req.PayerID)
	s.metrics.RecordEligibilityCheck(eligible)
	if !eligible {
		// No claim record exists for an eligibility rejection, so nothing
		// is persisted and no event is emitted.
		s.metrics.RecordSubmission(string(domain.StatusRejected))
		return domain.SubmissionResult{
			Status: domain.StatusRejected,
			Findings: []domain.Finding{{
				Severity: domain.SeverityError,
				Code:     domain.CodeEligibilityFailed,
				Message:  "member is not eligible for benefits",
			}},
		}, nil
	}

	claim := s.buildClaim(req, key)
	blocked := domain.HasErrors(findings)
	if blocked {
		// Validation rejections are persisted so the claim identifier is
		// stable and queryable.
		claim.Status = domain.StatusRejected
	}

	var winner *domain.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		inserted, err := s.repo.Insert(ctx, tx, claim)
		if err != nil {
			return err
		}
		if !inserted {
			existing, err := s.repo.FindByIdempotencyKey(ctx, tx, key)
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("idempotency conflict for key %q with no winning claim", key)
			}
			winner = existing
		}
		return nil
	})
	if err != nil {
		return domain.SubmissionResult{}, fmt.Errorf("persist claim: %w", err)
	}

	// Lost the insert race against a concurrent submission with the same
	// key; answer with the winner's identifiers.
	if winner != nil {
		s.metrics.RecordSubmission(string(domain.StatusDuplicate))
		return duplicateResult(winner), nil
	}

	if blocked {
		s.metrics.RecordSubmission(string(domain.StatusRejected))
		return domain.SubmissionResult{
			ClaimID:        claim.ClaimID,
			TrackingNumber: claim.TrackingNumber,
			Status:         domain.StatusRejected,
			SubmittedAt:    &claim.CreatedAt,
			Findings:       findings,
		}, nil
	}

	s.publish(ctx, events.TypeClaimSubmitted, claim)
	s.metrics.RecordSubmission(string(domain.StatusSubmitted))
	return domain.SubmissionResult{
		ClaimID:        claim.ClaimID,
		TrackingNumber: claim.TrackingNumber,
		Status:         domain.StatusSubmitted,
		SubmittedAt:    &claim.CreatedAt,
		Findings:       domain.NonBlocking(findings),
	}, nil
}

// Reprocess re-enters a stored claim into the pipeline. Validation and
// eligibility are not re-run; the claim is simply handed back to
// processing.
func (s *Service) Reprocess(ctx context.Context, claimID string) (domain.SubmissionResult, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return domain.SubmissionResult{}, domain.ErrInvalidClaimID
	}

	var updated *domain.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.repo.FindByClaimIDForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return domain.ErrClaimNotFound
		}
		if !transitionAllowed(claim.Status, domain.StatusReprocessing) {
			return domain.ErrInvalidTransition
		}

		// REPROCESSING immediately re-enters the pipeline as PROCESSING;
		// the stored status reflects where the claim is now.
		claim.Status = domain.StatusProcessing
		claim.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, claim); err != nil {
			return err
		}
		updated = claim
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return domain.SubmissionResult{}, err
		}
		return domain.SubmissionResult{}, fmt.Errorf("reprocess claim: %w", err)
	}

	s.publish(ctx, events.TypeClaimReprocessing, updated)
	return domain.SubmissionResult{
		ClaimID:        updated.ClaimID,
		TrackingNumber: updated.TrackingNumber,
		Status:         domain.StatusReprocessing,
		SubmittedAt:    &updated.CreatedAt,
	}, nil
}

// Transition moves a claim along the lifecycle, e.g. when adjudication
// reports its outcome. Reprocessing goes through Reprocess instead.
func (s *Service) Transition(ctx context.Context, claimID string, target domain.Status) (*domain.Claim, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return nil, domain.ErrInvalidClaimID
	}
	if !target.Valid() || target == domain.StatusReprocessing || target == domain.StatusDuplicate {
		return nil, domain.ErrInvalidTargetStatus
	}

	var updated *domain.Claim
	err := s.db.Transaction(func(tx *gorm.DB) error {
		claim, err := s.repo.FindByClaimIDForUpdate(ctx, tx, claimID)
		if err != nil {
			return err
		}
		if claim == nil {
			return domain.ErrClaimNotFound
		}
		if claim.Status == target {
			updated = claim
			return nil
		}
		if !transitionAllowed(claim.Status, target) {
			return domain.ErrInvalidTransition
		}

		claim.Status = target
		claim.UpdatedAt = s.clock.Now()
		if err := s.repo.UpdateStatus(ctx, tx, claim); err != nil {
			return err
		}
		updated = claim
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrClaimNotFound) || errors.Is(err, domain.ErrInvalidTransition) {
			return nil, err
		}
		return nil, fmt.Errorf("transition claim: %w", err)
	}

	s.publish(ctx, events.TypeClaimStatusChange, updated)
	return updated, nil
}

func (s *Service) GetStatus(ctx context.Context, claimID string) (domain.ClaimStatusResponse, error) {
	claim, err := s.Get(ctx, claimID)
	if err != nil {
		return domain.ClaimStatusResponse{}, err
	}
	return domain.ClaimStatusResponse{
		ClaimID:        claim.ClaimID,
		Status:         claim.Status,
		TrackingNumber: claim.TrackingNumber,
		LastUpdated:    claim.UpdatedAt,
		TotalAmount:    claim.TotalAmount,
	}, nil
}

func (s *Service) Get(ctx context.Context, claimID string) (*domain.Claim, error) {
	claimID = strings.TrimSpace(claimID)
	if claimID == "" {
		return nil, domain.ErrInvalidClaimID
	}
	claim, err := s.repo.FindByClaimID(ctx, s.db, claimID)
	if err != nil {
		return nil, fmt.Errorf("find claim: %w", err)
	}
	if claim == nil {
		return nil, domain.ErrClaimNotFound
	}
	return claim, nil
}

func (s *Service) ListByProvider(ctx context.Context, req domain.ListClaimsRequest) (domain.ListClaimsResponse, error) {
	if strings.TrimSpace(req.ProviderID) == "" {
		return domain.ListClaimsResponse{}, domain.ErrInvalidProvider
	}
	return s.list(ctx, domain.ListClaimsFilter{ProviderID: req.ProviderID, Status: req.Status}, req.Page)
}

func (s *Service) ListByMember(ctx context.Context, req domain.ListClaimsRequest) (domain.ListClaimsResponse, error) {
	if strings.TrimSpace(req.MemberID) == "" {
		return domain.ListClaimsResponse{}, domain.ErrInvalidMember
	}
	return s.list(ctx, domain.ListClaimsFilter{MemberID: req.MemberID, Status: req.Status}, req.Page)
}

func (s *Service) list(ctx context.Context, filter domain.ListClaimsFilter, page pagination.Pagination) (domain.ListClaimsResponse, error) {
	claims, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListClaimsResponse{}, fmt.Errorf("list claims: %w", err)
	}

	claims, info := pagination.BuildCursorPageInfo(claims, page.Limit(), func(c *domain.Claim) pagination.Cursor {
		return pagination.Cursor{
			ID:        c.ID.String(),
			CreatedAt: c.CreatedAt.Format(time.RFC3339Nano),
		}
	})
	return domain.ListClaimsResponse{PageInfo: info, Claims: claims}, nil
}

func (s *Service) buildClaim(req domain.SubmitClaimRequest, key string) *domain.Claim {
	now := s.clock.Now()

	createdBy := strings.TrimSpace(req.CreatedBy)
	if createdBy == "" {
		createdBy = "system"
	}

	claim := &domain.Claim{
		ID:             s.genID.Generate(),
		ClaimID:        "CLM" + s.genID.Generate().String(),
		ProviderID:     req.ProviderID,
		MemberID:       req.MemberID,
		PayerID:        req.PayerID,
		ServiceDate:    req.ServiceDate,
		TotalAmount:    req.TotalAmount,
		Type:           strings.ToUpper(strings.TrimSpace(req.Type)),
		TrackingNumber: newTrackingNumber(),
		Status:         domain.StatusSubmitted,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      createdBy,
	}
	if key != "" {
		claim.IdempotencyKey = &key
	}

	for i, line := range req.ClaimLines {
		claim.ClaimLines = append(claim.ClaimLines, domain.ClaimLine{
			ID:             s.genID.Generate(),
			Sequence:       i + 1,
			ServiceCode:    line.ServiceCode,
			ServiceDate:    line.ServiceDate,
			Units:          line.Units,
			ChargedAmount:  line.ChargedAmount,
			PlaceOfService: line.PlaceOfService,
			Modifiers:      line.Modifiers,
			Description:    line.Description,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	for i, diag := range req.DiagnosisCodes {
		seq := diag.SequenceNumber
		if seq == 0 {
			seq = i + 1
		}
		claim.DiagnosisCodes = append(claim.DiagnosisCodes, domain.DiagnosisCode{
			ID:             s.genID.Generate(),
			Code:           diag.Code,
			CodeType:       diag.CodeType,
			Description:    diag.Description,
			IsPrimary:      diag.IsPrimary,
			SequenceNumber: seq,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
	}
	return claim
}

// publish attempts event delivery exactly once after the transaction has
// committed. Failures are logged and swallowed; a missed event never fails
// the operation.
func (s *Service) publish(ctx context.Context, eventType string, claim *domain.Claim) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.Publish(ctx, events.ClaimEvent{
		EventType: eventType,
		ClaimID:   claim.ClaimID,
		Status:    string(claim.Status),
		Timestamp: s.clock.Now(),
	})
	s.metrics.RecordEventPublished(eventType, err)
	if err != nil {
		s.log.Error("failed to publish claim event",
			zap.String("event_type", eventType),
			zap.String("claim_id", claim.ClaimID),
			zap.Error(err),
		)
	}
}

func duplicateResult(claim *domain.Claim) domain.SubmissionResult {
	return domain.SubmissionResult{
		ClaimID:        claim.ClaimID,
		TrackingNumber: claim.TrackingNumber,
		Status:         domain.StatusDuplicate,
		SubmittedAt:    &claim.CreatedAt,
	}
}

func normalizeIdempotencyKey(key string) string {
	return strings.TrimSpace(key)
}

// newTrackingNumber returns an opaque 12-character uppercase alphanumeric
// token, not derived from the claim identifier.
func newTrackingNumber() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return raw[:12]
}
