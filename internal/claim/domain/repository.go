package domain

import (
	"context"

	"github.com/nphies/claims-service/pkg/db/pagination"
	"gorm.io/gorm"
)

// Repository persists claims with their lines and diagnoses. Insert must be
// atomic with respect to the idempotency key: two concurrent inserts sharing
// a key may create at most one claim, and the loser observes inserted=false.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, claim *Claim) (inserted bool, err error)
	FindByClaimID(ctx context.Context, db *gorm.DB, claimID string) (*Claim, error)
	FindByClaimIDForUpdate(ctx context.Context, db *gorm.DB, claimID string) (*Claim, error)
	FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*Claim, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, claim *Claim) error
	List(ctx context.Context, db *gorm.DB, filter ListClaimsFilter, page pagination.Pagination) ([]*Claim, error)
}

// ListClaimsFilter narrows list queries; zero fields are ignored.
type ListClaimsFilter struct {
	ProviderID string
	MemberID   string
	Status     string
}
