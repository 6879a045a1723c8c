package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/nphies/claims-service/internal/claim/domain"
	pkgdb "github.com/nphies/claims-service/pkg/db"
	"github.com/nphies/claims-service/pkg/db/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

// Insert creates the claim together with its lines and diagnoses. When the
// claim carries an idempotency key the parent insert uses ON CONFLICT DO
// NOTHING against the key's unique index, so the race between two
// submissions sharing a key is settled by the database: the loser gets
// inserted=false and no rows are written.
func (r *repo) Insert(ctx context.Context, db *gorm.DB, claim *domain.Claim) (bool, error) {
	if claim == nil {
		return false, errors.New("missing claim")
	}

	lines := claim.ClaimLines
	diagnoses := claim.DiagnosisCodes
	claim.ClaimLines = nil
	claim.DiagnosisCodes = nil
	defer func() {
		claim.ClaimLines = lines
		claim.DiagnosisCodes = diagnoses
	}()

	stmt := db.WithContext(ctx).Omit(clause.Associations)
	if claim.IdempotencyKey != nil {
		stmt = stmt.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "idempotency_key"}},
			DoNothing: true,
		})
	}
	result := stmt.Create(claim)
	if result.Error != nil {
		// A concurrent insert can still surface as a raw duplicate-key
		// error on backends where DO NOTHING does not apply cleanly.
		if claim.IdempotencyKey != nil && pkgdb.IsDuplicateKeyErr(result.Error) {
			return false, nil
		}
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	for i := range lines {
		lines[i].ClaimRowID = claim.ID
	}
	for i := range diagnoses {
		diagnoses[i].ClaimRowID = claim.ID
	}
	if len(lines) > 0 {
		if err := db.WithContext(ctx).Create(&lines).Error; err != nil {
			return false, err
		}
	}
	if len(diagnoses) > 0 {
		if err := db.WithContext(ctx).Create(&diagnoses).Error; err != nil {
			return false, err
		}
	}
	return true, nil
}

func (r *repo) FindByClaimID(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error) {
	return r.findOne(ctx, db, "claim_id = ?", claimID, false)
}

func (r *repo) FindByClaimIDForUpdate(ctx context.Context, db *gorm.DB, claimID string) (*domain.Claim, error) {
	return r.findOne(ctx, db, "claim_id = ?", claimID, true)
}

func (r *repo) FindByIdempotencyKey(ctx context.Context, db *gorm.DB, key string) (*domain.Claim, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	return r.findOne(ctx, db, "idempotency_key = ?", key, false)
}

func (r *repo) findOne(ctx context.Context, db *gorm.DB, cond string, arg any, forUpdate bool) (*domain.Claim, error) {
	stmt := db.WithContext(ctx).
		Preload("ClaimLines", func(db *gorm.DB) *gorm.DB { return db.Order("sequence asc") }).
		Preload("DiagnosisCodes", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_number asc") }).
		Where(cond, arg)
	if forUpdate && !strings.EqualFold(db.Dialector.Name(), "sqlite") {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "claims"}})
	}

	var claim domain.Claim
	err := stmt.First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &claim, nil
}

// UpdateStatus persists the current status and updated timestamp. ClaimID
// and TrackingNumber are deliberately not part of the update set.
func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, claim *domain.Claim) error {
	return db.WithContext(ctx).
		Model(&domain.Claim{}).
		Where("id = ?", claim.ID).
		Updates(map[string]any{
			"status":     claim.Status,
			"updated_at": claim.UpdatedAt,
		}).Error
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListClaimsFilter, page pagination.Pagination) ([]*domain.Claim, error) {
	stmt := db.WithContext(ctx).
		Model(&domain.Claim{}).
		Preload("ClaimLines", func(db *gorm.DB) *gorm.DB { return db.Order("sequence asc") }).
		Preload("DiagnosisCodes", func(db *gorm.DB) *gorm.DB { return db.Order("sequence_number asc") })
	if filter.ProviderID != "" {
		stmt = stmt.Where("provider_id = ?", filter.ProviderID)
	}
	if filter.MemberID != "" {
		stmt = stmt.Where("member_id = ?", filter.MemberID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if page.PageToken != "" {
		cursor, err := pagination.DecodeCursor(page.PageToken)
		if err != nil {
			return nil, err
		}
		createdAt, err := time.Parse(time.RFC3339Nano, cursor.CreatedAt)
		if err != nil {
			return nil, err
		}
		cursorID, err := strconv.ParseInt(cursor.ID, 10, 64)
		if err != nil {
			return nil, err
		}
		stmt = stmt.Where("created_at < ? OR (created_at = ? AND id < ?)",
			createdAt, createdAt, cursorID)
	}

	var claims []*domain.Claim
	err := stmt.
		Order("created_at desc, id desc").
		Limit(page.Limit() + 1).
		Find(&claims).Error
	if err != nil {
		return nil, err
	}
	return claims, nil
}
