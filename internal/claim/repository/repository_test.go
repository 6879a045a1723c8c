package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/nphies/claims-service/internal/claim/domain"
	"github.com/nphies/claims-service/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Claim{}, &domain.ClaimLine{}, &domain.DiagnosisCode{}))
	return db
}

func newTestClaim(genID *snowflake.Node, key string, createdAt time.Time) *domain.Claim {
	claim := &domain.Claim{
		ID:             genID.Generate(),
		ClaimID:        "CLM" + genID.Generate().String(),
		ProviderID:     "PRV-001",
		MemberID:       "MBR-001",
		PayerID:        "PAY-001",
		ServiceDate:    createdAt,
		TotalAmount:    15000,
		Type:           "PROFESSIONAL",
		TrackingNumber: fmt.Sprintf("TRK%d", genID.Generate()),
		Status:         domain.StatusSubmitted,
		CreatedAt:      createdAt,
		UpdatedAt:      createdAt,
		CreatedBy:      "system",
		ClaimLines: []domain.ClaimLine{
			{ID: genID.Generate(), Sequence: 1, ServiceCode: "99213", Units: 2, ChargedAmount: 5000, Modifiers: domain.StringList{"25"}},
			{ID: genID.Generate(), Sequence: 2, ServiceCode: "0001A", Units: 1, ChargedAmount: 5000},
		},
		DiagnosisCodes: []domain.DiagnosisCode{
			{ID: genID.Generate(), Code: "E11.9", CodeType: "ICD-10", IsPrimary: true, SequenceNumber: 1},
			{ID: genID.Generate(), Code: "I10", CodeType: "ICD-10", SequenceNumber: 2},
		},
	}
	if key != "" {
		claim.IdempotencyKey = &key
	}
	return claim
}

func TestInsertAndFindRoundTrip(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	genID, _ := snowflake.NewNode(1)
	ctx := context.Background()

	claim := newTestClaim(genID, "key-1", time.Now().UTC())
	inserted, err := repo.Insert(ctx, db, claim)
	require.NoError(t, err)
	assert.True(t, inserted)

	found, err := repo.FindByClaimID(ctx, db, claim.ClaimID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, claim.ClaimID, found.ClaimID)
	assert.Equal(t, domain.Money(15000), found.TotalAmount)
	require.Len(t, found.ClaimLines, 2)
	assert.Equal(t, 1, found.ClaimLines[0].Sequence)
	assert.Equal(t, domain.StringList{"25"}, found.ClaimLines[0].Modifiers)
	require.Len(t, found.DiagnosisCodes, 2)
	assert.True(t, found.DiagnosisCodes[0].IsPrimary)
}

func TestFindByClaimID_NotFound(t *testing.T) {
	db := setupDB(t)
	repo := Provide()

	found, err := repo.FindByClaimID(context.Background(), db, "CLM-missing")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestInsert_IdempotencyKeyConflict(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	genID, _ := snowflake.NewNode(1)
	ctx := context.Background()

	first := newTestClaim(genID, "key-dup", time.Now().UTC())
	inserted, err := repo.Insert(ctx, db, first)
	require.NoError(t, err)
	require.True(t, inserted)

	second := newTestClaim(genID, "key-dup", time.Now().UTC())
	inserted, err = repo.Insert(ctx, db, second)
	require.NoError(t, err)
	assert.False(t, inserted)

	// The loser writes nothing, including child rows.
	var count int64
	require.NoError(t, db.Model(&domain.Claim{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
	require.NoError(t, db.Model(&domain.ClaimLine{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)

	winner, err := repo.FindByIdempotencyKey(ctx, db, "key-dup")
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, first.ClaimID, winner.ClaimID)
}

func TestInsert_NoKeyNeverConflicts(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	genID, _ := snowflake.NewNode(1)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		inserted, err := repo.Insert(ctx, db, newTestClaim(genID, "", time.Now().UTC()))
		require.NoError(t, err)
		assert.True(t, inserted)
	}

	var count int64
	require.NoError(t, db.Model(&domain.Claim{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestFindByIdempotencyKey_EmptyKey(t *testing.T) {
	db := setupDB(t)
	repo := Provide()

	found, err := repo.FindByIdempotencyKey(context.Background(), db, "  ")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestUpdateStatus(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	genID, _ := snowflake.NewNode(1)
	ctx := context.Background()

	claim := newTestClaim(genID, "", time.Now().UTC())
	_, err := repo.Insert(ctx, db, claim)
	require.NoError(t, err)

	claim.Status = domain.StatusProcessing
	claim.UpdatedAt = claim.UpdatedAt.Add(time.Minute)
	require.NoError(t, repo.UpdateStatus(ctx, db, claim))

	found, err := repo.FindByClaimID(ctx, db, claim.ClaimID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, found.Status)
}

func TestList_FiltersAndCursor(t *testing.T) {
	db := setupDB(t)
	repo := Provide()
	genID, _ := snowflake.NewNode(1)
	ctx := context.Background()

	base := time.Now().UTC().Truncate(time.Second)
	var claimIDs []string
	for i := 0; i < 3; i++ {
		claim := newTestClaim(genID, "", base.Add(time.Duration(i)*time.Minute))
		_, err := repo.Insert(ctx, db, claim)
		require.NoError(t, err)
		claimIDs = append(claimIDs, claim.ClaimID)
	}
	other := newTestClaim(genID, "", base)
	other.ProviderID = "PRV-OTHER"
	_, err := repo.Insert(ctx, db, other)
	require.NoError(t, err)

	page := pagination.Pagination{PageSize: 2}
	claims, err := repo.List(ctx, db, domain.ListClaimsFilter{ProviderID: "PRV-001"}, page)
	require.NoError(t, err)
	// Overfetch by one so the caller can detect another page.
	require.Len(t, claims, 3)
	assert.Equal(t, claimIDs[2], claims[0].ClaimID)
	assert.Equal(t, claimIDs[1], claims[1].ClaimID)

	trimmed, info := pagination.BuildCursorPageInfo(claims, page.Limit(), func(c *domain.Claim) pagination.Cursor {
		return pagination.Cursor{ID: c.ID.String(), CreatedAt: c.CreatedAt.Format(time.RFC3339Nano)}
	})
	require.Len(t, trimmed, 2)
	require.True(t, info.HasMore)

	claims, err = repo.List(ctx, db, domain.ListClaimsFilter{ProviderID: "PRV-001"}, pagination.Pagination{
		PageToken: info.NextPageToken,
		PageSize:  2,
	})
	require.NoError(t, err)
	require.Len(t, claims, 1)
	assert.Equal(t, claimIDs[0], claims[0].ClaimID)

	claims, err = repo.List(ctx, db, domain.ListClaimsFilter{MemberID: "MBR-001", Status: string(domain.StatusSubmitted)}, pagination.Pagination{PageSize: 10})
	require.NoError(t, err)
	assert.Len(t, claims, 4)
}
