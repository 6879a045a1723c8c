// Package domain contains persistence models and contracts for claim
// submission and lifecycle management.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Claim is the root submission entity. ClaimID and TrackingNumber are
// assigned once at creation and never change; Status only moves along the
// lifecycle transitions enforced by the service.
type Claim struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"-"`
	ClaimID        string       `gorm:"uniqueIndex;not null" json:"claim_id"`
	ProviderID     string       `gorm:"index;not null" json:"provider_id"`
	MemberID       string       `gorm:"index;not null" json:"member_id"`
	PayerID        string       `gorm:"not null" json:"payer_id"`
	ServiceDate    time.Time    `gorm:"not null" json:"service_date"`
	TotalAmount    Money        `gorm:"not null" json:"total_amount"`
	Type           string       `gorm:"not null" json:"type"`
	IdempotencyKey *string      `gorm:"uniqueIndex" json:"idempotency_key,omitempty"`
	TrackingNumber string       `gorm:"uniqueIndex;not null" json:"tracking_number"`
	Status         Status       `gorm:"not null" json:"status"`
	CreatedAt      time.Time    `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time    `gorm:"not null" json:"updated_at"`
	CreatedBy      string       `json:"created_by,omitempty"`

	ClaimLines     []ClaimLine     `gorm:"foreignKey:ClaimRowID;constraint:OnDelete:CASCADE" json:"claim_lines"`
	DiagnosisCodes []DiagnosisCode `gorm:"foreignKey:ClaimRowID;constraint:OnDelete:CASCADE" json:"diagnosis_codes"`
}

// TableName sets the database table name.
func (Claim) TableName() string { return "claims" }

// ClaimLine is one billable service instance within a claim. ApprovedAmount
// stays nil until adjudication.
type ClaimLine struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"-"`
	ClaimRowID     snowflake.ID `gorm:"index;not null" json:"-"`
	Sequence       int          `gorm:"not null" json:"sequence"`
	ServiceCode    string       `gorm:"not null" json:"service_code"`
	ServiceDate    time.Time    `json:"service_date"`
	Units          int          `gorm:"not null" json:"units"`
	ChargedAmount  Money        `gorm:"not null" json:"charged_amount"`
	ApprovedAmount *Money       `json:"approved_amount,omitempty"`
	PlaceOfService string       `json:"place_of_service,omitempty"`
	Modifiers      StringList   `gorm:"type:text" json:"modifiers,omitempty"`
	Description    string       `json:"description,omitempty"`
	CreatedAt      time.Time    `gorm:"not null" json:"-"`
	UpdatedAt      time.Time    `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (ClaimLine) TableName() string { return "claim_lines" }

// DiagnosisCode is one diagnosis associated with the claim, ordered by
// SequenceNumber. Exactly one diagnosis per claim should carry IsPrimary;
// that is a validation concern, not a schema constraint.
type DiagnosisCode struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"-"`
	ClaimRowID     snowflake.ID `gorm:"index;not null" json:"-"`
	Code           string       `gorm:"not null" json:"code"`
	CodeType       string       `gorm:"not null" json:"code_type"`
	Description    string       `json:"description,omitempty"`
	IsPrimary      bool         `gorm:"not null;default:false" json:"is_primary"`
	SequenceNumber int          `gorm:"not null" json:"sequence_number"`
	CreatedAt      time.Time    `gorm:"not null" json:"-"`
	UpdatedAt      time.Time    `gorm:"not null" json:"-"`
}

// TableName sets the database table name.
func (DiagnosisCode) TableName() string { return "diagnosis_codes" }

// StringList stores a slice of modifier codes as a JSON text column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("unsupported modifiers column type %T", value)
	}
}
