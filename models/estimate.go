package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// EstimateStatus represents the lifecycle status of an estimate.
type EstimateStatus string

const (
	EstimateStatusDraft    EstimateStatus = "draft"
	EstimateStatusSent     EstimateStatus = "sent"
	EstimateStatusAccepted EstimateStatus = "accepted"
	EstimateStatusDeclined EstimateStatus = "declined"
	EstimateStatusPaid     EstimateStatus = "paid"
	EstimateStatusInvoiced EstimateStatus = "invoiced"
)

// estimateTransitions enumerates every legal forward move in the status
// state machine. No transition ever moves a status backward.
var estimateTransitions = map[EstimateStatus][]EstimateStatus{
	EstimateStatusDraft:    {EstimateStatusSent},
	EstimateStatusSent:     {EstimateStatusAccepted, EstimateStatusDeclined, EstimateStatusPaid},
	EstimateStatusAccepted: {EstimateStatusPaid, EstimateStatusInvoiced},
	EstimateStatusDeclined: {},
	EstimateStatusPaid:     {},
	EstimateStatusInvoiced: {},
}

// CanTransition reports whether an estimate may move from one status to
// another. Payments can arrive before acceptance is recorded, so "sent"
// may jump straight to "paid".
func CanTransition(from, to EstimateStatus) bool {
	for _, next := range estimateTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Estimate represents a priced proposal sent to a client. The money fields
// are frozen snapshots computed once at creation or duplication time; after
// that only the status (and its timestamps) may change.
type Estimate struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	CompanyID uint    `gorm:"not null;index;uniqueIndex:idx_company_estimate_number" json:"company_id"`
	Company   Company `gorm:"foreignKey:CompanyID" json:"-"`
	ClientID  *uint   `gorm:"index" json:"client_id"` // nullable, estimate may outlive its client
	Client    *Client `gorm:"foreignKey:ClientID" json:"client,omitempty"`

	// Sequential per-company number, e.g. EST-0007
	EstimateNumber string `gorm:"not null;uniqueIndex:idx_company_estimate_number" json:"estimate_number"`

	// Frozen totals (total = subtotal + tax, deposit_amount = total * deposit_percent / 100)
	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	Tax            float64 `gorm:"not null" json:"tax"`
	Total          float64 `gorm:"not null" json:"total"`
	DepositPercent float64 `json:"deposit_percent"`
	DepositAmount  float64 `json:"deposit_amount"`

	Notes string `gorm:"type:text" json:"notes"`
	Terms string `gorm:"type:text" json:"terms"`

	Status EstimateStatus `gorm:"not null;default:'draft'" json:"status"`

	AcceptedAt      *time.Time `json:"accepted_at"`                // set only on acceptance
	PaidAt          *time.Time `json:"paid_at"`                    // set only by the payment webhook
	Signature       *string    `json:"signature"`                  // set on client acceptance
	PDFURL          *string    `json:"pdf_url"`                    // set once a rendered artifact exists
	PaymentIntentID *string    `json:"payment_intent_id,omitempty"`

	Items []EstimateItem `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE" json:"items,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Estimate model
func (Estimate) TableName() string {
	return "estimates"
}

// IsDraft returns true if the estimate has not been sent yet.
func (e *Estimate) IsDraft() bool {
	return e.Status == EstimateStatusDraft
}

// IsPaid returns true if the payment webhook has marked the estimate paid.
func (e *Estimate) IsPaid() bool {
	return e.Status == EstimateStatusPaid
}

// HasArtifact returns true if a rendered document already exists.
func (e *Estimate) HasArtifact() bool {
	return e.PDFURL != nil && *e.PDFURL != ""
}

// EstimateItem represents one billable line on an estimate: a flat
// quantity x price component plus an hours x rate labor component.
type EstimateItem struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	EstimateID  uint      `gorm:"not null;index" json:"estimate_id"`
	Estimate    *Estimate `gorm:"foreignKey:EstimateID" json:"-"`
	Description string    `gorm:"not null" json:"description"`
	Quantity    float64   `gorm:"default:1" json:"quantity"`
	UnitPrice   float64   `gorm:"default:0" json:"unit_price"`
	LaborHours  float64   `gorm:"default:0" json:"labor_hours"`
	LaborRate   float64   `gorm:"default:0" json:"labor_rate"`
	Taxable     bool      `gorm:"default:true" json:"taxable"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"` // stable display order
	CreatedAt   time.Time `json:"created_at"`
}

// TableName specifies the table name for the EstimateItem model
func (EstimateItem) TableName() string {
	return "estimate_items"
}

// LineTotal calculates quantity x unit price plus labor hours x labor rate.
func (item *EstimateItem) LineTotal() float64 {
	return item.Quantity*item.UnitPrice + item.LaborHours*item.LaborRate
}

// GenerateEstimateNumber produces the next sequential estimate number for a
// company, formatted as EST-NNNN. Uniqueness is ultimately enforced by the
// (company_id, estimate_number) index; a concurrent create surfaces as a
// constraint violation rather than a silent duplicate.
func GenerateEstimateNumber(db *gorm.DB, companyID uint) (string, error) {
	var count int64
	err := db.Model(&Estimate{}).
		Unscoped().
		Where("company_id = ?", companyID).
		Count(&count).Error
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("EST-%04d", count+1), nil
}
