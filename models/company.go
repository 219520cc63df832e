package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is the tenant root: clients, estimates, and templates are all
// scoped to a company, and every query must filter by the caller's company.
type Company struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Name    string `gorm:"not null" json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	LogoURL string `json:"logo_url"`

	// Defaults applied when a new estimate is created (percent, 0-100)
	DefaultTaxRate        float64 `gorm:"default:0" json:"default_tax_rate"`
	DefaultDepositPercent float64 `gorm:"default:50" json:"default_deposit_percent"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Company model
func (Company) TableName() string {
	return "companies"
}
