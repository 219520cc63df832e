package models

import (
	"time"

	"gorm.io/gorm"
)

// EstimateTemplate is a reusable named bundle of line items used to seed a
// new estimate's item list.
type EstimateTemplate struct {
	ID          uint                   `gorm:"primaryKey" json:"id"`
	CompanyID   uint                   `gorm:"not null;index" json:"company_id"`
	Company     Company                `gorm:"foreignKey:CompanyID" json:"-"`
	Name        string                 `gorm:"not null" json:"name"`
	Description string                 `json:"description"`
	Items       []EstimateTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	DeletedAt   gorm.DeletedAt         `gorm:"index" json:"-"`
}

// TableName specifies the table name for the EstimateTemplate model
func (EstimateTemplate) TableName() string {
	return "estimate_templates"
}

// EstimateTemplateItem mirrors EstimateItem but belongs to a template.
// Template edits replace the whole item set, so persisted item IDs are not
// stable across an update.
type EstimateTemplateItem struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	TemplateID  uint              `gorm:"not null;index" json:"template_id"`
	Template    *EstimateTemplate `gorm:"foreignKey:TemplateID" json:"-"`
	Description string            `gorm:"not null" json:"description"`
	Quantity    float64           `gorm:"default:1" json:"quantity"`
	UnitPrice   float64           `gorm:"default:0" json:"unit_price"`
	LaborHours  float64           `gorm:"default:0" json:"labor_hours"`
	LaborRate   float64           `gorm:"default:0" json:"labor_rate"`
	Taxable     bool              `gorm:"default:true" json:"taxable"`
	SortOrder   int               `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time         `json:"created_at"`
}

// TableName specifies the table name for the EstimateTemplateItem model
func (EstimateTemplateItem) TableName() string {
	return "estimate_template_items"
}
