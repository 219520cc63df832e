package services

import (
	"strings"

	"github.com/jobquote/jobquote-api/models"
	"gorm.io/gorm"
)

// TemplateService manages reusable estimate templates and their expansion
// into editable line items.
type TemplateService struct {
	db *gorm.DB
}

// NewTemplateService creates a new template service
func NewTemplateService(db *gorm.DB) *TemplateService {
	return &TemplateService{db: db}
}

// validateTemplateInput enforces the shared rules for create and update:
// a non-empty name and at least one item with a description.
func validateTemplateInput(name string, items []LineItem) ([]models.EstimateTemplateItem, error) {
	if strings.TrimSpace(name) == "" {
		return nil, &ValidationError{Message: "please enter a template name"}
	}

	var out []models.EstimateTemplateItem
	for _, item := range items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}
		out = append(out, models.EstimateTemplateItem{
			Description: desc,
			Quantity:    parseAmountDefault(item.Quantity, 1),
			UnitPrice:   ParseAmount(item.UnitPrice),
			LaborHours:  ParseAmount(item.LaborHours),
			LaborRate:   ParseAmount(item.LaborRate),
			Taxable:     item.Taxable,
			SortOrder:   len(out),
		})
	}
	if len(out) == 0 {
		return nil, &ValidationError{Message: "please add at least one item with a description"}
	}
	return out, nil
}

// Create saves a new template and its items.
func (s *TemplateService) Create(companyID uint, name, description string, items []LineItem) (*models.EstimateTemplate, error) {
	templateItems, err := validateTemplateInput(name, items)
	if err != nil {
		return nil, err
	}

	template := &models.EstimateTemplate{
		CompanyID:   companyID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(template).Error; err != nil {
			return translateDBError(err, "template")
		}
		for i := range templateItems {
			templateItems[i].TemplateID = template.ID
		}
		if err := tx.Create(&templateItems).Error; err != nil {
			return &PartialWriteError{Step: StepTemplateItemInsert, Err: err}
		}
		template.Items = templateItems
		return nil
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

// Update replaces a template's name, description, and entire item set. The
// existing items are deleted and the current editable set is inserted
// fresh; there is no per-item diffing, so concurrent edits to the same
// template will clobber each other.
func (s *TemplateService) Update(companyID, templateID uint, name, description string, items []LineItem) (*models.EstimateTemplate, error) {
	templateItems, err := validateTemplateInput(name, items)
	if err != nil {
		return nil, err
	}

	var template models.EstimateTemplate
	if err := s.db.Where("id = ? AND company_id = ?", templateID, companyID).First(&template).Error; err != nil {
		return nil, translateDBError(err, "template")
	}

	template.Name = strings.TrimSpace(name)
	template.Description = strings.TrimSpace(description)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&template).Error; err != nil {
			return &PartialWriteError{Step: StepTemplateUpdate, Err: err}
		}
		if err := tx.Where("template_id = ?", template.ID).Delete(&models.EstimateTemplateItem{}).Error; err != nil {
			return &PartialWriteError{Step: StepTemplateItemDelete, Err: err}
		}
		for i := range templateItems {
			templateItems[i].ID = 0
			templateItems[i].TemplateID = template.ID
		}
		if err := tx.Create(&templateItems).Error; err != nil {
			return &PartialWriteError{Step: StepTemplateItemInsert, Err: err}
		}
		template.Items = templateItems
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// Get loads a template with its items in sort order.
func (s *TemplateService) Get(companyID, templateID uint) (*models.EstimateTemplate, error) {
	var template models.EstimateTemplate
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Where("id = ? AND company_id = ?", templateID, companyID).
		First(&template).Error
	if err != nil {
		return nil, translateDBError(err, "template")
	}
	return &template, nil
}

// List returns a company's templates ordered by name.
func (s *TemplateService) List(companyID uint) ([]models.EstimateTemplate, error) {
	var templates []models.EstimateTemplate
	err := s.db.
		Where("company_id = ?", companyID).
		Order("name").
		Find(&templates).Error
	if err != nil {
		return nil, err
	}
	return templates, nil
}

// Delete removes a template and its items in one transaction.
func (s *TemplateService) Delete(companyID, templateID uint) error {
	var template models.EstimateTemplate
	if err := s.db.Where("id = ? AND company_id = ?", templateID, companyID).First(&template).Error; err != nil {
		return translateDBError(err, "template")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", template.ID).Delete(&models.EstimateTemplateItem{}).Error; err != nil {
			return &PartialWriteError{Step: StepTemplateItemDelete, Err: err}
		}
		if err := tx.Delete(&template).Error; err != nil {
			return &PartialWriteError{Step: StepTemplateUpdate, Err: err}
		}
		return nil
	})
}

// LoadAsLineItems expands a template into the editable line item shape,
// ordered by sort_order, with fresh temporary ids. The template linkage is
// dropped; only the content fields carry over.
func (s *TemplateService) LoadAsLineItems(companyID, templateID uint) ([]LineItem, error) {
	template, err := s.Get(companyID, templateID)
	if err != nil {
		return nil, err
	}

	editor := NewLineItemEditor()
	editor.SeedFromTemplate(template.Items)
	return editor.Items(), nil
}
