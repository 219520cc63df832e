package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/jobquote/jobquote-api/models"
	"gorm.io/gorm"
)

// EstimateService owns the estimate lifecycle: creation, duplication,
// deletion, status transitions, and dispatch orchestration. Every read and
// write is scoped to the caller's company.
type EstimateService struct {
	db *gorm.DB
}

// NewEstimateService creates a new estimate service
func NewEstimateService(db *gorm.DB) *EstimateService {
	return &EstimateService{db: db}
}

// CreateEstimateInput carries everything needed to create an estimate.
// Items arrive in the editable (string-valued) shape straight from the
// line item editor.
type CreateEstimateInput struct {
	ClientID       uint
	Items          []LineItem
	DepositPercent string
	Notes          string
	Terms          string
}

// Create validates the input, computes the frozen money snapshot from the
// current items and the company's default tax rate, reserves the next
// estimate number, and persists the estimate row plus its item rows as one
// transaction. The estimate row is created first so the item rows can
// reference its generated id.
func (s *EstimateService) Create(company *models.Company, in CreateEstimateInput) (*models.Estimate, error) {
	if in.ClientID == 0 {
		return nil, &ValidationError{Message: "please select a client"}
	}

	var client models.Client
	if err := s.db.Where("id = ? AND company_id = ?", in.ClientID, company.ID).First(&client).Error; err != nil {
		return nil, translateDBError(err, "client")
	}

	hasValidItem := false
	for _, item := range in.Items {
		if strings.TrimSpace(item.Description) != "" &&
			(ParseAmount(item.UnitPrice) > 0 || ParseAmount(item.LaborRate) > 0) {
			hasValidItem = true
			break
		}
	}
	if !hasValidItem {
		return nil, &ValidationError{Message: "please add at least one item with a price or labor rate"}
	}

	editor := &LineItemEditor{items: in.Items}
	items := editor.ToEstimateItems()

	subtotal := Subtotal(in.Items)
	tax := TaxAmount(in.Items, company.DefaultTaxRate)
	total := Total(subtotal, tax)
	depositPercent := ParseAmount(in.DepositPercent)
	deposit := DepositAmount(total, depositPercent)

	estimate := &models.Estimate{
		CompanyID:      company.ID,
		ClientID:       &client.ID,
		Subtotal:       subtotal,
		Tax:            tax,
		Total:          total,
		DepositPercent: depositPercent,
		DepositAmount:  deposit,
		Notes:          in.Notes,
		Terms:          in.Terms,
		Status:         models.EstimateStatusDraft,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		number, err := models.GenerateEstimateNumber(tx, company.ID)
		if err != nil {
			return fmt.Errorf("failed to generate estimate number: %w", err)
		}
		estimate.EstimateNumber = number

		if err := tx.Create(estimate).Error; err != nil {
			return translateDBError(err, "estimate")
		}

		// The estimate id must exist before any item row references it
		for i := range items {
			items[i].EstimateID = estimate.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return &PartialWriteError{Step: StepEstimateItemInsert, Err: err}
			}
		}
		estimate.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return estimate, nil
}

// Get loads an estimate with its items (in sort order) and client, scoped
// to the given company.
func (s *EstimateService) Get(companyID, estimateID uint) (*models.Estimate, error) {
	var estimate models.Estimate
	err := s.db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order") }).
		Preload("Client").
		Where("id = ? AND company_id = ?", estimateID, companyID).
		First(&estimate).Error
	if err != nil {
		return nil, translateDBError(err, "estimate")
	}
	return &estimate, nil
}

// List returns a company's estimates, newest first.
func (s *EstimateService) List(companyID uint) ([]models.Estimate, error) {
	var estimates []models.Estimate
	err := s.db.
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&estimates).Error
	if err != nil {
		return nil, err
	}
	return estimates, nil
}

// Duplicate creates an independent draft copy of an estimate. Totals are
// copied verbatim (not recomputed) and every item is copied with its
// description, prices, labor fields, taxable flag, and sort order intact.
// The copy gets a fresh estimate number and no back-reference to its origin.
func (s *EstimateService) Duplicate(companyID, estimateID uint) (*models.Estimate, error) {
	source, err := s.Get(companyID, estimateID)
	if err != nil {
		return nil, err
	}

	copyEstimate := &models.Estimate{
		CompanyID:      source.CompanyID,
		ClientID:       source.ClientID,
		Subtotal:       source.Subtotal,
		Tax:            source.Tax,
		Total:          source.Total,
		DepositPercent: source.DepositPercent,
		DepositAmount:  source.DepositAmount,
		Notes:          source.Notes,
		Terms:          source.Terms,
		Status:         models.EstimateStatusDraft,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		number, err := models.GenerateEstimateNumber(tx, companyID)
		if err != nil {
			return fmt.Errorf("failed to generate estimate number: %w", err)
		}
		copyEstimate.EstimateNumber = number

		if err := tx.Create(copyEstimate).Error; err != nil {
			return translateDBError(err, "estimate")
		}

		if len(source.Items) > 0 {
			newItems := make([]models.EstimateItem, 0, len(source.Items))
			for _, item := range source.Items {
				newItems = append(newItems, models.EstimateItem{
					EstimateID:  copyEstimate.ID,
					Description: item.Description,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					LaborHours:  item.LaborHours,
					LaborRate:   item.LaborRate,
					Taxable:     item.Taxable,
					SortOrder:   item.SortOrder,
				})
			}
			if err := tx.Create(&newItems).Error; err != nil {
				return &PartialWriteError{Step: StepEstimateItemInsert, Err: err}
			}
			copyEstimate.Items = newItems
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return copyEstimate, nil
}

// Delete removes an estimate and its items. Item rows are deleted
// explicitly inside the same transaction so engines without foreign key
// cascade behave the same as those with it.
func (s *EstimateService) Delete(companyID, estimateID uint) error {
	var estimate models.Estimate
	if err := s.db.Where("id = ? AND company_id = ?", estimateID, companyID).First(&estimate).Error; err != nil {
		return translateDBError(err, "estimate")
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("estimate_id = ?", estimate.ID).Delete(&models.EstimateItem{}).Error; err != nil {
			return &PartialWriteError{Step: StepEstimateItemDelete, Err: err}
		}
		if err := tx.Delete(&estimate).Error; err != nil {
			return &PartialWriteError{Step: StepEstimateDelete, Err: err}
		}
		return nil
	})
}

// Accept records client acceptance: sent -> accepted, with the acceptance
// timestamp and optional signature.
func (s *EstimateService) Accept(estimateID uint, signature string) (*models.Estimate, error) {
	return s.transition(estimateID, models.EstimateStatusAccepted, func(e *models.Estimate) {
		now := time.Now()
		e.AcceptedAt = &now
		if signature != "" {
			e.Signature = &signature
		}
	})
}

// Decline records client refusal: sent -> declined.
func (s *EstimateService) Decline(estimateID uint) (*models.Estimate, error) {
	return s.transition(estimateID, models.EstimateStatusDeclined, nil)
}

// MarkPaid is driven by the payment webhook. It is idempotent: a second
// delivery for an already-paid estimate is a no-op that keeps the original
// paid timestamp and payment reference.
func (s *EstimateService) MarkPaid(estimateID uint, paymentRef string) (*models.Estimate, error) {
	var estimate models.Estimate
	if err := s.db.First(&estimate, estimateID).Error; err != nil {
		return nil, translateDBError(err, "estimate")
	}

	if estimate.IsPaid() {
		return &estimate, nil
	}

	if !models.CanTransition(estimate.Status, models.EstimateStatusPaid) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("cannot mark a %s estimate as paid", estimate.Status),
		}
	}

	now := time.Now()
	estimate.Status = models.EstimateStatusPaid
	estimate.PaidAt = &now
	if paymentRef != "" {
		estimate.PaymentIntentID = &paymentRef
	}
	if err := s.db.Save(&estimate).Error; err != nil {
		return nil, &PartialWriteError{Step: StepStatusUpdate, Err: err}
	}
	return &estimate, nil
}

// transition applies a guarded status change plus any extra field mutation.
func (s *EstimateService) transition(estimateID uint, to models.EstimateStatus, mutate func(*models.Estimate)) (*models.Estimate, error) {
	var estimate models.Estimate
	if err := s.db.First(&estimate, estimateID).Error; err != nil {
		return nil, translateDBError(err, "estimate")
	}

	if !models.CanTransition(estimate.Status, to) {
		return nil, &ValidationError{
			Message: fmt.Sprintf("cannot change a %s estimate to %s", estimate.Status, to),
		}
	}

	estimate.Status = to
	if mutate != nil {
		mutate(&estimate)
	}
	if err := s.db.Save(&estimate).Error; err != nil {
		return nil, &PartialWriteError{Step: StepStatusUpdate, Err: err}
	}
	return &estimate, nil
}

// Send delivers an estimate to its client by email. The client must have an
// email address; that is checked before any remote call. A renderable
// artifact is ensured first (idempotent), then the email goes out, and only
// a successful send moves a draft to "sent". If rendering succeeds but the
// send fails, pdf_url stays set and the whole operation is safe to retry.
func (s *EstimateService) Send(companyID, estimateID uint) (*models.Estimate, error) {
	estimate, err := s.Get(companyID, estimateID)
	if err != nil {
		return nil, err
	}

	if estimate.Client == nil || estimate.Client.Email == "" {
		return nil, &ValidationError{Message: "this client has no email address"}
	}

	var company models.Company
	if err := s.db.First(&company, companyID).Error; err != nil {
		return nil, translateDBError(err, "company")
	}

	if _, err := GetRenderService().EnsureArtifact(estimate); err != nil {
		return nil, err
	}

	if err := GetEmailService().SendEstimateEmail(estimate, &company, estimate.Client); err != nil {
		return nil, err
	}

	// Resending an already-sent estimate leaves its status alone
	if estimate.Status == models.EstimateStatusDraft {
		estimate.Status = models.EstimateStatusSent
		if err := s.db.Model(&models.Estimate{}).Where("id = ?", estimate.ID).
			Update("status", models.EstimateStatusSent).Error; err != nil {
			return nil, &PartialWriteError{Step: StepStatusUpdate, Err: err}
		}
	}
	return estimate, nil
}
