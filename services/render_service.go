package services

import (
	"fmt"

	"github.com/jobquote/jobquote-api/models"
	"github.com/jobquote/jobquote-api/utils"
	"gorm.io/gorm"
)

// RenderInterface defines the "ensure a renderable artifact exists"
// collaborator. Implementations must be idempotent: an estimate that
// already has an artifact URL causes no remote work.
type RenderInterface interface {
	// EnsureArtifact makes sure a rendered document exists for the
	// estimate, persists its URL on the row, and returns the URL
	EnsureArtifact(estimate *models.Estimate) (string, error)
}

// EstimateRenderService renders an estimate to an HTML document and stores
// it through the storage service
type EstimateRenderService struct {
	db      *gorm.DB
	storage StorageInterface
}

var renderServiceInstance RenderInterface

// InitRenderService initializes the render service
func InitRenderService(db *gorm.DB, storage StorageInterface) RenderInterface {
	renderServiceInstance = &EstimateRenderService{db: db, storage: storage}
	return renderServiceInstance
}

// GetRenderService returns the initialized render service instance
func GetRenderService() RenderInterface {
	return renderServiceInstance
}

// SetRenderService sets the render service instance (primarily for testing)
func SetRenderService(service RenderInterface) {
	renderServiceInstance = service
}

// EnsureArtifact renders the estimate document if one does not exist yet.
// When pdf_url is already set this performs zero storage calls and just
// returns the existing URL, which makes send retries safe.
func (s *EstimateRenderService) EnsureArtifact(estimate *models.Estimate) (string, error) {
	if estimate.HasArtifact() {
		return *estimate.PDFURL, nil
	}

	var company models.Company
	if err := s.db.First(&company, estimate.CompanyID).Error; err != nil {
		return "", translateDBError(err, "company")
	}

	items := estimate.Items
	if items == nil {
		if err := s.db.Where("estimate_id = ?", estimate.ID).Order("sort_order").Find(&items).Error; err != nil {
			return "", err
		}
	}

	client := estimate.Client
	if client == nil && estimate.ClientID != nil {
		client = &models.Client{}
		if err := s.db.First(client, *estimate.ClientID).Error; err != nil {
			return "", translateDBError(err, "client")
		}
	}

	html, err := utils.RenderEstimateHTML(estimate, &company, client, items)
	if err != nil {
		return "", fmt.Errorf("failed to render estimate document: %w", err)
	}

	key := fmt.Sprintf("estimates/estimate-%s.html", estimate.EstimateNumber)
	url, err := s.storage.UploadDocument(key, html, "text/html")
	if err != nil {
		return "", &PartialWriteError{Step: StepArtifactUpload, Err: err}
	}

	if err := s.db.Model(&models.Estimate{}).Where("id = ?", estimate.ID).
		Update("pdf_url", url).Error; err != nil {
		return "", &PartialWriteError{Step: StepArtifactURLUpdate, Err: err}
	}

	estimate.PDFURL = &url
	return url, nil
}
