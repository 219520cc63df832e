package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/services"
)

// CreateEstimateRequest represents the request body for creating an estimate.
// Item amounts arrive as strings, exactly as typed in the editor.
type CreateEstimateRequest struct {
	ClientID       uint                `json:"client_id" binding:"required"`
	Items          []services.LineItem `json:"items" binding:"required"`
	DepositPercent string              `json:"deposit_percent"`
	Notes          string              `json:"notes"`
	Terms          string              `json:"terms"`
}

// AcceptEstimateRequest carries the client's typed signature
type AcceptEstimateRequest struct {
	Signature string `json:"signature" binding:"required"`
}

// CreateEstimate handles POST /api/v1/estimates
func CreateEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	var req CreateEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	estimate, err := svc.Create(company, services.CreateEstimateInput{
		ClientID:       req.ClientID,
		Items:          req.Items,
		DepositPercent: req.DepositPercent,
		Notes:          req.Notes,
		Terms:          req.Terms,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    estimate,
	})
}

// ListEstimates handles GET /api/v1/estimates
func ListEstimates(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	estimates, err := svc.List(company.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    estimates,
	})
}

// GetEstimate handles GET /api/v1/estimates/:id
func GetEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	estimate, err := svc.Get(company.ID, estimateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    estimate,
	})
}

// DeleteEstimate handles DELETE /api/v1/estimates/:id
func DeleteEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	if err := svc.Delete(company.ID, estimateID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Estimate deleted",
		},
	})
}

// DuplicateEstimate handles POST /api/v1/estimates/:id/duplicate
func DuplicateEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	duplicated, err := svc.Duplicate(company.ID, estimateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    duplicated,
	})
}

// GenerateEstimatePDF handles POST /api/v1/estimates/:id/pdf - renders the
// estimate document and uploads it, returning the stored URL. Calling it
// again returns the existing URL without re-rendering.
func GenerateEstimatePDF(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	estimate, err := svc.Get(company.ID, estimateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	url, err := services.GetRenderService().EnsureArtifact(estimate)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"pdf_url": url,
		},
	})
}

// SendEstimate handles POST /api/v1/estimates/:id/send
func SendEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	estimate, err := svc.Send(company.ID, estimateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    estimate,
	})
}

// AcceptEstimate handles POST /api/v1/estimates/:id/accept
func AcceptEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AcceptEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "A signature is required to accept an estimate",
			},
		})
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	// Scope the lookup to the caller's company before transitioning.
	if _, err := svc.Get(company.ID, estimateID); err != nil {
		respondServiceError(c, err)
		return
	}

	estimate, err := svc.Accept(estimateID, req.Signature)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    estimate,
	})
}

// DeclineEstimate handles POST /api/v1/estimates/:id/decline
func DeclineEstimate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	estimateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewEstimateService(config.GetDB())
	if _, err := svc.Get(company.ID, estimateID); err != nil {
		respondServiceError(c, err)
		return
	}

	estimate, err := svc.Decline(estimateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    estimate,
	})
}
