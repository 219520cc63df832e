package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/services"
)

// TemplateRequest represents the request body for creating or updating a
// template. Item amounts are strings, matching the editor shape.
type TemplateRequest struct {
	Name        string              `json:"name" binding:"required"`
	Description string              `json:"description"`
	Items       []services.LineItem `json:"items" binding:"required"`
}

// CreateTemplate handles POST /api/v1/templates
func CreateTemplate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	var req TemplateRequest
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

	svc := services.NewTemplateService(config.GetDB())
	template, err := svc.Create(company.ID, req.Name, req.Description, req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    template,
	})
}

// ListTemplates handles GET /api/v1/templates
func ListTemplates(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	svc := services.NewTemplateService(config.GetDB())
	templates, err := svc.List(company.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    templates,
	})
}

// GetTemplate handles GET /api/v1/templates/:id
func GetTemplate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewTemplateService(config.GetDB())
	template, err := svc.Get(company.ID, templateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    template,
	})
}

// UpdateTemplate handles PUT /api/v1/templates/:id
func UpdateTemplate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req TemplateRequest
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

	svc := services.NewTemplateService(config.GetDB())
	template, err := svc.Update(company.ID, templateID, req.Name, req.Description, req.Items)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    template,
	})
}

// DeleteTemplate handles DELETE /api/v1/templates/:id
func DeleteTemplate(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewTemplateService(config.GetDB())
	if err := svc.Delete(company.ID, templateID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Template deleted",
		},
	})
}

// GetTemplateItems handles GET /api/v1/templates/:id/items - returns the
// template's items in the editable line item shape, ready to seed a new
// estimate.
func GetTemplateItems(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	templateID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	svc := services.NewTemplateService(config.GetDB())
	items, err := svc.LoadAsLineItems(company.ID, templateID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    items,
	})
}
