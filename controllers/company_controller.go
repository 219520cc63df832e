package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/models"
	"gorm.io/gorm"
)

// CreateCompanyRequest represents the onboarding request body
type CreateCompanyRequest struct {
	Name                  string   `json:"name" binding:"required"`
	Email                 string   `json:"email" binding:"omitempty,email"`
	Phone                 string   `json:"phone"`
	Address               string   `json:"address"`
	DefaultTaxRate        *float64 `json:"default_tax_rate"`
	DefaultDepositPercent *float64 `json:"default_deposit_percent"`
}

// UpdateCompanyRequest represents the request body for updating company settings
type UpdateCompanyRequest struct {
	Name                  string   `json:"name"`
	Email                 string   `json:"email" binding:"omitempty,email"`
	Phone                 string   `json:"phone"`
	Address               string   `json:"address"`
	DefaultTaxRate        *float64 `json:"default_tax_rate"`
	DefaultDepositPercent *float64 `json:"default_deposit_percent"`
}

// CreateCompany handles POST /api/v1/companies - onboarding step that creates
// the company and attaches it to the current user
func CreateCompany(c *gin.Context) {
	user, ok := getCurrentUser(c)
	if !ok {
		return
	}

	if user.CompanyID != nil {
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMPANY_EXISTS",
				"message": "You already belong to a company",
			},
		})
		return
	}

	var req CreateCompanyRequest
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

	company := models.Company{
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		DefaultDepositPercent: 50,
	}
	if req.DefaultTaxRate != nil {
		company.DefaultTaxRate = *req.DefaultTaxRate
	}
	if req.DefaultDepositPercent != nil {
		company.DefaultDepositPercent = *req.DefaultDepositPercent
	}

	// Create the company and link the user to it in one transaction so a
	// failed link never leaves an orphaned company behind.
	db := config.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		return tx.Model(user).Update("company_id", company.ID).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create company",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    company,
	})
}

// GetMyCompany handles GET /api/v1/companies/me - returns the current user's company
func GetMyCompany(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    company,
	})
}

// UpdateMyCompany handles PUT /api/v1/companies/me - updates company settings
func UpdateMyCompany(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	var req UpdateCompanyRequest
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

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.DefaultTaxRate != nil {
		updates["default_tax_rate"] = *req.DefaultTaxRate
	}
	if req.DefaultDepositPercent != nil {
		updates["default_deposit_percent"] = *req.DefaultDepositPercent
	}

	if len(updates) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    company,
		})
		return
	}

	db := config.GetDB()
	if err := db.Model(company).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update company",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    company,
	})
}
