package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/models"
)

// ClientRequest represents the request body for creating or updating a client
type ClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// CreateClient handles POST /api/v1/clients
func CreateClient(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	var req ClientRequest
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

	client := models.Client{
		CompanyID: company.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}

	db := config.GetDB()
	if err := db.Create(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create client",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    client,
	})
}

// ListClients handles GET /api/v1/clients
func ListClients(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var clients []models.Client
	if err := db.Where("company_id = ?", company.ID).Order("name asc").Find(&clients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch clients",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    clients,
	})
}

// GetClient handles GET /api/v1/clients/:id
func GetClient(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.Where("id = ? AND company_id = ?", clientID, company.ID).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// UpdateClient handles PUT /api/v1/clients/:id
func UpdateClient(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ClientRequest
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

	db := config.GetDB()
	var client models.Client
	if err := db.Where("id = ? AND company_id = ?", clientID, company.ID).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	client.Name = req.Name
	client.Email = req.Email
	client.Phone = req.Phone
	client.Address = req.Address
	if err := db.Save(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update client",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    client,
	})
}

// DeleteClient handles DELETE /api/v1/clients/:id
func DeleteClient(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	clientID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.Where("id = ? AND company_id = ?", clientID, company.ID).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Client not found",
			},
		})
		return
	}

	if err := db.Delete(&client).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete client",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"message": "Client deleted",
		},
	})
}
