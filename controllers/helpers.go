package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/middleware"
	"github.com/jobquote/jobquote-api/models"
	"github.com/jobquote/jobquote-api/services"
)

// getCurrentUser resolves the authenticated user from the JWT and loads the
// matching user row. It writes the error response itself and returns false
// when resolution fails.
func getCurrentUser(c *gin.Context) (*models.User, bool) {
	auth0ID, err := middleware.GetUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract user information",
			},
		})
		return nil, false
	}

	db := config.GetDB()
	var user models.User
	if err := db.Where("auth0_id = ?", auth0ID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "USER_NOT_FOUND",
				"message": "User profile not found. Please create a profile first.",
			},
		})
		return nil, false
	}

	return &user, true
}

// requireCompany resolves the authenticated user and ensures onboarding has
// completed (the user belongs to a company). Every tenant-scoped endpoint
// goes through this.
func requireCompany(c *gin.Context) (*models.User, *models.Company, bool) {
	user, ok := getCurrentUser(c)
	if !ok {
		return nil, nil, false
	}

	if user.CompanyID == nil {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NO_COMPANY",
				"message": "Please complete company setup first",
			},
		})
		return nil, nil, false
	}

	db := config.GetDB()
	var company models.Company
	if err := db.First(&company, *user.CompanyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "COMPANY_NOT_FOUND",
				"message": "Company not found",
			},
		})
		return nil, nil, false
	}

	return user, &company, true
}

// parseIDParam parses a numeric URL parameter, writing the error response
// on failure.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": "Invalid id parameter",
			},
		})
		return 0, false
	}
	return uint(id), true
}

// respondServiceError translates the service error taxonomy into the API's
// JSON envelope and HTTP status codes.
func respondServiceError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var notFoundErr *services.NotFoundError
	var constraintErr *services.ConstraintError
	var permissionErr *services.PermissionError
	var transientErr *services.TransientError
	var partialErr *services.PartialWriteError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
			},
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": notFoundErr.Error(),
			},
		})
	case errors.As(err, &constraintErr):
		c.JSON(http.StatusConflict, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CONFLICT",
				"message": "This record conflicts with an existing one",
			},
		})
	case errors.As(err, &permissionErr):
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Not authorized",
			},
		})
	case errors.As(err, &transientErr):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "SERVICE_UNAVAILABLE",
				"message": "A remote service is unavailable, please retry",
			},
		})
	case errors.As(err, &partialErr):
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PARTIAL_WRITE",
				"message": partialErr.Error(),
			},
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "An unexpected error occurred",
			},
		})
	}
}
