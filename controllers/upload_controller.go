package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/services"
	"github.com/jobquote/jobquote-api/utils"
)

// UploadLogo handles POST /api/v1/uploads/logo - uploads the company logo
// and stores its public URL on the company row. The logo ends up on
// estimates the company sends out.
func UploadLogo(c *gin.Context) {
	_, company, ok := requireCompany(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_FILE",
				"message": "No file provided in 'file' field",
			},
		})
		return
	}

	if err := utils.ValidateLogoFile(fileHeader); err != nil {
		var uploadErr *utils.FileUploadError
		code := "INVALID_FILE"
		if errors.As(err, &uploadErr) {
			code = uploadErr.Code
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	content, err := utils.ReadUploadedFile(fileHeader)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPLOAD_ERROR",
				"message": "Failed to read uploaded file",
			},
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := fmt.Sprintf("logos/company-%d%s", company.ID, ext)
	url, err := services.GetStorageService().UploadDocument(key, content, utils.LogoContentType(fileHeader.Filename))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	db := config.GetDB()
	if err := db.Model(company).Update("logo_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to save logo URL",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"logo_url": url,
		},
	})
}
