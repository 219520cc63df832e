package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/models"
	"github.com/jobquote/jobquote-api/services"
	"github.com/stretchr/testify/assert"
)

func logoUploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("Failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("Failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/uploads/logo", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadLogo(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	storage := services.NewMockStorageService()
	storage.SetAsMockForTesting()

	router.POST("/uploads/logo", mockAuthMiddleware("auth0|owner", "token"), UploadLogo)

	_, company := seedUserWithCompany(t, db, "auth0|owner")

	req := logoUploadRequest(t, "logo.png", []byte("fake png bytes"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "Response body: %s", w.Body.String())

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	logoURL := data["logo_url"].(string)
	assert.Contains(t, logoURL, "logos/company-")

	// URL persisted on the company row
	var reloaded models.Company
	db.First(&reloaded, company.ID)
	assert.Equal(t, logoURL, reloaded.LogoURL)

	// The bytes actually reached storage
	assert.Equal(t, 1, storage.UploadCalls())
}

func TestUploadLogo_InvalidFormat(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	storage := services.NewMockStorageService()
	storage.SetAsMockForTesting()

	router.POST("/uploads/logo", mockAuthMiddleware("auth0|owner", "token"), UploadLogo)

	seedUserWithCompany(t, db, "auth0|owner")

	req := logoUploadRequest(t, "logo.gif", []byte("gif bytes"))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_FILE_FORMAT", errorCode(t, w))
	assert.Equal(t, 0, storage.UploadCalls())
}

func TestUploadLogo_MissingFile(t *testing.T) {
	db := setupTestDB(t)
	config.SetDB(db)
	router := setupTestRouter()

	router.POST("/uploads/logo", mockAuthMiddleware("auth0|owner", "token"), UploadLogo)

	seedUserWithCompany(t, db, "auth0|owner")

	req := httptest.NewRequest(http.MethodPost, "/uploads/logo", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "MISSING_FILE", errorCode(t, w))
}
