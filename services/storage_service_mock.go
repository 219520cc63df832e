package services

import (
	"fmt"
	"sync"
)

// MockStorageService is a mock implementation of StorageInterface for testing
type MockStorageService struct {
	documents   map[string][]byte // map of key to document content
	uploadCalls int
	mu          sync.RWMutex
}

// NewMockStorageService creates a new mock storage service
func NewMockStorageService() *MockStorageService {
	return &MockStorageService{
		documents: make(map[string][]byte),
	}
}

// SetAsMockForTesting sets this mock as the global storage service instance for testing
func (m *MockStorageService) SetAsMockForTesting() {
	SetStorageService(m)
}

// UploadDocument simulates storing a document and returns a mock public URL
func (m *MockStorageService) UploadDocument(key string, body []byte, contentType string) (string, error) {
	m.mu.Lock()
	m.documents[key] = body
	m.uploadCalls++
	m.mu.Unlock()

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s", key), nil
}

// DeleteDocument simulates deleting a stored document
func (m *MockStorageService) DeleteDocument(key string) error {
	m.mu.Lock()
	delete(m.documents, key)
	m.mu.Unlock()
	return nil
}

// UploadCalls returns how many uploads were performed (for idempotence assertions)
func (m *MockStorageService) UploadCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uploadCalls
}

// DocumentExists checks if a document exists in mock storage
func (m *MockStorageService) DocumentExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.documents[key]
	return exists
}

// GetDocument returns a stored document's content (for testing assertions)
func (m *MockStorageService) GetDocument(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.documents[key]
}

// Clear removes all documents from mock storage
func (m *MockStorageService) Clear() {
	m.mu.Lock()
	m.documents = make(map[string][]byte)
	m.uploadCalls = 0
	m.mu.Unlock()
}
