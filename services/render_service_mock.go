package services

import (
	"fmt"
	"sync"

	"github.com/jobquote/jobquote-api/models"
)

// MockRenderService is a mock implementation of RenderInterface for testing
type MockRenderService struct {
	renderCalls int
	failNext    error
	mu          sync.Mutex
}

// NewMockRenderService creates a new mock render service
func NewMockRenderService() *MockRenderService {
	return &MockRenderService{}
}

// SetAsMockForTesting sets this mock as the global render service instance for testing
func (m *MockRenderService) SetAsMockForTesting() {
	SetRenderService(m)
}

// FailNext makes the next EnsureArtifact call return the given error
func (m *MockRenderService) FailNext(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

// EnsureArtifact simulates rendering: it honors the idempotence contract
// (an existing pdf_url means no render call) and otherwise records a call
// and fills in a mock URL.
func (m *MockRenderService) EnsureArtifact(estimate *models.Estimate) (string, error) {
	if estimate.HasArtifact() {
		return *estimate.PDFURL, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return "", err
	}

	m.renderCalls++
	url := fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/estimates/estimate-%s.html", estimate.EstimateNumber)
	estimate.PDFURL = &url
	return url, nil
}

// RenderCalls returns how many renders were performed
func (m *MockRenderService) RenderCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.renderCalls
}
