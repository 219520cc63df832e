package services

import (
	"sync"

	"github.com/jobquote/jobquote-api/models"
)

// SentEmail records one delivery performed by the mock email service
type SentEmail struct {
	EstimateID     uint
	EstimateNumber string
	ToEmail        string
	ToName         string
}

// MockEmailService is a mock implementation of EmailInterface for testing
type MockEmailService struct {
	sent     []SentEmail
	failNext error
	mu       sync.Mutex
}

// NewMockEmailService creates a new mock email service
func NewMockEmailService() *MockEmailService {
	return &MockEmailService{}
}

// SetAsMockForTesting sets this mock as the global email service instance for testing
func (m *MockEmailService) SetAsMockForTesting() {
	SetEmailService(m)
}

// FailNext makes the next SendEstimateEmail call return the given error
func (m *MockEmailService) FailNext(err error) {
	m.mu.Lock()
	m.failNext = err
	m.mu.Unlock()
}

// SendEstimateEmail simulates delivering an estimate email
func (m *MockEmailService) SendEstimateEmail(estimate *models.Estimate, company *models.Company, client *models.Client) error {
	if client.Email == "" {
		return &ValidationError{Message: "this client has no email address"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}

	m.sent = append(m.sent, SentEmail{
		EstimateID:     estimate.ID,
		EstimateNumber: estimate.EstimateNumber,
		ToEmail:        client.Email,
		ToName:         client.Name,
	})
	return nil
}

// SentEmails returns all deliveries recorded so far
func (m *MockEmailService) SentEmails() []SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// Clear forgets all recorded deliveries
func (m *MockEmailService) Clear() {
	m.mu.Lock()
	m.sent = nil
	m.failNext = nil
	m.mu.Unlock()
}
