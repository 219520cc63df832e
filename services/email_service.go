package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobquote/jobquote-api/config"
	"github.com/jobquote/jobquote-api/models"
)

// EmailInterface defines the estimate email delivery collaborator
type EmailInterface interface {
	// SendEstimateEmail emails the estimate to the client, linking the
	// public viewer page and the rendered document
	SendEstimateEmail(estimate *models.Estimate, company *models.Company, client *models.Client) error
}

// SendGridEmailService sends estimate emails through the SendGrid v3 API
type SendGridEmailService struct {
	apiKey        string
	fromEmail     string
	viewerBaseURL string
	endpoint      string
	httpClient    *http.Client
}

var emailServiceInstance EmailInterface

// InitEmailService initializes the email service from configuration
func InitEmailService() EmailInterface {
	cfg := config.GetConfig()
	emailServiceInstance = &SendGridEmailService{
		apiKey:        cfg.SendGridAPIKey,
		fromEmail:     cfg.SendGridFromEmail,
		viewerBaseURL: cfg.EstimateViewerURL,
		endpoint:      "https://api.sendgrid.com/v3/mail/send",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	return emailServiceInstance
}

// GetEmailService returns the initialized email service instance
func GetEmailService() EmailInterface {
	return emailServiceInstance
}

// SetEmailService sets the email service instance (primarily for testing)
func SetEmailService(service EmailInterface) {
	emailServiceInstance = service
}

// sendGridPayload mirrors the SendGrid v3 mail/send request body
type sendGridPayload struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             sendGridAddress           `json:"from"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To      []sendGridAddress `json:"to"`
	Subject string            `json:"subject"`
}

type sendGridAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// SendEstimateEmail delivers the estimate to the client by email
func (s *SendGridEmailService) SendEstimateEmail(estimate *models.Estimate, company *models.Company, client *models.Client) error {
	if client.Email == "" {
		return &ValidationError{Message: "this client has no email address"}
	}

	publicURL := fmt.Sprintf("%s/estimate/%d", strings.TrimRight(s.viewerBaseURL, "/"), estimate.ID)

	payload := sendGridPayload{
		Personalizations: []sendGridPersonalization{{
			To:      []sendGridAddress{{Email: client.Email, Name: client.Name}},
			Subject: fmt.Sprintf("Estimate #%s from %s", estimate.EstimateNumber, company.Name),
		}},
		From: sendGridAddress{Email: s.fromEmail, Name: company.Name},
		Content: []sendGridContent{{
			Type:  "text/html",
			Value: estimateEmailBody(estimate, company, client, publicURL),
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &TransientError{Err: fmt.Errorf("failed to call SendGrid: %w", err)}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sendgrid returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// estimateEmailBody builds the HTML email: totals summary, a prominent
// view-and-accept link, and a document download link when one exists.
func estimateEmailBody(estimate *models.Estimate, company *models.Company, client *models.Client, publicURL string) string {
	var b strings.Builder

	b.WriteString(`<div style="font-family: sans-serif; max-width: 600px; margin: 0 auto;">`)
	fmt.Fprintf(&b, `<h2>New Estimate from %s</h2>`, company.Name)
	fmt.Fprintf(&b, `<p>Hi %s,</p><p>Please review your estimate for the upcoming project.</p>`, client.Name)

	b.WriteString(`<div style="background: #f3f4f6; padding: 20px; border-radius: 8px; margin: 20px 0;">`)
	fmt.Fprintf(&b, `<h3 style="margin-top: 0;">Estimate #%s</h3>`, estimate.EstimateNumber)
	fmt.Fprintf(&b, `<p style="font-size: 24px; font-weight: bold; color: #2563eb; margin: 10px 0;">$%.2f</p>`, estimate.Total)
	if estimate.DepositAmount > 0 {
		fmt.Fprintf(&b, `<p style="color: #059669;">Deposit Required: $%.2f</p>`, estimate.DepositAmount)
	}
	b.WriteString(`</div>`)

	fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener noreferrer" style="display: inline-block; background: #2563eb; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; font-weight: 600;">View &amp; Accept Estimate</a>`, publicURL)

	if estimate.HasArtifact() {
		fmt.Fprintf(&b, `<p style="margin-top: 20px;"><a href="%s" target="_blank" style="color: #2563eb;">Download PDF</a></p>`, *estimate.PDFURL)
	}

	contact := company.Email
	if contact == "" {
		contact = company.Phone
	}
	fmt.Fprintf(&b, `<p style="margin-top: 30px; color: #6b7280; font-size: 14px;">If you have any questions, please contact us at %s</p>`, contact)
	b.WriteString(`</div>`)

	return b.String()
}
