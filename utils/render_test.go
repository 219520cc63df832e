package utils

import (
	"testing"
	"time"

	"github.com/jobquote/jobquote-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func renderFixture() (*models.Estimate, *models.Company, *models.Client, []models.EstimateItem) {
	estimate := &models.Estimate{
		EstimateNumber: "EST-0001",
		Subtotal:       700,
		Tax:            40,
		Total:          740,
		DepositPercent: 50,
		DepositAmount:  370,
		Notes:          "Access through the side gate",
		Terms:          "Valid for 30 days",
		CreatedAt:      time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC),
	}
	company := &models.Company{
		Name:  "Test Plumbing Co",
		Email: "office@testplumbing.com",
		Phone: "555-0100",
	}
	client := &models.Client{
		Name:  "Jane Homeowner",
		Email: "jane@example.com",
	}
	items := []models.EstimateItem{
		{Description: "Water heater", Quantity: 1, UnitPrice: 500, Taxable: true},
		{Description: "Install labor", LaborHours: 4, LaborRate: 50},
	}
	return estimate, company, client, items
}

func TestRenderEstimateHTML(t *testing.T) {
	estimate, company, client, items := renderFixture()

	doc, err := RenderEstimateHTML(estimate, company, client, items)
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "EST-0001")
	assert.Contains(t, html, "Test Plumbing Co")
	assert.Contains(t, html, "Jane Homeowner")
	assert.Contains(t, html, "Water heater")
	assert.Contains(t, html, "Install labor")
	assert.Contains(t, html, "$740.00")
	assert.Contains(t, html, "$370.00")
	assert.Contains(t, html, "Access through the side gate")
	assert.Contains(t, html, "Valid for 30 days")
	assert.Contains(t, html, "March 15, 2026")
}

func TestRenderEstimateHTML_NoClient(t *testing.T) {
	estimate, company, _, items := renderFixture()

	doc, err := RenderEstimateHTML(estimate, company, nil, items)
	require.NoError(t, err)

	html := string(doc)
	assert.Contains(t, html, "EST-0001")
	assert.NotContains(t, html, "Prepared For")
}

func TestRenderEstimateHTML_NoDeposit(t *testing.T) {
	estimate, company, client, items := renderFixture()
	estimate.DepositPercent = 0
	estimate.DepositAmount = 0

	doc, err := RenderEstimateHTML(estimate, company, client, items)
	require.NoError(t, err)

	assert.NotContains(t, string(doc), "Deposit (")
}

func TestRenderEstimateHTML_EscapesClientInput(t *testing.T) {
	estimate, company, client, items := renderFixture()
	estimate.Notes = `<script>alert("x")</script>`

	doc, err := RenderEstimateHTML(estimate, company, client, items)
	require.NoError(t, err)

	html := string(doc)
	assert.NotContains(t, html, `<script>alert`)
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$740.00", FormatCurrency(740))
	assert.Equal(t, "$0.00", FormatCurrency(0))
	assert.Equal(t, "$370.50", FormatCurrency(370.5))
}
