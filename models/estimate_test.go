package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    EstimateStatus
		to      EstimateStatus
		allowed bool
	}{
		{"Draft to sent", EstimateStatusDraft, EstimateStatusSent, true},
		{"Sent to accepted", EstimateStatusSent, EstimateStatusAccepted, true},
		{"Sent to declined", EstimateStatusSent, EstimateStatusDeclined, true},
		{"Sent to paid, payment before acceptance recorded", EstimateStatusSent, EstimateStatusPaid, true},
		{"Accepted to paid", EstimateStatusAccepted, EstimateStatusPaid, true},
		{"Accepted to invoiced", EstimateStatusAccepted, EstimateStatusInvoiced, true},
		{"Draft cannot be accepted", EstimateStatusDraft, EstimateStatusAccepted, false},
		{"Draft cannot be paid", EstimateStatusDraft, EstimateStatusPaid, false},
		{"Paid is terminal", EstimateStatusPaid, EstimateStatusDraft, false},
		{"Declined is terminal", EstimateStatusDeclined, EstimateStatusSent, false},
		{"Invoiced is terminal", EstimateStatusInvoiced, EstimateStatusPaid, false},
		{"No backward move from sent", EstimateStatusSent, EstimateStatusDraft, false},
		{"Accepted cannot be declined", EstimateStatusAccepted, EstimateStatusDeclined, false},
		{"No self transition", EstimateStatusSent, EstimateStatusSent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestEstimateStatusHelpers(t *testing.T) {
	draft := Estimate{Status: EstimateStatusDraft}
	assert.True(t, draft.IsDraft())
	assert.False(t, draft.IsPaid())

	paid := Estimate{Status: EstimateStatusPaid}
	assert.True(t, paid.IsPaid())

	url := "https://example.com/doc.html"
	withDoc := Estimate{PDFURL: &url}
	assert.True(t, withDoc.HasArtifact())

	empty := ""
	assert.False(t, (&Estimate{PDFURL: &empty}).HasArtifact())
	assert.False(t, (&Estimate{}).HasArtifact())
}

func TestEstimateItemLineTotal(t *testing.T) {
	item := EstimateItem{
		Quantity:   2,
		UnitPrice:  100,
		LaborHours: 3,
		LaborRate:  50,
	}
	assert.Equal(t, 350.0, item.LineTotal())

	laborOnly := EstimateItem{LaborHours: 4, LaborRate: 85}
	assert.Equal(t, 340.0, laborOnly.LineTotal())
}

func TestGenerateEstimateNumber(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&Company{}, &Estimate{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	company := Company{Name: "Test Plumbing"}
	db.Create(&company)
	other := Company{Name: "Other Electric"}
	db.Create(&other)

	// First number for an empty company
	number, err := GenerateEstimateNumber(db, company.ID)
	assert.NoError(t, err)
	assert.Equal(t, "EST-0001", number)

	for i := 1; i <= 3; i++ {
		db.Create(&Estimate{
			CompanyID:      company.ID,
			EstimateNumber: fmt.Sprintf("EST-%04d", i),
			Status:         EstimateStatusDraft,
		})
	}

	number, err = GenerateEstimateNumber(db, company.ID)
	assert.NoError(t, err)
	assert.Equal(t, "EST-0004", number)

	// Numbering is per company
	number, err = GenerateEstimateNumber(db, other.ID)
	assert.NoError(t, err)
	assert.Equal(t, "EST-0001", number)
}

func TestGenerateEstimateNumberCountsDeletedRows(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&Company{}, &Estimate{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	company := Company{Name: "Test Plumbing"}
	db.Create(&company)

	est := Estimate{
		CompanyID:      company.ID,
		EstimateNumber: "EST-0001",
		Status:         EstimateStatusDraft,
	}
	db.Create(&est)
	db.Delete(&est)

	// The soft-deleted row still holds EST-0001; reusing the number would
	// trip the unique index.
	number, err := GenerateEstimateNumber(db, company.ID)
	assert.NoError(t, err)
	assert.Equal(t, "EST-0002", number)
}
