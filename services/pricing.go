package services

import (
	"strconv"
	"strings"
)

// Pricing math for estimates. All values are raw float64; currency
// formatting happens only at output boundaries (rendered document, email).

// ParseAmount converts user-entered text to a number. Empty or malformed
// input is treated as 0, never an error.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// LineTotal calculates quantity x unit price plus labor hours x labor rate
// for a single editable line item.
func LineTotal(item LineItem) float64 {
	return ParseAmount(item.Quantity)*ParseAmount(item.UnitPrice) +
		ParseAmount(item.LaborHours)*ParseAmount(item.LaborRate)
}

// Subtotal sums line totals over all items, taxable or not.
func Subtotal(items []LineItem) float64 {
	var sum float64
	for _, item := range items {
		sum += LineTotal(item)
	}
	return sum
}

// TaxAmount applies the tax rate (percent) to the taxable base only: items
// with the taxable flag cleared contribute nothing to the base.
func TaxAmount(items []LineItem, taxRatePercent float64) float64 {
	var taxableTotal float64
	for _, item := range items {
		if item.Taxable {
			taxableTotal += LineTotal(item)
		}
	}
	return taxableTotal * taxRatePercent / 100
}

// Total is subtotal plus tax.
func Total(subtotal, tax float64) float64 {
	return subtotal + tax
}

// DepositAmount is the upfront portion of the total.
func DepositAmount(total, depositPercent float64) float64 {
	return total * depositPercent / 100
}
