package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/jobquote/jobquote-api/models"
)

// estimateTemplate is the HTML layout for a rendered estimate document.
// This is the "PDF" artifact: a self-contained HTML page stored publicly
// and linked from the estimate email.
var estimateTemplate = template.Must(template.New("estimate").Funcs(template.FuncMap{
	"currency": FormatCurrency,
	"date":     formatDate,
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Estimate #{{.Estimate.EstimateNumber}}</title>
  <style>
    * { margin: 0; padding: 0; box-sizing: border-box; }
    body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', sans-serif; padding: 40px; max-width: 800px; margin: 0 auto; background: #f9fafb; }
    .container { background: white; padding: 40px; border-radius: 8px; box-shadow: 0 1px 3px rgba(0,0,0,0.1); }
    .header { display: flex; justify-content: space-between; margin-bottom: 40px; padding-bottom: 20px; border-bottom: 2px solid #e5e7eb; }
    .company-info h1 { font-size: 24px; color: #111827; margin-bottom: 8px; }
    .company-info p { color: #6b7280; font-size: 14px; line-height: 1.6; }
    .estimate-number { font-size: 32px; font-weight: bold; color: #2563eb; margin-bottom: 8px; }
    .estimate-date { color: #6b7280; font-size: 14px; text-align: right; }
    .section-title { font-size: 12px; font-weight: 600; color: #6b7280; text-transform: uppercase; letter-spacing: 0.05em; margin-bottom: 8px; }
    .client-name { font-size: 18px; font-weight: 600; color: #111827; margin-bottom: 4px; }
    .client-details { color: #6b7280; font-size: 14px; line-height: 1.6; }
    table { width: 100%; margin: 30px 0; border-collapse: collapse; }
    th { background: #f9fafb; padding: 12px; text-align: left; font-size: 12px; font-weight: 600; color: #6b7280; text-transform: uppercase; border-bottom: 2px solid #e5e7eb; }
    td { padding: 12px; border-bottom: 1px solid #f3f4f6; color: #111827; font-size: 14px; }
    .item-details { color: #6b7280; font-size: 13px; margin-top: 4px; }
    .text-right { text-align: right; }
    .totals { margin-left: auto; width: 300px; margin-top: 20px; }
    .total-row { display: flex; justify-content: space-between; padding: 8px 0; font-size: 14px; color: #6b7280; }
    .total-row.grand-total { font-size: 18px; font-weight: bold; color: #111827; padding-top: 12px; border-top: 1px solid #e5e7eb; }
    .total-row.grand-total .amount { color: #2563eb; }
    .total-row.deposit { color: #059669; font-weight: 600; border-top: 1px solid #e5e7eb; padding-top: 12px; }
    .notes-section { margin-top: 40px; padding-top: 30px; border-top: 2px solid #e5e7eb; }
    .notes-content { background: #f9fafb; padding: 16px; border-radius: 6px; color: #374151; font-size: 14px; line-height: 1.6; margin-bottom: 20px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="company-info">
        <h1>{{.Company.Name}}</h1>
        {{if .Company.Address}}<p>{{.Company.Address}}</p>{{end}}
        {{if .Company.Phone}}<p>{{.Company.Phone}}</p>{{end}}
        {{if .Company.Email}}<p>{{.Company.Email}}</p>{{end}}
      </div>
      <div>
        <div class="estimate-number">#{{.Estimate.EstimateNumber}}</div>
        <div class="estimate-date">{{date .Estimate.CreatedAt}}</div>
      </div>
    </div>

    {{if .Client}}
    <div class="client-section">
      <div class="section-title">Prepared For</div>
      <div class="client-name">{{.Client.Name}}</div>
      <div class="client-details">
        {{if .Client.Email}}{{.Client.Email}}<br>{{end}}
        {{if .Client.Phone}}{{.Client.Phone}}<br>{{end}}
        {{if .Client.Address}}{{.Client.Address}}{{end}}
      </div>
    </div>
    {{end}}

    <table>
      <thead>
        <tr>
          <th>Description</th>
          <th class="text-right">Amount</th>
        </tr>
      </thead>
      <tbody>
        {{range .Items}}
        <tr>
          <td>
            {{.Description}}
            <div class="item-details">
              {{if gt .Quantity 0.0}}{{.Quantity}} x {{currency .UnitPrice}}{{end}}
              {{if gt .LaborHours 0.0}}{{.LaborHours}} hrs @ {{currency .LaborRate}}{{end}}
            </div>
          </td>
          <td class="text-right">{{currency .LineTotal}}</td>
        </tr>
        {{end}}
      </tbody>
    </table>

    <div class="totals">
      <div class="total-row"><span>Subtotal</span><span>{{currency .Estimate.Subtotal}}</span></div>
      <div class="total-row"><span>Tax</span><span>{{currency .Estimate.Tax}}</span></div>
      <div class="total-row grand-total"><span>Total</span><span class="amount">{{currency .Estimate.Total}}</span></div>
      {{if gt .Estimate.DepositAmount 0.0}}
      <div class="total-row deposit"><span>Deposit ({{.Estimate.DepositPercent}}%)</span><span>{{currency .Estimate.DepositAmount}}</span></div>
      {{end}}
    </div>

    {{if or .Estimate.Notes .Estimate.Terms}}
    <div class="notes-section">
      {{if .Estimate.Notes}}
      <div class="section-title">Notes</div>
      <div class="notes-content">{{.Estimate.Notes}}</div>
      {{end}}
      {{if .Estimate.Terms}}
      <div class="section-title">Terms &amp; Conditions</div>
      <div class="notes-content">{{.Estimate.Terms}}</div>
      {{end}}
    </div>
    {{end}}
  </div>
</body>
</html>
`))

// estimateTemplateData bundles everything the layout needs
type estimateTemplateData struct {
	Estimate *models.Estimate
	Company  *models.Company
	Client   *models.Client
	Items    []*models.EstimateItem
}

// RenderEstimateHTML renders an estimate into its shareable HTML document
func RenderEstimateHTML(estimate *models.Estimate, company *models.Company, client *models.Client, items []models.EstimateItem) ([]byte, error) {
	// pointers so the template can call the LineTotal method
	itemRefs := make([]*models.EstimateItem, len(items))
	for i := range items {
		itemRefs[i] = &items[i]
	}

	var buf bytes.Buffer
	err := estimateTemplate.Execute(&buf, estimateTemplateData{
		Estimate: estimate,
		Company:  company,
		Client:   client,
		Items:    itemRefs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute estimate template: %w", err)
	}
	return buf.Bytes(), nil
}

// FormatCurrency formats a raw amount as USD for display. Money is stored
// as raw floating values; formatting happens only at output boundaries.
func FormatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}
