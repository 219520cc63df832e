package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jobquote/jobquote-api/models"
)

// LineItem is the editable, not-yet-persisted shape of an estimate or
// template line. Numeric fields stay as raw text while editing so partial
// input ("1.", "") never errors; they are normalized on save.
type LineItem struct {
	TempID      string `json:"temp_id"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LaborHours  string `json:"labor_hours"`
	LaborRate   string `json:"labor_rate"`
	Taxable     bool   `json:"taxable"`
}

// LineItemEditor holds an ordered, in-memory collection of editable line
// items. It always contains at least one item.
type LineItemEditor struct {
	items  []LineItem
	nextID int
}

// NewLineItemEditor creates an editor seeded with a single default item.
func NewLineItemEditor() *LineItemEditor {
	e := &LineItemEditor{}
	e.AddItem()
	return e
}

func (e *LineItemEditor) newTempID() string {
	e.nextID++
	return strconv.Itoa(e.nextID)
}

// AddItem appends a new item with defaults (quantity 1, taxable) and a
// fresh temporary id. Existing items keep their order.
func (e *LineItemEditor) AddItem() LineItem {
	item := LineItem{
		TempID:     e.newTempID(),
		Quantity:   "1",
		UnitPrice:  "0",
		LaborHours: "0",
		LaborRate:  "0",
		Taxable:    true,
	}
	e.items = append(e.items, item)
	return item
}

// RemoveItem deletes an item by its temporary id. Removing the last
// remaining item is rejected: the collection never drops below one item.
func (e *LineItemEditor) RemoveItem(tempID string) error {
	if len(e.items) == 1 {
		return &ValidationError{Message: "you must have at least one line item"}
	}
	for i, item := range e.items {
		if item.TempID == tempID {
			e.items = append(e.items[:i], e.items[i+1:]...)
			return nil
		}
	}
	return &NotFoundError{Resource: "line item"}
}

// UpdateItem replaces one field on one item. It mutates only editor state
// and never touches persistence.
func (e *LineItemEditor) UpdateItem(tempID, field string, value interface{}) error {
	for i := range e.items {
		if e.items[i].TempID != tempID {
			continue
		}
		switch field {
		case "description":
			e.items[i].Description, _ = value.(string)
		case "quantity":
			e.items[i].Quantity, _ = value.(string)
		case "unit_price":
			e.items[i].UnitPrice, _ = value.(string)
		case "labor_hours":
			e.items[i].LaborHours, _ = value.(string)
		case "labor_rate":
			e.items[i].LaborRate, _ = value.(string)
		case "taxable":
			e.items[i].Taxable, _ = value.(bool)
		default:
			return &ValidationError{Message: fmt.Sprintf("unknown line item field %q", field)}
		}
		return nil
	}
	return &NotFoundError{Resource: "line item"}
}

// Items returns a snapshot of the current items in order.
func (e *LineItemEditor) Items() []LineItem {
	out := make([]LineItem, len(e.items))
	copy(out, e.items)
	return out
}

// SeedFromTemplate replaces the editor contents with a template's items,
// assigning fresh temporary ids.
func (e *LineItemEditor) SeedFromTemplate(items []models.EstimateTemplateItem) {
	e.items = e.items[:0]
	for _, item := range items {
		e.items = append(e.items, LineItem{
			TempID:      e.newTempID(),
			Description: item.Description,
			Quantity:    formatAmount(item.Quantity),
			UnitPrice:   formatAmount(item.UnitPrice),
			LaborHours:  formatAmount(item.LaborHours),
			LaborRate:   formatAmount(item.LaborRate),
			Taxable:     item.Taxable,
		})
	}
	if len(e.items) == 0 {
		e.AddItem()
	}
}

// ToEstimateItems converts editor state into the durable storage shape:
// items with an empty description are dropped, sort_order is reassigned as
// the 0-based position, and numeric text is normalized (empty/invalid
// quantity becomes 1, other fields become 0).
func (e *LineItemEditor) ToEstimateItems() []models.EstimateItem {
	var out []models.EstimateItem
	for _, item := range e.items {
		desc := strings.TrimSpace(item.Description)
		if desc == "" {
			continue
		}
		out = append(out, models.EstimateItem{
			Description: desc,
			Quantity:    parseAmountDefault(item.Quantity, 1),
			UnitPrice:   ParseAmount(item.UnitPrice),
			LaborHours:  ParseAmount(item.LaborHours),
			LaborRate:   ParseAmount(item.LaborRate),
			Taxable:     item.Taxable,
			SortOrder:   len(out),
		})
	}
	return out
}

func parseAmountDefault(s string, def float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return def
	}
	return v
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
