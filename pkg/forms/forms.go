// Package forms holds the in-memory invoice form the dictation router
// writes into. Line totals and the grand total recompute whenever a
// quantity or unit price field changes, whether by dictation or by a
// direct edit through the control surface.
package forms

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/officevoice/go-officevoice/pkg/dictation"
)

// LineItem is one billable row: a description, a quantity and a unit
// price, with a derived read-only total.
type LineItem struct {
	Description *dictation.TextField
	Quantity    *dictation.TextField
	UnitPrice   *dictation.TextField
	Total       *dictation.TextField
}

// Amount returns the line total as quantity times unit price.
// Unparseable fields count as zero.
func (li *LineItem) Amount() float64 {
	return ParseAmount(li.Quantity.Value()) * ParseAmount(li.UnitPrice.Value())
}

// Invoice is the form model. All fields implement dictation.Field and
// are registered with the router through Focus calls from the control
// surface.
type Invoice struct {
	Customer *dictation.TextField
	Notes    *dictation.TextField
	Total    *dictation.TextField

	mu    sync.Mutex
	items []*LineItem
	seq   int
}

// NewInvoice creates an empty invoice with one blank line item.
func NewInvoice() *Invoice {
	inv := &Invoice{
		Customer: dictation.NewTextField("customer", "text"),
		Notes:    dictation.NewTextField("notes", "textarea"),
		Total:    dictation.NewTextField("total", "text"),
	}
	inv.Total.SetReadOnly(true)
	inv.AddItem()
	return inv
}

// AddItem appends a blank line item and returns it.
func (inv *Invoice) AddItem() *LineItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	inv.seq++
	n := inv.seq
	item := &LineItem{
		Description: dictation.NewTextField(fmt.Sprintf("item-%d-desc", n), "text"),
		Quantity:    dictation.NewTextField(fmt.Sprintf("item-%d-qty", n), "number"),
		UnitPrice:   dictation.NewTextField(fmt.Sprintf("item-%d-price", n), "number"),
		Total:       dictation.NewTextField(fmt.Sprintf("item-%d-total", n), "text"),
	}
	item.Total.SetReadOnly(true)
	inv.items = append(inv.items, item)
	return item
}

// RemoveItem detaches the line item at index i and drops it from the
// form. Detached fields stop accepting dictation.
func (inv *Invoice) RemoveItem(i int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if i < 0 || i >= len(inv.items) {
		return
	}
	item := inv.items[i]
	item.Description.Detach()
	item.Quantity.Detach()
	item.UnitPrice.Detach()
	item.Total.Detach()
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
}

// Items returns the current line items.
func (inv *Invoice) Items() []*LineItem {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	items := make([]*LineItem, len(inv.items))
	copy(items, inv.items)
	return items
}

// Fields returns every editable and derived field, in form order.
func (inv *Invoice) Fields() []dictation.Field {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	fields := []dictation.Field{inv.Customer, inv.Notes}
	for _, item := range inv.items {
		fields = append(fields, item.Description, item.Quantity, item.UnitPrice, item.Total)
	}
	fields = append(fields, inv.Total)
	return fields
}

// Field finds a field by ID, or nil.
func (inv *Invoice) Field(id string) dictation.Field {
	for _, f := range inv.Fields() {
		if f.ID() == id {
			return f
		}
	}
	return nil
}

// Recalculate recomputes every line total and the grand total.
func (inv *Invoice) Recalculate() {
	inv.mu.Lock()
	items := make([]*LineItem, len(inv.items))
	copy(items, inv.items)
	inv.mu.Unlock()

	var grand float64
	for _, item := range items {
		amount := item.Amount()
		grand += amount
		item.Total.SetValue(FormatCurrency(amount))
	}
	inv.Total.SetValue(FormatCurrency(grand))
}

// Bind wires the invoice to a router so dictation changes trigger
// recomputation.
func (inv *Invoice) Bind(r *dictation.Router) {
	r.OnChange(func(dictation.Field, string) {
		inv.Recalculate()
	})
}

// ParseAmount reads a numeric amount out of user text, tolerating a
// currency sign, thousands separators and surrounding whitespace.
// Unparseable input yields zero.
func ParseAmount(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// FormatCurrency renders an amount as $#,##0.00.
func FormatCurrency(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}

	whole := fmt.Sprintf("%.2f", amount)
	dot := strings.IndexByte(whole, '.')
	intPart, fracPart := whole[:dot], whole[dot+1:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
