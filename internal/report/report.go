// Package report folds invoices into a single exact amount.
package report

import (
	"fmt"
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/rezonia/satr/internal/model"
)

// Field names the monetary value taken from each invoice
type Field int

const (
	FieldTotal Field = iota
	FieldSubtotal
	FieldIVA
	FieldISR
)

// Fields lists every selectable field
var Fields = []Field{FieldTotal, FieldSubtotal, FieldIVA, FieldISR}

// String returns the name used on the command line and in URLs
func (f Field) String() string {
	switch f {
	case FieldTotal:
		return "total"
	case FieldSubtotal:
		return "subtotal"
	case FieldIVA:
		return "iva"
	case FieldISR:
		return "isr"
	default:
		return fmt.Sprintf("Field(%d)", int(f))
	}
}

// ParseField accepts total, subtotal, iva or isr in any case
func ParseField(s string) (Field, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, f := range Fields {
		if f.String() == name {
			return f, nil
		}
	}
	return 0, model.NewValidationError("field", s, "oneof", "field must be one of total, subtotal, iva, isr")
}

// Selector returns the function extracting this field from an invoice
func (f Field) Selector() func(*model.Invoice) decimal.Decimal {
	switch f {
	case FieldSubtotal:
		return (*model.Invoice).SubtotalAmount
	case FieldIVA:
		return (*model.Invoice).IVA
	case FieldISR:
		return (*model.Invoice).ISR
	default:
		return (*model.Invoice).TotalAmount
	}
}

// Sum adds the selected field over every invoice in seq. An empty
// sequence sums to zero.
func Sum(seq iter.Seq[*model.Invoice], field Field) decimal.Decimal {
	sel := field.Selector()
	total := decimal.Zero
	for inv := range seq {
		total = total.Add(sel(inv))
	}
	return total
}

// SumSlice is Sum over a materialized list
func SumSlice(invoices []*model.Invoice, field Field) decimal.Decimal {
	return Sum(slices.Values(invoices), field)
}
