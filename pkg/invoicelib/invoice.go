// Package invoicelib provides a public API for extracting and totaling
// Mexican CFDI invoices stored on disk.
//
// Example usage:
//
//	proc := invoicelib.NewDefaultProcessor()
//	q, err := invoicelib.NewQuery("emisor", "AAA010101AAA", "2024-01-01", "2024-12-31")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	total, err := proc.Aggregate("/srv/cfdi", q, invoicelib.FieldTotal)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(total)
package invoicelib

import (
	"github.com/rezonia/satr/internal/filter"
	"github.com/rezonia/satr/internal/model"
	"github.com/rezonia/satr/internal/report"
)

// Re-export core types for public API
type (
	Invoice    = model.Invoice
	Issuer     = model.Issuer
	Recipient  = model.Recipient
	LineItem   = model.LineItem
	TaxSection = model.TaxSection
	TaxGroup   = model.TaxGroup
	TaxLine    = model.TaxLine
	TaxKind    = model.TaxKind
	Stamp      = model.Stamp
	Subject    = filter.Subject
	Field      = report.Field
)

// Re-export tax kinds
const (
	TaxISR = model.TaxISR
	TaxIVA = model.TaxIVA
)

// Re-export subjects
const (
	SubjectIssuer    = filter.SubjectIssuer
	SubjectRecipient = filter.SubjectRecipient
)

// Re-export report fields
const (
	FieldTotal    = report.FieldTotal
	FieldSubtotal = report.FieldSubtotal
	FieldIVA      = report.FieldIVA
	FieldISR      = report.FieldISR
)

// Re-export error types
type (
	ParseError      = model.ParseError
	ValidationError = model.ValidationError
	ExtractionError = model.ExtractionError
)

// Re-export parse error kinds
var (
	ErrSchemaMismatch = model.ErrSchemaMismatch
	ErrMissingField   = model.ErrMissingField
	ErrInvalidValue   = model.ErrInvalidValue
	ErrUnknownTaxKind = model.ErrUnknownTaxKind
)
