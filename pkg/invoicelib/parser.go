package invoicelib

import (
	"io"
	"time"

	"github.com/rezonia/satr/internal/filter"
	"github.com/rezonia/satr/internal/model"
	xmlparser "github.com/rezonia/satr/internal/parser/xml"
)

// Parser parses a single CFDI document
type Parser interface {
	// Parse parses XML content into Invoice
	Parse(r io.Reader) (*model.Invoice, error)

	// ParseBytes parses already loaded content
	ParseBytes(content []byte) (*model.Invoice, error)

	// CanParse returns true if content looks like a CFDI
	CanParse(content []byte) bool
}

// NewParser returns the CFDI parser
func NewParser() Parser {
	return xmlparser.NewParser()
}

// Query selects invoices by party RFC and an inclusive date range
type Query = filter.Criteria

// NewQuery builds a Query from user input. subject is emisor/issuer or
// receptor/recipient. Empty start means 1900-01-01, empty end means now;
// an end date covers that whole day.
func NewQuery(subject, rfc, start, end string) (Query, error) {
	s, err := filter.ParseSubject(subject)
	if err != nil {
		return Query{}, err
	}
	if rfc == "" {
		return Query{}, model.NewValidationError("rfc", rfc, "required", "rfc is required")
	}

	var from, to *time.Time
	if start != "" {
		t, err := filter.ParseDate(start, false)
		if err != nil {
			return Query{}, err
		}
		from = &t
	}
	if end != "" {
		t, err := filter.ParseDate(end, true)
		if err != nil {
			return Query{}, err
		}
		to = &t
	}

	return Query{Subject: s, RFC: rfc, Dates: filter.NewDateRange(from, to, time.Now())}, nil
}
