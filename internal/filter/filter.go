// Package filter selects invoices by counterparty RFC and date range.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezonia/satr/internal/model"
)

// Subject selects which party of an invoice the RFC is compared against
type Subject int

const (
	// SubjectIssuer compares against the Emisor RFC
	SubjectIssuer Subject = iota
	// SubjectRecipient compares against the Receptor RFC
	SubjectRecipient
)

// String returns the CFDI name of the party
func (s Subject) String() string {
	switch s {
	case SubjectIssuer:
		return "emisor"
	case SubjectRecipient:
		return "receptor"
	default:
		return fmt.Sprintf("Subject(%d)", int(s))
	}
}

// RFC returns the invoice's RFC for this party
func (s Subject) RFC(inv *model.Invoice) string {
	if s == SubjectRecipient {
		return inv.Recipient.RFC
	}
	return inv.Issuer.RFC
}

// ParseSubject accepts emisor/issuer and receptor/recipient
func ParseSubject(s string) (Subject, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "emisor", "issuer":
		return SubjectIssuer, nil
	case "receptor", "recipient":
		return SubjectRecipient, nil
	default:
		return 0, model.NewValidationError("subject", s, "oneof", "subject must be emisor or receptor")
	}
}

// DefaultStart is the lower bound used when none is given
var DefaultStart = time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)

// DateRange is an inclusive interval of invoice timestamps
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange fills absent bounds: start defaults to DefaultStart and end
// to now read as a wall clock
func NewDateRange(start, end *time.Time, now time.Time) DateRange {
	r := DateRange{Start: DefaultStart, End: wallClock(now)}
	if start != nil {
		r.Start = *start
	}
	if end != nil {
		r.End = *end
	}
	return r
}

// Contains reports whether t lies within the range, bounds included
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Criteria is the complete filter applied to each invoice
type Criteria struct {
	Subject Subject
	RFC     string
	Dates   DateRange
}

// Matches reports whether the invoice satisfies the criteria
func (c Criteria) Matches(inv *model.Invoice) bool {
	return c.Subject.RFC(inv) == c.RFC && c.Dates.Contains(inv.Date)
}

// Matches checks one invoice against a subject, RFC and inclusive range
func Matches(inv *model.Invoice, subject Subject, rfc string, start, end time.Time) bool {
	return Criteria{Subject: subject, RFC: rfc, Dates: DateRange{Start: start, End: end}}.Matches(inv)
}

// DateLayout is the accepted format for date bounds given by users
const DateLayout = "2006-01-02"

// ParseDate reads a YYYY-MM-DD bound. With endOfDay the result is the
// last instant of that day so the whole day is included.
func ParseDate(s string, endOfDay bool) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, model.NewValidationError("date", s, "format", "date must be YYYY-MM-DD")
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

// wallClock keeps the local reading of t and labels it UTC, matching how
// invoice timestamps are stored
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
