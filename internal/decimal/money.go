package decimal

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}

// Formatter renders amounts for people: currency symbol, grouped digits,
// fixed decimal places. The amount is never converted to float.
type Formatter struct {
	Symbol  string
	Places  int32
	printer *message.Printer
}

// NewFormatter creates a formatter, e.g. NewFormatter("$", 2) gives "$1,234.50"
func NewFormatter(symbol string, places int32) *Formatter {
	return &Formatter{
		Symbol:  symbol,
		Places:  places,
		printer: message.NewPrinter(language.English),
	}
}

// Format renders d rounded half-up to the formatter's places
func (f *Formatter) Format(d decimal.Decimal) string {
	fixed := d.StringFixed(f.Places)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")
	grouped := f.group(intPart)

	var sb strings.Builder
	sb.WriteString(sign)
	sb.WriteString(f.Symbol)
	sb.WriteString(grouped)
	if fracPart != "" {
		sb.WriteByte('.')
		sb.WriteString(fracPart)
	}
	return sb.String()
}

// group inserts thousands separators into a string of digits
func (f *Formatter) group(digits string) string {
	n, err := decimal.NewFromString(digits)
	if err != nil || !n.IsInteger() {
		return digits
	}
	if n.BigInt().IsInt64() {
		return f.printer.Sprintf("%d", n.BigInt().Int64())
	}
	// Beyond int64: group by hand.
	var sb strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
