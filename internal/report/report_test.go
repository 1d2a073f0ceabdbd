package report_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/satr/internal/model"
	"github.com/rezonia/satr/internal/report"
)

func newInvoice(total, subtotal, iva, isr string) *model.Invoice {
	return &model.Invoice{
		Total:    decimal.RequireFromString(total),
		Subtotal: decimal.RequireFromString(subtotal),
		Taxes: model.TaxSection{
			Withheld: &model.TaxGroup{Taxes: []model.TaxLine{
				{Kind: model.TaxISR, Amount: decimal.RequireFromString(isr)},
			}},
			CarriedForward: &model.TaxGroup{Taxes: []model.TaxLine{
				{Kind: model.TaxIVA, Amount: decimal.RequireFromString(iva)},
			}},
		},
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in       string
		expected report.Field
	}{
		{"total", report.FieldTotal},
		{"subtotal", report.FieldSubtotal},
		{"iva", report.FieldIVA},
		{"ISR", report.FieldISR},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f, err := report.ParseField(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f)
		})
	}

	_, err := report.ParseField("ieps")
	var valErr *model.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "field", valErr.Field)
}

func TestField_String(t *testing.T) {
	for _, f := range report.Fields {
		parsed, err := report.ParseField(f.String())
		require.NoError(t, err)
		assert.Equal(t, f, parsed)
	}
}

func TestSum_Fields(t *testing.T) {
	invoices := []*model.Invoice{
		newInvoice("116.00", "100.00", "16.00", "0"),
		newInvoice("222.67", "200.00", "32.00", "9.33"),
	}

	tests := []struct {
		field    report.Field
		expected string
	}{
		{report.FieldTotal, "338.67"},
		{report.FieldSubtotal, "300"},
		{report.FieldIVA, "48"},
		{report.FieldISR, "9.33"},
	}

	for _, tt := range tests {
		t.Run(tt.field.String(), func(t *testing.T) {
			got := report.SumSlice(invoices, tt.field)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.expected)), "got %s", got)
		})
	}
}

func TestSum_Empty(t *testing.T) {
	for _, f := range report.Fields {
		assert.True(t, report.SumSlice(nil, f).IsZero())
		assert.True(t, report.Sum(slices.Values([]*model.Invoice{}), f).IsZero())
	}
}

func TestSum_Exact(t *testing.T) {
	var invoices []*model.Invoice
	for i := 0; i < 10; i++ {
		invoices = append(invoices, newInvoice("0.10", "0.10", "0", "0"))
	}
	assert.Equal(t, "1", report.SumSlice(invoices, report.FieldTotal).String())
}

func TestSum_OrderIndependent(t *testing.T) {
	var invoices []*model.Invoice
	for i := 1; i <= 25; i++ {
		amount := decimal.New(int64(i*137), -2).String()
		invoices = append(invoices, newInvoice(amount, amount, "0.16", "0.01"))
	}

	expected := report.SumSlice(invoices, report.FieldTotal)

	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 5; round++ {
		shuffled := slices.Clone(invoices)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.True(t, expected.Equal(report.SumSlice(shuffled, report.FieldTotal)))
	}
}
