package xml_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/satr/internal/model"
	xmlparser "github.com/rezonia/satr/internal/parser/xml"
)

func TestParser_Parse(t *testing.T) {
	content := readTestFile(t, "factura.xml")

	parser := xmlparser.NewParser()
	require.True(t, parser.CanParse(content))

	invoice, err := parser.Parse(bytes.NewReader(content))
	require.NoError(t, err)

	// Verify header
	assert.Equal(t, "4.0", invoice.Version)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC), invoice.Date)
	assert.Equal(t, "03", invoice.PaymentForm)
	assert.Equal(t, "MXN", invoice.Currency)
	assert.Equal(t, "I", invoice.ReceiptType)
	assert.Equal(t, "01", invoice.Exportation)
	assert.Equal(t, "PUE", invoice.PaymentMethod)
	assert.Equal(t, "06600", invoice.ExpeditionPlace)
	assert.True(t, invoice.Subtotal.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, invoice.Total.Equal(decimal.RequireFromString("112.67")))

	// Verify parties
	assert.Equal(t, "AAA010101AAA", invoice.Issuer.RFC)
	assert.Equal(t, "ESCUELA KEMPER URGATE", invoice.Issuer.Name)
	assert.Equal(t, "601", invoice.Issuer.FiscalRegime)
	assert.Equal(t, "XAXX010101000", invoice.Recipient.RFC)
	assert.Equal(t, "06600", invoice.Recipient.PostalCode)
	assert.Equal(t, "616", invoice.Recipient.FiscalRegime)
	assert.Equal(t, "S01", invoice.Recipient.CFDIUse)

	// Verify items
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, "84111506", invoice.Items[0].ProductKey)
	assert.Equal(t, "Consultoria", invoice.Items[0].Description)
	assert.True(t, invoice.Items[1].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, invoice.Items[1].UnitPrice.Equal(decimal.NewFromInt(20)))
	assert.True(t, invoice.Items[1].Amount.Equal(decimal.NewFromInt(40)))

	// Verify taxes
	require.NotNil(t, invoice.Taxes.Withheld)
	require.NotNil(t, invoice.Taxes.CarriedForward)
	assert.Len(t, invoice.Taxes.Withheld.Taxes, 2)
	assert.Equal(t, model.TaxIVA, invoice.Taxes.CarriedForward.Taxes[0].Kind)
	assert.True(t, invoice.IVA().Equal(decimal.RequireFromString("18.33")))
	assert.True(t, invoice.ISR().Equal(decimal.RequireFromString("1.00")))

	// Verify stamp
	require.NotNil(t, invoice.Stamp)
	assert.Equal(t, "5FB2822E-396D-4725-8521-CDC4BDD20CCF", invoice.Stamp.UUID)
	assert.Equal(t, time.Date(2024, 1, 10, 12, 31, 5, 0, time.UTC), invoice.Stamp.StampedAt)
	assert.Equal(t, "SAT970701NN3", invoice.Stamp.ProviderRFC)
	assert.Equal(t, "00001000000509846663", invoice.Stamp.SATCertificate)
}

func TestParser_WithoutStamp(t *testing.T) {
	invoice, err := xmlparser.NewParser().ParseBytes(readTestFile(t, "sin_timbre.xml"))
	require.NoError(t, err)

	assert.Nil(t, invoice.Stamp)
	assert.Nil(t, invoice.Taxes.Withheld)
	assert.True(t, invoice.ISR().IsZero())
	assert.True(t, invoice.IVA().Equal(decimal.NewFromInt(32)))
	assert.True(t, invoice.Total.Equal(decimal.RequireFromString("232.00")))
}

func TestParser_Latin1(t *testing.T) {
	invoice, err := xmlparser.NewParser().ParseBytes(readTestFile(t, "latin1.xml"))
	require.NoError(t, err)

	assert.Equal(t, "PANADERÍA PEÑA", invoice.Issuer.Name)
	assert.True(t, invoice.IVA().Equal(decimal.NewFromInt(8)))
}

func TestParser_UnknownTaxKind(t *testing.T) {
	_, err := xmlparser.NewParser().ParseBytes(readTestFile(t, "impuesto_desconocido.xml"))
	require.Error(t, err)

	assert.ErrorIs(t, err, model.ErrUnknownTaxKind)

	var parseErr *model.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Contains(t, parseErr.Message, "003")
}

func TestParser_PaddedAmounts(t *testing.T) {
	content := strings.Replace(string(readTestFile(t, "sin_timbre.xml")), `Total="232.00"`, `Total=" 232.00 "`, 1)

	invoice, err := xmlparser.NewParser().ParseBytes([]byte(content))
	require.NoError(t, err)
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(232)))
}

func TestParser_NamespaceAgnostic(t *testing.T) {
	content := string(readTestFile(t, "sin_timbre.xml"))
	content = strings.ReplaceAll(content, "cfdi:", "")
	content = strings.ReplaceAll(content, `xmlns:cfdi=`, `xmlns=`)

	invoice, err := xmlparser.NewParser().ParseBytes([]byte(content))
	require.NoError(t, err)
	assert.Equal(t, "AAA010101AAA", invoice.Issuer.RFC)
}

func TestParser_Errors(t *testing.T) {
	valid := string(readTestFile(t, "sin_timbre.xml"))

	tests := []struct {
		name    string
		content string
		kind    error
		field   string
	}{
		{
			name:    "not xml",
			content: "plain text",
			kind:    model.ErrSchemaMismatch,
			field:   "xml",
		},
		{
			name:    "unclosed element",
			content: `<Invalid><Unclosed>`,
			kind:    model.ErrSchemaMismatch,
			field:   "xml",
		},
		{
			name:    "wrong root",
			content: `<Factura Total="1"/>`,
			kind:    model.ErrSchemaMismatch,
			field:   "xml",
		},
		{
			name:    "missing total",
			content: strings.Replace(valid, ` Total="232.00"`, "", 1),
			kind:    model.ErrMissingField,
			field:   "Total",
		},
		{
			name:    "malformed total",
			content: strings.Replace(valid, `Total="232.00"`, `Total="abc"`, 1),
			kind:    model.ErrInvalidValue,
			field:   "Total",
		},
		{
			name:    "malformed date",
			content: strings.Replace(valid, `Fecha="2024-06-01T08:00:00"`, `Fecha="01/06/2024"`, 1),
			kind:    model.ErrInvalidValue,
			field:   "Fecha",
		},
		{
			name:    "missing issuer",
			content: removeLine(valid, "<cfdi:Emisor"),
			kind:    model.ErrMissingField,
			field:   "Emisor",
		},
		{
			name:    "missing issuer rfc",
			content: strings.Replace(valid, `<cfdi:Emisor Rfc="AAA010101AAA"`, `<cfdi:Emisor`, 1),
			kind:    model.ErrMissingField,
			field:   "Emisor.Rfc",
		},
		{
			name:    "missing recipient",
			content: removeLine(valid, "<cfdi:Receptor"),
			kind:    model.ErrMissingField,
			field:   "Receptor",
		},
		{
			name:    "missing taxes",
			content: valid[:strings.Index(valid, "  <cfdi:Impuestos")] + "</cfdi:Comprobante>\n",
			kind:    model.ErrMissingField,
			field:   "Impuestos",
		},
		{
			name:    "padded tax code",
			content: strings.Replace(valid, `Impuesto="002"`, `Impuesto=" 002"`, 1),
			kind:    model.ErrUnknownTaxKind,
			field:   "Impuesto",
		},
		{
			name:    "missing tax amount",
			content: strings.Replace(valid, `TasaOCuota="0.160000" Importe="32.00"`, `TasaOCuota="0.160000"`, 1),
			kind:    model.ErrMissingField,
			field:   "Traslado.Importe",
		},
	}

	parser := xmlparser.NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parser.ParseBytes([]byte(tt.content))
			require.Error(t, err)

			var parseErr *model.ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.field, parseErr.Field)
		})
	}
}

func TestParser_CanParse(t *testing.T) {
	parser := xmlparser.NewParser()

	assert.True(t, parser.CanParse(readTestFile(t, "factura.xml")))
	assert.True(t, parser.CanParse([]byte("\xef\xbb\xbf<Comprobante/>")))
	assert.False(t, parser.CanParse([]byte("%PDF-1.4")))
	assert.False(t, parser.CanParse([]byte(`<Invoice><InvoiceNo>1</InvoiceNo></Invoice>`)))
}

func TestInspect(t *testing.T) {
	summary, err := xmlparser.Inspect(readTestFile(t, "factura.xml"))
	require.NoError(t, err)

	assert.Equal(t, "Comprobante", summary.Root)
	assert.Equal(t, "http://www.sat.gob.mx/cfd/4", summary.Namespace)
	assert.Equal(t, "4.0", summary.Version)
	assert.Equal(t, "5fb2822e-396d-4725-8521-cdc4bdd20ccf", summary.UUID)
	assert.True(t, summary.IsCFDI)

	summary, err = xmlparser.Inspect([]byte(`<Invoice Version="2"/>`))
	require.NoError(t, err)
	assert.False(t, summary.IsCFDI)
	assert.Empty(t, summary.UUID)

	_, err = xmlparser.Inspect([]byte("not xml"))
	require.Error(t, err)
}

func TestExtractStamp_Missing(t *testing.T) {
	_, err := xmlparser.ExtractStamp(readTestFile(t, "sin_timbre.xml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrMissingField)
}

// Helper functions

func readTestFile(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join("testdata", filename)
	content, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read test file: %s", filename)
	return content
}

func removeLine(content, prefix string) string {
	var kept []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
