package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	money "github.com/rezonia/satr/internal/decimal"
	"github.com/rezonia/satr/internal/model"
)

// DateLayout is the textual format of Fecha and FechaTimbrado
const DateLayout = "2006-01-02T15:04:05"

// CFDI XML structures. Tags carry local names only so that any namespace
// prefix (cfdi:, tfd:) matches.
type cfdiComprobante struct {
	XMLName           xml.Name       `xml:"Comprobante"`
	Version           *string        `xml:"Version,attr"`
	Fecha             *string        `xml:"Fecha,attr"`
	FormaPago         *string        `xml:"FormaPago,attr"`
	SubTotal          *string        `xml:"SubTotal,attr"`
	Moneda            *string        `xml:"Moneda,attr"`
	Total             *string        `xml:"Total,attr"`
	TipoDeComprobante *string        `xml:"TipoDeComprobante,attr"`
	Exportacion       *string        `xml:"Exportacion,attr"`
	MetodoPago        *string        `xml:"MetodoPago,attr"`
	LugarExpedicion   *string        `xml:"LugarExpedicion,attr"`
	Emisor            *cfdiEmisor    `xml:"Emisor"`
	Receptor          *cfdiReceptor  `xml:"Receptor"`
	Conceptos         *cfdiConceptos `xml:"Conceptos"`
	Impuestos         *cfdiImpuestos `xml:"Impuestos"`
}

type cfdiEmisor struct {
	Rfc           *string `xml:"Rfc,attr"`
	Nombre        *string `xml:"Nombre,attr"`
	RegimenFiscal *string `xml:"RegimenFiscal,attr"`
}

type cfdiReceptor struct {
	Rfc                     *string `xml:"Rfc,attr"`
	Nombre                  *string `xml:"Nombre,attr"`
	DomicilioFiscalReceptor *string `xml:"DomicilioFiscalReceptor,attr"`
	RegimenFiscalReceptor   *string `xml:"RegimenFiscalReceptor,attr"`
	UsoCFDI                 *string `xml:"UsoCFDI,attr"`
}

type cfdiConceptos struct {
	Conceptos []cfdiConcepto `xml:"Concepto"`
}

type cfdiConcepto struct {
	ClaveProdServ *string `xml:"ClaveProdServ,attr"`
	Cantidad      *string `xml:"Cantidad,attr"`
	ClaveUnidad   *string `xml:"ClaveUnidad,attr"`
	Unidad        *string `xml:"Unidad,attr"`
	Descripcion   *string `xml:"Descripcion,attr"`
	ValorUnitario *string `xml:"ValorUnitario,attr"`
	Importe       *string `xml:"Importe,attr"`
}

type cfdiImpuestos struct {
	Retenciones *cfdiRetenciones `xml:"Retenciones"`
	Traslados   *cfdiTraslados   `xml:"Traslados"`
}

type cfdiRetenciones struct {
	Taxes []cfdiImpuesto `xml:"Retencion"`
}

type cfdiTraslados struct {
	Taxes []cfdiImpuesto `xml:"Traslado"`
}

type cfdiImpuesto struct {
	Impuesto *string `xml:"Impuesto,attr"`
	Importe  *string `xml:"Importe,attr"`
}

// Parser turns CFDI documents into invoices
type Parser struct{}

// NewParser creates a new CFDI parser
func NewParser() *Parser {
	return &Parser{}
}

// CanParse returns true if content looks like a CFDI Comprobante
func (p *Parser) CanParse(content []byte) bool {
	trimmed := bytes.TrimSpace(content)
	if !bytes.HasPrefix(trimmed, []byte("<")) && !bytes.HasPrefix(trimmed, []byte("\xef\xbb\xbf<")) {
		return false
	}
	return bytes.Contains(content, []byte("Comprobante"))
}

// ParseBytes parses one document's content into an Invoice
func (p *Parser) ParseBytes(content []byte) (*model.Invoice, error) {
	return p.Parse(bytes.NewReader(content))
}

// Parse parses CFDI XML into Invoice. Every failure is a *model.ParseError.
func (p *Parser) Parse(r io.Reader) (*model.Invoice, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, model.NewParseError(model.ErrSchemaMismatch, "content", "failed to read content", err)
	}

	var doc cfdiComprobante
	dec := xml.NewDecoder(bytes.NewReader(content))
	dec.CharsetReader = charsetReader
	if err := dec.Decode(&doc); err != nil {
		return nil, model.NewParseError(model.ErrSchemaMismatch, "xml", "failed to parse XML", err)
	}

	inv, err := convertComprobante(&doc)
	if err != nil {
		return nil, err
	}

	// The stamp is informational; a document without one is still an invoice.
	if stamp, err := ExtractStamp(content); err == nil {
		inv.Stamp = stamp
	}

	return inv, nil
}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "utf-8", "utf8", "":
		return input, nil
	case "iso-8859-1", "iso8859-1", "latin1", "latin-1":
		return transform.NewReader(input, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(input, charmap.Windows1252.NewDecoder()), nil
	default:
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
}

func convertComprobante(doc *cfdiComprobante) (*model.Invoice, error) {
	f := &fields{}

	result := &model.Invoice{
		Version:         f.str("Version", doc.Version),
		Date:            f.date("Fecha", doc.Fecha),
		PaymentForm:     f.str("FormaPago", doc.FormaPago),
		Subtotal:        f.amount("SubTotal", doc.SubTotal),
		Currency:        f.str("Moneda", doc.Moneda),
		Total:           f.amount("Total", doc.Total),
		ReceiptType:     f.str("TipoDeComprobante", doc.TipoDeComprobante),
		Exportation:     f.str("Exportacion", doc.Exportacion),
		PaymentMethod:   f.str("MetodoPago", doc.MetodoPago),
		ExpeditionPlace: f.str("LugarExpedicion", doc.LugarExpedicion),
	}
	if f.err != nil {
		return nil, f.err
	}

	if doc.Emisor == nil {
		return nil, missing("Emisor")
	}
	result.Issuer = convertEmisor(f, doc.Emisor)

	if doc.Receptor == nil {
		return nil, missing("Receptor")
	}
	result.Recipient = convertReceptor(f, doc.Receptor)

	if doc.Conceptos == nil {
		return nil, missing("Conceptos")
	}
	for _, c := range doc.Conceptos.Conceptos {
		result.Items = append(result.Items, convertConcepto(f, c))
	}

	if doc.Impuestos == nil {
		return nil, missing("Impuestos")
	}
	result.Taxes = convertImpuestos(f, doc.Impuestos)

	if f.err != nil {
		return nil, f.err
	}
	return result, nil
}

func convertEmisor(f *fields, e *cfdiEmisor) model.Issuer {
	return model.Issuer{
		RFC:          f.str("Emisor.Rfc", e.Rfc),
		Name:         f.str("Emisor.Nombre", e.Nombre),
		FiscalRegime: f.str("Emisor.RegimenFiscal", e.RegimenFiscal),
	}
}

func convertReceptor(f *fields, r *cfdiReceptor) model.Recipient {
	return model.Recipient{
		RFC:          f.str("Receptor.Rfc", r.Rfc),
		Name:         f.str("Receptor.Nombre", r.Nombre),
		PostalCode:   f.str("Receptor.DomicilioFiscalReceptor", r.DomicilioFiscalReceptor),
		FiscalRegime: f.str("Receptor.RegimenFiscalReceptor", r.RegimenFiscalReceptor),
		CFDIUse:      f.str("Receptor.UsoCFDI", r.UsoCFDI),
	}
}

func convertConcepto(f *fields, c cfdiConcepto) model.LineItem {
	return model.LineItem{
		ProductKey:  f.str("Concepto.ClaveProdServ", c.ClaveProdServ),
		Quantity:    f.amount("Concepto.Cantidad", c.Cantidad),
		UnitKey:     f.str("Concepto.ClaveUnidad", c.ClaveUnidad),
		Unit:        f.str("Concepto.Unidad", c.Unidad),
		Description: f.str("Concepto.Descripcion", c.Descripcion),
		UnitPrice:   f.amount("Concepto.ValorUnitario", c.ValorUnitario),
		Amount:      f.amount("Concepto.Importe", c.Importe),
	}
}

func convertImpuestos(f *fields, imp *cfdiImpuestos) model.TaxSection {
	var section model.TaxSection
	if imp.Retenciones != nil {
		section.Withheld = convertTaxes(f, "Retencion", imp.Retenciones.Taxes)
	}
	if imp.Traslados != nil {
		section.CarriedForward = convertTaxes(f, "Traslado", imp.Traslados.Taxes)
	}
	return section
}

func convertTaxes(f *fields, element string, taxes []cfdiImpuesto) *model.TaxGroup {
	group := &model.TaxGroup{Taxes: make([]model.TaxLine, 0, len(taxes))}
	for _, t := range taxes {
		line := model.TaxLine{
			Kind:   f.taxKind(element+".Impuesto", t.Impuesto),
			Amount: f.amount(element+".Importe", t.Importe),
		}
		group.Taxes = append(group.Taxes, line)
	}
	return group
}

func missing(field string) *model.ParseError {
	return model.NewParseError(model.ErrMissingField, field, "required element is missing", nil)
}

// fields converts raw attribute values and keeps the first failure
type fields struct {
	err error
}

func (f *fields) fail(err error) {
	if f.err == nil {
		f.err = err
	}
}

func (f *fields) str(name string, v *string) string {
	if v == nil {
		f.fail(model.NewParseError(model.ErrMissingField, name, "required attribute is missing", nil))
		return ""
	}
	return *v
}

func (f *fields) amount(name string, v *string) decimal.Decimal {
	if v == nil {
		f.fail(model.NewParseError(model.ErrMissingField, name, "required attribute is missing", nil))
		return money.Zero
	}
	d, err := money.FromString(*v)
	if err != nil {
		f.fail(model.NewParseError(model.ErrInvalidValue, name, fmt.Sprintf("invalid decimal %q", *v), err))
		return money.Zero
	}
	return d
}

func (f *fields) date(name string, v *string) time.Time {
	if v == nil {
		f.fail(model.NewParseError(model.ErrMissingField, name, "required attribute is missing", nil))
		return time.Time{}
	}
	t, err := parseDate(*v)
	if err != nil {
		f.fail(model.NewParseError(model.ErrInvalidValue, name, fmt.Sprintf("invalid date %q", *v), err))
		return time.Time{}
	}
	return t
}

func (f *fields) taxKind(name string, v *string) model.TaxKind {
	if v == nil {
		f.fail(model.NewParseError(model.ErrMissingField, name, "required attribute is missing", nil))
		return ""
	}
	kind, err := model.ParseTaxKind(*v)
	if err != nil {
		f.fail(err)
		return ""
	}
	return kind
}

// parseDate reads a CFDI timestamp as a wall clock in UTC
func parseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
