package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TaxKind identifies the tax a TaxLine refers to. Only ISR and IVA exist;
// any other code is rejected at parse time.
type TaxKind string

const (
	TaxISR TaxKind = "001"
	TaxIVA TaxKind = "002"
)

// ParseTaxKind maps a SAT tax code to a TaxKind
func ParseTaxKind(code string) (TaxKind, error) {
	switch code {
	case string(TaxISR):
		return TaxISR, nil
	case string(TaxIVA):
		return TaxIVA, nil
	default:
		return "", NewParseError(ErrUnknownTaxKind, "Impuesto", fmt.Sprintf("unsupported tax code %q", code), nil)
	}
}

// Name returns the human name of the tax
func (k TaxKind) Name() string {
	switch k {
	case TaxISR:
		return "ISR"
	case TaxIVA:
		return "IVA"
	default:
		return string(k)
	}
}

// Invoice represents a CFDI invoice (Comprobante)
type Invoice struct {
	// Header
	Version         string          `json:"version" yaml:"version"`
	Date            time.Time       `json:"date" yaml:"date"` // Fecha, wall clock without zone
	PaymentForm     string          `json:"payment_form" yaml:"payment_form"`
	Subtotal        decimal.Decimal `json:"subtotal" yaml:"subtotal"`
	Currency        string          `json:"currency" yaml:"currency"`
	Total           decimal.Decimal `json:"total" yaml:"total"`
	ReceiptType     string          `json:"receipt_type" yaml:"receipt_type"` // I, E, T, N, P
	Exportation     string          `json:"exportation" yaml:"exportation"`
	PaymentMethod   string          `json:"payment_method" yaml:"payment_method"` // PUE, PPD
	ExpeditionPlace string          `json:"expedition_place" yaml:"expedition_place"`

	// Parties
	Issuer    Issuer    `json:"issuer" yaml:"issuer"`
	Recipient Recipient `json:"recipient" yaml:"recipient"`

	// Concepts
	Items []LineItem `json:"items" yaml:"items"`

	Taxes TaxSection `json:"taxes" yaml:"taxes"`

	// Stamp is the fiscal stamp from the Complemento, when present
	Stamp *Stamp `json:"stamp,omitempty" yaml:"stamp,omitempty"`

	// Source file path, or archive!entry for documents found inside a zip
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Issuer is the Emisor of the invoice
type Issuer struct {
	RFC          string `json:"rfc" yaml:"rfc"`
	Name         string `json:"name" yaml:"name"`
	FiscalRegime string `json:"fiscal_regime" yaml:"fiscal_regime"`
}

// Recipient is the Receptor of the invoice
type Recipient struct {
	RFC          string `json:"rfc" yaml:"rfc"`
	Name         string `json:"name" yaml:"name"`
	PostalCode   string `json:"postal_code" yaml:"postal_code"` // DomicilioFiscalReceptor
	FiscalRegime string `json:"fiscal_regime" yaml:"fiscal_regime"`
	CFDIUse      string `json:"cfdi_use" yaml:"cfdi_use"`
}

// LineItem represents one Concepto
type LineItem struct {
	ProductKey  string          `json:"product_key" yaml:"product_key"`
	Quantity    decimal.Decimal `json:"quantity" yaml:"quantity"`
	UnitKey     string          `json:"unit_key" yaml:"unit_key"`
	Unit        string          `json:"unit" yaml:"unit"`
	Description string          `json:"description" yaml:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price" yaml:"unit_price"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"` // Importe
}

// TaxSection holds the invoice-level Impuestos. Either group may be absent.
type TaxSection struct {
	Withheld       *TaxGroup `json:"withheld,omitempty" yaml:"withheld,omitempty"`               // Retenciones
	CarriedForward *TaxGroup `json:"carried_forward,omitempty" yaml:"carried_forward,omitempty"` // Traslados
}

// TaxGroup is an ordered list of tax lines
type TaxGroup struct {
	Taxes []TaxLine `json:"taxes" yaml:"taxes"`
}

// TaxLine is a single Retencion or Traslado
type TaxLine struct {
	Kind   TaxKind         `json:"kind" yaml:"kind"`
	Amount decimal.Decimal `json:"amount" yaml:"amount"`
}

// Stamp represents the TimbreFiscalDigital complement
type Stamp struct {
	UUID           string    `json:"uuid" yaml:"uuid"`
	StampedAt      time.Time `json:"stamped_at,omitempty" yaml:"stamped_at,omitempty"`
	SATCertificate string    `json:"sat_certificate,omitempty" yaml:"sat_certificate,omitempty"`
	ProviderRFC    string    `json:"provider_rfc,omitempty" yaml:"provider_rfc,omitempty"`
}

// Sum adds the amounts of every line of the given kind.
// A nil group sums to zero.
func (g *TaxGroup) Sum(kind TaxKind) decimal.Decimal {
	total := decimal.Zero
	if g == nil {
		return total
	}
	for _, t := range g.Taxes {
		if t.Kind == kind {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// Sum adds the lines of the given kind across withheld and carried-forward taxes
func (s TaxSection) Sum(kind TaxKind) decimal.Decimal {
	return s.Withheld.Sum(kind).Add(s.CarriedForward.Sum(kind))
}

// TotalAmount returns the declared Total
func (inv *Invoice) TotalAmount() decimal.Decimal {
	return inv.Total
}

// SubtotalAmount returns the declared SubTotal
func (inv *Invoice) SubtotalAmount() decimal.Decimal {
	return inv.Subtotal
}

// IVA returns the IVA amount across withheld and carried-forward taxes
func (inv *Invoice) IVA() decimal.Decimal {
	return inv.Taxes.Sum(TaxIVA)
}

// ISR returns the ISR amount across withheld and carried-forward taxes
func (inv *Invoice) ISR() decimal.Decimal {
	return inv.Taxes.Sum(TaxISR)
}
