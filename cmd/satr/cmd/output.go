package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/satr/internal/decimal"
	"github.com/rezonia/satr/internal/model"
)

// Output formats
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

func outputJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func outputYAML(w io.Writer, v interface{}) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}

// outputDocument writes structured data in json or yaml. table falls back to json.
func outputDocument(w io.Writer, v interface{}) error {
	switch outputFormat {
	case formatJSON, formatTable:
		return outputJSON(w, v)
	case formatYAML:
		return outputYAML(w, v)
	default:
		return fmt.Errorf("unsupported output format for this command: %s", outputFormat)
	}
}

// outputInvoices writes an invoice listing in the selected format
func outputInvoices(w io.Writer, invoices []*model.Invoice, money *decimal.Formatter) error {
	switch outputFormat {
	case formatTable:
		return outputTable(w, invoices, money)
	case formatCSV:
		return outputCSV(w, invoices)
	case formatJSON:
		if invoices == nil {
			invoices = []*model.Invoice{}
		}
		return outputJSON(w, invoices)
	case formatYAML:
		return outputYAML(w, invoices)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}

func outputTable(w io.Writer, invoices []*model.Invoice, money *decimal.Formatter) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tISSUER\tRECIPIENT\tTOTAL")
	fmt.Fprintln(tw, "----\t------\t---------\t-----")

	for _, inv := range invoices {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			inv.Date.Format("2006-01-02 15:04:05"),
			inv.Issuer.RFC,
			inv.Recipient.RFC,
			money.Format(inv.TotalAmount()),
		)
		for n, item := range inv.Items {
			fmt.Fprintf(tw, "  %d.- %s\t\t\t%s\n", n+1, item.Description, money.Format(item.Amount))
		}
	}

	return tw.Flush()
}

func outputCSV(w io.Writer, invoices []*model.Invoice) error {
	cw := csv.NewWriter(w)
	header := []string{"date", "issuer_rfc", "issuer_name", "recipient_rfc", "recipient_name",
		"currency", "subtotal", "iva", "isr", "total", "uuid", "source"}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, inv := range invoices {
		uuid := ""
		if inv.Stamp != nil {
			uuid = inv.Stamp.UUID
		}
		record := []string{
			inv.Date.Format("2006-01-02T15:04:05"),
			inv.Issuer.RFC,
			inv.Issuer.Name,
			inv.Recipient.RFC,
			inv.Recipient.Name,
			inv.Currency,
			inv.SubtotalAmount().String(),
			inv.IVA().String(),
			inv.ISR().String(),
			inv.TotalAmount().String(),
			uuid,
			inv.Source,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
