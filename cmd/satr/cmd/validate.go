package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/satr/internal/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate [PATH]",
	Short: "Check that every document under PATH parses as a CFDI",
	Long: `Parse every .xml document under PATH (including those inside .zip
archives) and report which ones fail and why.

Checks performed:
  - Document is well-formed XML with a Comprobante root
  - Required attributes and elements are present
  - Amounts and dates are well-formed
  - Tax codes are 001 (ISR) or 002 (IVA)

Exits with an error when any document fails.

Examples:
  satr validate ./facturas
  satr validate ./facturas -f json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// ValidationResult holds the outcome of parsing a single document
type ValidationResult struct {
	File  string `json:"file" yaml:"file"`
	Valid bool   `json:"valid" yaml:"valid"`
	Kind  string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
	UUID  string `json:"uuid,omitempty" yaml:"uuid,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	results := make([]*ValidationResult, 0)
	failed := 0

	for res, err := range newPipeline().Documents(rootPath(args, 0)) {
		if err != nil {
			return err
		}

		result := &ValidationResult{File: res.Source, Valid: res.OK()}
		if res.Error != nil {
			failed++
			result.Error = res.Error.Error()
			var parseErr *model.ParseError
			if errors.As(res.Error, &parseErr) {
				result.Field = parseErr.Field
				if parseErr.Kind != nil {
					result.Kind = parseErr.Kind.Error()
				}
			}
		} else if res.Invoice.Stamp != nil {
			result.UUID = res.Invoice.Stamp.UUID
		}
		results = append(results, result)
	}

	out := cmd.OutOrStdout()
	switch outputFormat {
	case formatJSON:
		if err := outputJSON(out, results); err != nil {
			return err
		}
	case formatYAML:
		if err := outputYAML(out, results); err != nil {
			return err
		}
	default:
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID\n", r.File)
			} else {
				fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
				fmt.Fprintf(out, "  - %s\n", r.Error)
			}
		}
		fmt.Fprintf(out, "\n%d documents, %d invalid\n", len(results), failed)
	}

	if failed > 0 {
		return fmt.Errorf("validation failed for %d of %d documents", failed, len(results))
	}

	return nil
}
