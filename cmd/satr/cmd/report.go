package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/satr/internal/filter"
	"github.com/rezonia/satr/internal/report"
)

var (
	startDate   string
	endDate     string
	unformatted bool
)

var reportCmd = &cobra.Command{
	Use:   "report <emisor|receptor> <RFC> <total|subtotal|iva|isr> [PATH]",
	Short: "Print the sum of one amount over the selected invoices",
	Long: `Sum the total, subtotal, IVA or ISR of every invoice where the RFC is the
issuer (emisor) or recipient (receptor), within an inclusive date range.
The end date (-e) covers the whole day.

PATH is searched recursively, including .zip archives. Documents that cannot
be parsed are skipped; use --verbose to see them.

Examples:
  satr report emisor AAA010101AAA total ./facturas
  satr report receptor XAXX010101000 iva -s 2024-01-01 -e 2024-06-30
  satr report emisor AAA010101AAA isr -U`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	addDateFlags(reportCmd)
	reportCmd.Flags().BoolVarP(&unformatted, "unformatted", "U", false, "Print only the raw number")
}

func addDateFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&startDate, "start", "s", "", "Only include invoices from this date (YYYY-MM-DD, default: oldest)")
	cmd.Flags().StringVarP(&endDate, "end", "e", "", "Only include invoices up to the end of this day (YYYY-MM-DD, default: now)")
}

func runReport(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria(args[0], args[1])
	if err != nil {
		return err
	}
	field, err := report.ParseField(args[2])
	if err != nil {
		return err
	}
	root := rootPath(args, 3)

	log.Debug().Str("root", root).Str("field", field.String()).Str("rfc", criteria.RFC).Msg("running report")

	sum, err := newPipeline().Aggregate(root, criteria, field)
	if err != nil {
		return err
	}

	if unformatted {
		fmt.Fprintln(cmd.OutOrStdout(), sum.StringFixed(cfg.Currency.Places))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), newFormatter().Format(sum))
	return nil
}

// buildCriteria parses the subject and the --start/--end flags
func buildCriteria(subjectArg, rfc string) (filter.Criteria, error) {
	subject, err := filter.ParseSubject(subjectArg)
	if err != nil {
		return filter.Criteria{}, err
	}

	var start, end *time.Time
	if startDate != "" {
		t, err := filter.ParseDate(startDate, false)
		if err != nil {
			return filter.Criteria{}, err
		}
		start = &t
	}
	if endDate != "" {
		t, err := filter.ParseDate(endDate, true)
		if err != nil {
			return filter.Criteria{}, err
		}
		end = &t
	}

	return filter.Criteria{
		Subject: subject,
		RFC:     rfc,
		Dates:   filter.NewDateRange(start, end, time.Now()),
	}, nil
}
