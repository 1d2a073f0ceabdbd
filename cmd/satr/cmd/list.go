package cmd

import (
	"github.com/spf13/cobra"

	"github.com/rezonia/satr/internal/model"
)

var lsCmd = &cobra.Command{
	Use:   "ls <emisor|receptor> <RFC> [PATH]",
	Short: "List the selected invoices with their concepts",
	Long: `List every invoice where the RFC is the issuer (emisor) or recipient
(receptor), oldest first, with a line per concept. The end date (-e)
covers the whole day.

Examples:
  satr ls emisor AAA010101AAA ./facturas
  satr ls receptor XAXX010101000 -s 2024-01-01 -f csv`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runList,
}

var findCmd = &cobra.Command{
	Use:   "find <emisor|receptor> <RFC> [PATH]",
	Short: "Print the full content of the selected invoices",
	Long: `Print every field of each invoice where the RFC is the issuer (emisor) or
recipient (receptor), oldest first, as json (default) or yaml.

Examples:
  satr find emisor AAA010101AAA ./facturas
  satr find receptor XAXX010101000 -f yaml`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runFind,
}

var printCmd = &cobra.Command{
	Use:   "print [PATH]",
	Short: "Print the full content of every invoice",
	Long: `Print every invoice that can be parsed under PATH, unfiltered, oldest
first, as json (default) or yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrint,
}

func init() {
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(printCmd)

	addDateFlags(lsCmd)
	addDateFlags(findCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria(args[0], args[1])
	if err != nil {
		return err
	}

	invoices, err := newPipeline().Extract(rootPath(args, 2), criteria)
	if err != nil {
		return err
	}

	return outputInvoices(cmd.OutOrStdout(), invoices, newFormatter())
}

func runFind(cmd *cobra.Command, args []string) error {
	criteria, err := buildCriteria(args[0], args[1])
	if err != nil {
		return err
	}

	invoices, err := newPipeline().Extract(rootPath(args, 2), criteria)
	if err != nil {
		return err
	}

	if invoices == nil {
		invoices = []*model.Invoice{}
	}
	return outputDocument(cmd.OutOrStdout(), invoices)
}

func runPrint(cmd *cobra.Command, args []string) error {
	invoices, err := newPipeline().All(rootPath(args, 0))
	if err != nil {
		return err
	}

	if invoices == nil {
		invoices = []*model.Invoice{}
	}
	return outputDocument(cmd.OutOrStdout(), invoices)
}
