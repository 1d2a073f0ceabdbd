package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	xmlparser "github.com/rezonia/satr/internal/parser/xml"
	"github.com/rezonia/satr/internal/source"
)

var infoCmd = &cobra.Command{
	Use:   "info [PATH]",
	Short: "Show information about the documents under PATH",
	Long: `Display information about each document without fully parsing it.

Shows:
  - Root element and namespace
  - CFDI version
  - Fiscal stamp UUID, when present
  - Document size

Examples:
  satr info ./facturas
  satr info ./facturas/lote.zip -f json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

// DocumentInfo describes one document found by the walker
type DocumentInfo struct {
	File  string             `json:"file" yaml:"file"`
	Size  int                `json:"size" yaml:"size"`
	Info  *xmlparser.Summary `json:"info,omitempty" yaml:"info,omitempty"`
	Error string             `json:"error,omitempty" yaml:"error,omitempty"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	var infos []*DocumentInfo
	for doc, err := range source.Walk(rootPath(args, 0)) {
		if err != nil {
			return err
		}

		info := &DocumentInfo{File: doc.Name(), Size: len(doc.Content)}
		summary, err := xmlparser.Inspect(doc.Content)
		if err != nil {
			info.Error = err.Error()
		} else {
			info.Info = summary
		}
		infos = append(infos, info)
	}

	out := cmd.OutOrStdout()
	if outputFormat != formatTable {
		if infos == nil {
			infos = []*DocumentInfo{}
		}
		return outputDocument(out, infos)
	}

	for _, info := range infos {
		printFileInfo(cmd, info)
		fmt.Fprintln(out)
	}
	return nil
}

func printFileInfo(cmd *cobra.Command, info *DocumentInfo) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File: %s\n", info.File)
	fmt.Fprintf(out, "  Size: %d bytes\n", info.Size)

	if info.Error != "" {
		fmt.Fprintf(out, "  Error: %s\n", info.Error)
		return
	}

	format := "Other XML"
	if info.Info.IsCFDI {
		format = "CFDI"
	}
	fmt.Fprintf(out, "  Format: %s (<%s>)\n", format, info.Info.Root)
	if info.Info.Namespace != "" {
		fmt.Fprintf(out, "  Namespace: %s\n", info.Info.Namespace)
	}
	if info.Info.Version != "" {
		fmt.Fprintf(out, "  Version: %s\n", info.Info.Version)
	}
	if info.Info.UUID != "" {
		fmt.Fprintf(out, "  UUID: %s\n", info.Info.UUID)
	}
}
