package cmd

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rezonia/satr/internal/config"
	"github.com/rezonia/satr/internal/decimal"
	"github.com/rezonia/satr/internal/processor"
	"github.com/rezonia/satr/pkg/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose      bool
	outputFormat string
	configFile   string

	// Set up by loadConfig before any command runs
	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "satr",
	Short: "Extract and total SAT CFDI invoices",
	Long: `satr walks a folder of CFDI invoices (loose .xml files and .zip archives),
filters them by issuer or recipient RFC and date range, and reports totals.

Examples:
  # Total invoiced by an issuer during 2024
  satr report emisor AAA010101AAA total ./facturas -s 2024-01-01 -e 2024-12-31

  # IVA paid as recipient, raw number
  satr report receptor XAXX010101000 iva -U

  # List invoices with their concepts
  satr ls emisor AAA010101AAA ./facturas

  # Check which documents parse
  satr validate ./facturas`,
	Version:           version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "table", "Output format (table, json, yaml, csv)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ./satr.yaml or ~/.config/satr/satr.yaml)")
	rootCmd.PersistentFlags().String("root", "", "Default invoice folder when PATH is omitted (env: SATR_ROOT)")
	rootCmd.PersistentFlags().String("log-format", "", "Log format (console, json) (env: SATR_LOG_FORMAT)")
}

func loadConfig(cmd *cobra.Command, args []string) error {
	v, err := config.New(configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, cmd); err != nil {
		return err
	}

	cfg = config.Load(v)
	if verbose {
		cfg.Log.Level = "debug"
	}

	log = logger.New(logger.Config{
		Format: cfg.Log.Format,
		Level:  cfg.Log.Level,
		Out:    cmd.ErrOrStderr(),
	})
	log.Debug().Str("root", cfg.Root).Str("config", v.ConfigFileUsed()).Msg("configuration loaded")
	return nil
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	flags := map[string]string{
		config.KeyRoot:          "root",
		config.KeyLogFormat:     "log-format",
		config.KeyServerAddress: "address",
	}
	for key, name := range flags {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// rootPath returns the PATH argument at index i, falling back to configuration
func rootPath(args []string, i int) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return cfg.RootOrDefault()
}

func newPipeline() *processor.Pipeline {
	return processor.NewPipeline(processor.WithLogger(log))
}

func newFormatter() *decimal.Formatter {
	return decimal.NewFormatter(cfg.Currency.Symbol, cfg.Currency.Places)
}
