package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/satr/internal/server"
)

var (
	serveAddress string
	serveDebug   bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve invoice queries over HTTP",
	Long: `Start an HTTP API answering invoice queries against the configured root.

Endpoints:
  GET  /health                 Health check
  GET  /api/v1/invoices        Matching invoices (?subject=&rfc=&start=&end=)
  GET  /api/v1/report/:field   Sum of total|subtotal|iva|isr (same parameters)
  POST /api/v1/parse           Parse one CFDI document from the body
  POST /api/v1/info            Inspect one document from the body

Examples:
  satr serve --root ./facturas
  SATR_SERVER_ADDRESS=:9090 satr serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddress, "address", "", "Listen address (default :8080, env: SATR_SERVER_ADDRESS)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable gin debug mode")
}

func runServe(cmd *cobra.Command, args []string) error {
	srv := server.NewServer(&server.Config{
		Address:      cfg.Server.Address,
		Root:         cfg.RootOrDefault(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute,
		Debug:        serveDebug,
		Logger:       log,
	})

	log.Info().Str("address", cfg.Server.Address).Str("root", cfg.RootOrDefault()).Msg("starting server")
	return srv.Run()
}
