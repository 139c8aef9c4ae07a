package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/propfacts/internal/server"
	"github.com/spf13/cobra"
)

var (
	serveBind  string
	serveFlags lookupFlags
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups and extraction over HTTP",
	Long: `Serve starts an HTTP API:

  GET  /health            liveness check
  GET  /v1/lookup?q=...   search and extract, returns the report as JSON
  POST /v1/extract        extract facts from {"results":[...]}

Example:
  propfacts serve
  propfacts serve --bind 0.0.0.0:8089 --provider searxng`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveBind, "bind", "", "listen address (default: server.bind)")
	serveFlags.register(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := serveFlags.apply(cfg, cmd.Flags()); err != nil {
		return err
	}
	if serveBind != "" {
		cfg.Server.Bind = serveBind
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, closer, err := buildPipeline(ctx, cfg)
	defer func() { _ = closer.Close() }()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "propfacts API on http://%s (provider: %s)\n", cfg.Server.Bind, cfg.Provider.Name)

	srv := server.New(cfg.Server, p, p.Extractor())
	return srv.Run(ctx)
}
