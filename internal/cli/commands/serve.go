package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tabforge-labs/tabforge/internal/web"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TabForge HTTP service",
		Long: `Start the HTTP service exposing every engine operation.

Uploads go in as multipart forms, artifacts come back as downloads.
The bind address, upload size cap and log settings come from the
configuration (flags, environment or tabforge.yaml).`,
		Example: `  # Serve on the configured address (default :8080)
  tabforge serve

  # Serve on another port with strict input checking
  tabforge serve --listen-addr :9000 --strict`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}
}

func runServe(cmd *cobra.Command) error {
	cc := NewCommandContext(cmd)

	srv := web.NewServer(web.Config{
		Engine:         cc.Engine,
		Addr:           cc.Cfg.ListenAddr,
		MaxUploadBytes: cc.Cfg.MaxUploadBytes,
		Logger:         cc.Logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Starting TabForge on %s\n", cc.Cfg.ListenAddr)
	fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return srv.Serve(ctx)
}
