package cli

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cogbench/internal/config"
	"cogbench/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the trend dashboard on localhost",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		addr := serveAddr
		if addr == "" {
			addr = config.Conf.Dashboard.Addr
		}
		app.console.Printf("Dashboard: http://%s  (Ctrl+C to stop)\n", addr)
		return server.New(app.store, app.log, addr).Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
