package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ccswitch/config"
	"ccswitch/internal/bridge"
	"ccswitch/internal/watch"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the JSON-lines bridge on stdin/stdout",
	Long: `Run the request/response bridge used by graphical frontends. Requests
are read as JSON lines from stdin and replies are written as JSON lines
to stdout, so logging goes to stderr only.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mgr, err := config.NewManager()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Out-of-band edits to the CLI files show up in the next state reply.
		go func() {
			if err := watch.New(mgr, nil).Run(ctx); err != nil && ctx.Err() == nil {
				log.Warnf("file watcher stopped: %v", err)
			}
		}()

		return bridge.Serve(ctx, mgr, os.Stdin, os.Stdout)
	},
}
