package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"course-authoring/internal/httpapi"
)

func (r *RootCommand) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the authoring API over HTTP until interrupted.

Routes:
  POST /user/new, GET /user/all
  POST /course/new, GET /course/all, GET /course/{id}, GET /course/{id}/tasks
  POST /course/{id}/publish
  POST /task/new/opentext, /task/new/singlechoice, /task/new/multiplechoice
  GET  /instructor/{id}/courses
  GET  /healthz, GET /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := r.app
			server := httpapi.NewServer(app.api, app.store, app.config.Server, app.logger)
			if err := server.Run(ctx); err != nil {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().String("address", "", "Listen address (overrides COURSE_HTTP_ADDRESS)")
	return cmd
}
