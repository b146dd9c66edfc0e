package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"course-authoring/internal/api"
	"course-authoring/internal/domain"
)

func (r *RootCommand) newMigrateCommand() *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Open the configured store, apply any pending migrations and report the
applied schema versions. With --down the newest migration is reverted instead,
dropping the data it created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := r.app
			ctx, cancel := app.withTimeout(cmd.Context())
			defer cancel()

			if down {
				version, err := app.store.RevertLastMigration(ctx)
				if err != nil {
					return app.errs.Handle("revert migration", err)
				}
				if version == 0 {
					fmt.Fprintln(app.out, "No migrations to revert")
				} else {
					fmt.Fprintf(app.out, "Reverted migration %d\n", version)
				}
				return nil
			}

			versions, err := app.store.MigrationVersions(ctx)
			if err != nil {
				return app.errs.Handle("read schema version", err)
			}
			if r.jsonOutput {
				return r.printer().emitJSON(map[string]any{
					"dialect":  app.store.Dialect(),
					"versions": versions,
				})
			}
			if len(versions) == 0 {
				fmt.Fprintln(app.out, "No migrations applied")
				return nil
			}
			fmt.Fprintf(app.out, "%s schema at version %d (applied: %v)\n",
				app.store.Dialect(), versions[len(versions)-1], versions)
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "Revert the newest migration")
	return cmd
}

// defaultUsers are created by seed on an empty store
var defaultUsers = []api.CreateUserRequest{
	{Name: "Caio", Email: "caio@alura.com.br", Role: string(domain.RoleStudent)},
	{Name: "Paulo", Email: "paulo@alura.com.br", Role: string(domain.RoleInstructor)},
}

func (r *RootCommand) newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the default users when none exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			created, err := Seed(ctx, r.app)
			if err != nil {
				return err
			}
			if len(created) == 0 {
				fmt.Fprintln(r.app.out, "Users already present, nothing to seed")
				return nil
			}
			return r.printer().users(created)
		},
	}
}

// Seed creates the default users if the store has none
func Seed(ctx context.Context, app *App) ([]*api.UserView, error) {
	existing, err := app.api.ListUsers(ctx)
	if err != nil {
		return nil, app.errs.Handle("list users", err)
	}
	if len(existing) > 0 {
		return nil, nil
	}

	created := make([]*api.UserView, 0, len(defaultUsers))
	for _, req := range defaultUsers {
		user, err := app.api.CreateUser(ctx, req)
		if err != nil {
			return created, app.errs.Handle("seed user "+req.Email, err)
		}
		app.logger.Info("seeded user", slog.Int64("user_id", user.ID), slog.String("email", user.Email))
		created = append(created, user)
	}
	return created, nil
}
