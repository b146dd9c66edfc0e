package cli

import (
	"github.com/spf13/cobra"

	"course-authoring/internal/api"
)

func (r *RootCommand) newUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage students and instructors",
	}

	var req api.CreateUserRequest
	add := &cobra.Command{
		Use:   "add",
		Short: "Register a user",
		Example: `  coursectl user add --name Paulo --email paulo@alura.com.br --role INSTRUCTOR`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			user, err := r.app.api.CreateUser(ctx, req)
			if err != nil {
				return r.app.errs.Handle("create user", err)
			}
			return r.printer().user(user)
		},
	}
	add.Flags().StringVar(&req.Name, "name", "", "Display name")
	add.Flags().StringVar(&req.Email, "email", "", "Unique email address")
	add.Flags().StringVar(&req.Role, "role", "STUDENT", "STUDENT or INSTRUCTOR")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("email")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			users, err := r.app.api.ListUsers(ctx)
			if err != nil {
				return r.app.errs.Handle("list users", err)
			}
			return r.printer().users(users)
		},
	}

	cmd.AddCommand(add, list)
	return cmd
}
