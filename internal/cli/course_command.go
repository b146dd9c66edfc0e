package cli

import (
	"strconv"

	"github.com/spf13/cobra"

	"course-authoring/internal/api"
	"course-authoring/internal/validation"
)

// parseID reads a positive integer argument
func parseID(name, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		ve := validation.NewValidationError()
		ve.AddInvalidFormatError(name, raw, "positive integer")
		return 0, ve
	}
	return id, nil
}

func (r *RootCommand) newCourseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "course",
		Short: "Create, inspect and publish courses",
	}

	var req api.CreateCourseRequest
	add := &cobra.Command{
		Use:     "add",
		Short:   "Create a course in BUILDING status",
		Example: `  coursectl course add --title Java --description "Aprenda Java" --instructor 2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			course, err := r.app.api.CreateCourse(ctx, req)
			if err != nil {
				return r.app.errs.Handle("create course", err)
			}
			return r.printer().course("Created", course)
		},
	}
	add.Flags().StringVar(&req.Title, "title", "", "Course title")
	add.Flags().StringVar(&req.Description, "description", "", "Course description")
	add.Flags().Int64Var(&req.InstructorID, "instructor", 0, "ID of the owning instructor")
	_ = add.MarkFlagRequired("title")
	_ = add.MarkFlagRequired("instructor")

	list := &cobra.Command{
		Use:   "list",
		Short: "List every course",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			courses, err := r.app.api.ListCourses(ctx)
			if err != nil {
				return r.app.errs.Handle("list courses", err)
			}
			return r.printer().courses(courses)
		},
	}

	show := &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show one course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("course-id", args[0])
			if err != nil {
				return r.app.errs.Handle("show course", err)
			}
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			course, err := r.app.api.GetCourse(ctx, id)
			if err != nil {
				return r.app.errs.Handle("show course", err)
			}
			return r.printer().course("Found", course)
		},
	}

	tasks := &cobra.Command{
		Use:   "tasks <course-id>",
		Short: "List a course's tasks in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("course-id", args[0])
			if err != nil {
				return r.app.errs.Handle("list tasks", err)
			}
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			list, err := r.app.api.ListTasks(ctx, id)
			if err != nil {
				return r.app.errs.Handle("list tasks", err)
			}
			return r.printer().tasks(list)
		},
	}

	publish := &cobra.Command{
		Use:   "publish <course-id>",
		Short: "Publish a course that holds one task of each type",
		Long: `Publish moves a BUILDING course to PUBLISHED and stamps the publication time.

The course must contain at least one open text, one single choice and one
multiple choice task, and its task orders must run 1..n without gaps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("course-id", args[0])
			if err != nil {
				return r.app.errs.Handle("publish course", err)
			}
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			course, err := r.app.api.PublishCourse(ctx, id)
			if err != nil {
				return r.app.errs.Handle("publish course", err)
			}
			return r.printer().course("Published", course)
		},
	}

	report := &cobra.Command{
		Use:   "report <instructor-id>",
		Short: "Summarize an instructor's courses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("instructor-id", args[0])
			if err != nil {
				return r.app.errs.Handle("build report", err)
			}
			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			rep, err := r.app.api.InstructorReport(ctx, id)
			if err != nil {
				return r.app.errs.Handle("build report", err)
			}
			return r.printer().report(rep)
		},
	}

	cmd.AddCommand(add, list, show, tasks, publish, report)
	return cmd
}
