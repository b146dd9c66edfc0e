package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"course-authoring/internal/api"
	"course-authoring/internal/domain"
	"course-authoring/internal/validation"
)

// taskTypeAliases maps the command line spelling of each task type
var taskTypeAliases = map[string]domain.TaskType{
	"opentext":       domain.TaskTypeOpenText,
	"singlechoice":   domain.TaskTypeSingleChoice,
	"multiplechoice": domain.TaskTypeMultipleChoice,
}

// parseTaskType accepts opentext, open-text, OPEN_TEXT and similar spellings.
// Unknown names pass through so the API reports them.
func parseTaskType(raw string) domain.TaskType {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "").Replace(raw))
	if tt, ok := taskTypeAliases[key]; ok {
		return tt
	}
	return domain.TaskType(strings.ToUpper(raw))
}

// buildOptions pairs each --option with its correctness. Every --correct value
// must name one of the options.
func buildOptions(texts, correct []string) ([]api.OptionRequest, error) {
	marked := make(map[string]bool, len(correct))
	for _, c := range correct {
		marked[c] = false
	}

	options := make([]api.OptionRequest, len(texts))
	for i, text := range texts {
		_, isCorrect := marked[text]
		if isCorrect {
			marked[text] = true
		}
		options[i] = api.OptionRequest{Text: text, Correct: isCorrect}
	}

	ve := validation.NewValidationError()
	for _, c := range correct {
		if !marked[c] {
			ve.AddInvalidValueError("correct", c, "must match one of the --option values")
		}
	}
	if ve.HasErrors() {
		return nil, ve
	}
	return options, nil
}

func (r *RootCommand) newTaskCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add tasks to a course",
	}

	var (
		req     api.CreateTaskRequest
		texts   []string
		correct []string
	)
	add := &cobra.Command{
		Use:   "add <opentext|singlechoice|multiplechoice>",
		Short: "Add a task at a position in a BUILDING course",
		Long: `Add a task at the given order. An occupied order shifts that task and every
later one down by one. The first task must take order 1 and an order may
not skip past the end of the sequence.

Choice tasks take between two and five --option values; mark answers with
--correct. A single choice task needs exactly one correct option, a multiple
choice task at least two correct and one incorrect.`,
		Example: `  coursectl task add opentext --course 1 --order 1 --statement "O que aprendemos hoje?"
  coursectl task add multiplechoice --course 1 --order 2 --statement "Quais rodam na JVM?" \
      --option Kotlin --option Scala --option Ruby --correct Kotlin --correct Scala`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"opentext", "singlechoice", "multiplechoice"},
		RunE: func(cmd *cobra.Command, args []string) error {
			taskType := parseTaskType(args[0])

			if taskType.IsChoice() {
				options, err := buildOptions(texts, correct)
				if err != nil {
					return r.app.errs.Handle("add task", err)
				}
				req.Options = options
			}

			ctx, cancel := r.app.withTimeout(cmd.Context())
			defer cancel()

			task, err := r.app.api.CreateTask(ctx, taskType, req)
			if err != nil {
				return r.app.errs.Handle("add task", err)
			}
			return r.printer().task(task)
		},
	}
	add.Flags().Int64Var(&req.CourseID, "course", 0, "ID of the course receiving the task")
	add.Flags().StringVar(&req.Statement, "statement", "", "Task statement, unique within the course")
	add.Flags().IntVar(&req.Order, "order", 0, "1-based position of the task")
	add.Flags().StringArrayVar(&texts, "option", nil, "Option text (repeatable, choice tasks only)")
	add.Flags().StringArrayVar(&correct, "correct", nil, "Text of a correct option (repeatable)")
	_ = add.MarkFlagRequired("course")
	_ = add.MarkFlagRequired("statement")
	_ = add.MarkFlagRequired("order")

	cmd.AddCommand(add)
	return cmd
}
