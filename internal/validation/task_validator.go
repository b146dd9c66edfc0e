package validation

import (
	"fmt"
	"strings"

	"course-authoring/internal/config"
	"course-authoring/internal/domain"
	"course-authoring/internal/errors"
)

// TaskValidator applies the option rules of choice tasks. Course existence,
// course state and statement uniqueness need the store and are checked by
// the task service before ValidateOptions runs.
type TaskValidator struct {
	validator *Validator
	rules     RuleSet
}

// NewTaskValidator creates a task validator with the default limits
func NewTaskValidator() *TaskValidator {
	return NewTaskValidatorWithConfig(nil)
}

// NewTaskValidatorWithConfig creates a task validator using configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	v := NewValidatorWithConfig(cfg)
	return &TaskValidator{
		validator: v,
		rules:     DefaultRuleSet(v.ValidationConfig()),
	}
}

// Rules exposes the rule set in use
func (tv *TaskValidator) Rules() RuleSet {
	return tv.rules
}

// ValidateOptions checks options for a task of taskType. The first failing
// rule is returned as an InvalidInput error: presence, count, each option in
// list order, then the correct-option count. Task types without options
// accept anything.
func (tv *TaskValidator) ValidateOptions(taskType domain.TaskType, statement string, options []domain.Option) error {
	rules, ok := tv.rules.For(taskType)
	if !ok {
		return nil
	}

	if len(options) == 0 {
		return errors.NewInvalidInputError("options", 0, "options are required")
	}

	if len(options) < rules.MinOptions || len(options) > rules.MaxOptions {
		return errors.NewInvalidInputError("options", len(options),
			fmt.Sprintf("must have between %d and %d options, got %d", rules.MinOptions, rules.MaxOptions, len(options)))
	}

	trimmedStatement := strings.TrimSpace(statement)
	seen := make(map[string]struct{}, len(options))
	correct := 0

	for i, option := range options {
		text := tv.validator.TrimAndValidateString(option.Text)
		field := fmt.Sprintf("options[%d]", i)

		if !tv.validator.IsValidStringLength(text, rules.MinTextLength, rules.MaxTextLength) {
			return errors.NewInvalidInputError(field, option.Text,
				fmt.Sprintf("option text must be between %d and %d characters", rules.MinTextLength, rules.MaxTextLength))
		}

		if strings.EqualFold(text, trimmedStatement) {
			return errors.NewInvalidInputError(field, option.Text,
				fmt.Sprintf("option %q must not equal the task statement", text))
		}

		key := strings.ToLower(text)
		if _, dup := seen[key]; dup {
			return errors.NewInvalidInputError(field, option.Text,
				fmt.Sprintf("option %q is duplicated", text))
		}
		seen[key] = struct{}{}

		if option.Correct {
			correct++
		}
	}

	return checkCorrectCount(rules, correct, len(options))
}

func checkCorrectCount(rules OptionRules, correct, total int) error {
	if rules.MaxCorrect > 0 && rules.MinCorrect == rules.MaxCorrect && correct != rules.MinCorrect {
		reason := fmt.Sprintf("must have exactly %d correct options", rules.MinCorrect)
		if rules.MinCorrect == 1 {
			reason = "must have exactly one correct option"
		}
		return errors.NewInvalidInputError("options", correct, reason)
	}

	if correct < rules.MinCorrect {
		return errors.NewInvalidInputError("options", correct,
			fmt.Sprintf("must have at least %d correct options", rules.MinCorrect))
	}

	if rules.MaxCorrect > 0 && correct > rules.MaxCorrect {
		return errors.NewInvalidInputError("options", correct,
			fmt.Sprintf("must have at most %d correct options", rules.MaxCorrect))
	}

	if rules.RequireIncorrect && correct >= total {
		return errors.NewInvalidInputError("options", correct, "must have at least 1 incorrect option")
	}

	return nil
}
