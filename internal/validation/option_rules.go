package validation

import (
	"course-authoring/internal/config"
	"course-authoring/internal/domain"
)

// OptionRules is the option policy of one choice task type. MaxCorrect of
// zero means the correct count is only bounded by the option count, and
// RequireIncorrect keeps it strictly below that count.
type OptionRules struct {
	MinOptions       int
	MaxOptions       int
	MinTextLength    int
	MaxTextLength    int
	MinCorrect       int
	MaxCorrect       int
	RequireIncorrect bool
}

// RuleSet maps each choice task type to its option rules
type RuleSet map[domain.TaskType]OptionRules

// DefaultRuleSet builds the rule set from the configured limits
func DefaultRuleSet(cfg config.ValidationConfig) RuleSet {
	base := OptionRules{
		MinOptions:    cfg.MinOptions,
		MaxOptions:    cfg.MaxOptions,
		MinTextLength: cfg.OptionMinLength,
		MaxTextLength: cfg.OptionMaxLength,
	}

	single := base
	single.MinCorrect = 1
	single.MaxCorrect = 1

	multiple := base
	multiple.MinCorrect = 2
	multiple.RequireIncorrect = true

	return RuleSet{
		domain.TaskTypeSingleChoice:   single,
		domain.TaskTypeMultipleChoice: multiple,
	}
}

// For returns the rules for a task type; ok is false for types without options
func (rs RuleSet) For(taskType domain.TaskType) (OptionRules, bool) {
	rules, ok := rs[taskType]
	return rules, ok
}
