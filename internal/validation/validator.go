package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"course-authoring/internal/config"
)

// Validator checks request DTOs against their `validate` struct tags and
// offers the string helpers shared by the domain rules.
type Validator struct {
	validate *validator.Validate
	config   *config.Config
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v, config: cfg}
}

// Struct validates a request struct, returning a *ValidationError listing
// every failing field, or nil.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !stderrors.As(err, &fieldErrs) {
		return err
	}

	validationError := NewValidationError()
	for _, fe := range fieldErrs {
		addFieldError(validationError, fe)
	}
	return validationError
}

func addFieldError(ve *ValidationError, fe validator.FieldError) {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "notblank":
		ve.AddRequiredError(field)
	case "min", "max", "len":
		if isString {
			minLen, maxLen := 0, 0
			if fe.Tag() != "max" {
				fmt.Sscanf(fe.Param(), "%d", &minLen)
			}
			if fe.Tag() != "min" {
				fmt.Sscanf(fe.Param(), "%d", &maxLen)
			}
			ve.AddInvalidLengthError(field, fe.Value(), minLen, maxLen)
			return
		}
		ve.AddInvalidRangeError(field, fe.Value(), fmt.Sprintf("%s %s", fe.Tag(), fe.Param()))
	case "gt", "gte", "lt", "lte":
		ve.AddInvalidRangeError(field, fe.Value(), fmt.Sprintf("must be %s %s", comparisonWord(fe.Tag()), fe.Param()))
	case "email":
		ve.AddInvalidFormatError(field, fe.Value(), "email address")
	case "oneof":
		ve.AddInvalidValueError(field, fe.Value(), "must be one of "+fe.Param())
	default:
		ve.AddInvalidValueError(field, fe.Value(), fmt.Sprintf("failed %q check", fe.Tag()))
	}
}

func comparisonWord(tag string) string {
	switch tag {
	case "gt":
		return "greater than"
	case "gte":
		return "at least"
	case "lt":
		return "less than"
	default:
		return "at most"
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed rune count is within [min, max]
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidID checks if an entity ID is valid (positive)
func (v *Validator) IsValidID(id int64) bool {
	return id > 0
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

// ValidationConfig returns the configured option limits or the defaults
func (v *Validator) ValidationConfig() config.ValidationConfig {
	if v.config != nil {
		return v.config.Validation
	}
	return config.NewConfig().Validation
}
