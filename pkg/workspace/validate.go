package workspace

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"

	"github.com/jakechorley/google-api-wrapper/pkg/envelope"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("iso8601", func(fl validator.FieldLevel) bool {
		_, err := parseISO8601(fl.Field().String(), time.UTC)
		return err == nil
	})
	_ = validate.RegisterValidation("rrule", func(fl validator.FieldLevel) bool {
		return validRecurrence(fl.Field().String()) == nil
	})
}

// validateRequest checks a request struct, returning a validation error that
// names every failing field
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return envelope.Validation("%v", err)
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(fe))
	}
	return envelope.Validation("%s", strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s needs at least %s item(s)", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Field(), fe.Param(), fe.Value())
	case "email":
		return fmt.Sprintf("%s has an invalid email address %q", fe.Field(), fe.Value())
	case "iso8601":
		return fmt.Sprintf("%s must be ISO 8601, e.g. 2025-06-01T09:00:00, got %q", fe.Field(), fe.Value())
	case "timezone":
		return fmt.Sprintf("%s is not a known time zone: %q", fe.Field(), fe.Value())
	case "rrule":
		return fmt.Sprintf("%s has an invalid recurrence rule %q", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseISO8601 parses an ISO 8601 date or date-time. Values without an offset
// are read in loc.
func parseISO8601(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range isoLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid ISO 8601 value %q", value)
}

// validRecurrence checks one RFC 5545 recurrence line (RRULE, EXRULE, RDATE or EXDATE)
func validRecurrence(line string) error {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("recurrence %q has no property name", line)
	}
	property, _, _ := strings.Cut(name, ";")

	switch strings.ToUpper(property) {
	case "RRULE", "EXRULE":
		if _, err := rrule.StrToRRule(value); err != nil {
			return fmt.Errorf("invalid %s: %w", property, err)
		}
	case "RDATE", "EXDATE":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%s has no dates", property)
		}
	default:
		return fmt.Errorf("unsupported recurrence property %q", property)
	}
	return nil
}
