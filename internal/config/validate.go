package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"

	"github.com/visualbass/visualbass-sync/internal/state"
)

var ErrInvalidConfig = eris.New("invalid configuration")

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report YAML keys instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("vizmode", func(fl validator.FieldLevel) bool {
		_, err := state.ParseMode(fl.Field().String())
		return err == nil
	})
}

// Validate checks every field against its constraints and reports all
// violations at once.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return eris.Wrap(err, "failed to validate configuration")
	}

	problems := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := strings.TrimPrefix(e.Namespace(), "Config.")
		problems = append(problems, fmt.Sprintf("%s %s", field, formatValidationMessage(e)))
	}

	return eris.Wrap(ErrInvalidConfig, strings.Join(problems, "; "))
}

func formatValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", e.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", e.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", e.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "lt":
		return fmt.Sprintf("must be less than %s", e.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", e.Param())
	case "gtefield":
		return fmt.Sprintf("must be greater than or equal to %s", e.Param())
	case "mac":
		return "must be a valid MAC address"
	case "file":
		return "must be an existing file"
	case "hostname_port", "hostname_port|ip":
		return "must be a host:port or IP address"
	case "vizmode":
		return "must be a visualization mode"
	default:
		return fmt.Sprintf("failed validation '%s'", e.Tag())
	}
}
