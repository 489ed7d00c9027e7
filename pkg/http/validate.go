package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var (
	validate *validator.Validate

	customMu       sync.RWMutex
	customCodes    = map[string]string{}
	customMessages = map[string]string{}
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(wireName)
}

// wireName reports fields by the name clients send: the param, query or
// json tag, in that order.
func wireName(f reflect.StructField) string {
	for _, tag := range []string{"param", "query", "json"} {
		name := strings.Split(f.Tag.Get(tag), ",")[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

// RegisterValidation adds a custom tag. Failures report code and message
// ("%s" is replaced by the field name) instead of the generic ERR_<TAG>.
func RegisterValidation(tag string, fn validator.Func, code, message string) error {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		return fmt.Errorf("register validation %q: %w", tag, err)
	}
	customMu.Lock()
	defer customMu.Unlock()
	customCodes[tag] = code
	customMessages[tag] = message
	return nil
}

// ReadAndValidateRequest binds path, query and body into req, applies
// `default` tags and validates. It returns nil when req is valid.
func ReadAndValidateRequest(c echo.Context, req any) []ValidationError {
	if err := c.Bind(req); err != nil {
		return validatorDefaultRules(err)
	}

	if err := defaults.Set(req); err != nil {
		return validatorDefaultRules(err)
	}

	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		return validatorDefaultRules(err)
	}

	return nil
}

func validatorDefaultRules(err error) []ValidationError {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		errs := make([]ValidationError, 0, len(validationErrors))
		for _, e := range validationErrors {
			errs = append(errs, ValidationError{
				Code:    errorCode(e),
				Field:   e.Field(),
				Message: getErrorMessage(e),
				Params:  getErrorParams(e),
			})
		}
		return errs
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		return []ValidationError{{
			Code:    "ERR_BIND",
			Message: fmt.Sprintf("%v", he.Message),
		}}
	}

	return []ValidationError{{
		Code:    "ERR_UNKNOWN",
		Message: err.Error(),
	}}
}

func errorCode(fe validator.FieldError) string {
	customMu.RLock()
	defer customMu.RUnlock()
	if code, ok := customCodes[fe.Tag()]; ok {
		return code
	}
	return "ERR_" + strings.ToUpper(fe.Tag())
}

func getErrorMessage(fe validator.FieldError) string {
	field := fe.Field()

	customMu.RLock()
	msg, ok := customMessages[fe.Tag()]
	customMu.RUnlock()
	if ok {
		return strings.ReplaceAll(msg, "%s", field)
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, fe.Tag())
	}
}

func getErrorParams(fe validator.FieldError) map[string]any {
	params := make(map[string]any)

	switch fe.Tag() {
	case "min", "gte":
		params["min"] = fe.Param()
	case "max", "lte":
		params["max"] = fe.Param()
	case "gt", "lt":
		params["value"] = fe.Param()
	case "oneof":
		params["options"] = strings.Split(fe.Param(), " ")
	}

	return params
}
