package handler

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validationMessage turns a binding error into a client-facing description
// that names fields by their JSON keys
func validationMessage(err error, req interface{}) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return "Request body must be a JSON object with name, email and message"
	}

	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, describeFieldError(jsonFieldName(t, fe.StructField()), fe.Tag()))
	}
	return "Invalid request body: " + strings.Join(problems, "; ")
}

func jsonFieldName(t reflect.Type, structField string) string {
	if f, ok := t.FieldByName(structField); ok {
		if name := strings.Split(f.Tag.Get("json"), ",")[0]; name != "" && name != "-" {
			return name
		}
	}
	return strings.ToLower(structField)
}

func describeFieldError(field, tag string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	default:
		return field + " is invalid"
	}
}
