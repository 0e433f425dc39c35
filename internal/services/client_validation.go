package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"clients_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// FieldError is a single failed constraint on a client field.
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) String() string {
	return fmt.Sprintf("field '%s' %s", e.Field, e.Message)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names so messages match the payload the caller sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// ValidateClient trims the text fields of client in place and checks them.
// It returns one FieldError per failing field, in declaration order.
func ValidateClient(client *models.Client) []FieldError {
	client.Name = strings.TrimSpace(client.Name)
	client.LastName = strings.TrimSpace(client.LastName)
	client.Email = strings.TrimSpace(client.Email)

	err := validate.Struct(client)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []FieldError{{Field: "client", Message: err.Error()}}
	}
	fieldErrs := make([]FieldError, 0, len(ve))
	for _, fe := range ve {
		fieldErrs = append(fieldErrs, FieldError{Field: fe.Field(), Message: constraintMessage(fe)})
	}
	return fieldErrs
}

func constraintMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must not be empty"
	case "email":
		return "must be a well-formed email address"
	default:
		return fmt.Sprintf("failed validation (%s)", fe.Tag())
	}
}
