package validation

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FieldError describes one failed validation on a request struct field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Struct validates a request struct against its validate tags and returns
// one FieldError per failing field, nil when the struct is valid.
func Struct(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	errs := make([]FieldError, 0)
	for _, fe := range err.(validator.ValidationErrors) {
		errs = append(errs, FieldError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()),
		})
	}
	return errs
}
