package validator

import (
	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate valida una estructura con sus tags `validate`
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// GetValidator devuelve el validador para configuración personalizada
func GetValidator() *validator.Validate {
	return validate
}
