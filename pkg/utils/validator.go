package utils

import (
	"github.com/go-playground/validator/v10"

	apperrors "repair-service/pkg/errors"
	"repair-service/pkg/validation"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator(v *validator.Validate) *CustomValidator {
	validation.RegisterNullTypes(v)
	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return apperrors.NewInvalidInputError("поле '%s' не прошло проверку '%s'", fe.Field(), fe.Tag())
		}
		return err
	}
	return nil
}
