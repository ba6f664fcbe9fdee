package models

import (
	"github.com/go-playground/validator/v10"
)

// RoleTag is the struct tag that checks a value against the role enumeration.
const RoleTag = "user_role"

// NewValidator returns a validator with the directory rules registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

// RegisterValidations adds the directory tags to an existing validator.
func RegisterValidations(v *validator.Validate) {
	_ = v.RegisterValidation(RoleTag, func(fl validator.FieldLevel) bool {
		return UserRole(fl.Field().String()).Valid()
	})
}
