// Package validator provides the shared validation engine for dialog
// form structs, including closed-set validations for selection tokens.
package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// Get returns the shared validator with all custom validations registered.
func Get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("expense_category", validateExpenseCategory)
		_ = validate.RegisterValidation("project_stage", validateProjectStage)
	})
	return validate
}

func validateExpenseCategory(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "materials", "labor", "other":
		return true
	}
	return false
}

func validateProjectStage(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "draft", "electric", "finish":
		return true
	}
	return false
}
