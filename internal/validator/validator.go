// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"regexp"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("budget_kind", validateBudgetKind)
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
		_ = v.RegisterValidation("hex_color", validateHexColor)
	}
}

func validateBudgetKind(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "daily", "monthly":
		return true
	}
	return false
}

// validateCalendarDate accepts only the YYYY-MM-DD wire format. Dates with
// time components are rejected because they would shift day-boundary
// assignment in the aggregation core.
func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := time.ParseInLocation("2006-01-02", fl.Field().String(), time.UTC)
	return err == nil
}

func validateHexColor(fl validator.FieldLevel) bool {
	return hexColorRegex.MatchString(fl.Field().String())
}
