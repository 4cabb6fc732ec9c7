// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"moneyboard/internal/dates"
	"moneyboard/internal/models"
	"moneyboard/internal/uuid"
)

var (
	hexColorRegex = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)
	colorRegex    = regexp.MustCompile(`^[a-z][a-z0-9-]{0,29}$`)
)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// Decimals are validated as numbers so gt/gte/lte tags apply to them.
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("display_color", validateDisplayColor)
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("budget_item_type", validateBudgetItemType)
		_ = v.RegisterValidation("payable_status", validatePayableStatus)
		_ = v.RegisterValidation("iso_date", validateISODate)
		_ = v.RegisterValidation("iso_month", validateISOMonth)
		_ = v.RegisterValidation("uuid_id", validateUUID)
	}
}

func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// validateDisplayColor accepts a hex color or a named palette color such as "purple".
func validateDisplayColor(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return hexColorRegex.MatchString(s) || colorRegex.MatchString(s)
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return models.TransactionType(fl.Field().String()).IsValid()
}

func validateBudgetItemType(fl validator.FieldLevel) bool {
	return models.BudgetItemType(fl.Field().String()).IsValid()
}

func validatePayableStatus(fl validator.FieldLevel) bool {
	return models.PayableStatus(fl.Field().String()).IsValid()
}

func validateISODate(fl validator.FieldLevel) bool {
	_, err := dates.Parse(fl.Field().String())
	return err == nil
}

func validateISOMonth(fl validator.FieldLevel) bool {
	_, err := dates.ParseMonth(fl.Field().String())
	return err == nil
}

// validateUUID accepts a UUID. An empty value passes so optional references
// can be cleared with "".
func validateUUID(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return s == "" || uuid.IsValid(s)
}
