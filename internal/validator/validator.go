// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"gastocerto/internal/models"
)

// maxAmountPlaces is the precision of the amount column.
const maxAmountPlaces = 2

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("transaction_kind", validateTransactionKind)
		_ = v.RegisterValidation("calendar_date", validateCalendarDate)
		_ = v.RegisterValidation("amount", validateAmount)
	}
}

// decimalValue lets tags apply to decimal fields through their string form.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}
	return nil
}

func validateTransactionKind(fl validator.FieldLevel) bool {
	return models.TransactionKind(fl.Field().String()).Valid()
}

func validateCalendarDate(fl validator.FieldLevel) bool {
	_, err := models.ParseDay(fl.Field().String())
	return err == nil
}

// validateAmount accepts non-negative values with at most two decimal places.
func validateAmount(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}
	if d.IsNegative() {
		return false
	}
	return d.Equal(d.Truncate(maxAmountPlaces))
}
