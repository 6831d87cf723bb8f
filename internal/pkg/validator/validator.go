package validator

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

// maxMoney bounds amounts to eight integer digits, matching decimal(10,2) columns.
var maxMoney = decimal.New(1, 8)

func init() {
	validate = validator.New()

	// report fields by their form name so errors line up with template inputs
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// money: a non-negative decimal below 10^8 with at most two fraction digits
	if err := validate.RegisterValidation("money", validMoney); err != nil {
		panic(fmt.Sprintf("validator: register money rule: %v", err))
	}
}

func validMoney(fl validator.FieldLevel) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(fl.Field().String()))
	if err != nil {
		return false
	}
	return !d.IsNegative() && d.LessThan(maxMoney) && d.Round(2).Equal(d)
}

// Validate struct fields. Returns nil when v is valid, otherwise field -> message.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	errors := make(map[string]string)
	for _, err := range verrs {
		errors[err.Field()] = message(err)
	}
	return errors
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s is required", fe.Field())
	case "min":
		return fmt.Sprintf("The %s should be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s cannot exceed %s characters", fe.Field(), fe.Param())
	case "money":
		return fmt.Sprintf("The %s must be a non-negative amount below 100000000 with up to 2 decimals", fe.Field())
	default:
		return fmt.Sprintf("The %s is invalid (%s)", fe.Field(), fe.Tag())
	}
}
