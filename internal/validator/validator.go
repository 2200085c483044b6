// Package validator provides custom validation functions for Gin's binding
// engine and the password and month rules shared by services.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

const (
	minPasswordLength = 8
	// MaxPasswordBytes is the longest password bcrypt can hash.
	MaxPasswordBytes = 72
)

var yearMonthRegex = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// Register registers all custom validators with the Gin binding engine.
func Register() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
		_ = v.RegisterValidation("transaction_type", validateTransactionType)
		_ = v.RegisterValidation("year_month", validateYearMonth)
	}
}

// decimalValue lets numeric tags such as gt=0 operate on decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateTransactionType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "income", "expense":
		return true
	}
	return false
}

func validateYearMonth(fl validator.FieldLevel) bool {
	_, _, err := ParseYearMonth(fl.Field().String())
	return err == nil
}

// ParseYearMonth parses a "YYYY-MM" string. The month may be written with one
// or two digits and must fall in [1, 12].
func ParseYearMonth(s string) (int, int, error) {
	if s == "" {
		return 0, 0, errors.New("month query param is required (e.g. 2025-06)")
	}
	m := yearMonthRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, errors.New("month must be in YYYY-MM format")
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if year < 1 || month < 1 || month > 12 {
		return 0, 0, errors.New("month must be in YYYY-MM format")
	}
	return year, month, nil
}

// CheckPassword enforces the password complexity policy and names the first
// rule the password fails.
func CheckPassword(password string) error {
	if len([]rune(password)) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r) || r == '_' || unicode.IsSpace(r):
			symbol = true
		}
	}

	switch {
	case !lower:
		return errors.New("password must include a lowercase letter")
	case !upper:
		return errors.New("password must include an uppercase letter")
	case !digit:
		return errors.New("password must include a number")
	case !symbol:
		return errors.New("password must include a special character")
	}
	return nil
}

var standalone = validator.New()

// IsEmail reports whether s is a syntactically valid email address.
func IsEmail(s string) bool {
	return standalone.Var(s, "required,email") == nil
}
