package validation

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/bnema/paymail/internal/domain"
)

const (
	minAppPasswordLen = 10
	maxAppPasswordLen = 20
)

// MailShape accepts a single-line local@domain.tld address.
var MailShape = func(fl validator.FieldLevel) bool {
	return domain.ValidEmail(fl.Field().String())
}

// AppPassword accepts a provider app password once whitespace is stripped.
var AppPassword = func(fl validator.FieldLevel) bool {
	return ValidAppPassword(fl.Field().String())
}

func ValidAppPassword(password string) bool {
	n := len(StripSpaces(password))
	return n >= minAppPasswordLen && n <= maxAppPasswordLen
}

func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("mailshape", MailShape)
	_ = v.RegisterValidation("apppassword", AppPassword)

	return &Validator{v: v}
}

// Struct validates s and reports the first failing field as a domain.ValidationError.
func (v *Validator) Struct(s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &domain.ValidationError{Reason: err.Error()}
	}

	fe := fieldErrs[0]
	return &domain.ValidationError{Field: fe.Field(), Reason: reason(fe)}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "mailshape":
		return "invalid email format"
	case "apppassword":
		return "invalid app password format (should be 10-20 characters)"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
