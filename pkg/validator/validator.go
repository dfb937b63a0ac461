package validator

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var privateNumberRe = regexp.MustCompile(`^\d{11}$`)

// New returns a validator with the registration rules the API enforces:
// strongpassword requires at least 8 characters with one digit and one
// symbol, privnum requires an exactly-11-digit national number.
func New() (*validator.Validate, error) {
	v := validator.New()

	if err := v.RegisterValidation("strongpassword", validateStrongPassword); err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("privnum", validatePrivateNumber); err != nil {
		return nil, err
	}

	return v, nil
}

func validateStrongPassword(fl validator.FieldLevel) bool {
	password := fl.Field().String()
	if len(password) < 8 {
		return false
	}

	var hasDigit, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r), r == '_':
			hasSymbol = true
		}
	}
	return hasDigit && hasSymbol
}

func validatePrivateNumber(fl validator.FieldLevel) bool {
	return privateNumberRe.MatchString(fl.Field().String())
}
