package utils

import (
	"Markit-Pantry/domain"
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

var passwordCharset = regexp.MustCompile(`^[A-Za-z\d!@#$%^&*()_+\-={}\[\]\\|:;"'<>,.?/ ]{8,}$`)

func InitValidator() {
	Validate = validator.New()
	_ = Validate.RegisterValidation("strongpassword", strongPassword)
}

// strongPassword requires at least 8 characters with one lower case letter,
// one upper case letter, one digit and one special character.
func strongPassword(fl validator.FieldLevel) bool {
	password := strings.TrimSpace(fl.Field().String())
	if !passwordCharset.MatchString(password) {
		return false
	}

	var lower, upper, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case r != ' ':
			special = true
		}
	}
	return lower && upper && digit && special
}

var fieldMessages = map[string]string{
	"RegisterRequest.Username":               domain.MessageUsernameLength,
	"RegisterRequest.Email":                  domain.MessageInvalidEmail,
	"RegisterRequest.Password":               domain.MessageWeakPassword,
	"RegisterRequest.PasswordRepeat":         domain.MessagePasswordRepeat,
	"LoginRequest.Username":                  domain.MessageUsernameNeeded,
	"LoginRequest.Password":                  domain.MessagePasswordNeeded,
	"UpdatePantryItemRequest.ProductName":    domain.MessageProductNameRequired,
	"UpdatePantryItemRequest.Quantity":       domain.MessageQuantityRequired,
	"UpdatePantryItemRequest.ExpirationDate": domain.MessageExpirationRequired,
}

// ValidateStruct runs the shared validator and converts every failing field
// into a domain.FieldErrors, so forms report all problems at once.
func ValidateStruct(v *validator.Validate, s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := domain.NewValidationErrors()
	for _, fe := range verrs {
		out.Add(jsonFieldName(fe.Field()), messageFor(fe))
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.StructNamespace()]; ok {
		return msg
	}
	return fe.Field() + " failed on the '" + fe.Tag() + "' rule"
}

func jsonFieldName(field string) string {
	var b strings.Builder
	for i, r := range field {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
