package validation

import (
	"regexp"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var (
	// Letters, spaces and common name punctuation: . ' -
	nameRegex = regexp.MustCompile(`^[\p{L} .'-]+$`)

	// Usernames: letters, digits and @.+-_
	usernameRegex = regexp.MustCompile(`^[\w.@+-]{3,150}$`)

	sixDigitsRegex = regexp.MustCompile(`^[0-9]{6}$`)
)

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("valid_name", ValidName)
	_ = v.RegisterValidation("username", ValidUsername)
	_ = v.RegisterValidation("six_digits", SixDigits)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
}

// ValidName accepts empty values; combine with required when needed.
func ValidName(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return nameRegex.MatchString(val)
}

func ValidUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}

// SixDigits validates a verification code, leading zeros included.
func SixDigits(fl validator.FieldLevel) bool {
	return sixDigitsRegex.MatchString(fl.Field().String())
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		// supplementary planes are almost entirely emoji and pictographs
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}
