// Package validation holds the input rules the web client enforced before
// any store mutation. Handlers and the ticket service both call these, so a
// malformed status or price can no longer slip past the adapter layer.
package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/farra-app/farra-api/internal/models"
)

const (
	FreePrice   = "Gratis"
	maxQuantity = 100
	maxTextLen  = 200
	maxInputLen = 500
)

var (
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRe    = regexp.MustCompile(`^[\d\s\+\-\(\)]+$`)
	nonDigitRe = regexp.MustCompile(`\D`)
	dangerRe   = regexp.MustCompile(`[<>"']`)

	maxPrice = decimal.NewFromInt(100_000_000)
)

func Email(email string) bool {
	return emailRe.MatchString(strings.TrimSpace(email))
}

// Phone accepts digits plus common separators, 7 to 15 digits total.
func Phone(phone string) bool {
	if phone == "" || !phoneRe.MatchString(phone) {
		return false
	}
	digits := nonDigitRe.ReplaceAllString(phone, "")
	return len(digits) >= 7 && len(digits) <= 15
}

func Text(text string, maxLength int) bool {
	if maxLength <= 0 {
		maxLength = maxTextLen
	}
	sanitized := dangerRe.ReplaceAllString(strings.TrimSpace(text), "")
	return len(sanitized) > 0 && len(sanitized) <= maxLength
}

func Quantity(n int) bool {
	return n > 0 && n <= maxQuantity
}

// Price accepts an empty value or "Gratis" as free, otherwise a formatted
// amount ("$50.000", "50000") whose digits parse to at most 100 million.
func Price(price string) bool {
	trimmed := strings.TrimSpace(price)
	if trimmed == "" || trimmed == FreePrice {
		return true
	}
	digits := nonDigitRe.ReplaceAllString(trimmed, "")
	if digits == "" {
		return false
	}
	amount, err := decimal.NewFromString(digits)
	if err != nil {
		return false
	}
	return amount.GreaterThanOrEqual(decimal.Zero) && amount.LessThanOrEqual(maxPrice)
}

func Status(status string) bool {
	return models.TicketStatus(status).Valid()
}

// Sanitize strips dangerous characters and caps the length, applied to every
// free-text field before it reaches the tree. The cut lands on a rune
// boundary so truncation never stores invalid UTF-8.
func Sanitize(input string) string {
	out := dangerRe.ReplaceAllString(strings.TrimSpace(input), "")
	if len(out) > maxInputLen {
		cut := maxInputLen
		for cut > 0 && !utf8.RuneStart(out[cut]) {
			cut--
		}
		out = out[:cut]
	}
	return out
}

// Clamp bounds a numeric input into [min, max].
func Clamp(n, min, max int) int {
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// Register wires the custom rules into a validator instance so DTO structs
// can carry tags like `validate:"precio"` and `validate:"texto"`.
func Register(v *validator.Validate) {
	_ = v.RegisterValidation("precio", func(fl validator.FieldLevel) bool {
		return Price(fl.Field().String())
	})
	_ = v.RegisterValidation("estado", func(fl validator.FieldLevel) bool {
		return Status(fl.Field().String())
	})
	_ = v.RegisterValidation("telefono", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "" || Phone(fl.Field().String())
	})
	_ = v.RegisterValidation("cantidad", func(fl validator.FieldLevel) bool {
		return Quantity(int(fl.Field().Int()))
	})
	_ = v.RegisterValidation("correo", func(fl validator.FieldLevel) bool {
		return Email(fl.Field().String())
	})
	_ = v.RegisterValidation("texto", func(fl validator.FieldLevel) bool {
		return Text(fl.Field().String(), maxTextLen)
	})
}
