package customers

import (
	"regexp"
	"strings"

	pkgerrors "github.com/lucasferraz/ordersys-backend/pkg/errors"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	nameRe     = regexp.MustCompile(`^[\p{L} ]+$`)
)

// NormalizeDocument strips every non-digit character and validates the
// result: 11 digits (person) or 14 digits (company), and not a run of one
// repeated digit.
func NormalizeDocument(raw string) (string, error) {
	digits := nonDigitRe.ReplaceAllString(raw, "")
	if len(digits) != 11 && len(digits) != 14 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "document must have 11 or 14 digits").
			WithDetails(map[string]any{"digits": len(digits)})
	}
	if strings.Count(digits, digits[:1]) == len(digits) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "document digits must not be all identical")
	}
	return digits, nil
}

// ValidateName rejects names containing anything but letters and spaces.
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" || !nameRe.MatchString(trimmed) {
		return pkgerrors.New(pkgerrors.CodeValidation, "name must contain only letters and spaces")
	}
	return nil
}
