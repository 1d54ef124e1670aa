package entity

import (
	"fmt"
	"strconv"
	"strings"

	errs "github.com/ama3it/image-workers-backend/internal/domain/error"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for credit amounts
const MaxDecimalPlaces = 2

// ParseAmount validates a string credit amount and converts it to cents.
// The conversion is string based to avoid floating point precision issues:
// "10" -> 1000, "10.5" -> 1050, "10.50" -> 1050.
func ParseAmount(amount string) (int64, error) {
	amount = strings.TrimSpace(amount)
	if len(amount) == 0 {
		return 0, fmt.Errorf("%w: empty value", errs.ErrInvalidAmount)
	}

	if strings.HasPrefix(amount, "-") {
		return 0, errs.ErrNegativeAmount
	}

	parts := strings.Split(amount, ".")
	if len(parts) > 2 {
		return 0, fmt.Errorf("%w: invalid number format", errs.ErrInvalidAmount)
	}

	var integerValue string
	if len(parts) == 1 {
		integerValue = parts[0] + "00"
	} else {
		switch len(parts[1]) {
		case 0:
			// Like "10."
			integerValue = parts[0] + "00"
		case 1:
			integerValue = parts[0] + parts[1] + "0"
		case 2:
			integerValue = parts[0] + parts[1]
		default:
			return 0, fmt.Errorf("%w: maximum %d decimal places allowed", errs.ErrInvalidAmount, MaxDecimalPlaces)
		}
	}

	value, err := strconv.ParseInt(integerValue, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", errs.ErrInvalidAmount, err.Error())
	}

	return value, nil
}

// FormatCents converts an integer cent amount to a decimal string with exactly
// two decimal places. 1015 becomes "10.15", 1000 becomes "10.00".
func FormatCents(cents int64) string {
	negative := cents < 0
	if negative {
		cents = -cents
	}

	s := strconv.FormatInt(cents, 10)
	for len(s) < 3 {
		s = "0" + s
	}

	pos := len(s) - 2
	formatted := s[:pos] + "." + s[pos:]
	if negative {
		return "-" + formatted
	}
	return formatted
}
