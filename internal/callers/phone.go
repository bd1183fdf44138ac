// Package callers resolves inbound telephony callers to patients.
package callers

import (
	"fmt"
	"strings"
)

// Normalize strips every non-digit from raw and formats North American
// numbers as "1-XXX-XXX-XXXX", the form patient phones are stored in. An
// 11-digit number must start with 1; a 10-digit number is taken as the
// subscriber number. Any other length is rejected and ok is false.
func Normalize(raw string) (digits, formatted string, ok bool) {
	digits = sanitizeDigits(raw)
	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return digits, format(digits[1:]), true
	case len(digits) == 10:
		return digits, format(digits), true
	default:
		return digits, "", false
	}
}

func format(ten string) string {
	return fmt.Sprintf("1-%s-%s-%s", ten[0:3], ten[3:6], ten[6:10])
}

func sanitizeDigits(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
