package phone

import (
	"fmt"
	"strings"

	"github.com/telos-kitchen/account-service/internal/domain"
)

// Normalize canonicalizes a phone number so that every representation of
// the same number hashes to the same value: formatting characters are
// stripped, a single leading "+" is preserved, and everything left must
// be digits. Deterministic; no carrier lookup.
func Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", fmt.Errorf("empty phone number: %w", domain.ErrBadRequest)
	}

	plus := strings.HasPrefix(s, "+")
	if plus {
		s = s[1:]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// formatting noise
		default:
			return "", fmt.Errorf("phone number %q contains invalid character %q: %w", raw, r, domain.ErrBadRequest)
		}
	}

	digits := b.String()
	if len(digits) < 7 || len(digits) > 15 {
		return "", fmt.Errorf("phone number %q must contain 7 to 15 digits: %w", raw, domain.ErrBadRequest)
	}
	if plus {
		return "+" + digits, nil
	}
	return digits, nil
}
