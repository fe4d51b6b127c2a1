package normalize

import (
	"fmt"
	"strings"
)

// localAreaCode is prefixed onto seven-digit campus extensions.
const localAreaCode = "352"

// Phone normalizes a phone number to "(352) 392-1941" form. Seven
// digits get the local area code, eleven digits must carry a leading
// country 1, and anything else is rejected so the caller can raise an
// exception instead of publishing garbage.
func Phone(s string) (string, error) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)

	switch {
	case len(digits) == 7:
		digits = localAreaCode + digits
	case len(digits) == 10:
		// already complete
	case len(digits) == 11 && digits[0] == '1':
		digits = digits[1:]
	default:
		return "", fmt.Errorf("unrepairable phone number %q", s)
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:]), nil
}
