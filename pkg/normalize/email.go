package normalize

import (
	"fmt"
	"strings"
)

// Email strips the stray quotes, brackets, and whitespace directory
// extracts wrap addresses in, lowercases the domain, and rejects
// anything that still does not look like an address.
func Email(s string) (string, error) {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'<>[]`)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.TrimSuffix(s, ".")

	at := strings.LastIndex(s, "@")
	if at <= 0 || at == len(s)-1 {
		return "", fmt.Errorf("unrepairable email %q", s)
	}
	local, domain := s[:at], strings.ToLower(s[at+1:])
	if !strings.Contains(domain, ".") {
		return "", fmt.Errorf("unrepairable email %q", s)
	}
	return local + "@" + domain, nil
}
