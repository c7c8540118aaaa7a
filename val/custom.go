package val

import "regexp"

var nikPattern = regexp.MustCompile(`^[0-9]{16}$`)

// IsNIK checks if s is a national identity number: exactly 16 digits.
func IsNIK(s string) bool {
	return nikPattern.MatchString(s)
}
