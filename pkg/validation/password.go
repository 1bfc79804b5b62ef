package validation

import (
	"fmt"
	"strings"
	"unicode"
)

// PasswordPolicy is the strength policy consumed by the auth engine.
// Rules: minimum length, not entirely numeric, not a known common password,
// not containing the username or the email's local part.
type PasswordPolicy struct {
	MinLength int
}

func NewPasswordPolicy() *PasswordPolicy {
	return &PasswordPolicy{MinLength: 8}
}

// commonPasswords is a short deny-list of passwords seen in breach corpora.
// Matching is case-insensitive.
var commonPasswords = map[string]struct{}{
	"password":    {},
	"password1":   {},
	"password123": {},
	"12345678":    {},
	"123456789":   {},
	"qwerty123":   {},
	"qwertyuiop":  {},
	"iloveyou":    {},
	"letmein1":    {},
	"welcome1":    {},
	"admin123":    {},
	"sunshine":    {},
	"football":    {},
	"princess":    {},
	"dragon123":   {},
}

// Validate checks password against the policy. The returned error message is
// safe to surface to the caller.
func (p *PasswordPolicy) Validate(password, username, email string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters long", p.MinLength)
	}

	if isEntirelyNumeric(password) {
		return fmt.Errorf("password cannot be entirely numeric")
	}

	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return fmt.Errorf("password is too common")
	}

	lowered := strings.ToLower(password)
	if username != "" && strings.Contains(lowered, strings.ToLower(username)) {
		return fmt.Errorf("password cannot contain your username")
	}
	if local := emailLocalPart(email); len(local) >= 3 && strings.Contains(lowered, local) {
		return fmt.Errorf("password cannot contain your email address")
	}

	return nil
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 0
}

func emailLocalPart(email string) string {
	at := strings.IndexByte(email, '@')
	if at <= 0 {
		return ""
	}
	return strings.ToLower(email[:at])
}
