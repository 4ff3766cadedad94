package auth

import "strings"

// AllowList is the static set of addresses permitted to use the panel.
type AllowList struct {
	emails map[string]struct{}
}

func NewAllowList(emails []string) *AllowList {
	a := &AllowList{emails: make(map[string]struct{}, len(emails))}
	for _, e := range emails {
		if n := normalizeEmail(e); n != "" {
			a.emails[n] = struct{}{}
		}
	}
	return a
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Allowed compares case-insensitively after trimming.
func (a *AllowList) Allowed(email string) bool {
	if a == nil {
		return false
	}
	_, ok := a.emails[normalizeEmail(email)]
	return ok
}

func (a *AllowList) Len() int {
	return len(a.emails)
}
