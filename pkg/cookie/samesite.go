package cookie

import (
	"fmt"
	"net/http"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SameSite is the value of the SameSite cookie attribute.
// The zero value means the attribute is not emitted.
type SameSite string

const (
	SameSiteStrict SameSite = "Strict"
	SameSiteLax    SameSite = "Lax"
	SameSiteNone   SameSite = "None"
)

// ParseSameSite normalizes a case-insensitive SameSite value to its canonical
// title-case form. An empty string yields the zero value.
func ParseSameSite(s string) (SameSite, error) {
	if s == "" {
		return "", nil
	}

	switch v := SameSite(cases.Title(language.Und).String(s)); v {
	case SameSiteStrict, SameSiteLax, SameSiteNone:
		return v, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSameSite, s)
}

func (s SameSite) httpMode() http.SameSite {
	switch s {
	case SameSiteStrict:
		return http.SameSiteStrictMode
	case SameSiteLax:
		return http.SameSiteLaxMode
	case SameSiteNone:
		return http.SameSiteNoneMode
	default:
		return 0
	}
}
