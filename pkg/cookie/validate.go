package cookie

import (
	"strings"

	"golang.org/x/net/http/httpguts"
)

// validName reports whether name is an RFC 6265 token.
func validName(name string) bool {
	return name != "" && strings.IndexFunc(name, func(r rune) bool { return !httpguts.IsTokenRune(r) }) < 0
}

// validAttrValue reports whether v can be written as a path or domain
// attribute: printable ASCII without ';'.
func validAttrValue(v string) bool {
	for i := 0; i < len(v); i++ {
		if b := v[i]; b < 0x20 || b >= 0x7f || b == ';' {
			return false
		}
	}
	return true
}

func checkName(name string) error {
	switch {
	case name == "":
		return ErrEmptyName
	case !validName(name):
		return ErrInvalidName
	}
	return nil
}
