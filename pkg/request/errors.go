package request

import "errors"

var (
	ErrSuspiciousMethod = errors.New("request.suspicious_method_override")
	ErrCookieNotFound   = errors.New("request.cookie_not_found")
	ErrInvalidCookie    = errors.New("request.invalid_cookie")
)
