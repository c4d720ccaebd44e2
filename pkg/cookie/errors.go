package cookie

import "errors"

var (
	ErrEmptyName              = errors.New("cookie.empty_name")
	ErrInvalidName            = errors.New("cookie.invalid_name")
	ErrInvalidPath            = errors.New("cookie.invalid_path")
	ErrInvalidDomain          = errors.New("cookie.invalid_domain")
	ErrInvalidSameSite        = errors.New("cookie.invalid_same_site")
	ErrSameSiteRequiresSecure = errors.New("cookie.same_site_none_requires_secure")
	ErrAlreadySent            = errors.New("cookie.already_sent")
	ErrAlreadyExists          = errors.New("cookie.already_exists")
	ErrNotFound               = errors.New("cookie.not_found")
	ErrNilCookie              = errors.New("cookie.nil_cookie")
	ErrNoSecret               = errors.New("cookie.no_secret")
	ErrSecretTooShort         = errors.New("cookie.secret_too_short")
	ErrNoSigner               = errors.New("cookie.no_signer")
	ErrInvalidSignature       = errors.New("cookie.invalid_signature")
	ErrInvalidFormat          = errors.New("cookie.invalid_format")
	ErrInvalidPresets         = errors.New("cookie.invalid_presets")
)
