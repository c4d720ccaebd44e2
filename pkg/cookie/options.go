package cookie

import "time"

// Options holds the attributes of a cookie besides its name and value.
// Nil Expires and MaxAge mean the attribute is not set.
type Options struct {
	Expires     *int64
	MaxAge      *int
	Path        string
	Domain      string
	Secure      bool
	HttpOnly    bool
	SameSite    SameSite
	Partitioned bool
}

type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: SameSiteLax,
	}
}

// WithExpires sets the expiry as a unix timestamp. Zero encodes the epoch,
// which browsers treat as already expired.
func WithExpires(unix int64) Option {
	return func(o *Options) {
		o.Expires = &unix
	}
}

func WithExpiresAt(t time.Time) Option {
	return WithExpires(t.Unix())
}

// WithoutExpires makes the cookie a session cookie.
func WithoutExpires() Option {
	return func(o *Options) {
		o.Expires = nil
	}
}

func WithMaxAge(seconds int) Option {
	return func(o *Options) {
		o.MaxAge = &seconds
	}
}

func WithoutMaxAge() Option {
	return func(o *Options) {
		o.MaxAge = nil
	}
}

func WithPath(path string) Option {
	return func(o *Options) {
		o.Path = path
	}
}

func WithDomain(domain string) Option {
	return func(o *Options) {
		o.Domain = domain
	}
}

func WithSecure(secure bool) Option {
	return func(o *Options) {
		o.Secure = secure
	}
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(o *Options) {
		o.HttpOnly = httpOnly
	}
}

// WithSameSite sets the SameSite attribute. The value is matched
// case-insensitively when the options are validated; an empty value drops
// the attribute.
func WithSameSite(sameSite SameSite) Option {
	return func(o *Options) {
		o.SameSite = sameSite
	}
}

func WithPartitioned(partitioned bool) Option {
	return func(o *Options) {
		o.Partitioned = partitioned
	}
}

// applyOptions copies base and applies opts on top of the copy.
// Pointer fields are cloned so the result never aliases base.
func applyOptions(base Options, opts []Option) Options {
	result := base
	if base.Expires != nil {
		v := *base.Expires
		result.Expires = &v
	}
	if base.MaxAge != nil {
		v := *base.MaxAge
		result.MaxAge = &v
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&result)
		}
	}

	return result
}

// normalize validates the option set and returns it in canonical form.
func (o Options) normalize() (Options, error) {
	if o.Path == "" {
		o.Path = "/"
	}
	if !validAttrValue(o.Path) {
		return o, ErrInvalidPath
	}
	if !validAttrValue(o.Domain) {
		return o, ErrInvalidDomain
	}

	sameSite, err := ParseSameSite(string(o.SameSite))
	if err != nil {
		return o, err
	}
	if sameSite == SameSiteNone && !o.Secure {
		return o, ErrSameSiteRequiresSecure
	}
	o.SameSite = sameSite

	return o, nil
}
