// Package request adds the few things *http.Request lacks for
// framework-style handlers: HTTP method overrides, a normalized request URI
// and percent-decoded cookie values.
package request

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/tundra/httpkit/pkg/cookie"
	"github.com/tundra/httpkit/pkg/logger"
)

const (
	// MethodOverrideHeader carries the intended method of a POST request.
	MethodOverrideHeader = "X-HTTP-Method-Override"
	// MethodOverrideParam is the form or query parameter consulted when
	// parameter overrides are enabled.
	MethodOverrideParam = "_method"

	MethodPurge = "PURGE"
)

var (
	knownMethods = []string{
		http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
		http.MethodDelete, http.MethodConnect, http.MethodOptions,
		http.MethodPatch, MethodPurge, http.MethodTrace,
	}
	methodPattern = regexp.MustCompile(`^[A-Z]+$`)
)

type options struct {
	paramOverride bool
	logger        *slog.Logger
}

type Option func(*options)

// WithParameterOverride lets the _method form or query parameter override
// a POST when the override header is absent.
func WithParameterOverride() Option {
	return func(o *options) { o.paramOverride = true }
}

// WithLogger sets the logger used by MethodOverride. Nil is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: logger.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Method returns the effective request method. Only POST can be
// overridden. Known methods are accepted as is; any other override must be
// a single upper-case word.
func Method(r *http.Request, opts ...Option) (string, error) {
	o := applyOptions(opts)

	method := strings.ToUpper(r.Method)
	if method == "" {
		method = http.MethodGet
	}
	if method != http.MethodPost {
		return method, nil
	}

	override := r.Header.Get(MethodOverrideHeader)
	if override == "" && o.paramOverride {
		override = r.PostFormValue(MethodOverrideParam)
		if override == "" {
			override = r.URL.Query().Get(MethodOverrideParam)
		}
	}
	if override == "" {
		return method, nil
	}

	override = strings.ToUpper(override)
	if slices.Contains(knownMethods, override) {
		return override, nil
	}
	if !methodPattern.MatchString(override) {
		return method, fmt.Errorf("%w: %q", ErrSuspiciousMethod, override)
	}
	return override, nil
}

// MethodOverride rewrites r.Method using Method. Suspicious overrides are
// answered with 400 Bad Request.
func MethodOverride(opts ...Option) func(http.Handler) http.Handler {
	o := applyOptions(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, err := Method(r, opts...)
			if err != nil {
				o.logger.WarnContext(r.Context(), "rejected method override", logger.Error(err))
				http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
				return
			}
			if method != r.Method {
				r = r.Clone(r.Context())
				r.Method = method
			}
			next.ServeHTTP(w, r)
		})
	}
}

// URI returns the request target reduced to path and query. Fragments are
// dropped and absolute-form targets (as sent to proxies) lose their scheme
// and host.
func URI(r *http.Request) string {
	uri := r.RequestURI
	if uri == "" {
		return r.URL.RequestURI()
	}

	if strings.HasPrefix(uri, "/") {
		if i := strings.IndexByte(uri, '#'); i >= 0 {
			uri = uri[:i]
		}
		return uri
	}

	u, err := url.Parse(uri)
	if err != nil {
		return r.URL.RequestURI()
	}
	out := u.EscapedPath()
	if out == "" {
		out = "/"
	}
	if u.RawQuery != "" {
		out += "?" + u.RawQuery
	}
	return out
}

// ProtocolVersion returns the protocol, e.g. "HTTP/1.1".
func ProtocolVersion(r *http.Request) string {
	return r.Proto
}

// Cookie returns the percent-decoded value of the named request cookie.
func Cookie(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", fmt.Errorf("%w: %s", ErrCookieNotFound, name)
		}
		return "", err
	}

	v, err := url.PathUnescape(c.Value)
	if err != nil {
		return "", errors.Join(ErrInvalidCookie, err)
	}
	return v, nil
}

// SignedCookie returns the verified value of a cookie written with a
// cookie.Signer.
func SignedCookie(r *http.Request, s *cookie.Signer, name string) (string, error) {
	v, err := Cookie(r, name)
	if err != nil {
		return "", err
	}
	return s.Verify(v)
}
