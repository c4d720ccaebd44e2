package cookie

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const headerName = "Set-Cookie"

// HeaderWriter is the part of http.ResponseWriter a cookie needs to be sent.
type HeaderWriter interface {
	Header() http.Header
}

// Cookie is a single response cookie together with its send state.
// A Cookie is not safe for concurrent use.
type Cookie struct {
	name     string
	value    string
	opts     Options
	deferred bool
	sent     bool
}

// New creates a cookie with the default attributes (Path=/, HttpOnly,
// SameSite=Lax) overridden by opts.
func New(name, value string, opts ...Option) (*Cookie, error) {
	c := &Cookie{}
	if err := c.Set(name, value, opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// Set re-initializes every attribute of the cookie. Attributes not named in
// opts return to their defaults. On error the cookie is left untouched.
func (c *Cookie) Set(name, value string, opts ...Option) error {
	if err := checkName(name); err != nil {
		return err
	}

	o, err := applyOptions(defaultOptions(), opts).normalize()
	if err != nil {
		return fmt.Errorf("cookie %q: %w", name, err)
	}

	c.name = name
	c.value = value
	c.opts = o
	return nil
}

// Build renders the complete response header line.
func (c *Cookie) Build() string {
	return headerName + ": " + c.HeaderValue()
}

// HeaderValue renders the Set-Cookie header value. Attribute order is fixed.
func (c *Cookie) HeaderValue() string {
	var b strings.Builder

	b.WriteString(c.name)
	b.WriteByte('=')
	b.WriteString(encodeValue(c.value))
	b.WriteString("; ")

	if c.opts.Expires != nil {
		b.WriteString("Expires=")
		b.WriteString(time.Unix(*c.opts.Expires, 0).UTC().Format(http.TimeFormat))
		b.WriteString("; ")
	}
	if c.opts.MaxAge != nil {
		b.WriteString("Max-Age=")
		b.WriteString(strconv.Itoa(*c.opts.MaxAge))
		b.WriteString("; ")
	}

	b.WriteString("Path=")
	b.WriteString(c.opts.Path)
	b.WriteString("; ")

	if c.opts.Domain != "" {
		b.WriteString("Domain=")
		b.WriteString(c.opts.Domain)
		b.WriteString("; ")
	}
	if c.opts.HttpOnly {
		b.WriteString("HttpOnly; ")
	}
	if c.opts.SameSite != "" {
		b.WriteString("SameSite=")
		b.WriteString(string(c.opts.SameSite))
		b.WriteString("; ")
	}
	if c.opts.Secure {
		b.WriteString("Secure; ")
	}
	if c.opts.Partitioned {
		b.WriteString("Partitioned")
	}

	return b.String()
}

func (c *Cookie) String() string {
	return c.Build()
}

// Send adds the cookie to the response headers. A cookie can be sent once.
func (c *Cookie) Send(w HeaderWriter) error {
	if c.sent {
		return fmt.Errorf("%w: %s", ErrAlreadySent, c.name)
	}
	w.Header().Add(headerName, c.HeaderValue())
	c.sent = true
	return nil
}

// Expire turns the cookie into its own deletion: empty value and an expiry
// at the unix epoch. Name, path, domain, Secure and HttpOnly are kept, every
// other attribute returns to its default.
func (c *Cookie) Expire() {
	o := defaultOptions()
	o.Path = c.opts.Path
	o.Domain = c.opts.Domain
	o.Secure = c.opts.Secure
	o.HttpOnly = c.opts.HttpOnly
	epoch := int64(0)
	o.Expires = &epoch

	c.value = ""
	c.opts = o
}

// Delete expires the cookie and sends it.
func (c *Cookie) Delete(w HeaderWriter) error {
	c.Expire()
	return c.Send(w)
}

// Reset restores the default attributes and clears the value.
// The name and the send state are kept.
func (c *Cookie) Reset() {
	c.value = ""
	c.opts = defaultOptions()
}

// Defer marks the cookie to be sent by the next Handler.Flush.
func (c *Cookie) Defer(deferred bool) *Cookie {
	c.deferred = deferred
	return c
}

func (c *Cookie) Deferred() bool { return c.deferred }

func (c *Cookie) Sent() bool { return c.sent }

func (c *Cookie) Name() string { return c.name }

func (c *Cookie) SetName(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	c.name = name
	return nil
}

func (c *Cookie) Value() string { return c.value }

func (c *Cookie) SetValue(value string) { c.value = value }

func (c *Cookie) Path() string { return c.opts.Path }

// SetPath sets the path, defaulting to "/" when empty.
func (c *Cookie) SetPath(path string) error {
	if !validAttrValue(path) {
		return ErrInvalidPath
	}
	if path == "" {
		path = "/"
	}
	c.opts.Path = path
	return nil
}

func (c *Cookie) Domain() string { return c.opts.Domain }

func (c *Cookie) SetDomain(domain string) error {
	if !validAttrValue(domain) {
		return ErrInvalidDomain
	}
	c.opts.Domain = domain
	return nil
}

func (c *Cookie) Secure() bool { return c.opts.Secure }

func (c *Cookie) SetSecure(secure bool) { c.opts.Secure = secure }

func (c *Cookie) HTTPOnly() bool { return c.opts.HttpOnly }

func (c *Cookie) SetHTTPOnly(httpOnly bool) { c.opts.HttpOnly = httpOnly }

func (c *Cookie) Partitioned() bool { return c.opts.Partitioned }

func (c *Cookie) SetPartitioned(partitioned bool) { c.opts.Partitioned = partitioned }

// Expires returns the expiry timestamp and whether it is set.
func (c *Cookie) Expires() (int64, bool) {
	if c.opts.Expires == nil {
		return 0, false
	}
	return *c.opts.Expires, true
}

func (c *Cookie) SetExpires(unix int64) { c.opts.Expires = &unix }

func (c *Cookie) UnsetExpires() { c.opts.Expires = nil }

// MaxAge returns the Max-Age in seconds and whether it is set.
func (c *Cookie) MaxAge() (int, bool) {
	if c.opts.MaxAge == nil {
		return 0, false
	}
	return *c.opts.MaxAge, true
}

func (c *Cookie) SetMaxAge(seconds int) { c.opts.MaxAge = &seconds }

func (c *Cookie) UnsetMaxAge() { c.opts.MaxAge = nil }

func (c *Cookie) SameSite() SameSite { return c.opts.SameSite }

// SetSameSite sets the SameSite attribute, matching the value
// case-insensitively. An empty value removes the attribute. None is only
// accepted on a Secure cookie.
func (c *Cookie) SetSameSite(sameSite SameSite) error {
	v, err := ParseSameSite(string(sameSite))
	if err != nil {
		return err
	}
	if v == SameSiteNone && !c.opts.Secure {
		return ErrSameSiteRequiresSecure
	}
	c.opts.SameSite = v
	return nil
}

// IsExpired reports whether the cookie is expired at the current time.
func (c *Cookie) IsExpired() bool {
	return c.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the cookie is expired at now.
// A set Max-Age is compared against the unix time itself, not added to it.
// An expiry of zero never expires.
func (c *Cookie) IsExpiredAt(now time.Time) bool {
	if c.opts.MaxAge != nil {
		return int64(*c.opts.MaxAge) <= now.Unix()
	}
	if c.opts.Expires == nil || *c.opts.Expires == 0 {
		return false
	}
	return *c.opts.Expires <= now.Unix()
}

// ToMap returns the cookie attributes keyed by lower-case attribute name.
// Unset Expires, Max-Age and SameSite map to nil.
func (c *Cookie) ToMap() map[string]any {
	m := map[string]any{
		"name":        c.name,
		"value":       c.value,
		"expires":     nil,
		"path":        c.opts.Path,
		"domain":      c.opts.Domain,
		"secure":      c.opts.Secure,
		"httponly":    c.opts.HttpOnly,
		"samesite":    nil,
		"partitioned": c.opts.Partitioned,
		"maxage":      nil,
	}
	if v, ok := c.Expires(); ok {
		m["expires"] = v
	}
	if v, ok := c.MaxAge(); ok {
		m["maxage"] = v
	}
	if c.opts.SameSite != "" {
		m["samesite"] = string(c.opts.SameSite)
	}
	return m
}

// HTTPCookie converts the cookie for use with http.SetCookie.
// The value is percent-encoded the same way HeaderValue encodes it.
func (c *Cookie) HTTPCookie() *http.Cookie {
	hc := &http.Cookie{
		Name:        c.name,
		Value:       encodeValue(c.value),
		Path:        c.opts.Path,
		Domain:      c.opts.Domain,
		Secure:      c.opts.Secure,
		HttpOnly:    c.opts.HttpOnly,
		SameSite:    c.opts.SameSite.httpMode(),
		Partitioned: c.opts.Partitioned,
	}
	if v, ok := c.Expires(); ok {
		hc.Expires = time.Unix(v, 0).UTC()
	}
	if v, ok := c.MaxAge(); ok {
		// net/http reserves MaxAge 0 for "unset"; a zero or negative
		// Max-Age deletes the cookie.
		if v > 0 {
			hc.MaxAge = v
		} else {
			hc.MaxAge = -1
		}
	}
	return hc
}

// LogValue implements slog.LogValuer. The value is left out.
func (c *Cookie) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("name", c.name),
		slog.String("path", c.opts.Path),
	}
	if c.opts.Domain != "" {
		attrs = append(attrs, slog.String("domain", c.opts.Domain))
	}
	if v, ok := c.Expires(); ok {
		attrs = append(attrs, slog.Int64("expires", v))
	}
	if v, ok := c.MaxAge(); ok {
		attrs = append(attrs, slog.Int("max_age", v))
	}
	attrs = append(attrs,
		slog.Bool("deferred", c.deferred),
		slog.Bool("sent", c.sent),
	)
	return slog.GroupValue(attrs...)
}

// encodeValue percent-encodes everything outside the RFC 3986 unreserved set.
func encodeValue(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}
