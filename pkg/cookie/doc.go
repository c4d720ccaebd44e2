// Package cookie builds, tracks and sends HTTP response cookies.
//
// # Overview
//
// A Cookie carries a name, a value and the attributes of the Set-Cookie
// header (Expires, Max-Age, Path, Domain, HttpOnly, SameSite, Secure and
// Partitioned). It renders itself in a fixed attribute order:
//
//	Set-Cookie: name=value; Expires=Thu, 01 Jan 1970 00:00:00 GMT; Max-Age=60; Path=/; Domain=example.com; HttpOnly; SameSite=Lax; Secure; Partitioned
//
// Bracketless attributes only appear when set. Values are percent-encoded
// (RFC 3986, space as %20). A cookie is sent at most once.
//
// A Handler is an in-memory registry of cookies keyed by name, path and
// domain. It creates, updates and destroys cookies and flushes the deferred
// ones to a response in one step.
//
// # Usage
//
//	import "github.com/tundra/httpkit/pkg/cookie"
//
//	h := cookie.NewHandler()
//	c, err := h.Create("session", "abc", cookie.WithSecure(true), cookie.WithSameSite(cookie.SameSiteStrict))
//	if err != nil { ... }
//	c.Defer(true)
//
//	_ = h.Destroy("theme", "/", "", false)
//	_ = h.Flush(w)
//
// # Middleware
//
// Middleware installs a per-request Handler in the request context. Cookies
// registered through it are sent right before the response header is
// written, or when the wrapped handler returns without writing anything.
//
//	r.Use(cookie.Middleware(cookie.WithLogger(log)))
//
//	func handle(w http.ResponseWriter, r *http.Request) {
//		h, _ := cookie.FromContext(r.Context())
//		_, _ = h.Create("seen", "1")
//	}
//
// # Configuration
//
// Config is loaded from COOKIE_* environment variables with
// github.com/caarlos0/env and turned into handler options with
// NewHandlerFromConfig. Named attribute sets can be kept in a YAML file and
// loaded with LoadPresets.
//
// # Error Handling
//
// Validation and registry failures are reported with sentinel errors such
// as ErrEmptyName, ErrInvalidName, ErrSameSiteRequiresSecure, ErrAlreadyExists, ErrNotFound
// and ErrAlreadySent; use errors.Is to match them. A failed call leaves the
// cookie or registry unchanged.
package cookie
