package cookie

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/tundra/httpkit/pkg/logger"
)

// Key identifies a cookie in a Handler.
type Key struct {
	Name   string
	Path   string
	Domain string
}

// NewKey builds a key, defaulting an empty path to "/" the same way
// cookies do.
func NewKey(name, path, domain string) Key {
	if path == "" {
		path = "/"
	}
	return Key{Name: name, Path: path, Domain: domain}
}

func keyOf(c *Cookie) Key {
	return NewKey(c.Name(), c.Path(), c.Domain())
}

func (k Key) String() string {
	return k.Name + ";" + k.Path + ";" + k.Domain
}

// Handler is a registry of response cookies keyed by name, path and domain.
// It is meant to live for the duration of one request and is not safe for
// concurrent use.
type Handler struct {
	cookies   map[Key]*Cookie
	pending   []*Cookie
	defaults  []Option
	signer    *Signer
	autoDefer bool
	logger    *slog.Logger
}

type HandlerOption func(*Handler)

// WithDefaults sets attributes applied to every cookie built by Create,
// before the per-call options.
func WithDefaults(opts ...Option) HandlerOption {
	return func(h *Handler) {
		h.defaults = append(h.defaults, opts...)
	}
}

// WithSigner enables CreateSigned.
func WithSigner(s *Signer) HandlerOption {
	return func(h *Handler) {
		h.signer = s
	}
}

// WithAutoDefer marks every cookie registered through Create, Add or Update for
// sending on the next Flush.
func WithAutoDefer(enabled bool) HandlerOption {
	return func(h *Handler) {
		h.autoDefer = enabled
	}
}

// WithLogger sets the logger used for debug records. Nil is ignored.
func WithLogger(l *slog.Logger) HandlerOption {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

func NewHandler(opts ...HandlerOption) *Handler {
	h := &Handler{
		cookies: make(map[Key]*Cookie),
		logger:  logger.Nop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Create builds a cookie and registers it.
// It fails with ErrAlreadyExists when the name, path and domain are taken.
func (h *Handler) Create(name, value string, opts ...Option) (*Cookie, error) {
	all := make([]Option, 0, len(h.defaults)+len(opts))
	all = append(all, h.defaults...)
	all = append(all, opts...)

	c, err := New(name, value, all...)
	if err != nil {
		return nil, err
	}

	key := keyOf(c)
	if _, ok := h.cookies[key]; ok {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, key)
	}

	h.store(key, c)
	h.logger.Debug("cookie created", slog.Any("cookie", c))
	return c, nil
}

// CreateSigned is Create with the value signed by the handler's Signer.
func (h *Handler) CreateSigned(name, value string, opts ...Option) (*Cookie, error) {
	if h.signer == nil {
		return nil, ErrNoSigner
	}
	return h.Create(name, h.signer.Sign(value), opts...)
}

// Add registers a cookie built by the caller. The handler keeps the pointer.
func (h *Handler) Add(c *Cookie) error {
	if c == nil {
		return ErrNilCookie
	}

	key := keyOf(c)
	if _, ok := h.cookies[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, key)
	}

	h.store(key, c)
	h.logger.Debug("cookie added", slog.Any("cookie", c))
	return nil
}

func (h *Handler) store(key Key, c *Cookie) {
	if h.autoDefer {
		c.Defer(true)
	}
	h.cookies[key] = c
}

// Get returns the registered cookie or ErrNotFound.
func (h *Handler) Get(name, path, domain string) (*Cookie, error) {
	key := NewKey(name, path, domain)
	c, ok := h.cookies[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return c, nil
}

// Cookie is an alias for Get.
func (h *Handler) Cookie(name, path, domain string) (*Cookie, error) {
	return h.Get(name, path, domain)
}

func (h *Handler) Has(name, path, domain string) bool {
	_, ok := h.cookies[NewKey(name, path, domain)]
	return ok
}

func (h *Handler) Len() int {
	return len(h.cookies)
}

// All returns the registered cookies ordered by key.
func (h *Handler) All() []*Cookie {
	keys := make([]Key, 0, len(h.cookies))
	for k := range h.cookies {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		return strings.Compare(a.String(), b.String())
	})

	out := make([]*Cookie, 0, len(keys))
	for _, k := range keys {
		out = append(out, h.cookies[k])
	}
	return out
}

// Update replaces the entry matching the cookie's current name, path and
// domain. It fails with ErrNotFound when there is no such entry. With
// auto-defer on, the replacement is deferred like a created cookie.
func (h *Handler) Update(c *Cookie) error {
	if c == nil {
		return ErrNilCookie
	}

	key := keyOf(c)
	if _, ok := h.cookies[key]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	h.store(key, c)
	h.logger.Debug("cookie updated", slog.Any("cookie", c))
	return nil
}

// Destroy expires a registered cookie and marks it for the next Flush.
// When deferred is false the entry is removed right away; otherwise the
// expired cookie stays registered until the caller sends it.
func (h *Handler) Destroy(name, path, domain string, deferred bool) error {
	key := NewKey(name, path, domain)
	c, ok := h.cookies[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	c.Defer(true)
	c.Expire()

	if !deferred {
		delete(h.cookies, key)
		h.pending = append(h.pending, c)
	}

	h.logger.Debug("cookie destroyed", slog.Any("cookie", c), slog.Bool("deferred", deferred))
	return nil
}

// Flush sends every deferred cookie that has not been sent yet, including
// cookies already removed by Destroy. Calling it again only sends cookies
// deferred since the previous call.
func (h *Handler) Flush(w HeaderWriter) error {
	var errs []error
	sent := 0

	send := func(c *Cookie) {
		if !c.Deferred() || c.Sent() {
			return
		}
		if err := c.Send(w); err != nil {
			errs = append(errs, err)
			return
		}
		sent++
	}

	for _, c := range h.pending {
		send(c)
	}
	h.pending = nil

	for _, c := range h.All() {
		send(c)
	}

	if sent > 0 {
		h.logger.Debug("cookies flushed", slog.Int("count", sent))
	}
	return errors.Join(errs...)
}

func (h *Handler) unsent() int {
	n := 0
	for _, c := range h.pending {
		if c.Deferred() && !c.Sent() {
			n++
		}
	}
	for _, c := range h.cookies {
		if c.Deferred() && !c.Sent() {
			n++
		}
	}
	return n
}
