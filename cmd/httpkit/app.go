package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tundra/httpkit/pkg/cookie"
	"github.com/tundra/httpkit/pkg/httpserver"
	"github.com/tundra/httpkit/pkg/logger"
	"github.com/tundra/httpkit/pkg/request"
	"github.com/tundra/httpkit/pkg/response"
)

type app struct {
	logger  *slog.Logger
	cookies []cookie.HandlerOption
	presets cookie.Presets
}

func newApp(cfg cookie.Config, log *slog.Logger) (*app, error) {
	hopts, err := cfg.HandlerOptions(log)
	if err != nil {
		return nil, err
	}
	presets, err := cfg.LoadPresetsFile()
	if err != nil {
		return nil, err
	}
	return &app{logger: log, cookies: hopts, presets: presets}, nil
}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := middleware.GetReqID(ctx); id != "" {
		return slog.String("request_id", id), true
	}
	return slog.Attr{}, false
}

func (a *app) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(request.MethodOverride(request.WithParameterOverride(), request.WithLogger(a.logger)))
	r.Use(cookie.Middleware(a.cookies...))

	r.Get("/healthz", httpserver.Health)
	r.Get("/cookies", a.listCookies)
	r.Put("/cookies/{name}", a.putCookie)
	r.Delete("/cookies/{name}", a.deleteCookie)

	return r
}

// listCookies echoes the request cookies together with the request URI.
func (a *app) listCookies(w http.ResponseWriter, r *http.Request) {
	values := make(map[string]string)
	for _, c := range r.Cookies() {
		v, err := request.Cookie(r, c.Name)
		if err != nil {
			continue
		}
		values[c.Name] = v
	}

	a.render(w, r, response.New(map[string]any{
		"uri":     request.URI(r),
		"method":  r.Method,
		"cookies": values,
	}))
}

func (a *app) putCookie(w http.ResponseWriter, r *http.Request) {
	h, _ := cookie.FromContext(r.Context())
	name := chi.URLParam(r, "name")

	value := r.FormValue("value")
	preset := r.FormValue("preset")

	var (
		c   *cookie.Cookie
		err error
	)
	if preset != "" {
		c, err = a.presets.Create(h, preset, name, value)
	} else {
		c, err = h.Create(name, value)
	}
	if err != nil {
		a.fail(w, r, http.StatusUnprocessableEntity, err)
		return
	}

	a.render(w, r, response.New(c.ToMap(), response.WithStatus(http.StatusCreated)))
}

// deleteCookie expires the named cookie on the client. The cookie is not in
// this request's registry yet, so it is registered first and destroyed
// right away.
func (a *app) deleteCookie(w http.ResponseWriter, r *http.Request) {
	h, _ := cookie.FromContext(r.Context())
	name := chi.URLParam(r, "name")
	path := r.URL.Query().Get("path")
	domain := r.URL.Query().Get("domain")

	if !h.Has(name, path, domain) {
		if _, err := h.Create(name, "", cookie.WithPath(path), cookie.WithDomain(domain)); err != nil {
			a.fail(w, r, http.StatusUnprocessableEntity, err)
			return
		}
	}
	if err := h.Destroy(name, path, domain, false); err != nil {
		a.fail(w, r, http.StatusNotFound, err)
		return
	}

	a.render(w, r, response.New(nil, response.WithStatus(http.StatusNoContent)))
}

func (a *app) render(w http.ResponseWriter, r *http.Request, resp *response.Response) {
	if err := resp.Render(w, r); err != nil {
		a.logger.ErrorContext(r.Context(), "render failed", logger.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (a *app) fail(w http.ResponseWriter, r *http.Request, status int, err error) {
	a.logger.WarnContext(r.Context(), "cookie request failed", logger.Error(err))
	code := "cookie_error"
	switch {
	case errors.Is(err, cookie.ErrAlreadyExists):
		code = "already_exists"
	case errors.Is(err, cookie.ErrNotFound):
		code = "not_found"
	case errors.Is(err, cookie.ErrInvalidPresets):
		code = "invalid_preset"
	case errors.Is(err, cookie.ErrInvalidName), errors.Is(err, cookie.ErrInvalidPath), errors.Is(err, cookie.ErrInvalidDomain):
		code = "invalid_attribute"
	}
	a.render(w, r, response.New(map[string]string{"error": code, "message": err.Error()}, response.WithStatus(status)))
}
