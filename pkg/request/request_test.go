package request_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tundra/httpkit/pkg/cookie"
	"github.com/tundra/httpkit/pkg/request"
)

func TestMethod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		method  string
		header  string
		query   string
		form    url.Values
		opts    []request.Option
		want    string
		wantErr error
	}{
		{name: "plain get", method: "get", want: http.MethodGet},
		{name: "override ignored on get", method: http.MethodGet, header: "DELETE", want: http.MethodGet},
		{name: "post without override", method: http.MethodPost, want: http.MethodPost},
		{name: "header override", method: http.MethodPost, header: "delete", want: http.MethodDelete},
		{name: "purge", method: http.MethodPost, header: "purge", want: request.MethodPurge},
		{name: "custom word", method: http.MethodPost, header: "lock", want: "LOCK"},
		{name: "suspicious", method: http.MethodPost, header: "DEL ETE", want: http.MethodPost, wantErr: request.ErrSuspiciousMethod},
		{name: "query ignored by default", method: http.MethodPost, query: "_method=PUT", want: http.MethodPost},
		{
			name:   "query override",
			method: http.MethodPost,
			query:  "_method=put",
			opts:   []request.Option{request.WithParameterOverride()},
			want:   http.MethodPut,
		},
		{
			name:   "form wins over query",
			method: http.MethodPost,
			query:  "_method=put",
			form:   url.Values{"_method": {"patch"}},
			opts:   []request.Option{request.WithParameterOverride()},
			want:   http.MethodPatch,
		},
		{
			name:   "header wins over form",
			method: http.MethodPost,
			header: "DELETE",
			form:   url.Values{"_method": {"patch"}},
			opts:   []request.Option{request.WithParameterOverride()},
			want:   http.MethodDelete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			target := "/"
			if tt.query != "" {
				target += "?" + tt.query
			}
			var body *strings.Reader
			if tt.form != nil {
				body = strings.NewReader(tt.form.Encode())
			} else {
				body = strings.NewReader("")
			}
			r := httptest.NewRequest(http.MethodGet, target, body)
			r.Method = tt.method
			if tt.form != nil {
				r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			}
			if tt.header != "" {
				r.Header.Set(request.MethodOverrideHeader, tt.header)
			}

			got, err := request.Method(r, tt.opts...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMethodOverride(t *testing.T) {
	t.Parallel()

	var seen string
	h := request.MethodOverride()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Method
	}))

	r := httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set(request.MethodOverrideHeader, "DELETE")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.MethodDelete, seen)
	assert.Equal(t, http.MethodPost, r.Method, "the incoming request is not mutated")

	r = httptest.NewRequest(http.MethodPost, "/", nil)
	r.Header.Set(request.MethodOverrideHeader, "B@D")
	rec = httptest.NewRecorder()
	seen = ""
	h.ServeHTTP(rec, r)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, seen)
}

func TestURI(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		requestURI string
		want       string
	}{
		{"origin form", "/a/b?x=1", "/a/b?x=1"},
		{"fragment stripped", "/a/b?x=1#frag", "/a/b?x=1"},
		{"absolute form", "http://example.com:8080/a/b?x=1", "/a/b?x=1"},
		{"absolute form without path", "http://example.com", "/"},
		{"empty falls back to url", "", "/fallback?q=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/fallback?q=2", nil)
			r.RequestURI = tt.requestURI
			assert.Equal(t, tt.want, request.URI(r))
		})
	}
}

func TestProtocolVersion(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "HTTP/1.1", request.ProtocolVersion(r))
}

func TestCookie(t *testing.T) {
	t.Parallel()

	c, err := cookie.New("greeting", "hello world/ä")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "greeting="+strings.TrimPrefix(strings.Split(c.HeaderValue(), ";")[0], "greeting="))

	v, err := request.Cookie(r, "greeting")
	require.NoError(t, err)
	assert.Equal(t, "hello world/ä", v)

	_, err = request.Cookie(r, "missing")
	require.ErrorIs(t, err, request.ErrCookieNotFound)

	r.Header.Set("Cookie", "bad=%zz")
	_, err = request.Cookie(r, "bad")
	require.ErrorIs(t, err, request.ErrInvalidCookie)
}

func TestSignedCookie(t *testing.T) {
	t.Parallel()

	signer, err := cookie.NewSigner("this-is-a-very-long-secret-key-32-chars-long")
	require.NoError(t, err)

	h := cookie.NewHandler(cookie.WithSigner(signer), cookie.WithAutoDefer(true))
	_, err = h.CreateSigned("session", "user-1")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, h.Flush(rec))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}

	v, err := request.SignedCookie(r, signer, "session")
	require.NoError(t, err)
	assert.Equal(t, "user-1", v)

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", "session=forged")
	_, err = request.SignedCookie(r, signer, "session")
	require.ErrorIs(t, err, cookie.ErrInvalidFormat)
}
