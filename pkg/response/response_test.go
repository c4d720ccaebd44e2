package response_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tundra/httpkit/pkg/cookie"
	"github.com/tundra/httpkit/pkg/response"
)

func render(t *testing.T, r *response.Response) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	return rec
}

func TestRender_Content(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     any
		wantBody    string
		wantType    string
		wantNoTypes bool
	}{
		{"plain text", "Hello World", "Hello World", response.ContentTypeHTML, false},
		{"json string", `["Hello World"]`, `["Hello World"]`, response.ContentTypeJSON, false},
		{"json bytes", []byte(`{"a":1}`), `{"a":1}`, response.ContentTypeJSON, false},
		{"slice", []string{"Hello World"}, `["Hello World"]`, response.ContentTypeJSON, false},
		{"map", map[string]int{"a": 1}, `{"a":1}`, response.ContentTypeJSON, false},
		{"callable", func() any { return "from func" }, "from func", response.ContentTypeHTML, false},
		{"typed callable", func() string { return "typed" }, "typed", response.ContentTypeHTML, false},
		{"callable returning slice", func() []int { return []int{1, 2} }, "[1,2]", response.ContentTypeJSON, false},
		{"nested callable", func() any { return func() any { return `{"a":1}` } }, `{"a":1}`, response.ContentTypeJSON, false},
		{"callable returning nil", func() any { return nil }, "", "", true},
		{"nil", nil, "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := render(t, response.New(tt.content))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
			if tt.wantNoTypes {
				assert.Empty(t, rec.Header().Get("Content-Type"))
			} else {
				assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			}
		})
	}
}

func TestRender_Templ(t *testing.T) {
	t.Parallel()

	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>hi</p>")
		return err
	})

	rec := render(t, response.New(component))
	assert.Equal(t, "<p>hi</p>", rec.Body.String())
	assert.Equal(t, response.ContentTypeHTML, rec.Header().Get("Content-Type"))

	failing := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return errors.New("broken")
	})
	rec = httptest.NewRecorder()
	err := response.New(failing).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Error(t, err)
	assert.False(t, rec.Flushed)
	assert.Empty(t, rec.Body.String())
}

func TestRender_Options(t *testing.T) {
	t.Parallel()

	rec := render(t, response.New("Hello World",
		response.WithStatus(http.StatusAccepted),
		response.WithHeader("Content-Type", "text/plain"),
		response.WithHeader("X-Test", "1"),
	))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "text/plain", rec.Header().Get("Content-Type"))
	assert.Equal(t, "1", rec.Header().Get("X-Test"))
}

func TestRender_Head(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, response.New("body").Render(rec, httptest.NewRequest(http.MethodHead, "/", nil)))
	assert.Empty(t, rec.Body.String())
	assert.Equal(t, response.ContentTypeHTML, rec.Header().Get("Content-Type"))
}

func TestRender_Unencodable(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := response.New(map[string]any{"ch": make(chan int)}).Render(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, response.ErrUnencodable)
}

func TestRender_Cookies(t *testing.T) {
	t.Parallel()

	h := cookie.NewHandler(cookie.WithAutoDefer(true))
	_, err := h.Create("a", "1")
	require.NoError(t, err)

	rec := render(t, response.New("ok", response.WithCookies(h)))
	assert.Equal(t, []string{"a=1; Path=/; HttpOnly; SameSite=Lax; "}, rec.Result().Header.Values("Set-Cookie"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	r := response.New("x", response.WithStatus(http.StatusTeapot), response.WithHeader("X-A", "b"))
	assert.Equal(t, http.StatusTeapot, r.Status())
	assert.Equal(t, "b", r.Header().Get("X-A"))
}
