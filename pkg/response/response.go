// Package response renders handler results to an http.ResponseWriter,
// choosing the encoding from the content itself.
//
// Content is handled as follows:
//
//   - templ.Component: rendered as HTML
//   - a function with no arguments and one result (func() any,
//     func() string, ...): called, the result is handled again
//   - string or []byte holding valid JSON: sent as application/json
//   - any other string or []byte: sent as text/html
//   - nil: empty body
//   - everything else: encoded as JSON
package response

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/a-h/templ"

	"github.com/tundra/httpkit/pkg/cookie"
)

const (
	ContentTypeJSON = "application/json"
	ContentTypeHTML = "text/html; charset=UTF-8"
)

var ErrUnencodable = errors.New("response.unencodable_content")

// Response is a status, headers and content rendered in one step.
type Response struct {
	content any
	status  int
	header  http.Header
	cookies *cookie.Handler
}

type Option func(*Response)

func WithStatus(status int) Option {
	return func(r *Response) { r.status = status }
}

// WithHeader sets a header, replacing earlier values.
func WithHeader(key, value string) Option {
	return func(r *Response) { r.header.Set(key, value) }
}

// WithCookies flushes the handler's deferred cookies before the response
// header is written.
func WithCookies(h *cookie.Handler) Option {
	return func(r *Response) { r.cookies = h }
}

func New(content any, opts ...Option) *Response {
	r := &Response{
		content: content,
		status:  http.StatusOK,
		header:  make(http.Header),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Response) Status() int { return r.status }

func (r *Response) Header() http.Header { return r.header }

// Render writes the response. Encoding errors are returned before anything
// is written.
func (r *Response) Render(w http.ResponseWriter, req *http.Request) error {
	body, contentType, err := r.body(req)
	if err != nil {
		return err
	}

	h := w.Header()
	for k, vs := range r.header {
		h[k] = append([]string(nil), vs...)
	}
	if contentType != "" && h.Get("Content-Type") == "" {
		h.Set("Content-Type", contentType)
	}

	if r.cookies != nil {
		if err := r.cookies.Flush(w); err != nil {
			return err
		}
	}

	w.WriteHeader(r.status)
	if len(body) == 0 || req.Method == http.MethodHead {
		return nil
	}
	_, err = w.Write(body)
	return err
}

func (r *Response) body(req *http.Request) ([]byte, string, error) {
	content := resolve(r.content)

	switch v := content.(type) {
	case nil:
		return nil, "", nil
	case templ.Component:
		var buf bytes.Buffer
		if err := v.Render(req.Context(), &buf); err != nil {
			return nil, "", fmt.Errorf("render component: %w", err)
		}
		return buf.Bytes(), ContentTypeHTML, nil
	case string:
		return textOrJSON([]byte(v))
	case []byte:
		return textOrJSON(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", errors.Join(ErrUnencodable, err)
		}
		return b, ContentTypeJSON, nil
	}
}

// resolve calls content while it is a function taking no arguments and
// returning a single value, so func() string and nested producers work too.
// templ.ComponentFunc takes arguments and is left alone.
func resolve(content any) any {
	for content != nil {
		if fn, ok := content.(func() any); ok {
			content = fn()
			continue
		}
		v := reflect.ValueOf(content)
		if v.Kind() != reflect.Func || v.IsNil() || v.Type().NumIn() != 0 || v.Type().NumOut() != 1 {
			return content
		}
		content = v.Call(nil)[0].Interface()
	}
	return content
}

func textOrJSON(b []byte) ([]byte, string, error) {
	if len(b) > 0 && json.Valid(b) {
		return b, ContentTypeJSON, nil
	}
	return b, ContentTypeHTML, nil
}
