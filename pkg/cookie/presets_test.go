package cookie_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tundra/httpkit/pkg/cookie"
)

const presetsYAML = `
session:
  secure: true
  same_site: strict
  max_age: 3600
tracking:
  domain: example.com
  same_site: none
  secure: true
  partitioned: true
  http_only: false
  ttl: 24h
`

func TestLoadPresets(t *testing.T) {
	t.Parallel()

	p, err := cookie.LoadPresets(strings.NewReader(presetsYAML))
	require.NoError(t, err)
	require.Len(t, p, 2)

	h := cookie.NewHandler()

	c, err := p.Create(h, "session", "sid", "abc")
	require.NoError(t, err)
	assert.Equal(t, "Set-Cookie: sid=abc; Max-Age=3600; Path=/; HttpOnly; SameSite=Strict; Secure; ", c.Build())

	before := time.Now()
	c, err = p.Create(h, "tracking", "tid", "xyz")
	require.NoError(t, err)
	assert.False(t, c.HTTPOnly())
	assert.True(t, c.Partitioned())
	assert.Equal(t, cookie.SameSiteNone, c.SameSite())
	exp, ok := c.Expires()
	require.True(t, ok)
	assert.GreaterOrEqual(t, exp, before.Add(24*time.Hour).Unix())

	_, err = p.Create(h, "unknown", "x", "y")
	require.ErrorIs(t, err, cookie.ErrInvalidPresets)
}

func TestLoadPresets_Invalid(t *testing.T) {
	t.Parallel()

	_, err := cookie.LoadPresets(strings.NewReader("bad:\n  same_site: none\n"))
	require.ErrorIs(t, err, cookie.ErrInvalidPresets)
	require.ErrorIs(t, err, cookie.ErrSameSiteRequiresSecure)

	_, err = cookie.LoadPresets(strings.NewReader("- not\n- a map\n"))
	require.ErrorIs(t, err, cookie.ErrInvalidPresets)

	p, err := cookie.LoadPresets(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, p)
}
