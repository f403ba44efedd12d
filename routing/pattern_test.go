package routing

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shaogx/bocadillo/views"
)

func TestPatternCompile(t *testing.T) {
	for _, raw := range []string{"/", "/links", "/links/{code}", "/a/{x}/b/{y}", "/trailing/"} {
		p, err := newPattern(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, raw, p.raw)
	}

	for name, raw := range map[string]string{
		"no leading slash": "links",
		"empty":            "",
		"empty param":      "/links/{}",
		"duplicate param":  "/{x}/{x}",
		"partial segment":  "/links/v{code}",
		"unclosed brace":   "/links/{code",
		"nested braces":    "/links/{{code}}",
	} {
		_, err := newPattern(raw)
		require.Error(t, err, name)
	}
}

func TestPatternMatch(t *testing.T) {
	p, err := newPattern("/users/{id}/posts/{slug}")
	require.NoError(t, err)

	params, ok := p.match("/users/42/posts/hello-world")
	require.True(t, ok)
	assert.Equal(t, views.Params{"id": "42", "slug": "hello-world"}, params)

	// Anchored on both ends, no partial matches.
	for _, path := range []string{
		"/users/42/posts",
		"/users/42/posts/hello/extra",
		"/prefix/users/42/posts/hello",
		"/users//posts/hello",
		"/members/42/posts/hello",
		"users/42/posts/hello",
	} {
		_, ok := p.match(path)
		assert.False(t, ok, path)
	}
}

func TestPatternMatchRoot(t *testing.T) {
	p, err := newPattern("/")
	require.NoError(t, err)

	params, ok := p.match("/")
	require.True(t, ok)
	assert.Empty(t, params)

	_, ok = p.match("/anything")
	assert.False(t, ok)
}

func TestPatternMatchLiteralOnly(t *testing.T) {
	p, err := newPattern("/links")
	require.NoError(t, err)

	params, ok := p.match("/links")
	require.True(t, ok)
	assert.Empty(t, params)

	_, ok = p.match("/links/abc")
	assert.False(t, ok)
}

func TestPatternExpand(t *testing.T) {
	p, err := newPattern("/users/{id}")
	require.NoError(t, err)

	url, err := p.expand(map[string]interface{}{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/users/42", url)

	// Non-string values are stringified.
	url, err = p.expand(map[string]interface{}{"id": 7})
	require.NoError(t, err)
	assert.Equal(t, "/users/7", url)

	// Unused entries are ignored.
	url, err = p.expand(map[string]interface{}{"id": "42", "extra": "x"})
	require.NoError(t, err)
	assert.Equal(t, "/users/42", url)

	// A missing value is an error, never a silent truncation.
	_, err = p.expand(map[string]interface{}{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingParameter))
}

func TestPatternRoundTrip(t *testing.T) {
	p, err := newPattern("/users/{id}")
	require.NoError(t, err)

	url, err := p.expand(map[string]interface{}{"id": "42"})
	require.NoError(t, err)

	params, ok := p.match(url)
	require.True(t, ok)
	assert.Equal(t, views.Params{"id": "42"}, params)
}
