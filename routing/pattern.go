package routing

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"

	"github.com/shaogx/bocadillo/views"
)

// segment is one path segment of a compiled pattern: either a literal to
// compare exactly, or a named placeholder binding one segment of text.
type segment struct {
	literal string
	param   string
}

// pattern is the compiled form of a URL template such as "/users/{id}".
type pattern struct {
	raw      string
	segments []segment
	params   []string
}

// newPattern compiles raw, validating its structure. Error details are
// phrased without the pattern itself; Register wraps them into a
// DeclarationError that carries it.
func newPattern(raw string) (*pattern, error) {
	if len(raw) == 0 || raw[0] != '/' {
		return nil, errors.New("must start with '/' to avoid ambiguities")
	}

	p := &pattern{raw: raw}
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw[1:], "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") && len(part) >= 2 {
			name := part[1 : len(part)-1]
			if name == "" {
				return nil, errors.New("parameter name must not be empty")
			}
			if strings.ContainsAny(name, "{}") {
				return nil, errors.Errorf("unbalanced braces in segment %q", part)
			}
			if seen[name] {
				return nil, errors.Errorf("parameter %q declared more than once", name)
			}
			seen[name] = true
			p.segments = append(p.segments, segment{param: name})
			p.params = append(p.params, name)
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return nil, errors.Errorf("a parameter must span a whole path segment, got %q", part)
		}
		p.segments = append(p.segments, segment{literal: part})
	}
	return p, nil
}

// match evaluates path against the pattern, anchored on both ends. On
// success the returned Params has exactly the pattern's placeholder names as
// keys. Pure function of its inputs.
func (p *pattern) match(path string) (views.Params, bool) {
	if len(path) == 0 || path[0] != '/' {
		return nil, false
	}
	parts := strings.Split(path[1:], "/")
	if len(parts) != len(p.segments) {
		return nil, false
	}

	params := make(views.Params, len(p.params))
	for i, seg := range p.segments {
		if seg.param != "" {
			if parts[i] == "" {
				return nil, false
			}
			params[seg.param] = parts[i]
			continue
		}
		if parts[i] != seg.literal {
			return nil, false
		}
	}
	return params, true
}

// expand substitutes the pattern's placeholders with the string form of the
// supplied values, path-escaped. Unused entries are ignored; a placeholder
// with no value fails with ErrMissingParameter.
func (p *pattern) expand(params map[string]interface{}) (string, error) {
	var b strings.Builder
	for _, seg := range p.segments {
		b.WriteByte('/')
		if seg.param == "" {
			b.WriteString(seg.literal)
			continue
		}
		value, ok := params[seg.param]
		if !ok {
			return "", errors.Wrapf(ErrMissingParameter, "pattern %q needs %q", p.raw, seg.param)
		}
		b.WriteString(url.PathEscape(fmt.Sprint(value)))
	}
	return b.String(), nil
}
