package wirebind

import (
	"fmt"
	"net/url"
	"strings"
)

// Template is a parsed path template: literal segments mixed with named
// {placeholder} segments. A Template is constructed once when its endpoint
// compiles and is read-only afterwards, so it is safe to share.
type Template struct {
	raw      string
	segments []segment
}

type segment struct {
	value       string
	placeholder bool
}

// ParseTemplate parses a path template such as
// "/_api/identity/v2/validate/{medium}/submitToken". Placeholders must
// span a whole segment.
func ParseTemplate(s string) (*Template, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("template %q must start with /", s)
	}
	t := &Template{raw: s}
	for part := range strings.SplitSeq(s[1:], "/") {
		if part == "" {
			return nil, fmt.Errorf("template %q has an empty segment", s)
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			name := part[1 : len(part)-1]
			if name == "" || strings.ContainsAny(name, "{}") {
				return nil, fmt.Errorf("template %q has a malformed placeholder %q", s, part)
			}
			t.segments = append(t.segments, segment{value: name, placeholder: true})
			continue
		}
		if strings.ContainsAny(part, "{}") {
			return nil, fmt.Errorf("template %q has a malformed placeholder %q", s, part)
		}
		t.segments = append(t.segments, segment{value: part})
	}
	return t, nil
}

// String returns the template source string.
func (t *Template) String() string { return t.raw }

// Equal reports whether two templates were parsed from the same source.
func (t *Template) Equal(other *Template) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.raw == other.raw
}

// Placeholders returns the placeholder names in template order.
func (t *Template) Placeholders() []string {
	var names []string
	for _, seg := range t.segments {
		if seg.placeholder {
			names = append(names, seg.value)
		}
	}
	return names
}

// Binds reports whether the template has a placeholder named name.
func (t *Template) Binds(name string) bool {
	for _, seg := range t.segments {
		if seg.placeholder && seg.value == name {
			return true
		}
	}
	return false
}

// Expand substitutes vars into the placeholders and returns the concrete
// path. Substituted values are path-escaped. A placeholder with no entry
// in vars is an error.
func (t *Template) Expand(vars map[string]string) (string, error) {
	var b strings.Builder
	for _, seg := range t.segments {
		b.WriteByte('/')
		if !seg.placeholder {
			b.WriteString(seg.value)
			continue
		}
		val, ok := vars[seg.value]
		if !ok {
			return "", fmt.Errorf("template %q: no value for placeholder %q", t.raw, seg.value)
		}
		b.WriteString(url.PathEscape(val))
	}
	return b.String(), nil
}

// Match checks path against the template segment by segment: literals must
// be equal, placeholders capture the (unescaped) segment value. The second
// return is false when the path does not fit.
func (t *Template) Match(path string) (map[string]string, bool) {
	if !strings.HasPrefix(path, "/") {
		return nil, false
	}
	parts := strings.Split(path[1:], "/")
	if len(parts) != len(t.segments) {
		return nil, false
	}
	vars := make(map[string]string)
	for i, seg := range t.segments {
		if !seg.placeholder {
			if parts[i] != seg.value {
				return nil, false
			}
			continue
		}
		val, err := url.PathUnescape(parts[i])
		if err != nil {
			return nil, false
		}
		vars[seg.value] = val
	}
	return vars, true
}
