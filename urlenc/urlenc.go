// Package urlenc implements the application/x-www-form-urlencoded wire
// format as a typed codec: a flat, ordered sequence of percent-encoded
// key/value pairs on the wire, structs, maps and pair slices in Go.
//
// Decoding groups the raw pairs by key in byte-wise lexicographic order.
// A key that appears once holds a single value; a repeated key is promoted
// to a sequence that preserves the encounter order of its values. Targets
// therefore see pairs in sorted-key order, never in input order:
//
//	var meal []urlenc.Pair
//	urlenc.DecodeString("bread=baguette&cheese=comt%C3%A9&meat=ham&fat=butter", &meal)
//	// [{bread baguette} {cheese comté} {fat butter} {meat ham}]
//
// Both directions are single-pass and atomic: either the whole input
// converts, or the call fails with a typed error and no partial result.
// All functions are pure and safe for concurrent use.
package urlenc

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Pair is a single key/value entry, decoded form.
type Pair struct {
	Key   string
	Value string
}

// Group holds the accumulated values for one key: a scalar for a key seen
// once, a sequence for a repeated key. Values keep encounter order.
type Group struct {
	values []string
}

// GroupOf builds a Group directly from values. Useful for feeding single
// header or path values through the same leaf decoding as query data.
func GroupOf(values ...string) Group {
	return Group{values: values}
}

// IsSeq reports whether the key occurred more than once.
func (g Group) IsSeq() bool { return len(g.values) > 1 }

// Scalar returns the first (for a scalar group, only) value.
func (g Group) Scalar() string {
	if len(g.values) == 0 {
		return ""
	}
	return g.values[0]
}

// Seq returns all values in encounter order.
func (g Group) Seq() []string { return g.values }

// Values is the grouped form of one decoded input: keys in byte-wise
// lexicographic order, each mapped to its scalar-or-sequence Group.
// The zero value is empty and ready to use.
type Values struct {
	groups map[string]Group
	keys   []string
}

// Len returns the number of distinct keys.
func (v Values) Len() int { return len(v.keys) }

// Keys returns the keys in sorted order. The returned slice must not be
// modified.
func (v Values) Keys() []string { return v.keys }

// Get returns the group for key.
func (v Values) Get(key string) (Group, bool) {
	g, ok := v.groups[key]
	return g, ok
}

// Pairs flattens the groups back into pairs, keys sorted, values of a
// repeated key in encounter order.
func (v Values) Pairs() []Pair {
	var pairs []Pair
	for _, k := range v.keys {
		for _, val := range v.groups[k].values {
			pairs = append(pairs, Pair{Key: k, Value: val})
		}
	}
	return pairs
}

// Parse percent-decodes data into pairs and groups them by key. Malformed
// percent escapes and invalid UTF-8 fail with CodeMalformed.
func Parse(data []byte) (Values, error) {
	vals := Values{groups: make(map[string]Group)}
	for seg := range strings.SplitSeq(string(data), "&") {
		if seg == "" {
			continue
		}
		rawKey, rawVal, _ := strings.Cut(seg, "=")
		key, err := unescape(rawKey)
		if err != nil {
			return Values{}, newError(CodeMalformed, rawKey, "%v", err)
		}
		val, err := unescape(rawVal)
		if err != nil {
			return Values{}, newError(CodeMalformed, key, "%v", err)
		}
		if !utf8.ValidString(key) || !utf8.ValidString(val) {
			return Values{}, newError(CodeMalformed, key, "invalid UTF-8")
		}
		g, ok := vals.groups[key]
		if !ok {
			vals.keys = append(vals.keys, key)
		}
		g.values = append(g.values, val)
		vals.groups[key] = g
	}
	sort.Strings(vals.keys)
	return vals, nil
}

// unescape reverses form encoding: '+' is space, %XX is a byte.
func unescape(s string) (string, error) {
	if !strings.ContainsAny(s, "%+") {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if i+2 >= len(s) {
				return "", errTruncatedEscape
			}
			hi, lo := unhex(s[i+1]), unhex(s[i+2])
			if hi < 0 || lo < 0 {
				return "", errBadEscape
			}
			b.WriteByte(byte(hi<<4 | lo))
			i += 2
		default:
			b.WriteByte(c)
		}
	}
	return b.String(), nil
}

func unhex(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'f':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}
