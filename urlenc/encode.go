package urlenc

import (
	"encoding"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// Encode flattens v into percent-encoded pairs joined with '&'. It is the
// structural inverse of Decode: one pair per scalar field, one pair per
// element (key repeated) for a sequence field. Nil pointer fields are
// omitted; map entries are emitted in sorted-key order.
func Encode(v any) ([]byte, error) {
	pairs, err := PairsOf(v)
	if err != nil {
		return nil, err
	}
	return EncodePairs(pairs), nil
}

// PairsOf flattens v into ordered, unescaped pairs. Struct fields keep
// declaration order.
func PairsOf(v any) ([]Pair, error) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	switch {
	case isPairSlice(rv.Type()):
		pairs := make([]Pair, rv.Len())
		for i := range pairs {
			e := rv.Index(i)
			pairs[i] = Pair{Key: e.Field(0).String(), Value: e.Field(1).String()}
		}
		return pairs, nil
	case rv.Kind() == reflect.Struct:
		return structPairs(rv)
	case rv.Kind() == reflect.Map:
		return mapPairs(rv)
	default:
		return nil, newEncodeError(CodeUnsupportedType, "", "cannot encode %s as form data", rv.Type())
	}
}

// EncodePairs percent-encodes pairs and joins them on the wire.
func EncodePairs(pairs []Pair) []byte {
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return []byte(b.String())
}

// EncodeValue flattens a single field value under key: one pair for a
// scalar, one pair per element for a sequence, none for a nil pointer.
func EncodeValue(key string, v any) ([]Pair, error) {
	return appendValue(nil, key, reflect.ValueOf(v))
}

// ScalarString encodes a single leaf value to its wire string.
func ScalarString(v any) (string, error) {
	return scalarString(reflect.ValueOf(v))
}

func structPairs(v reflect.Value) ([]Pair, error) {
	var pairs []Pair
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		key, ok := fieldKey(f)
		if !ok {
			continue
		}
		var err error
		pairs, err = appendValue(pairs, key, v.Field(i))
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func mapPairs(v reflect.Value) ([]Pair, error) {
	if v.Type().Key().Kind() != reflect.String {
		return nil, newEncodeError(CodeUnsupportedType, "", "map keys must be strings, got %s", v.Type())
	}
	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	var pairs []Pair
	for _, key := range keys {
		var err error
		pairs, err = appendValue(pairs, key, v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key())))
		if err != nil {
			return nil, err
		}
	}
	return pairs, nil
}

func appendValue(pairs []Pair, key string, v reflect.Value) ([]Pair, error) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return pairs, nil
		}
		return appendValue(pairs, key, v.Elem())
	}
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() != reflect.Uint8 {
		for i := 0; i < v.Len(); i++ {
			s, err := scalarString(v.Index(i))
			if err != nil {
				return nil, withKey(err, key)
			}
			pairs = append(pairs, Pair{Key: key, Value: s})
		}
		return pairs, nil
	}
	s, err := scalarString(v)
	if err != nil {
		return nil, withKey(err, key)
	}
	return append(pairs, Pair{Key: key, Value: s}), nil
}

var textMarshalerType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()

func scalarString(v reflect.Value) (string, error) {
	t := v.Type()

	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", newEncodeError(CodeUnsupportedValue, "", "cannot encode a nil %s as a scalar", t)
		}
		return scalarString(v.Elem())
	}

	if variants := enumVariants(t); variants != nil {
		variant, ok := findVariant(variants, v.String())
		if !ok {
			return "", newEncodeError(CodeUnknownVariant, "", "%q is not a variant of %s", v.String(), t)
		}
		if variant.Payload {
			return "", newEncodeError(CodeExpectedUnitVariant, "", "variant %q of %s carries a payload", v.String(), t)
		}
		return v.String(), nil
	}

	if t.Implements(textMarshalerType) {
		text, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", newEncodeError(CodeUnsupportedValue, "", "marshal %s: %v", t, err)
		}
		return string(text), nil
	}

	switch t.Kind() {
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, t.Bits()), nil
	case reflect.String:
		return v.String(), nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes()), nil
		}
		return "", newEncodeError(CodeUnsupportedType, "", "cannot encode nested sequence %s as a scalar", t)
	case reflect.Struct:
		if i, ok := wrapperField(t); ok {
			return scalarString(v.Field(i))
		}
		return "", newEncodeError(CodeUnsupportedType, "", "cannot encode %s as a scalar", t)
	case reflect.Interface:
		if v.IsNil() {
			return "", newEncodeError(CodeUnsupportedValue, "", "cannot encode a nil interface as a scalar")
		}
		return scalarString(v.Elem())
	default:
		return "", newEncodeError(CodeUnsupportedType, "", "cannot encode %s as a scalar", t)
	}
}

// withKey fills in the key context on an encode error raised below field
// level.
func withKey(err error, key string) error {
	if ee, ok := err.(*EncodeError); ok && ee.Key == "" {
		ee.Key = key
	}
	return err
}
