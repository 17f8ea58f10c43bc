package urlenc

import (
	"encoding"
	"io"
	"reflect"
	"strconv"

	"github.com/stoewer/go-strcase"
)

// Decode parses data and decodes the grouped entries into dst, which must
// be a non-nil pointer to a struct, a string-keyed map, or a pair slice.
//
// Struct fields decode under the key given by their `urlenc` tag, or the
// snake_case form of the field name when untagged; a tag of "-" skips the
// field. Keys that match no field are ignored, except that a struct with
// no decodable fields asserts the input is empty (CodeUnexpectedData).
func Decode(data []byte, dst any) error {
	vals, err := Parse(data)
	if err != nil {
		return err
	}
	return DecodeValues(vals, dst)
}

// DecodeString is Decode over a string input.
func DecodeString(s string, dst any) error {
	return Decode([]byte(s), dst)
}

// DecodeReader reads r to EOF and decodes the result.
func DecodeReader(r io.Reader, dst any) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return newError(CodeMalformed, "", "read input: %v", err)
	}
	return Decode(data, dst)
}

// DecodeValues decodes already-parsed values into dst. See Decode.
func DecodeValues(vals Values, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newError(CodeShapeMismatch, "", "decode target must be a non-nil pointer, got %T", dst)
	}
	elem := rv.Elem()
	switch {
	case isPairSlice(elem.Type()):
		return decodePairs(vals, elem)
	case elem.Kind() == reflect.Struct:
		return decodeStruct(vals, elem)
	case elem.Kind() == reflect.Map:
		return decodeMap(vals, elem)
	default:
		return newError(CodeShapeMismatch, "", "cannot decode form data into %s", elem.Type())
	}
}

// DecodeValue decodes a single group into dst, a non-nil pointer to a
// scalar, sequence, or wrapper type. This is the leaf decoding used for
// one field's worth of wire data.
func DecodeValue(g Group, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return newError(CodeShapeMismatch, "", "decode target must be a non-nil pointer, got %T", dst)
	}
	return decodeGroup(g, rv.Elem(), "")
}

// isPairSlice reports whether t is a slice of Pair or of a Pair-shaped
// struct (exactly two string fields).
func isPairSlice(t reflect.Type) bool {
	if t.Kind() != reflect.Slice {
		return false
	}
	e := t.Elem()
	if e == reflect.TypeOf(Pair{}) {
		return true
	}
	return e.Kind() == reflect.Struct && e.NumField() == 2 &&
		e.Field(0).Type.Kind() == reflect.String &&
		e.Field(1).Type.Kind() == reflect.String
}

// decodePairs flattens the groups into the pair slice, sorted-key order.
func decodePairs(vals Values, v reflect.Value) error {
	out := reflect.MakeSlice(v.Type(), 0, vals.Len())
	for _, p := range vals.Pairs() {
		e := reflect.New(v.Type().Elem()).Elem()
		e.Field(0).SetString(p.Key)
		e.Field(1).SetString(p.Value)
		out = reflect.Append(out, e)
	}
	v.Set(out)
	return nil
}

func decodeStruct(vals Values, v reflect.Value) error {
	fields := make(map[string]int)
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
		fields[key] = i
	}
	if len(fields) == 0 {
		// A field-less struct is the unit target: it asserts no data.
		if vals.Len() > 0 {
			return newError(CodeUnexpectedData, vals.Keys()[0], "unexpected entries for empty target %s", t)
		}
		return nil
	}
	for _, key := range vals.Keys() {
		i, ok := fields[key]
		if !ok {
			continue
		}
		g, _ := vals.Get(key)
		if err := decodeGroup(g, v.Field(i), key); err != nil {
			return err
		}
	}
	return nil
}

// fieldKey resolves the wire key for a struct field.
func fieldKey(f reflect.StructField) (string, bool) {
	if tag, ok := f.Tag.Lookup("urlenc"); ok {
		if tag == "-" {
			return "", false
		}
		return tag, true
	}
	return strcase.SnakeCase(f.Name), true
}

func decodeMap(vals Values, v reflect.Value) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return newError(CodeShapeMismatch, "", "map target must have string keys, got %s", t)
	}
	out := reflect.MakeMapWithSize(t, vals.Len())
	for _, key := range vals.Keys() {
		g, _ := vals.Get(key)
		ev := reflect.New(t.Elem()).Elem()
		if err := decodeGroup(g, ev, key); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
	}
	v.Set(out)
	return nil
}

// decodeGroup decodes one key's group into v: a sequence target takes all
// values, a scalar target takes exactly one. A sequence-shaped group never
// narrows into a scalar target.
func decodeGroup(g Group, v reflect.Value, key string) error {
	if v.Kind() == reflect.Slice && v.Type().Elem().Kind() != reflect.Uint8 {
		out := reflect.MakeSlice(v.Type(), 0, len(g.Seq()))
		for _, s := range g.Seq() {
			ev := reflect.New(v.Type().Elem()).Elem()
			if err := decodeScalar(s, ev, key); err != nil {
				return err
			}
			out = reflect.Append(out, ev)
		}
		v.Set(out)
		return nil
	}
	if g.IsSeq() {
		return newError(CodeShapeMismatch, key, "got %d values for single-valued target %s", len(g.Seq()), v.Type())
	}
	return decodeScalar(g.Scalar(), v, key)
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

// decodeScalar decodes a single string value into v.
func decodeScalar(s string, v reflect.Value, key string) error {
	t := v.Type()

	// An entry that exists is always present: optionals wrap, never nil.
	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			v.Set(reflect.New(t.Elem()))
		}
		return decodeScalar(s, v.Elem(), key)
	}

	if variants := enumVariants(t); variants != nil {
		variant, ok := findVariant(variants, s)
		if !ok {
			return newError(CodeUnknownVariant, key, "%q is not a variant of %s", s, t)
		}
		if variant.Payload {
			return newError(CodeExpectedUnitVariant, key, "variant %q of %s carries a payload", s, t)
		}
		v.SetString(s)
		return nil
	}

	if reflect.PointerTo(t).Implements(textUnmarshalerType) && v.CanAddr() {
		um := v.Addr().Interface().(encoding.TextUnmarshaler)
		if err := um.UnmarshalText([]byte(s)); err != nil {
			return newError(CodeInvalidScalar, key, "unmarshal %s: %v", t, err)
		}
		return nil
	}

	switch t.Kind() {
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return newError(CodeInvalidScalar, key, "%q is not a bool", s)
		}
		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, t.Bits())
		if err != nil {
			return newError(CodeInvalidScalar, key, "%q is not a valid %s", s, t.Kind())
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, t.Bits())
		if err != nil {
			return newError(CodeInvalidScalar, key, "%q is not a valid %s", s, t.Kind())
		}
		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(s, t.Bits())
		if err != nil {
			return newError(CodeInvalidScalar, key, "%q is not a valid %s", s, t.Kind())
		}
		v.SetFloat(f)
	case reflect.String:
		v.SetString(s)
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			v.SetBytes([]byte(s))
			return nil
		}
		return newError(CodeShapeMismatch, key, "cannot decode a scalar into %s", t)
	case reflect.Struct:
		// Single-field wrappers are transparent.
		if i, ok := wrapperField(t); ok {
			return decodeScalar(s, v.Field(i), key)
		}
		return newError(CodeShapeMismatch, key, "cannot decode a scalar into %s", t)
	case reflect.Interface:
		if t.NumMethod() == 0 {
			v.Set(reflect.ValueOf(s))
			return nil
		}
		return newError(CodeShapeMismatch, key, "cannot decode a scalar into %s", t)
	default:
		return newError(CodeShapeMismatch, key, "cannot decode a scalar into %s", t)
	}
	return nil
}

// wrapperField returns the index of the sole exported field of t, if t has
// exactly one.
func wrapperField(t reflect.Type) (int, bool) {
	idx, found := -1, false
	for i := 0; i < t.NumField(); i++ {
		if !t.Field(i).IsExported() {
			continue
		}
		if found {
			return -1, false
		}
		idx, found = i, true
	}
	return idx, found
}
