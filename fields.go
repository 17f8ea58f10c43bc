package wirebind

import (
	"fmt"
	"reflect"

	"github.com/samber/lo"
	"github.com/stoewer/go-strcase"

	"github.com/wirebind/wirebind/internal/fieldtag"
)

// role distinguishes the two directions a message travels. Responses
// support fewer placements: query, querymap and path make no sense there.
type role int

const (
	roleRequest role = iota
	roleResponse
)

func (r role) String() string {
	if r == roleResponse {
		return "response"
	}
	return "request"
}

// field is one classified struct field.
type field struct {
	name      string // wire name: query/path key or header name
	index     int    // index into the struct type
	placement fieldtag.Placement
	typ       reflect.Type
	optional  bool // pointer-typed, may be absent on the wire
}

// fieldSet is the output of placement resolution for one message type.
type fieldSet struct {
	typ    reflect.Type
	body   []field // declaration order, which is payload field order
	query  []field // declaration order
	path   []field
	header []field

	queryMap *field // at most one; captures unbound query keys
	rawBody  *field // at most one; excludes body fields

	// bodyType is a generated struct type holding only the body fields,
	// used to run the body codec over the body subset. bodyIndex maps its
	// fields back to typ's field indices.
	bodyType  reflect.Type
	bodyIndex []int
}

// resolveFields classifies the fields of t by wire placement and checks
// the placement invariants. Pure validation: no side effects.
func resolveFields(t reflect.Type, r role) (*fieldSet, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, defErr(CodeInvalidType, "%s type must be a struct, got %v", r, t)
	}

	fs := &fieldSet{typ: t}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, err := fieldtag.Parse(sf.Tag.Get("wire"))
		if err != nil {
			return nil, defErr(CodeInvalidTag, "field %s.%s: %v", t.Name(), sf.Name, err)
		}
		if tag.Placement == fieldtag.Ignored {
			continue
		}

		f := field{
			name:      tag.Name,
			index:     i,
			placement: tag.Placement,
			typ:       sf.Type,
			optional:  sf.Type.Kind() == reflect.Pointer,
		}
		if f.name == "" {
			f.name = strcase.SnakeCase(sf.Name)
		}

		if r == roleResponse {
			switch tag.Placement {
			case fieldtag.Query, fieldtag.QueryMap, fieldtag.Path:
				return nil, defErr(CodeUnsupportedPlacement,
					"field %s.%s: %s placement is not allowed on a response", t.Name(), sf.Name, tag.Placement)
			}
		}

		switch tag.Placement {
		case fieldtag.Body:
			fs.body = append(fs.body, f)
		case fieldtag.Query:
			fs.query = append(fs.query, f)
		case fieldtag.QueryMap:
			if fs.queryMap != nil {
				return nil, defErr(CodeUnsupportedPlacement,
					"field %s.%s: only one querymap field is allowed", t.Name(), sf.Name)
			}
			if sf.Type.Kind() != reflect.Map || sf.Type.Key().Kind() != reflect.String {
				return nil, defErr(CodeInvalidType,
					"field %s.%s: querymap field must be a string-keyed map, got %s", t.Name(), sf.Name, sf.Type)
			}
			fs.queryMap = &f
		case fieldtag.Path:
			fs.path = append(fs.path, f)
		case fieldtag.Header:
			fs.header = append(fs.header, f)
		case fieldtag.RawBody:
			if fs.rawBody != nil {
				return nil, defErr(CodeConflictingBodyPlacement,
					"field %s.%s: only one rawbody field is allowed", t.Name(), sf.Name)
			}
			if sf.Type != reflect.TypeOf([]byte(nil)) {
				return nil, defErr(CodeInvalidType,
					"field %s.%s: rawbody field must be []byte, got %s", t.Name(), sf.Name, sf.Type)
			}
			fs.rawBody = &f
		}
	}

	if fs.rawBody != nil && len(fs.body) > 0 {
		return nil, defErr(CodeConflictingBodyPlacement,
			"%s has both a rawbody field and body fields %v", t.Name(),
			lo.Map(fs.body, func(f field, _ int) string { return f.name }))
	}

	if len(fs.body) > 0 {
		fs.bodyType, fs.bodyIndex = buildBodyType(t, fs.body)
	}
	return fs, nil
}

// buildBodyType generates a struct type containing only the body fields so
// the body codec sees exactly the payload subset, in declaration order.
// Fields without a json tag get one derived from the wire name.
func buildBodyType(t reflect.Type, body []field) (reflect.Type, []int) {
	structFields := make([]reflect.StructField, len(body))
	index := make([]int, len(body))
	for i, f := range body {
		sf := t.Field(f.index)
		tag := sf.Tag
		if _, ok := sf.Tag.Lookup("json"); !ok {
			tag = reflect.StructTag(fmt.Sprintf(`json:"%s"`, f.name))
		}
		structFields[i] = reflect.StructField{
			Name: sf.Name,
			Type: sf.Type,
			Tag:  tag,
		}
		index[i] = f.index
	}
	return reflect.StructOf(structFields), index
}

// pathNames returns the wire names of the path fields.
func (fs *fieldSet) pathNames() []string {
	return lo.Map(fs.path, func(f field, _ int) string { return f.name })
}

// boundQueryKey reports whether key is claimed by a declared query or path
// field, and so is out of reach of the querymap catch-all.
func (fs *fieldSet) boundQueryKey(key string) bool {
	return lo.SomeBy(fs.query, func(f field) bool { return f.name == key }) ||
		lo.SomeBy(fs.path, func(f field) bool { return f.name == key })
}

// checkErrorType validates an endpoint's error type: it must implement
// error and carries no placement tags, since placement is meaningless on
// the error payload.
func checkErrorType(t reflect.Type) error {
	elem := t
	for elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < elem.NumField(); i++ {
		if _, ok := elem.Field(i).Tag.Lookup("wire"); ok {
			return defErr(CodeUnsupportedPlacement,
				"placement tags are not supported on error type %s", elem.Name())
		}
	}
	return nil
}
