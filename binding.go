package wirebind

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"

	"github.com/wirebind/wirebind/urlenc"
)

// RequestBinding converts typed request values to and from wire requests.
// Both directions are pure functions and safe for concurrent use.
type RequestBinding[Req any] struct {
	core *endpointCore
}

// ToWire builds the wire request for req against the chosen path template.
// Template choice is version negotiation, which is the caller's concern;
// Metadata.Template supplies the options.
func (b RequestBinding[Req]) ToWire(req Req, tmpl *Template) (*http.Request, error) {
	if tmpl == nil {
		return nil, fmt.Errorf("wirebind: no path template chosen for endpoint %q", b.core.meta.Name)
	}
	fs := b.core.request
	rv, err := messageValue(reflect.ValueOf(req))
	if err != nil {
		return nil, err
	}

	vars := make(map[string]string, len(fs.path))
	for _, f := range fs.path {
		s, err := urlenc.ScalarString(rv.Field(f.index).Interface())
		if err != nil {
			return nil, fmt.Errorf("wirebind: path field %q: %w", f.name, err)
		}
		vars[f.name] = s
	}
	escapedPath, err := tmpl.Expand(vars)
	if err != nil {
		return nil, fmt.Errorf("wirebind: %w", err)
	}
	// Expand escapes by construction, so unescaping cannot fail.
	path, _ := url.PathUnescape(escapedPath)

	query, err := encodeQuery(rv, fs)
	if err != nil {
		return nil, err
	}
	header, err := encodeHeaders(rv, fs)
	if err != nil {
		return nil, err
	}
	body, contentType, err := b.core.encodeBody(rv, fs)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	return &http.Request{
		Method:        b.core.meta.Method,
		URL:           &url.URL{Path: path, RawPath: escapedPath, RawQuery: string(urlenc.EncodePairs(query))},
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}, nil
}

// FromWire decodes a wire request into a typed value. Failures are
// per-call and recoverable; they never panic.
func (b RequestBinding[Req]) FromWire(r *http.Request) (Req, error) {
	var zero Req
	fs := b.core.request
	pv := reflect.New(fs.typ)
	rv := pv.Elem()

	if len(fs.path) > 0 {
		// EscapedPath keeps percent escapes intact, so Match sees one
		// segment per placeholder even when a value contains a slash.
		vars, ok := matchPath(b.core.meta, r.URL.EscapedPath())
		if !ok {
			return zero, decodeErr(CodeMissingField, "", "path %q matches no template of endpoint %q", r.URL.Path, b.core.meta.Name)
		}
		for _, f := range fs.path {
			val, ok := vars[f.name]
			if !ok {
				return zero, decodeErr(CodeMissingField, f.name, "path placeholder is absent")
			}
			if err := urlenc.DecodeValue(urlenc.GroupOf(val), rv.Field(f.index).Addr().Interface()); err != nil {
				return zero, wrapDecodeErr(CodeInvalidValue, f.name, err)
			}
		}
	}

	if err := decodeQuery(rv, fs, r.URL.RawQuery); err != nil {
		return zero, err
	}
	if err := decodeHeaders(rv, fs, r.Header); err != nil {
		return zero, err
	}
	if err := b.core.decodeBody(rv, fs, r.Body); err != nil {
		return zero, err
	}

	if err := validate.Struct(pv.Interface()); err != nil {
		return zero, validationError(err)
	}
	return asMessage[Req](pv), nil
}

// ResponseBinding converts typed response values to and from wire
// responses. Responses carry no query or path data, only headers and a
// body.
type ResponseBinding[Res any] struct {
	core *endpointCore
}

// ToWire builds a success response for res.
func (b ResponseBinding[Res]) ToWire(res Res) (*http.Response, error) {
	fs := b.core.response
	rv, err := messageValue(reflect.ValueOf(res))
	if err != nil {
		return nil, err
	}

	header, err := encodeHeaders(rv, fs)
	if err != nil {
		return nil, err
	}
	body, contentType, err := b.core.encodeBody(rv, fs)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}

	return &http.Response{
		StatusCode:    http.StatusOK,
		Status:        http.StatusText(http.StatusOK),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}, nil
}

// FromWire decodes a wire response into a typed value. It does not look
// at the status code; Endpoint.DecodeResponse handles status dispatch.
func (b ResponseBinding[Res]) FromWire(r *http.Response) (Res, error) {
	var zero Res
	fs := b.core.response
	pv := reflect.New(fs.typ)
	rv := pv.Elem()

	if err := decodeHeaders(rv, fs, r.Header); err != nil {
		return zero, err
	}
	if err := b.core.decodeBody(rv, fs, r.Body); err != nil {
		return zero, err
	}
	return asMessage[Res](pv), nil
}

// messageValue unwraps a message value to its struct form.
func messageValue(rv reflect.Value) (reflect.Value, error) {
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("wirebind: cannot convert a nil message")
		}
		rv = rv.Elem()
	}
	return rv, nil
}

// asMessage converts the filled struct pointer back to the message type,
// which may be the struct itself or a pointer to it.
func asMessage[T any](pv reflect.Value) T {
	var zero T
	if reflect.TypeOf(&zero).Elem().Kind() == reflect.Pointer {
		return pv.Interface().(T)
	}
	return pv.Elem().Interface().(T)
}

// matchPath tries the endpoint's templates, most stable first.
func matchPath(meta *Metadata, path string) (map[string]string, bool) {
	for _, tmpl := range meta.templates() {
		if vars, ok := tmpl.Match(path); ok {
			return vars, true
		}
	}
	return nil, false
}

// encodeQuery flattens the query fields in declaration order, then the
// querymap entries in sorted-key order, unprefixed.
func encodeQuery(rv reflect.Value, fs *fieldSet) ([]urlenc.Pair, error) {
	var pairs []urlenc.Pair
	for _, f := range fs.query {
		ps, err := urlenc.EncodeValue(f.name, rv.Field(f.index).Interface())
		if err != nil {
			return nil, fmt.Errorf("wirebind: query field %q: %w", f.name, err)
		}
		pairs = append(pairs, ps...)
	}
	if fs.queryMap != nil {
		mv := rv.Field(fs.queryMap.index)
		if mv.Len() > 0 {
			ps, err := urlenc.PairsOf(mv.Interface())
			if err != nil {
				return nil, fmt.Errorf("wirebind: querymap field %q: %w", fs.queryMap.name, err)
			}
			pairs = append(pairs, ps...)
		}
	}
	return pairs, nil
}

// decodeQuery fills the declared query fields and routes every unbound key
// into the querymap field, when one exists.
func decodeQuery(rv reflect.Value, fs *fieldSet, rawQuery string) error {
	if len(fs.query) == 0 && fs.queryMap == nil {
		return nil
	}
	vals, err := urlenc.Parse([]byte(rawQuery))
	if err != nil {
		return wrapDecodeErr(CodeInvalidValue, "", err)
	}

	for _, f := range fs.query {
		g, ok := vals.Get(f.name)
		if !ok {
			if f.optional {
				continue
			}
			return decodeErr(CodeMissingField, f.name, "required query entry is absent")
		}
		if err := urlenc.DecodeValue(g, rv.Field(f.index).Addr().Interface()); err != nil {
			return wrapDecodeErr(CodeInvalidValue, f.name, err)
		}
	}

	if fs.queryMap == nil {
		return nil
	}
	mt := fs.queryMap.typ
	out := reflect.MakeMap(mt)
	for _, key := range vals.Keys() {
		if fs.boundQueryKey(key) {
			continue
		}
		g, _ := vals.Get(key)
		ev := reflect.New(mt.Elem())
		if err := urlenc.DecodeValue(g, ev.Interface()); err != nil {
			return wrapDecodeErr(CodeInvalidValue, key, err)
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(mt.Key()), ev.Elem())
	}
	if out.Len() > 0 {
		rv.Field(fs.queryMap.index).Set(out)
	}
	return nil
}

func encodeHeaders(rv reflect.Value, fs *fieldSet) (http.Header, error) {
	header := make(http.Header)
	for _, f := range fs.header {
		fv := rv.Field(f.index)
		if f.optional && fv.IsNil() {
			continue
		}
		s, err := urlenc.ScalarString(fv.Interface())
		if err != nil {
			return nil, fmt.Errorf("wirebind: header field %q: %w", f.name, err)
		}
		header.Set(f.name, s)
	}
	return header, nil
}

func decodeHeaders(rv reflect.Value, fs *fieldSet, header http.Header) error {
	for _, f := range fs.header {
		vals := header.Values(f.name)
		if len(vals) == 0 {
			if f.optional {
				continue
			}
			return decodeErr(CodeMissingField, f.name, "required header is absent")
		}
		if err := urlenc.DecodeValue(urlenc.GroupOf(vals...), rv.Field(f.index).Addr().Interface()); err != nil {
			return wrapDecodeErr(CodeInvalidValue, f.name, err)
		}
	}
	return nil
}

// encodeBody produces the message body: the rawbody field verbatim, or the
// body-field subset through the body codec. The second return is the
// content type, empty when there is no structured body.
func (c *endpointCore) encodeBody(rv reflect.Value, fs *fieldSet) ([]byte, string, error) {
	if fs.rawBody != nil {
		return rv.Field(fs.rawBody.index).Bytes(), "", nil
	}
	if fs.bodyType == nil {
		return nil, "", nil
	}
	bv := reflect.New(fs.bodyType).Elem()
	for i, idx := range fs.bodyIndex {
		bv.Field(i).Set(rv.Field(idx))
	}
	data, err := c.codec.Marshal(bv.Interface())
	if err != nil {
		return nil, "", fmt.Errorf("wirebind: encode body: %w", err)
	}
	return data, c.codec.ContentType(), nil
}

func (c *endpointCore) decodeBody(rv reflect.Value, fs *fieldSet, body io.Reader) error {
	if fs.rawBody == nil && fs.bodyType == nil {
		return nil
	}
	data, err := readBody(body)
	if err != nil {
		return wrapDecodeErr(CodeInvalidBody, "", err)
	}
	if fs.rawBody != nil {
		rv.Field(fs.rawBody.index).SetBytes(data)
		return nil
	}
	bv := reflect.New(fs.bodyType)
	if err := c.codec.Unmarshal(data, bv.Interface()); err != nil {
		return wrapDecodeErr(CodeInvalidBody, "", err)
	}
	for i, idx := range fs.bodyIndex {
		rv.Field(idx).Set(bv.Elem().Field(i))
	}
	return nil
}

func readBody(body io.Reader) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return io.ReadAll(body)
}
