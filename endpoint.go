package wirebind

import (
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Compiled is the type-erased view of a compiled endpoint, satisfied by
// every Endpoint instantiation. Registries and tooling work against it.
type Compiled interface {
	// Meta returns the endpoint's immutable descriptor.
	Meta() *Metadata
	// RequestType returns the Go type of the request message.
	RequestType() reflect.Type
	// ResponseType returns the Go type of the response message.
	ResponseType() reflect.Type
	// ErrorType returns the Go type decoded from non-success responses.
	ErrorType() reflect.Type
}

// endpointCore is the compiled state shared by an Endpoint and its two
// bindings. Immutable after Compile returns, apart from the body codec
// which may be swapped during startup configuration.
type endpointCore struct {
	meta      *Metadata
	request   *fieldSet
	response  *fieldSet
	errorType reflect.Type // struct type; *errorType implements error
	codec     BodyCodec
}

// Endpoint is a compiled endpoint definition: the Metadata descriptor plus
// the typed Request and Response wire bindings.
//
// Endpoints are compiled once, typically as package-level variables:
//
//	var ValidateToken = wirebind.MustCompile[ValidateTokenRequest, ValidateTokenResponse](wirebind.Spec{
//		Name:           "validate_token",
//		Description:    "Validate ownership of a token submitted by the end user.",
//		Method:         http.MethodGet,
//		StablePath:     "/_api/identity/v2/validate/{medium}/submitToken",
//		Authentication: wirebind.AuthAccessToken,
//		Added:          "1.0",
//	})
//
// All methods are safe for concurrent use.
type Endpoint[Req any, Res any] struct {
	// Request converts Req values to and from wire requests.
	Request RequestBinding[Req]
	// Response converts Res values to and from wire responses.
	Response ResponseBinding[Res]

	core *endpointCore
}

// Compile validates spec against the Req and Res types and builds the
// endpoint. All definition checks happen here, exactly once; a spec that
// compiles can convert messages without further definition errors.
func Compile[Req any, Res any](spec Spec) (*Endpoint[Req, Res], error) {
	fail := func(err error) (*Endpoint[Req, Res], error) {
		if de, ok := err.(*DefinitionError); ok && de.Endpoint == "" {
			de.Endpoint = spec.Name
		}
		return nil, err
	}

	if spec.Name == "" {
		return fail(defErr(CodeNoName, "endpoint name is required"))
	}
	if spec.Method == "" {
		return fail(defErr(CodeNoMethod, "HTTP method is required"))
	}

	meta := &Metadata{
		Name:           spec.Name,
		Description:    spec.Description,
		Method:         spec.Method,
		Authentication: spec.Authentication,
		RateLimited:    spec.RateLimited,
	}
	if meta.Authentication == "" {
		meta.Authentication = AuthNone
	}

	declared := false
	for _, p := range []struct {
		raw string
		dst **Template
	}{
		{spec.UnstablePath, &meta.UnstablePath},
		{spec.R0Path, &meta.R0Path},
		{spec.StablePath, &meta.StablePath},
	} {
		if p.raw == "" {
			continue
		}
		t, err := ParseTemplate(p.raw)
		if err != nil {
			return fail(defErr(CodeInvalidTemplate, "%v", err))
		}
		*p.dst = t
		declared = true
	}
	if !declared {
		return fail(defErr(CodeNoPath, "at least one path template is required"))
	}

	lc, err := parseLifecycle(spec)
	if err != nil {
		return fail(err)
	}
	meta.Lifecycle = lc

	var reqZero Req
	reqFields, err := resolveFields(reflect.TypeOf(&reqZero).Elem(), roleRequest)
	if err != nil {
		return fail(err)
	}
	var resZero Res
	resFields, err := resolveFields(reflect.TypeOf(&resZero).Elem(), roleResponse)
	if err != nil {
		return fail(err)
	}

	if err := checkPathBinding(meta, reqFields); err != nil {
		return fail(err)
	}

	errType := reflect.TypeOf((*APIError)(nil))
	if spec.ErrorType != nil {
		errType = reflect.TypeOf(spec.ErrorType)
	}
	if err := checkErrorType(errType); err != nil {
		return fail(err)
	}
	for errType.Kind() == reflect.Pointer {
		errType = errType.Elem()
	}
	if !reflect.PointerTo(errType).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		return fail(defErr(CodeInvalidType, "error type *%s does not implement error", errType))
	}

	core := &endpointCore{
		meta:      meta,
		request:   reqFields,
		response:  resFields,
		errorType: errType,
		codec:     JSONBodyCodec,
	}
	return &Endpoint[Req, Res]{
		Request:  RequestBinding[Req]{core: core},
		Response: ResponseBinding[Res]{core: core},
		core:     core,
	}, nil
}

// MustCompile is Compile for package-level endpoint variables: a broken
// definition is a programmer error, so it panics instead of returning it.
func MustCompile[Req any, Res any](spec Spec) *Endpoint[Req, Res] {
	e, err := Compile[Req, Res](spec)
	if err != nil {
		panic(fmt.Sprintf("wirebind: MustCompile(%q): %v", spec.Name, err))
	}
	return e
}

// checkPathBinding ties path fields and template placeholders together:
// every path field must appear in every declared template, and every
// placeholder must be fillable from a path field.
func checkPathBinding(meta *Metadata, req *fieldSet) error {
	for _, tmpl := range meta.templates() {
		for _, f := range req.path {
			if !tmpl.Binds(f.name) {
				return defErr(CodeUnboundPathField,
					"path field %q has no placeholder in template %q", f.name, tmpl)
			}
		}
		for _, name := range tmpl.Placeholders() {
			bound := false
			for _, f := range req.path {
				if f.name == name {
					bound = true
					break
				}
			}
			if !bound {
				return defErr(CodeUnboundPlaceholder,
					"placeholder %q in template %q matches no path field", name, tmpl)
			}
		}
	}
	return nil
}

// WithBodyCodec swaps the codec used for structured body payloads. Like
// compilation itself this is startup configuration, not per-call state.
func (e *Endpoint[Req, Res]) WithBodyCodec(codec BodyCodec) *Endpoint[Req, Res] {
	e.core.codec = codec
	return e
}

// Meta returns the endpoint's immutable descriptor.
func (e *Endpoint[Req, Res]) Meta() *Metadata { return e.core.meta }

// RequestType returns the Go type of the request message.
func (e *Endpoint[Req, Res]) RequestType() reflect.Type { return e.core.request.typ }

// ResponseType returns the Go type of the response message.
func (e *Endpoint[Req, Res]) ResponseType() reflect.Type { return e.core.response.typ }

// ErrorType returns the Go type decoded from non-success responses.
func (e *Endpoint[Req, Res]) ErrorType() reflect.Type { return e.core.errorType }

// DecodeResponse dispatches on the response status: success decodes the
// typed response, anything else decodes the endpoint's error type and
// returns it as the error.
func (e *Endpoint[Req, Res]) DecodeResponse(r *http.Response) (Res, error) {
	if r.StatusCode >= 200 && r.StatusCode < 300 {
		return e.Response.FromWire(r)
	}
	var zero Res
	body, err := readBody(r.Body)
	if err != nil {
		return zero, wrapDecodeErr(CodeInvalidBody, "", err)
	}
	ev := reflect.New(e.core.errorType)
	if err := e.core.codec.Unmarshal(body, ev.Interface()); err != nil {
		// The body is not the declared error shape. Fall back to a
		// status-derived error so the caller still sees the failure.
		return zero, Errorf(codeForStatus(r.StatusCode), "%s: %s", http.StatusText(r.StatusCode), body)
	}
	return zero, ev.Interface().(error)
}
