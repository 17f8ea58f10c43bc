// Package wirebind turns declarative endpoint specifications into typed
// wire bindings: given an HTTP method, versioned path templates, policy
// flags and field-level placement tags, it compiles a Metadata descriptor
// plus bidirectional converters between Go request/response values and raw
// HTTP messages.
//
// # Declaring an endpoint
//
// An endpoint is a Spec compiled against its Request and Response types.
// Field placement is declared with the `wire` struct tag; untagged fields
// travel in the structured body:
//
//	type ValidateTokenRequest struct {
//		Medium       string `wire:"path"`
//		SessionID    string `wire:"query,name=sid" validate:"required"`
//		ClientSecret string `wire:"query"`
//		Token        string `wire:"query"`
//	}
//
//	type ValidateTokenResponse struct{}
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
// Compile validates the whole definition up front: path templates, the
// lifecycle ordering, placement conflicts, and the binding between path
// fields and template placeholders. A definition error is a programmer
// error surfaced at startup; MustCompile panics on it so a broken endpoint
// can never be exercised.
//
// # Converting messages
//
// The compiled endpoint exposes its two bindings. A client picks a path
// template from the Metadata (version negotiation is the caller's
// concern), converts a value and hands the result to its transport:
//
//	req, err := ValidateToken.Request.ToWire(ValidateTokenRequest{...},
//		ValidateToken.Meta().Template(wirebind.StabilityStable))
//
// A server runs the same binding in reverse with FromWire, and
// DecodeResponse turns a non-success response into the endpoint's error
// type (APIError unless the Spec overrides it).
//
// Query-placed fields use the urlenc subpackage, a standalone codec for
// the application/x-www-form-urlencoded wire format.
//
// # Concurrency
//
// Compiled endpoints and their Metadata are immutable; every conversion is
// a pure function over its arguments. All of it is safe for unbounded
// concurrent use without locking. The only mutable structure in the
// package is the Registry, which guards itself.
//
// The package binds messages only: it performs no I/O, no retries, and no
// authentication. Transports and stability-tier negotiation are external
// collaborators working from the Metadata.
package wirebind
