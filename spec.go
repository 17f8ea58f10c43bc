package wirebind

import (
	"github.com/blang/semver/v4"
)

// AuthScheme says how a request to an endpoint must prove identity.
// Enforcement is the transport's concern; the compiler only records it.
type AuthScheme string

const (
	// AuthNone requires no authentication.
	AuthNone AuthScheme = "none"
	// AuthAccessToken requires a user access token.
	AuthAccessToken AuthScheme = "access_token"
	// AuthServerSignature requires a server-to-server signature.
	AuthServerSignature AuthScheme = "server_signature"
)

// Stability identifies one tier of an endpoint's path history.
type Stability string

const (
	StabilityUnstable Stability = "unstable"
	StabilityR0       Stability = "r0"
	StabilityStable   Stability = "stable"
)

// Spec declares one endpoint. It is plain data: Compile validates it and
// turns it into an Endpoint, after which the Spec plays no further part.
//
// Field placement of the Request and Response types is declared with the
// `wire` struct tag: body (the default), query, querymap, path, header,
// rawbody, or "-", optionally with a name=... override. At least one of
// the three path templates must be set.
type Spec struct {
	// Name identifies the endpoint, e.g. "validate_token".
	Name string

	// Description is prose for tooling and generated documentation.
	Description string

	// Method is the HTTP verb.
	Method string

	// Path templates per stability tier. Empty means the endpoint does not
	// exist at that tier.
	UnstablePath string
	R0Path       string
	StablePath   string

	// Lifecycle version markers, e.g. "1.1". When set they must be
	// non-decreasing in the order added, deprecated, removed.
	Added      string
	Deprecated string
	Removed    string

	Authentication AuthScheme
	RateLimited    bool

	// ErrorType is a prototype of the error value decoded from
	// non-success responses. Defaults to *APIError. Its type must
	// implement error and carry no wire placement tags.
	ErrorType error
}

// Lifecycle carries the parsed version markers of an endpoint. A nil
// entry means the marker was not declared.
type Lifecycle struct {
	Added      *semver.Version
	Deprecated *semver.Version
	Removed    *semver.Version
}

// parseLifecycle parses and orders the spec's version markers.
func parseLifecycle(spec Spec) (Lifecycle, error) {
	var lc Lifecycle
	for _, m := range []struct {
		name string
		raw  string
		dst  **semver.Version
	}{
		{"added", spec.Added, &lc.Added},
		{"deprecated", spec.Deprecated, &lc.Deprecated},
		{"removed", spec.Removed, &lc.Removed},
	} {
		if m.raw == "" {
			continue
		}
		v, err := semver.ParseTolerant(m.raw)
		if err != nil {
			return Lifecycle{}, defErr(CodeInvalidLifecycle, "%s version %q: %v", m.name, m.raw, err)
		}
		*m.dst = &v
	}
	if lc.Added != nil && lc.Deprecated != nil && lc.Added.GT(*lc.Deprecated) {
		return Lifecycle{}, defErr(CodeInvalidLifecycle, "deprecated in %s before added in %s", lc.Deprecated, lc.Added)
	}
	if lc.Deprecated != nil && lc.Removed != nil && lc.Deprecated.GT(*lc.Removed) {
		return Lifecycle{}, defErr(CodeInvalidLifecycle, "removed in %s before deprecated in %s", lc.Removed, lc.Deprecated)
	}
	if lc.Added != nil && lc.Removed != nil && lc.Added.GT(*lc.Removed) {
		return Lifecycle{}, defErr(CodeInvalidLifecycle, "removed in %s before added in %s", lc.Removed, lc.Added)
	}
	return lc, nil
}
