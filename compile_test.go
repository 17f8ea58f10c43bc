package wirebind

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func requireDefinitionCode(t *testing.T, err error, code DefinitionCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected definition error %s, got nil", code)
	}
	var de *DefinitionError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DefinitionError, got %T: %v", err, err)
	}
	if de.Code != code {
		t.Errorf("expected code %s, got %s (%s)", code, de.Code, de.Detail)
	}
}

func TestCompileValidEndpoint(t *testing.T) {
	e, err := Compile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	meta := e.Meta()
	if meta.Name != "validate_token" {
		t.Errorf("expected name validate_token, got %s", meta.Name)
	}
	if meta.Method != http.MethodGet {
		t.Errorf("expected method GET, got %s", meta.Method)
	}
	if meta.Authentication != AuthAccessToken {
		t.Errorf("expected access_token auth, got %s", meta.Authentication)
	}
	if meta.RateLimited {
		t.Error("expected rate_limited false")
	}
	if meta.Template(StabilityStable) == nil || meta.Template(StabilityUnstable) == nil {
		t.Error("expected stable and unstable templates")
	}
	if meta.Template(StabilityR0) != nil {
		t.Error("expected no r0 template")
	}
	if meta.Lifecycle.Added == nil || meta.Lifecycle.Added.String() != "1.0.0" {
		t.Errorf("expected added 1.0.0, got %v", meta.Lifecycle.Added)
	}
	if e.RequestType() != reflect.TypeOf(ValidateTokenRequest{}) {
		t.Errorf("unexpected request type %v", e.RequestType())
	}
	if e.ErrorType() != reflect.TypeOf(APIError{}) {
		t.Errorf("expected default error type APIError, got %v", e.ErrorType())
	}
}

func TestCompileIdempotent(t *testing.T) {
	a, err := Compile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec())
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec())
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a.Meta(), b.Meta()); diff != "" {
		t.Errorf("metadata differs between compiles (-first +second):\n%s", diff)
	}
}

func TestCompileNoPath(t *testing.T) {
	spec := validateTokenSpec()
	spec.StablePath = ""
	spec.UnstablePath = ""
	_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
	requireDefinitionCode(t, err, CodeNoPath)
}

func TestCompileNoName(t *testing.T) {
	spec := validateTokenSpec()
	spec.Name = ""
	_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
	requireDefinitionCode(t, err, CodeNoName)
}

func TestCompileNoMethod(t *testing.T) {
	spec := validateTokenSpec()
	spec.Method = ""
	_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
	requireDefinitionCode(t, err, CodeNoMethod)
}

func TestCompileInvalidTemplate(t *testing.T) {
	spec := validateTokenSpec()
	spec.StablePath = "/_api/{medium/submitToken"
	_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
	requireDefinitionCode(t, err, CodeInvalidTemplate)
}

func TestCompileLifecycle(t *testing.T) {
	tests := []struct {
		name       string
		added      string
		deprecated string
		removed    string
		wantErr    bool
	}{
		{name: "ordered", added: "1.0", deprecated: "1.1", removed: "1.2"},
		{name: "added only", added: "1.0"},
		{name: "none"},
		{name: "deprecated before added", added: "1.2", deprecated: "1.1", wantErr: true},
		{name: "removed before deprecated", deprecated: "1.2", removed: "1.1", wantErr: true},
		{name: "removed before added", added: "1.2", removed: "1.1", wantErr: true},
		{name: "unparsable version", added: "one point oh", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validateTokenSpec()
			spec.Added = tt.added
			spec.Deprecated = tt.deprecated
			spec.Removed = tt.removed
			_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
			if tt.wantErr {
				requireDefinitionCode(t, err, CodeInvalidLifecycle)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCompileConflictingBodyPlacement(t *testing.T) {
	type badRequest struct {
		Data  []byte `wire:"rawbody"`
		Title string // body placement conflicts with rawbody
	}
	_, err := Compile[badRequest, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeConflictingBodyPlacement)
}

func TestCompileSecondRawBody(t *testing.T) {
	type badRequest struct {
		A []byte `wire:"rawbody"`
		B []byte `wire:"rawbody"`
	}
	_, err := Compile[badRequest, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeConflictingBodyPlacement)
}

func TestCompileSecondQueryMap(t *testing.T) {
	type badRequest struct {
		A map[string]string `wire:"querymap"`
		B map[string]string `wire:"querymap"`
	}
	_, err := Compile[badRequest, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeUnsupportedPlacement)
}

func TestCompileUnboundPathField(t *testing.T) {
	type badRequest struct {
		SessionID string `wire:"path"`
	}
	spec := searchSpec()
	_, err := Compile[badRequest, SearchResponse](spec)
	requireDefinitionCode(t, err, CodeUnboundPathField)
}

func TestCompilePathFieldMissingFromOneTemplate(t *testing.T) {
	// The placeholder exists in the stable template but not the unstable
	// one; binding must hold in every declared template.
	spec := validateTokenSpec()
	spec.UnstablePath = "/_api/identity/unstable/validate/submitToken"
	_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
	requireDefinitionCode(t, err, CodeUnboundPathField)
}

func TestCompileUnboundPlaceholder(t *testing.T) {
	spec := searchSpec()
	spec.StablePath = "/_api/search/v1/{scope}"
	_, err := Compile[SearchRequest, SearchResponse](spec)
	requireDefinitionCode(t, err, CodeUnboundPlaceholder)
}

func TestCompileResponsePlacementRestrictions(t *testing.T) {
	type badResponse struct {
		Next string `wire:"query"`
	}
	_, err := Compile[SearchRequest, badResponse](searchSpec())
	requireDefinitionCode(t, err, CodeUnsupportedPlacement)
}

func TestCompileInvalidTag(t *testing.T) {
	type badRequest struct {
		A string `wire:"cookie"`
	}
	_, err := Compile[badRequest, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeInvalidTag)
}

func TestCompileNonStructMessage(t *testing.T) {
	_, err := Compile[string, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeInvalidType)
}

func TestCompileRawBodyMustBeBytes(t *testing.T) {
	type badRequest struct {
		Data string `wire:"rawbody"`
	}
	_, err := Compile[badRequest, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeInvalidType)
}

func TestCompileQueryMapMustBeStringKeyedMap(t *testing.T) {
	type badRequest struct {
		Extra []string `wire:"querymap"`
	}
	_, err := Compile[badRequest, SearchResponse](searchSpec())
	requireDefinitionCode(t, err, CodeInvalidType)
}

type taggedError struct {
	Code string `json:"code" wire:"query"`
}

func (e *taggedError) Error() string { return e.Code }

type plainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *plainError) Error() string { return e.Code + ": " + e.Message }

func TestCompileErrorType(t *testing.T) {
	t.Run("placement tags rejected on the error type", func(t *testing.T) {
		spec := searchSpec()
		spec.ErrorType = &taggedError{}
		_, err := Compile[SearchRequest, SearchResponse](spec)
		requireDefinitionCode(t, err, CodeUnsupportedPlacement)
	})

	t.Run("custom error type accepted", func(t *testing.T) {
		spec := searchSpec()
		spec.ErrorType = &plainError{}
		e, err := Compile[SearchRequest, SearchResponse](spec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.ErrorType() != reflect.TypeOf(plainError{}) {
			t.Errorf("expected plainError, got %v", e.ErrorType())
		}
	})
}

func TestMustCompilePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected MustCompile to panic on a broken definition")
		}
	}()
	spec := validateTokenSpec()
	spec.StablePath = ""
	spec.UnstablePath = ""
	MustCompile[ValidateTokenRequest, ValidateTokenResponse](spec)
}

func TestDefinitionErrorNamesEndpoint(t *testing.T) {
	spec := validateTokenSpec()
	spec.Added = "bogus"
	_, err := Compile[ValidateTokenRequest, ValidateTokenResponse](spec)
	var de *DefinitionError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DefinitionError, got %T", err)
	}
	if de.Endpoint != "validate_token" {
		t.Errorf("expected endpoint name in error, got %q", de.Endpoint)
	}
}
