package wirebind

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()
	if reg == nil {
		t.Fatal("expected non-nil registry")
	}
	if reg.endpoints == nil {
		t.Error("expected endpoints map to be initialized")
	}
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	e := MustCompile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec())
	reg.Register(e)

	got, ok := reg.Lookup("validate_token")
	if !ok {
		t.Fatal("expected endpoint to be registered")
	}
	if got.Meta().Name != "validate_token" {
		t.Errorf("expected validate_token, got %s", got.Meta().Name)
	}

	if _, ok := reg.Lookup("missing"); ok {
		t.Error("expected lookup miss for unregistered name")
	}
}

func TestRegistry_DuplicateRegistrationWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	reg := NewRegistry().WithLogger(logger)
	reg.Register(MustCompile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec()))
	reg.Register(MustCompile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec()))

	out := buf.String()
	if !strings.Contains(out, "duplicate endpoint registration") {
		t.Errorf("expected duplicate warning, got %q", out)
	}
	if !strings.Contains(out, "validate_token") {
		t.Errorf("expected endpoint name in warning, got %q", out)
	}
}

func TestRegistry_Names(t *testing.T) {
	reg := NewRegistry()
	reg.Register(MustCompile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec()))
	reg.Register(MustCompile[SearchRequest, SearchResponse](searchSpec()))
	reg.Register(MustCompile[UploadRequest, UploadResponse](uploadSpec()))

	want := []string{"search", "upload", "validate_token"}
	if got := reg.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistry_All(t *testing.T) {
	reg := NewRegistry()
	reg.Register(MustCompile[ValidateTokenRequest, ValidateTokenResponse](validateTokenSpec()))
	reg.Register(MustCompile[SearchRequest, SearchResponse](searchSpec()))

	var names []string
	for e := range reg.All() {
		names = append(names, e.Meta().Name)
	}
	want := []string{"search", "validate_token"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("All() order = %v, want %v", names, want)
	}
}

func TestRegistry_Export(t *testing.T) {
	reg := NewRegistry()
	reg.Register(MustCompile[SearchRequest, SearchResponse](searchSpec()))

	exported := reg.Export()
	info, ok := exported["search"]
	if !ok {
		t.Fatal("expected search in export")
	}
	if info.Method != "GET" {
		t.Errorf("expected GET, got %s", info.Method)
	}
	if info.Request != reflect.TypeOf(SearchRequest{}) {
		t.Errorf("unexpected request type %v", info.Request)
	}
	if info.Response != reflect.TypeOf(SearchResponse{}) {
		t.Errorf("unexpected response type %v", info.Response)
	}
	if info.Error != reflect.TypeOf(APIError{}) {
		t.Errorf("unexpected error type %v", info.Error)
	}
}
