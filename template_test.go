package wirebind

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseTemplate(t *testing.T) {
	tests := []struct {
		name             string
		input            string
		wantPlaceholders []string
		wantErr          string // expected error substring, empty if none
	}{
		{
			name:  "literal only",
			input: "/_api/search/v1",
		},
		{
			name:             "placeholders",
			input:            "/_api/identity/v2/validate/{medium}/submitToken",
			wantPlaceholders: []string{"medium"},
		},
		{
			name:             "multiple placeholders",
			input:            "/_api/rooms/{room_id}/state/{event_type}",
			wantPlaceholders: []string{"room_id", "event_type"},
		},
		{
			name:    "missing leading slash",
			input:   "api/v1",
			wantErr: "must start with /",
		},
		{
			name:    "empty segment",
			input:   "/api//v1",
			wantErr: "empty segment",
		},
		{
			name:    "unclosed placeholder",
			input:   "/api/{medium/submitToken",
			wantErr: "malformed placeholder",
		},
		{
			name:    "brace inside literal",
			input:   "/api/me}dium/x",
			wantErr: "malformed placeholder",
		},
		{
			name:    "empty placeholder name",
			input:   "/api/{}/x",
			wantErr: "malformed placeholder",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl, err := ParseTemplate(tt.input)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("expected error containing %q, got %q", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tmpl.String() != tt.input {
				t.Errorf("String() = %q, want %q", tmpl.String(), tt.input)
			}
			if got := tmpl.Placeholders(); !reflect.DeepEqual(got, tt.wantPlaceholders) {
				t.Errorf("Placeholders() = %v, want %v", got, tt.wantPlaceholders)
			}
		})
	}
}

func TestTemplateExpand(t *testing.T) {
	tmpl, err := ParseTemplate("/_api/rooms/{room_id}/notes")
	if err != nil {
		t.Fatal(err)
	}

	path, err := tmpl.Expand(map[string]string{"room_id": "!abc:example.org"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "/_api/rooms/%21abc:example.org/notes"; path != want {
		t.Errorf("Expand() = %q, want %q", path, want)
	}

	if _, err := tmpl.Expand(map[string]string{}); err == nil {
		t.Error("expected error for missing placeholder value")
	}
}

func TestTemplateMatch(t *testing.T) {
	tmpl, err := ParseTemplate("/_api/rooms/{room_id}/notes")
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		wantVars map[string]string
		wantOK   bool
	}{
		{
			name:     "match with capture",
			path:     "/_api/rooms/%21abc:example.org/notes",
			wantVars: map[string]string{"room_id": "!abc:example.org"},
			wantOK:   true,
		},
		{
			name:   "literal mismatch",
			path:   "/_api/rooms/x/events",
			wantOK: false,
		},
		{
			name:   "length mismatch",
			path:   "/_api/rooms/x",
			wantOK: false,
		},
		{
			name:   "no leading slash",
			path:   "_api/rooms/x/notes",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars, ok := tmpl.Match(tt.path)
			if ok != tt.wantOK {
				t.Fatalf("Match(%q) ok = %v, want %v", tt.path, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(vars, tt.wantVars) {
				t.Errorf("Match(%q) vars = %v, want %v", tt.path, vars, tt.wantVars)
			}
		})
	}
}

func TestTemplateExpandMatchSymmetry(t *testing.T) {
	tmpl, err := ParseTemplate("/v1/{a}/x/{b}")
	if err != nil {
		t.Fatal(err)
	}
	vars := map[string]string{"a": "with space", "b": "plain"}

	path, err := tmpl.Expand(vars)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := tmpl.Match(path)
	if !ok {
		t.Fatalf("Match(%q) did not match its own expansion", path)
	}
	if !reflect.DeepEqual(got, vars) {
		t.Errorf("round trip = %v, want %v", got, vars)
	}
}

func TestTemplateEqual(t *testing.T) {
	a, _ := ParseTemplate("/v1/{a}")
	b, _ := ParseTemplate("/v1/{a}")
	c, _ := ParseTemplate("/v1/{c}")

	if !a.Equal(b) {
		t.Error("templates from the same source should be equal")
	}
	if a.Equal(c) {
		t.Error("templates from different sources should not be equal")
	}
	if a.Equal(nil) {
		t.Error("non-nil template should not equal nil")
	}
}
