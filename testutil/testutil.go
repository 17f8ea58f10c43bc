// Package testutil provides testing helpers for wire bindings: fluent
// builders for raw HTTP requests and responses, and assertions over the
// wire-level pieces a binding reads and writes. It is import-cycle safe
// and can be used from any package.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// RequestBuilder constructs test HTTP requests with a fluent API.
type RequestBuilder struct {
	method     string
	path       string
	body       []byte
	headers    map[string]string
	queryPairs []string // pre-escaped k=v pairs, in order
}

// NewRequest creates a new request builder.
func NewRequest() *RequestBuilder {
	return &RequestBuilder{
		method:  "GET",
		path:    "/",
		headers: make(map[string]string),
	}
}

// GET sets the HTTP method to GET.
func (b *RequestBuilder) GET(path string) *RequestBuilder {
	b.method = "GET"
	b.path = path
	return b
}

// POST sets the HTTP method to POST.
func (b *RequestBuilder) POST(path string) *RequestBuilder {
	b.method = "POST"
	b.path = path
	return b
}

// PUT sets the HTTP method to PUT.
func (b *RequestBuilder) PUT(path string) *RequestBuilder {
	b.method = "PUT"
	b.path = path
	return b
}

// WithQuery appends one query entry. Key and value are escaped; entries
// keep the order they were added, repeated keys included.
func (b *RequestBuilder) WithQuery(key, value string) *RequestBuilder {
	b.queryPairs = append(b.queryPairs, url.QueryEscape(key)+"="+url.QueryEscape(value))
	return b
}

// WithRawQuery appends an already-encoded query fragment verbatim.
func (b *RequestBuilder) WithRawQuery(raw string) *RequestBuilder {
	b.queryPairs = append(b.queryPairs, raw)
	return b
}

// WithHeader adds a header to the request.
func (b *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	b.headers[key] = value
	return b
}

// WithBody sets the raw request body.
func (b *RequestBuilder) WithBody(body string) *RequestBuilder {
	b.body = []byte(body)
	return b
}

// WithJSON sets the request body as JSON.
func (b *RequestBuilder) WithJSON(v any) *RequestBuilder {
	data, _ := json.Marshal(v)
	b.body = data
	b.headers["Content-Type"] = "application/json"
	return b
}

// Build creates the HTTP request.
func (b *RequestBuilder) Build() *http.Request {
	target := b.path
	if len(b.queryPairs) > 0 {
		target += "?" + strings.Join(b.queryPairs, "&")
	}
	var reader io.Reader
	if len(b.body) > 0 {
		reader = bytes.NewReader(b.body)
	}
	req := httptest.NewRequest(b.method, target, reader)
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req
}

// ResponseBuilder constructs test HTTP responses with a fluent API.
type ResponseBuilder struct {
	status  int
	body    []byte
	headers map[string]string
}

// NewResponse creates a response builder with the given status code.
func NewResponse(status int) *ResponseBuilder {
	return &ResponseBuilder{
		status:  status,
		headers: make(map[string]string),
	}
}

// WithHeader adds a header to the response.
func (b *ResponseBuilder) WithHeader(key, value string) *ResponseBuilder {
	b.headers[key] = value
	return b
}

// WithBody sets the raw response body.
func (b *ResponseBuilder) WithBody(body string) *ResponseBuilder {
	b.body = []byte(body)
	return b
}

// WithJSON sets the response body as JSON.
func (b *ResponseBuilder) WithJSON(v any) *ResponseBuilder {
	data, _ := json.Marshal(v)
	b.body = data
	b.headers["Content-Type"] = "application/json"
	return b
}

// Build creates the HTTP response.
func (b *ResponseBuilder) Build() *http.Response {
	header := make(http.Header)
	for k, v := range b.headers {
		header.Set(k, v)
	}
	return &http.Response{
		StatusCode:    b.status,
		Status:        http.StatusText(b.status),
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(b.body)),
		ContentLength: int64(len(b.body)),
	}
}

// ReadBody drains and returns a message body.
func ReadBody(t *testing.T, body io.Reader) []byte {
	t.Helper()
	if body == nil {
		return nil
	}
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return data
}

// AssertHeader checks that a header has the expected value.
func AssertHeader(t *testing.T, header http.Header, key, expectedValue string) {
	t.Helper()
	actual := header.Get(key)
	if actual != expectedValue {
		t.Errorf("expected header %s=%s, got %s", key, expectedValue, actual)
	}
}

// AssertQuery checks the raw query string of a built request.
func AssertQuery(t *testing.T, req *http.Request, expected string) {
	t.Helper()
	if req.URL.RawQuery != expected {
		t.Errorf("expected query %q, got %q", expected, req.URL.RawQuery)
	}
}

// AssertPath checks the wire-level (escaped) path of a built request.
func AssertPath(t *testing.T, req *http.Request, expected string) {
	t.Helper()
	if actual := req.URL.EscapedPath(); actual != expected {
		t.Errorf("expected path %q, got %q", expected, actual)
	}
}

// AssertJSONBody reads body and compares it with expected as JSON,
// ignoring formatting differences.
func AssertJSONBody(t *testing.T, body io.Reader, expected any) {
	t.Helper()

	expectedJSON, _ := json.Marshal(expected)
	actualJSON := ReadBody(t, body)

	var expectedData, actualData any
	json.Unmarshal(expectedJSON, &expectedData)
	if err := json.Unmarshal(actualJSON, &actualData); err != nil {
		t.Fatalf("body is not valid JSON: %v\nBody: %s", err, actualJSON)
	}

	expectedStr, _ := json.MarshalIndent(expectedData, "", "  ")
	actualStr, _ := json.MarshalIndent(actualData, "", "  ")

	if string(expectedStr) != string(actualStr) {
		t.Errorf("body mismatch:\nExpected:\n%s\nActual:\n%s", expectedStr, actualStr)
	}
}
