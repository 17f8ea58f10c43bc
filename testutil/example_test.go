package testutil_test

import (
	"net/http"
	"testing"

	"github.com/wirebind/wirebind"
	"github.com/wirebind/wirebind/testutil"
)

// Example types for testing
type TranslateRequest struct {
	Phrase string `wire:"query"`
	Target string `wire:"query,name=lang"`
}

type TranslateResponse struct {
	Result string `json:"result"`
}

var translate = wirebind.MustCompile[TranslateRequest, TranslateResponse](wirebind.Spec{
	Name:       "translate",
	Method:     http.MethodGet,
	StablePath: "/v1/translate",
})

// TestRequestBuilder demonstrates the fluent API for building requests
func TestRequestBuilder(t *testing.T) {
	req := testutil.NewRequest().
		GET("/v1/translate").
		WithQuery("phrase", "hello world").
		WithQuery("lang", "fr").
		WithHeader("Accept", "application/json").
		Build()

	testutil.AssertPath(t, req, "/v1/translate")
	testutil.AssertQuery(t, req, "phrase=hello+world&lang=fr")
	testutil.AssertHeader(t, req.Header, "Accept", "application/json")

	got, err := translate.Request.FromWire(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Phrase != "hello world" || got.Target != "fr" {
		t.Errorf("unexpected request %+v", got)
	}
}

// TestResponseBuilder demonstrates building wire responses for decoding
func TestResponseBuilder(t *testing.T) {
	res := testutil.NewResponse(http.StatusOK).
		WithJSON(TranslateResponse{Result: "bonjour le monde"}).
		Build()

	testutil.AssertHeader(t, res.Header, "Content-Type", "application/json")

	got, err := translate.DecodeResponse(res)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Result != "bonjour le monde" {
		t.Errorf("unexpected result %q", got.Result)
	}
}

// TestAssertJSONBody demonstrates structural body comparison
func TestAssertJSONBody(t *testing.T) {
	wire, err := translate.Response.ToWire(TranslateResponse{Result: "hola"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertJSONBody(t, wire.Body, map[string]string{"result": "hola"})
}
