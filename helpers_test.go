package wirebind

import (
	"net/http"

	"github.com/wirebind/wirebind/urlenc"
)

// Medium is a closed enum used by the validate-token fixtures.
type Medium string

const (
	MediumEmail  Medium = "email"
	MediumMSISDN Medium = "msisdn"
)

func (Medium) Variants() []urlenc.Variant {
	return []urlenc.Variant{
		{Name: "email"},
		{Name: "msisdn"},
	}
}

// ValidateTokenRequest exercises path and query placement.
type ValidateTokenRequest struct {
	Medium       Medium `wire:"path"`
	SessionID    string `wire:"query,name=sid" validate:"required"`
	ClientSecret string `wire:"query"`
	Token        string `wire:"query"`
}

type ValidateTokenResponse struct{}

func validateTokenSpec() Spec {
	return Spec{
		Name:           "validate_token",
		Description:    "Validate ownership of a token submitted by the end user.",
		Method:         http.MethodGet,
		StablePath:     "/_api/identity/v2/validate/{medium}/submitToken",
		UnstablePath:   "/_api/identity/unstable/validate/{medium}/submitToken",
		Authentication: AuthAccessToken,
		Added:          "1.0",
	}
}

// PublishNoteRequest exercises body, header, path and optional query
// placement together.
type PublishNoteRequest struct {
	RoomID string  `wire:"path"`
	TxnID  string  `wire:"header,name=X-Txn-Id"`
	Reason *string `wire:"query"`
	Title  string
	Text   string `json:"body"`
}

type PublishNoteResponse struct {
	EventID string `json:"event_id"`
}

func publishNoteSpec() Spec {
	return Spec{
		Name:           "publish_note",
		Description:    "Publish a note into a room.",
		Method:         http.MethodPut,
		StablePath:     "/_api/rooms/v3/{room_id}/notes",
		Authentication: AuthAccessToken,
		RateLimited:    true,
		Added:          "1.1",
	}
}

// UploadRequest exercises rawbody placement.
type UploadRequest struct {
	Filename    string `wire:"query"`
	ContentType string `wire:"header,name=Content-Type"`
	Data        []byte `wire:"rawbody"`
}

type UploadResponse struct {
	URI string `json:"uri"`
}

func uploadSpec() Spec {
	return Spec{
		Name:           "upload",
		Description:    "Upload an opaque blob.",
		Method:         http.MethodPost,
		StablePath:     "/_api/media/v1/upload",
		Authentication: AuthAccessToken,
		RateLimited:    true,
	}
}

// SearchRequest exercises querymap capture.
type SearchRequest struct {
	Term    string            `wire:"query"`
	Filters map[string]string `wire:"querymap"`
}

type SearchResponse struct {
	Results []string `json:"results"`
}

func searchSpec() Spec {
	return Spec{
		Name:       "search",
		Method:     http.MethodGet,
		StablePath: "/_api/search/v1",
	}
}
