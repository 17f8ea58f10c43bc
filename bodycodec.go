package wirebind

import jsoniter "github.com/json-iterator/go"

// BodyCodec serializes the structured body payload of a message. The
// default is JSON; endpoints whose payloads use another representation can
// swap it with Endpoint.WithBodyCodec.
type BodyCodec interface {
	// ContentType is the media type written alongside encoded bodies.
	ContentType() string
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// JSONBodyCodec is the default BodyCodec.
var JSONBodyCodec BodyCodec = jsonBodyCodec{}

type jsonBodyCodec struct{}

func (jsonBodyCodec) ContentType() string { return "application/json" }

func (jsonBodyCodec) Marshal(v any) ([]byte, error) { return jsonAPI.Marshal(v) }

func (jsonBodyCodec) Unmarshal(data []byte, v any) error { return jsonAPI.Unmarshal(data, v) }
