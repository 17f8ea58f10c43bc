package urlenc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireEncodeCode(t *testing.T, err error, code Code) {
	t.Helper()
	var e *EncodeError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, code, e.Code)
}

func TestEncodeStruct(t *testing.T) {
	type params struct {
		SessionID    string `urlenc:"sid"`
		ClientSecret string
		Limit        int
		Exact        bool
	}

	got, err := Encode(params{
		SessionID:    "abc123",
		ClientSecret: "s3cr3t",
		Limit:        25,
		Exact:        true,
	})
	require.NoError(t, err)
	assert.Equal(t, "sid=abc123&client_secret=s3cr3t&limit=25&exact=true", string(got))
}

func TestEncodeEscaping(t *testing.T) {
	got, err := Encode(struct {
		Cheese string
		Q      string
	}{Cheese: "comté", Q: "a b&c=d"})
	require.NoError(t, err)
	assert.Equal(t, "cheese=comt%C3%A9&q=a+b%26c%3Dd", string(got))
}

func TestEncodeSequenceRepeatsKey(t *testing.T) {
	got, err := Encode(struct {
		Tag []string
	}{Tag: []string{"x", "y", "z"}})
	require.NoError(t, err)
	assert.Equal(t, "tag=x&tag=y&tag=z", string(got))
}

func TestEncodeOptional(t *testing.T) {
	limit := 10
	got, err := Encode(struct {
		Limit *int
		Since *string
	}{Limit: &limit})
	require.NoError(t, err)
	assert.Equal(t, "limit=10", string(got))
}

func TestEncodeMapSortedKeys(t *testing.T) {
	got, err := Encode(map[string]string{"b": "2", "a": "1", "c": "3"})
	require.NoError(t, err)
	assert.Equal(t, "a=1&b=2&c=3", string(got))
}

func TestEncodePairsKeepOrder(t *testing.T) {
	got, err := Encode([]Pair{{"z", "1"}, {"a", "2"}})
	require.NoError(t, err)
	assert.Equal(t, "z=1&a=2", string(got))
}

func TestEncodeEnum(t *testing.T) {
	_, err := Encode(struct{ Medium medium }{Medium: "email"})
	require.NoError(t, err)

	_, err = Encode(struct{ Medium medium }{Medium: "pigeon"})
	requireEncodeCode(t, err, CodeUnknownVariant)

	_, err = Encode(struct{ Medium medium }{Medium: "custom"})
	requireEncodeCode(t, err, CodeExpectedUnitVariant)
}

func TestEncodeTextMarshaler(t *testing.T) {
	got, err := Encode(struct{ Sid sessionID }{Sid: sessionID{raw: "abc"}})
	require.NoError(t, err)
	assert.Equal(t, "sid=abc", string(got))
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Encode(struct {
		Nested []([]string)
	}{Nested: [][]string{{"a"}}})
	requireEncodeCode(t, err, CodeUnsupportedType)

	_, err = Encode(42)
	requireEncodeCode(t, err, CodeUnsupportedType)
}

func TestEncodeValue(t *testing.T) {
	pairs, err := EncodeValue("limit", 25)
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"limit", "25"}}, pairs)

	pairs, err = EncodeValue("tag", []string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []Pair{{"tag", "x"}, {"tag", "y"}}, pairs)

	pairs, err = EncodeValue("skip", (*int)(nil))
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestScalarString(t *testing.T) {
	s, err := ScalarString(true)
	require.NoError(t, err)
	assert.Equal(t, "true", s)

	s, err = ScalarString(medium("msisdn"))
	require.NoError(t, err)
	assert.Equal(t, "msisdn", s)

	_, err = ScalarString(struct{ A, B string }{})
	requireEncodeCode(t, err, CodeUnsupportedType)
}
