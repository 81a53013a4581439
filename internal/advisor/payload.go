package advisor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrNotObject is returned for well-formed JSON that is not an object.
var ErrNotObject = errors.New("payload is not a JSON object")

var emptyObject = []byte("{}")

// jsonWhitespace is the insignificant whitespace RFC 8259 allows around a value.
const jsonWhitespace = " \t\r\n"

// Payload is the caller-supplied JSON object, kept in its original (compacted)
// encoding so key order and number precision survive the echo.
type Payload struct {
	raw json.RawMessage
}

// EmptyPayload returns the payload used when the caller sent nothing usable.
func EmptyPayload() Payload {
	return Payload{raw: emptyObject}
}

// DecodePayload validates data as a UTF-8 JSON object. An empty or blank body
// is the empty object.
func DecodePayload(data []byte) (Payload, error) {
	trimmed := bytes.Trim(data, jsonWhitespace)
	if len(trimmed) == 0 {
		return EmptyPayload(), nil
	}
	if !utf8.Valid(trimmed) {
		return Payload{}, fmt.Errorf("decode payload: invalid UTF-8")
	}
	if !json.Valid(trimmed) {
		return Payload{}, fmt.Errorf("decode payload: invalid JSON")
	}
	if trimmed[0] != '{' {
		return Payload{}, ErrNotObject
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}
	return Payload{raw: buf.Bytes()}, nil
}

// Raw returns the compacted JSON encoding.
func (p Payload) Raw() json.RawMessage {
	if len(p.raw) == 0 {
		return emptyObject
	}
	return p.raw
}

// IsEmpty reports whether the payload is the empty object.
func (p Payload) IsEmpty() bool {
	return bytes.Equal(p.Raw(), emptyObject)
}

func (p Payload) MarshalJSON() ([]byte, error) {
	return p.Raw(), nil
}
