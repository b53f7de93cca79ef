package codemeta

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/matzehuels/codemeta/pkg/errors"
)

// Decode parses a JSON object. Numbers are kept as json.Number so that large
// integers survive a round trip.
func Decode(data []byte) (Document, error) {
	raw, err := DecodeAny(data)
	if err != nil {
		return nil, err
	}
	m, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.MalformedDocument(nil, "expected a JSON object, got %s", Classify(raw).Kind)
	}
	return Document(m), nil
}

// DecodeAny parses any JSON value, for callers that validate non-object input.
func DecodeAny(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.MalformedDocument(err, "invalid JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.MalformedDocument(nil, "trailing data after JSON value")
	}
	return raw, nil
}

// Encode renders doc as indented UTF-8 JSON with a trailing newline. HTML
// characters are not escaped.
func Encode(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return buf.Bytes(), nil
}
