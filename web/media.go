package web

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// JSONType is the default media type.
const JSONType = "application/json"

// Encoder serializes a handler-supplied value into a response body.
type Encoder func(v interface{}) ([]byte, error)

// UnsupportedMediaTypeError reports an attempt to select a media type that
// has no registered encoder.
type UnsupportedMediaTypeError struct {
	Type string
}

func (e *UnsupportedMediaTypeError) Error() string {
	return fmt.Sprintf("unsupported media type: %s", e.Type)
}

// Media is the registry of response encoders, keyed by content type. The
// zero registry is not usable; NewMedia installs the JSON default.
type Media struct {
	mu        sync.RWMutex
	mediaType string
	encoders  map[string]Encoder
}

// NewMedia returns a registry with application/json selected and handled.
func NewMedia() *Media {
	return &Media{
		mediaType: JSONType,
		encoders: map[string]Encoder{
			JSONType: encodeJSON,
		},
	}
}

// Type reports the currently selected media type.
func (m *Media) Type() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mediaType
}

// SetType selects the media type used by Encode. Selecting a type with no
// registered encoder fails with an UnsupportedMediaTypeError naming the type.
func (m *Media) SetType(mediaType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.encoders[mediaType]; !ok {
		return &UnsupportedMediaTypeError{Type: mediaType}
	}
	m.mediaType = mediaType
	return nil
}

// Handle registers (or replaces) the encoder for a media type.
func (m *Media) Handle(mediaType string, enc Encoder) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.encoders[mediaType] = enc
}

// Encode serializes v with the selected encoder and returns the body along
// with the content type it was encoded as.
func (m *Media) Encode(v interface{}) ([]byte, string, error) {
	m.mu.RLock()
	mediaType := m.mediaType
	enc := m.encoders[mediaType]
	m.mu.RUnlock()

	body, err := enc(v)
	if err != nil {
		return nil, "", errors.Wrapf(err, "encode %s", mediaType)
	}
	return body, mediaType, nil
}

// encodeJSON marshals v to JSON, escaping HTML the way the response encoder
// of net/http-facing services conventionally does.
func encodeJSON(v interface{}) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
