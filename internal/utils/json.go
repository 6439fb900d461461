package utils

import (
	"bytes"

	"github.com/goccy/go-json"
)

// MarshalJsonNoHTMLEspace is like json.Marshal but characters such as '<' or '&' are not escaped,
// they are common in source code.
func MarshalJsonNoHTMLEspace(v any) ([]byte, error) {
	return marshalJsonNoHTMLEspace(v)
}

func MarshalIndentJsonNoHTMLEspace(v any, prefix, indent string) ([]byte, error) {
	return marshalJsonNoHTMLEspace(v, func(encoder *json.Encoder) {
		encoder.SetIndent(prefix, indent)
	})
}

func marshalJsonNoHTMLEspace(v any, encoderOptions ...func(encoder *json.Encoder)) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)
	for _, opt := range encoderOptions {
		opt(encoder)
	}

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}

	//remove the trailing newline
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
