// Package yamlutil decodes and encodes club site configuration documents.
//
// Decoding is strict: a key the destination does not declare is an error,
// so a misspelled fragment or binding setting fails loudly instead of being
// dropped. Failures carry the document name and the line and column of the
// offending key.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxDocumentSize caps a config document (256KB). A site listing every
// fragment and binding stays well under it.
var MaxDocumentSize = 256 << 10

var (
	ErrEmptyDocument    = errors.New("yamlutil: empty document")
	ErrDocumentTooLarge = errors.New("yamlutil: document exceeds maximum size")
	ErrUnknownKey       = errors.New("yamlutil: unknown key")
	ErrDuplicateKey     = errors.New("yamlutil: duplicate key")
	ErrMalformed        = errors.New("yamlutil: malformed document")
)

// DocumentError locates a decode failure. Kind is one of the package
// sentinels and is what errors.Is matches.
type DocumentError struct {
	Document string
	Line     int
	Column   int
	Message  string
	Kind     error
}

func (e *DocumentError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Document, e.Message)
	}
	return fmt.Sprintf("%s:%d:%d: %s", e.Document, e.Line, e.Column, e.Message)
}

func (e *DocumentError) Unwrap() error { return e.Kind }

type decodeSettings struct {
	allowUnknown bool
}

// DecodeOption adjusts Decode.
type DecodeOption func(*decodeSettings)

// AllowUnknownKeys ignores keys the destination does not declare. Used when
// reading back output that may come from a newer version.
func AllowUnknownKeys() DecodeOption {
	return func(s *decodeSettings) { s.allowUnknown = true }
}

// Decode parses the document named name into v, which must be a non-nil
// pointer.
func Decode(name string, data []byte, v any, opts ...DecodeOption) error {
	if len(data) == 0 {
		return &DocumentError{Document: name, Message: "document is empty", Kind: ErrEmptyDocument}
	}
	if len(data) > MaxDocumentSize {
		return &DocumentError{
			Document: name,
			Message:  fmt.Sprintf("%d bytes (max %d)", len(data), MaxDocumentSize),
			Kind:     ErrDocumentTooLarge,
		}
	}

	var s decodeSettings
	for _, opt := range opts {
		opt(&s)
	}
	var decodeOpts []yaml.DecodeOption
	if !s.allowUnknown {
		decodeOpts = append(decodeOpts, yaml.DisallowUnknownField())
	}

	if err := yaml.UnmarshalWithOptions(data, v, decodeOpts...); err != nil {
		return locate(name, err)
	}
	return nil
}

// locate turns a go-yaml error into a DocumentError.
func locate(name string, err error) error {
	docErr := &DocumentError{Document: name, Message: err.Error(), Kind: ErrMalformed}

	var yerr yaml.Error
	if !errors.As(err, &yerr) {
		return docErr
	}
	docErr.Message = yerr.GetMessage()
	if tk := yerr.GetToken(); tk != nil && tk.Position != nil {
		docErr.Line = tk.Position.Line
		docErr.Column = tk.Position.Column
	}

	var unknown *yaml.UnknownFieldError
	var dup *yaml.DuplicateKeyError
	switch {
	case errors.As(err, &unknown):
		docErr.Kind = ErrUnknownKey
	case errors.As(err, &dup):
		docErr.Kind = ErrDuplicateKey
	}
	return docErr
}

// Encode renders v as YAML.
func Encode(v any) ([]byte, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
