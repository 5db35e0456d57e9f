// Package output renders stream events in the supported output formats.
package output

import (
	"fmt"
	"io"

	"github.com/temirov/scantree/internal/services/stream"
	"github.com/temirov/scantree/internal/types"
)

const (
	indentPrefix = ""
	indentSpacer = "  "

	errorUnsupportedFormat = "unsupported output format '%s'"
)

type StreamRenderer interface {
	Handle(event stream.Event) error
	Flush() error
}

// NewStreamRenderer returns the renderer registered for format.
func NewStreamRenderer(format string, stdout io.Writer) (StreamRenderer, error) {
	switch format {
	case types.FormatRaw:
		return NewRawStreamRenderer(stdout), nil
	case types.FormatJSON:
		return NewJSONStreamRenderer(stdout), nil
	case types.FormatXML:
		return NewXMLStreamRenderer(stdout), nil
	default:
		return nil, fmt.Errorf(errorUnsupportedFormat, format)
	}
}
