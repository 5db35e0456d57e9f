package output

import (
	"encoding/xml"
	"io"

	"github.com/temirov/scantree/internal/services/stream"
	"github.com/temirov/scantree/internal/types"
)

const xmlResultsElement = "results"

type xmlStreamRenderer struct {
	stdout io.Writer
	trees  []*types.TreeOutputNode
}

// NewXMLStreamRenderer collects tree events and writes them as an XML document on Flush.
func NewXMLStreamRenderer(stdout io.Writer) StreamRenderer {
	return &xmlStreamRenderer{stdout: stdout}
}

func (renderer *xmlStreamRenderer) Handle(event stream.Event) error {
	if event.Kind == stream.EventKindTree && event.Tree != nil {
		renderer.trees = append(renderer.trees, event.Tree)
	}
	return nil
}

func (renderer *xmlStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	var payload any
	if len(renderer.trees) == 1 {
		payload = renderer.trees[0]
	} else {
		payload = struct {
			XMLName xml.Name                `xml:""`
			Nodes   []*types.TreeOutputNode `xml:"node"`
		}{XMLName: xml.Name{Local: xmlResultsElement}, Nodes: renderer.trees}
	}
	encoded, err := xml.MarshalIndent(payload, indentPrefix, indentSpacer)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(renderer.stdout, xml.Header); err != nil {
		return err
	}
	encoded = append(encoded, '\n')
	_, err = renderer.stdout.Write(encoded)
	return err
}
