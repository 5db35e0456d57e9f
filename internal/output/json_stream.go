package output

import (
	"encoding/json"
	"io"

	"github.com/temirov/scantree/internal/services/stream"
	"github.com/temirov/scantree/internal/types"
)

type jsonStreamRenderer struct {
	stdout io.Writer
	trees  []*types.TreeOutputNode
}

// NewJSONStreamRenderer collects tree events and writes them as indented JSON on Flush.
func NewJSONStreamRenderer(stdout io.Writer) StreamRenderer {
	return &jsonStreamRenderer{stdout: stdout}
}

func (renderer *jsonStreamRenderer) Handle(event stream.Event) error {
	if event.Kind == stream.EventKindTree && event.Tree != nil {
		renderer.trees = append(renderer.trees, event.Tree)
	}
	return nil
}

func (renderer *jsonStreamRenderer) Flush() error {
	if renderer.stdout == nil {
		return nil
	}
	var payload any = renderer.trees
	switch len(renderer.trees) {
	case 0:
		payload = []*types.TreeOutputNode{}
	case 1:
		payload = renderer.trees[0]
	}
	encoded, err := json.MarshalIndent(payload, indentPrefix, indentSpacer)
	if err != nil {
		return err
	}
	encoded = append(encoded, '\n')
	_, err = renderer.stdout.Write(encoded)
	return err
}
