package output

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/temirov/scantree/internal/commands"
	"github.com/temirov/scantree/internal/services/stream"
)

type rawStreamRenderer struct {
	stdout  io.Writer
	printer *commands.LinePrinter
	started bool
}

// NewRawStreamRenderer prints the ASCII tree as events arrive.
func NewRawStreamRenderer(stdout io.Writer) StreamRenderer {
	return &rawStreamRenderer{
		stdout:  stdout,
		printer: commands.NewLinePrinter(stdout, ""),
	}
}

func (renderer *rawStreamRenderer) Handle(event stream.Event) error {
	if renderer.stdout == nil {
		return nil
	}
	switch event.Kind {
	case stream.EventKindStart:
		renderer.started = true
		_, err := fmt.Fprintln(renderer.stdout, commands.HeaderLine(filepath.Base(event.Path)))
		return err
	case stream.EventKindDirectory:
		if event.Directory == nil {
			return nil
		}
		kind := commands.TreeEventEnterDir
		if event.Directory.Phase == stream.DirectoryLeave {
			kind = commands.TreeEventLeaveDir
		}
		return renderer.printer.Handle(commands.TreeEvent{Kind: kind, Directory: toTreeDirectory(event.Directory)})
	case stream.EventKindEntry:
		if event.Entry == nil {
			return nil
		}
		return renderer.printer.Handle(commands.TreeEvent{
			Kind: commands.TreeEventEntry,
			Entry: &commands.TreeEntry{
				Path:   event.Entry.Path,
				Name:   event.Entry.Name,
				Depth:  event.Entry.Depth,
				IsLast: event.Entry.IsLast,
			},
		})
	case stream.EventKindAccessDenied:
		return renderer.printer.Handle(commands.TreeEvent{Kind: commands.TreeEventAccessDenied, Directory: toTreeDirectory(event.Directory)})
	}
	return nil
}

func (renderer *rawStreamRenderer) Flush() error {
	if renderer.stdout == nil || !renderer.started {
		return nil
	}
	_, err := fmt.Fprintf(renderer.stdout, "\n%s\n", commands.ScanCompleteMessage)
	return err
}

func toTreeDirectory(directory *stream.DirectoryEvent) *commands.TreeDirectory {
	if directory == nil {
		return &commands.TreeDirectory{}
	}
	return &commands.TreeDirectory{
		Path:   directory.Path,
		Name:   directory.Name,
		Depth:  directory.Depth,
		IsLast: directory.IsLast,
	}
}
