// Package stream converts directory walks into versioned events delivered over a channel.
package stream

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/temirov/scantree/internal/commands"
	"github.com/temirov/scantree/internal/types"
)

type TreeOptions struct {
	Root string
}

type emitter struct {
	ctx     context.Context
	out     chan<- Event
	command string
	now     func() time.Time
}

func newEmitter(ctx context.Context, out chan<- Event, command string) *emitter {
	if ctx == nil {
		ctx = context.Background()
	}
	return &emitter{ctx: ctx, out: out, command: command, now: time.Now}
}

func (e *emitter) send(event Event) error {
	if e.out == nil {
		return fmt.Errorf("stream: event channel is nil")
	}
	event.Version = SchemaVersion
	if event.Command == "" {
		event.Command = e.command
	}
	if event.EmittedAt.IsZero() {
		event.EmittedAt = e.now().UTC()
	}
	select {
	case <-e.ctx.Done():
		return e.ctx.Err()
	case e.out <- event:
		return nil
	}
}

// treeAssembler rebuilds the walked hierarchy as TreeOutputNode values.
type treeAssembler struct {
	root  *types.TreeOutputNode
	stack []*types.TreeOutputNode
	last  *types.TreeOutputNode
}

func (assembler *treeAssembler) enter(directory *commands.TreeDirectory) {
	if assembler.root == nil {
		assembler.root = &types.TreeOutputNode{
			Path: directory.Path,
			Name: directory.Name,
			Type: types.NodeTypeDirectory,
		}
		assembler.stack = append(assembler.stack, assembler.root)
		return
	}
	assembler.stack = append(assembler.stack, assembler.last)
}

func (assembler *treeAssembler) leave() {
	if len(assembler.stack) > 0 {
		assembler.stack = assembler.stack[:len(assembler.stack)-1]
	}
}

func (assembler *treeAssembler) add(entry *commands.TreeEntry) {
	node := &types.TreeOutputNode{
		Path: entry.Path,
		Name: entry.Name,
		Type: entryType(entry),
	}
	if len(assembler.stack) > 0 {
		parent := assembler.stack[len(assembler.stack)-1]
		parent.Children = append(parent.Children, node)
	}
	assembler.last = node
}

func (assembler *treeAssembler) deny() {
	if len(assembler.stack) > 0 {
		assembler.stack[len(assembler.stack)-1].AccessDenied = true
	}
}

func entryType(entry *commands.TreeEntry) string {
	if entry.IsDirectory {
		return types.NodeTypeDirectory
	}
	return types.NodeTypeFile
}

// StreamTree walks opts.Root and sends one event per walk step to out, followed
// by a tree event carrying the assembled hierarchy and a done event. The walk
// itself is sequential; out is written from the calling goroutine only.
func StreamTree(ctx context.Context, opts TreeOptions, out chan<- Event) error {
	if opts.Root == "" {
		return fmt.Errorf("stream: tree root path is empty")
	}

	emitter := newEmitter(ctx, out, types.CommandTree)
	if err := emitter.send(Event{Kind: EventKindStart, Path: opts.Root}); err != nil {
		return err
	}

	assembler := &treeAssembler{}
	handler := func(evt commands.TreeEvent) error {
		switch evt.Kind {
		case commands.TreeEventEnterDir:
			assembler.enter(evt.Directory)
			return emitter.send(directoryEvent(DirectoryEnter, evt.Directory))
		case commands.TreeEventLeaveDir:
			assembler.leave()
			return emitter.send(directoryEvent(DirectoryLeave, evt.Directory))
		case commands.TreeEventEntry:
			assembler.add(evt.Entry)
			return emitter.send(Event{
				Kind: EventKindEntry,
				Path: evt.Entry.Path,
				Entry: &EntryEvent{
					Path:   evt.Entry.Path,
					Name:   evt.Entry.Name,
					Depth:  evt.Entry.Depth,
					Type:   entryType(evt.Entry),
					IsLast: evt.Entry.IsLast,
				},
			})
		case commands.TreeEventAccessDenied:
			assembler.deny()
			return emitter.send(Event{
				Kind:      EventKindAccessDenied,
				Path:      evt.Directory.Path,
				Directory: &DirectoryEvent{Path: evt.Directory.Path, Name: evt.Directory.Name, Depth: evt.Directory.Depth, IsLast: evt.Directory.IsLast},
			})
		}
		return nil
	}

	if err := commands.WalkTree(commands.TreeWalkOptions{Root: opts.Root}, handler); err != nil {
		return err
	}

	if assembler.root != nil {
		if err := emitter.send(Event{Kind: EventKindTree, Path: opts.Root, Tree: assembler.root}); err != nil {
			return err
		}
	}
	return emitter.send(Event{Kind: EventKindDone, Path: filepath.Clean(opts.Root)})
}

func directoryEvent(phase DirectoryPhase, directory *commands.TreeDirectory) Event {
	return Event{
		Kind: EventKindDirectory,
		Path: directory.Path,
		Directory: &DirectoryEvent{
			Phase:  phase,
			Path:   directory.Path,
			Name:   directory.Name,
			Depth:  directory.Depth,
			IsLast: directory.IsLast,
		},
	}
}
