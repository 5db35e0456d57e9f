// Package commands contains the directory traversal behind the tree output.
package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/temirov/scantree/internal/utils"
)

const (
	// errorReadDirectoryFormat is used when a directory cannot be listed for a reason other than permissions.
	errorReadDirectoryFormat = "reading directory %s: %w"
	// errorNilHandlerMessage is returned when WalkTree is called without a handler.
	errorNilHandlerMessage = "tree walk handler is nil"
	// errorEmptyRootMessage is returned when WalkTree is called without a root.
	errorEmptyRootMessage = "tree walk root path is empty"
)

type TreeEventKind int

const (
	TreeEventEnterDir TreeEventKind = iota
	TreeEventEntry
	TreeEventAccessDenied
	TreeEventLeaveDir
)

// TreeDirectory identifies a directory whose children are being walked.
// IsLast mirrors the entry event that announced the directory; the root is always last.
type TreeDirectory struct {
	Path   string
	Name   string
	Depth  int
	IsLast bool
}

// TreeEntry is a single child listed under a directory.
type TreeEntry struct {
	Path        string
	Name        string
	Depth       int
	IsDirectory bool
	IsLast      bool
}

type TreeEvent struct {
	Kind      TreeEventKind
	Directory *TreeDirectory
	Entry     *TreeEntry
}

// TreeWalkOptions configures WalkTree.
type TreeWalkOptions struct {
	Root string
}

// WalkTree performs a depth-first walk of options.Root and reports every
// non-ignored entry to handler in output order.
//
// For each directory the handler sees an enter event, then one entry event per
// child (a directory child is followed immediately by its own nested walk), then
// a leave event. A directory that cannot be listed because of permissions yields
// a single access denied event in place of its children. Any other listing
// failure aborts the walk and is returned.
func WalkTree(options TreeWalkOptions, handler func(TreeEvent) error) error {
	if handler == nil {
		return errors.New(errorNilHandlerMessage)
	}
	if options.Root == "" {
		return errors.New(errorEmptyRootMessage)
	}
	root := TreeDirectory{
		Path:   options.Root,
		Name:   filepath.Base(options.Root),
		Depth:  0,
		IsLast: true,
	}
	return walkDirectory(root, handler)
}

func walkDirectory(directory TreeDirectory, handler func(TreeEvent) error) error {
	if err := handler(TreeEvent{Kind: TreeEventEnterDir, Directory: &directory}); err != nil {
		return err
	}

	children, listErr := listChildren(directory.Path)
	if listErr != nil {
		if !IsAccessDenied(listErr) {
			return fmt.Errorf(errorReadDirectoryFormat, directory.Path, listErr)
		}
		denied := directory
		if err := handler(TreeEvent{Kind: TreeEventAccessDenied, Directory: &denied}); err != nil {
			return err
		}
	}

	childDepth := directory.Depth + 1
	for index, child := range children {
		entry := TreeEntry{
			Path:        child.path,
			Name:        child.name,
			Depth:       childDepth,
			IsDirectory: child.isDirectory,
			IsLast:      index == len(children)-1,
		}
		if err := handler(TreeEvent{Kind: TreeEventEntry, Entry: &entry}); err != nil {
			return err
		}
		if !entry.IsDirectory {
			continue
		}
		nested := TreeDirectory{
			Path:   entry.Path,
			Name:   entry.Name,
			Depth:  childDepth,
			IsLast: entry.IsLast,
		}
		if err := walkDirectory(nested, handler); err != nil {
			return err
		}
	}

	leave := directory
	return handler(TreeEvent{Kind: TreeEventLeaveDir, Directory: &leave})
}

type childEntry struct {
	path        string
	name        string
	isDirectory bool
}

// readDirectory lists a directory; tests replace it to simulate listing failures.
var readDirectory = os.ReadDir

// listChildren reads, filters, and sorts the immediate children of a directory.
func listChildren(directoryPath string) ([]childEntry, error) {
	directoryEntries, readErr := readDirectory(directoryPath)
	if readErr != nil {
		return nil, readErr
	}

	names := make([]string, 0, len(directoryEntries))
	entriesByName := make(map[string]fs.DirEntry, len(directoryEntries))
	for _, directoryEntry := range directoryEntries {
		name := directoryEntry.Name()
		if utils.IsIgnoredName(name) {
			continue
		}
		names = append(names, name)
		entriesByName[name] = directoryEntry
	}

	sortable := utils.NewSortableNames(names)
	slices.SortFunc(sortable, utils.CompareSortableNames)

	children := make([]childEntry, 0, len(sortable))
	for _, sortableName := range sortable {
		childPath := filepath.Join(directoryPath, sortableName.Name)
		children = append(children, childEntry{
			path:        childPath,
			name:        sortableName.Name,
			isDirectory: isDirectory(childPath, entriesByName[sortableName.Name]),
		})
	}
	return children, nil
}

// isDirectory follows symbolic links; a dangling link counts as a file.
func isDirectory(childPath string, directoryEntry fs.DirEntry) bool {
	if directoryEntry.Type()&fs.ModeSymlink == 0 {
		return directoryEntry.IsDir()
	}
	targetInfo, statErr := os.Stat(childPath)
	if statErr != nil {
		return false
	}
	return targetInfo.IsDir()
}

// IsAccessDenied reports whether err stems from insufficient permission.
func IsAccessDenied(err error) bool {
	return errors.Is(err, fs.ErrPermission)
}
