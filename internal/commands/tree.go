package commands

import (
	"fmt"
	"io"
)

const (
	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "

	// AccessDeniedMarker is printed in place of the children of an unreadable directory.
	AccessDeniedMarker = "[ACCESS DENIED]"
	// ScanCompleteMessage closes the raw output.
	ScanCompleteMessage = "Scan Complete."
	// RootNameSuffix follows the root directory name on the header line.
	RootNameSuffix = "/"
)

// EntryLine formats a single tree line for an entry.
func EntryLine(prefix string, isLast bool, name string) string {
	connector := treeBranchConnector
	if isLast {
		connector = treeLastConnector
	}
	return prefix + connector + name
}

// ChildPrefix extends prefix for the children of an entry.
func ChildPrefix(prefix string, isLast bool) string {
	if isLast {
		return prefix + treeLastPadding
	}
	return prefix + treeBranchPadding
}

// AccessDeniedLine formats the marker line for an unreadable directory.
func AccessDeniedLine(prefix string) string {
	return prefix + AccessDeniedMarker
}

// HeaderLine formats the line naming the root directory. The filesystem root
// has no base name and is printed as the bare separator.
func HeaderLine(rootName string) string {
	if rootName == RootNameSuffix || rootName == "" {
		return RootNameSuffix
	}
	return rootName + RootNameSuffix
}

// RenderTree writes the children of directoryPath to writer as tree lines, each
// starting with prefix, recursing into subdirectories.
func RenderTree(writer io.Writer, directoryPath string, prefix string) error {
	printer := NewLinePrinter(writer, prefix)
	return WalkTree(TreeWalkOptions{Root: directoryPath}, printer.Handle)
}

// LinePrinter turns tree walk events into raw tree lines.
type LinePrinter struct {
	writer   io.Writer
	base     string
	prefixes []string
}

// NewLinePrinter returns a printer whose top-level lines start with basePrefix.
func NewLinePrinter(writer io.Writer, basePrefix string) *LinePrinter {
	return &LinePrinter{writer: writer, base: basePrefix}
}

// Handle consumes one walk event.
func (printer *LinePrinter) Handle(event TreeEvent) error {
	switch event.Kind {
	case TreeEventEnterDir:
		if len(printer.prefixes) == 0 {
			printer.prefixes = append(printer.prefixes, printer.base)
			return nil
		}
		printer.prefixes = append(printer.prefixes, ChildPrefix(printer.current(), event.Directory.IsLast))
	case TreeEventLeaveDir:
		if len(printer.prefixes) > 0 {
			printer.prefixes = printer.prefixes[:len(printer.prefixes)-1]
		}
	case TreeEventEntry:
		_, err := fmt.Fprintln(printer.writer, EntryLine(printer.current(), event.Entry.IsLast, event.Entry.Name))
		return err
	case TreeEventAccessDenied:
		_, err := fmt.Fprintln(printer.writer, AccessDeniedLine(printer.current()))
		return err
	}
	return nil
}

func (printer *LinePrinter) current() string {
	if len(printer.prefixes) == 0 {
		return printer.base
	}
	return printer.prefixes[len(printer.prefixes)-1]
}
