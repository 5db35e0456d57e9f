// Package utils contains general helper functions used across scantree.
package utils

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Well-known noise directory names skipped during traversal.
const (
	// GitDirectoryName is the name of the Git repository directory.
	GitDirectoryName = ".git"
	// NodeModulesDirectoryName is the npm dependency cache directory.
	NodeModulesDirectoryName = "node_modules"
	// DistDirectoryName is a common bundler output directory.
	DistDirectoryName = "dist"
	// BuildDirectoryName is a common build output directory.
	BuildDirectoryName = "build"
	// ViteDirectoryName is the Vite cache directory.
	ViteDirectoryName = ".vite"
	// NextDirectoryName is the Next.js build directory.
	NextDirectoryName = ".next"
)

var ignoredDirectoryNames = map[string]struct{}{
	GitDirectoryName:         {},
	NodeModulesDirectoryName: {},
	DistDirectoryName:        {},
	BuildDirectoryName:       {},
	ViteDirectoryName:        {},
	NextDirectoryName:        {},
}

// IsIgnoredName reports whether an entry with the given name is excluded from traversal and output.
func IsIgnoredName(entryName string) bool {
	_, ignored := ignoredDirectoryNames[entryName]
	return ignored
}

// IgnoredDirectoryNames returns a copy of the ignore set in sorted order.
func IgnoredDirectoryNames() []string {
	names := make([]string, 0, len(ignoredDirectoryNames))
	for name := range ignoredDirectoryNames {
		names = append(names, name)
	}
	SortNamesCaseInsensitive(names)
	return names
}

// SortableName pairs a name with its lowercase ordering key.
type SortableName struct {
	Name string
	Key  string
}

// SortKey returns the lowercase form of a name used for ordering siblings.
// A Caser keeps state, so a fresh one is built per call.
func SortKey(name string) string {
	return cases.Lower(language.Und).String(name)
}

// NewSortableNames computes the ordering key of every name once, sharing a
// single Caser across the batch.
func NewSortableNames(names []string) []SortableName {
	caser := cases.Lower(language.Und)
	sortable := make([]SortableName, len(names))
	for index, name := range names {
		sortable[index] = SortableName{Name: name, Key: caser.String(name)}
	}
	return sortable
}

// CompareSortableNames orders names by key. Names with the same key are
// ordered by their raw byte value so the result is total.
func CompareSortableNames(left, right SortableName) int {
	if keyOrder := strings.Compare(left.Key, right.Key); keyOrder != 0 {
		return keyOrder
	}
	return strings.Compare(left.Name, right.Name)
}

// CompareNames orders two names case-insensitively.
func CompareNames(left, right string) int {
	return CompareSortableNames(SortableName{Name: left, Key: SortKey(left)}, SortableName{Name: right, Key: SortKey(right)})
}

// SortNamesCaseInsensitive sorts names in place by lowercase key.
func SortNamesCaseInsensitive(names []string) {
	sortable := NewSortableNames(names)
	slices.SortFunc(sortable, CompareSortableNames)
	for index, entry := range sortable {
		names[index] = entry.Name
	}
}
