package storage

import (
	"sort"
	"strings"
)

// Container is a multi-stream aggregation: a directory or an archive.
// Containers hand out streams whose names are relative to the container.
// Writes performed on archive-returned write streams become visible only
// after the archive itself is closed; a Directory writes straight through
// to the file system.
type Container interface {
	Name() string
	Mode() Mode
	// Open returns a stream on an entry. In write mode the entry is
	// created, shadowing an existing one.
	Open(name string, mode Mode) (*Stream, error)
	// List returns all entries, with directory entries suffixed by "/".
	List() ([]string, error)
	Exists(name string) bool
	IsDir(name string) bool
	// Iter returns the entries below a prefix.
	Iter(prefix string) ([]string, error)
	// Close flushes pending writes and releases the container.
	Close() error
}

// iterPrefix filters a container listing for entries below a prefix.
func iterPrefix(entries []string, prefix string) []string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	sort.Strings(out)
	return out
}

// commonRoot returns the top directory shared by all entries, or "".
func commonRoot(entries []string) string {
	root := ""
	for _, e := range entries {
		top, _, ok := strings.Cut(e, "/")
		if !ok {
			return ""
		}
		if root == "" {
			root = top
		} else if top != root {
			return ""
		}
	}
	return root
}

// stemOf strips directory and suffix from an archive name.
func stemOf(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
