package storage

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/bitfont/core"
)

// Directory is a container over a file system directory. Lookup is
// case-insensitive on read by default, stepping through the path component
// by component; writes use native case.
type Directory struct {
	root       string
	mode       Mode
	ignoreCase bool
}

// NewDirectory opens a directory container.
func NewDirectory(root string, mode Mode) (*Directory, error) {
	if root == "" {
		root = "."
	}
	if mode == ReadMode {
		info, err := os.Stat(root)
		if err != nil {
			return nil, core.WrapError(err, core.EMISSING, "no such directory: %s", root)
		}
		if !info.IsDir() {
			return nil, core.Error(core.EINVALID, "not a directory: %s", root)
		}
	}
	return &Directory{root: root, mode: mode, ignoreCase: mode == ReadMode}, nil
}

// MatchCase makes entry lookup case-sensitive.
func (d *Directory) MatchCase() *Directory {
	d.ignoreCase = false
	return d
}

// Name is the directory path.
func (d *Directory) Name() string {
	return d.root
}

// Mode is the container's access mode.
func (d *Directory) Mode() Mode {
	return d.mode
}

// resolve maps an entry name onto the file system, stepping component by
// component for case-insensitive lookup.
func (d *Directory) resolve(name string) string {
	if !d.ignoreCase {
		return filepath.Join(d.root, filepath.FromSlash(name))
	}
	current := d.root
	components := strings.Split(name, "/")
	for i, comp := range components {
		candidate := filepath.Join(current, comp)
		if _, err := os.Lstat(candidate); err == nil {
			current = candidate
			continue
		}
		entries, err := os.ReadDir(current)
		if err != nil {
			return filepath.Join(current, filepath.FromSlash(strings.Join(components[i:], "/")))
		}
		found := ""
		for _, e := range entries {
			if strings.EqualFold(e.Name(), comp) {
				found = e.Name()
				break
			}
		}
		if found == "" {
			return filepath.Join(current, filepath.FromSlash(strings.Join(components[i:], "/")))
		}
		current = filepath.Join(current, found)
	}
	return current
}

// Open returns a stream on a directory entry. In write mode, intermediate
// directories are created as needed.
func (d *Directory) Open(name string, mode Mode) (*Stream, error) {
	fullpath := d.resolve(name)
	if mode == WriteMode {
		if err := os.MkdirAll(filepath.Dir(fullpath), 0755); err != nil {
			return nil, core.WrapError(err, core.EIO, "cannot create directory for '%s'", name)
		}
		f, err := os.Create(fullpath)
		if err != nil {
			return nil, core.WrapError(err, core.EIO, "cannot create '%s'", name)
		}
		s, err := NewWriter(f, name)
		if err != nil {
			return nil, err
		}
		return s.setWhere(d), nil
	}
	f, err := os.Open(fullpath)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "no such file: %s", name)
	}
	s, err := NewReader(f, name)
	if err != nil {
		return nil, err
	}
	return s.setWhere(d), nil
}

// List returns all entries below the directory, with directories suffixed
// by "/".
func (d *Directory) List() ([]string, error) {
	var entries []string
	err := filepath.WalkDir(d.root, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil || rel == "." {
			return nil
		}
		name := filepath.ToSlash(rel)
		if entry.IsDir() {
			name += "/"
		}
		entries = append(entries, name)
		return nil
	})
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot list directory %s", d.root)
	}
	return entries, nil
}

// Exists tells whether an entry exists in the directory.
func (d *Directory) Exists(name string) bool {
	_, err := os.Lstat(d.resolve(name))
	return err == nil
}

// IsDir tells whether an entry is a subdirectory.
func (d *Directory) IsDir(name string) bool {
	info, err := os.Stat(d.resolve(name))
	return err == nil && info.IsDir()
}

// Iter returns the entries below a prefix.
func (d *Directory) Iter(prefix string) ([]string, error) {
	entries, err := d.List()
	if err != nil {
		return nil, err
	}
	return iterPrefix(entries, prefix), nil
}

// Close is a no-op for directories.
func (d *Directory) Close() error {
	return nil
}
