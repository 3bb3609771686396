package storage

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/npillmayer/bitfont/core"
)

// archive is the shared machinery of the zip and tar containers. Read
// archives are drained into memory; write archives batch pending entries
// until Close, so that formats which need a central directory can be
// emitted correctly.
type archive struct {
	name    string
	mode    Mode
	entries map[string][]byte // read side, with the root prefix elided
	order   []string
	root    string // elided on read, synthesised on write
	out     *Stream
	pending []*pendingEntry
	closed  bool
}

type pendingEntry struct {
	name string
	buf  *bytes.Buffer
}

func (a *archive) Name() string {
	return a.name
}

func (a *archive) Mode() Mode {
	return a.mode
}

// elideRoot strips a common top directory matching the archive's basename,
// a convention many archives follow.
func (a *archive) elideRoot() {
	root := commonRoot(a.order)
	if root == "" || root != stemOf(a.name) {
		return
	}
	a.root = root + "/"
	entries := make(map[string][]byte, len(a.entries))
	order := make([]string, 0, len(a.order))
	for _, name := range a.order {
		stripped := strings.TrimPrefix(name, a.root)
		if stripped == "" {
			continue
		}
		entries[stripped] = a.entries[name]
		order = append(order, stripped)
	}
	a.entries = entries
	a.order = order
}

func (a *archive) open(name string, mode Mode) (*Stream, error) {
	if mode == WriteMode {
		if a.mode != WriteMode {
			return nil, core.Error(core.EUNSUPPORTED,
				"archive %s is read-only", a.name)
		}
		entry := &pendingEntry{name: name, buf: &bytes.Buffer{}}
		a.pending = append(a.pending, entry)
		s, err := NewWriter(entry.buf, name)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	if a.mode != ReadMode {
		return nil, core.Error(core.EUNSUPPORTED,
			"archive %s is write-only", a.name)
	}
	data, ok := a.entries[name]
	if !ok {
		return nil, core.Error(core.EMISSING,
			"no entry '%s' in archive %s", name, a.name)
	}
	return FromBytes(data, name), nil
}

func (a *archive) List() ([]string, error) {
	return append([]string{}, a.order...), nil
}

func (a *archive) Exists(name string) bool {
	if _, ok := a.entries[name]; ok {
		return true
	}
	_, ok := a.entries[name+"/"]
	return ok || a.isImplicitDir(name)
}

func (a *archive) IsDir(name string) bool {
	if _, ok := a.entries[name+"/"]; ok {
		return true
	}
	return a.isImplicitDir(name)
}

// isImplicitDir recognises directories that exist only as entry prefixes.
func (a *archive) isImplicitDir(name string) bool {
	prefix := name + "/"
	for _, e := range a.order {
		if strings.HasPrefix(e, prefix) {
			return true
		}
	}
	return false
}

func (a *archive) Iter(prefix string) ([]string, error) {
	return iterPrefix(a.order, prefix), nil
}

// --- Zip archives -----------------------------------------------------------

// zipContainer reads and writes zip archives.
type zipContainer struct {
	archive
}

// NewZip opens a zip container on a stream. Read archives are loaded into
// memory; write archives collect entries and emit them when the container
// is closed.
func NewZip(s *Stream, mode Mode) (Container, error) {
	a := archive{name: s.Name(), mode: mode}
	if mode == WriteMode {
		a.out = s
		a.root = stemOf(s.Name()) + "/"
		return &zipContainer{archive: a}, nil
	}
	data, err := io.ReadAll(s)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read archive %s", s.Name())
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, core.Error(core.EFORMATNOMATCH, "not a zip archive: %s", s.Name())
	}
	a.entries = make(map[string][]byte, len(zr.File))
	for _, zf := range zr.File {
		name := zf.Name
		if zf.FileInfo().IsDir() && !strings.HasSuffix(name, "/") {
			name += "/"
		}
		var content []byte
		if !zf.FileInfo().IsDir() {
			rc, err := zf.Open()
			if err != nil {
				tracer().Errorf("skipping corrupt archive entry %s: %v", name, err)
				continue
			}
			content, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				tracer().Errorf("skipping corrupt archive entry %s: %v", name, err)
				continue
			}
		}
		a.entries[name] = content
		a.order = append(a.order, name)
	}
	a.elideRoot()
	return &zipContainer{archive: a}, nil
}

func (z *zipContainer) Open(name string, mode Mode) (*Stream, error) {
	s, err := z.open(name, mode)
	if err != nil {
		return nil, err
	}
	return s.setWhere(z), nil
}

// Close flushes pending entries, in insertion order, and releases the
// underlying stream.
func (z *zipContainer) Close() error {
	if z.closed {
		return nil
	}
	z.closed = true
	if z.mode != WriteMode {
		return nil
	}
	w := zip.NewWriter(z.out)
	for _, entry := range z.pending {
		f, err := w.Create(z.root + entry.name)
		if err != nil {
			return core.WrapError(err, core.EIO, "cannot write archive %s", z.name)
		}
		if _, err := f.Write(entry.buf.Bytes()); err != nil {
			return core.WrapError(err, core.EIO, "cannot write archive %s", z.name)
		}
	}
	if err := w.Close(); err != nil {
		return core.WrapError(err, core.EIO, "cannot finish archive %s", z.name)
	}
	return z.out.Close()
}

// --- Tar archives -----------------------------------------------------------

// tarContainer reads and writes tar archives.
type tarContainer struct {
	archive
}

// NewTar opens a tar container on a stream.
func NewTar(s *Stream, mode Mode) (Container, error) {
	a := archive{name: s.Name(), mode: mode}
	if mode == WriteMode {
		a.out = s
		a.root = stemOf(s.Name()) + "/"
		return &tarContainer{archive: a}, nil
	}
	a.entries = make(map[string][]byte)
	tr := tar.NewReader(s)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			if len(a.entries) == 0 {
				return nil, core.Error(core.EFORMATNOMATCH, "not a tar archive: %s", s.Name())
			}
			tracer().Errorf("skipping corrupt archive entry: %v", err)
			break
		}
		name := strings.TrimPrefix(hdr.Name, "./")
		switch hdr.Typeflag {
		case tar.TypeDir:
			if !strings.HasSuffix(name, "/") {
				name += "/"
			}
			a.entries[name] = nil
			a.order = append(a.order, name)
		case tar.TypeReg:
			content, err := io.ReadAll(tr)
			if err != nil {
				tracer().Errorf("skipping corrupt archive entry %s: %v", name, err)
				continue
			}
			a.entries[name] = content
			a.order = append(a.order, name)
		}
	}
	if len(a.entries) == 0 {
		return nil, core.Error(core.EFORMATNOMATCH, "not a tar archive: %s", s.Name())
	}
	a.elideRoot()
	return &tarContainer{archive: a}, nil
}

func (t *tarContainer) Open(name string, mode Mode) (*Stream, error) {
	s, err := t.open(name, mode)
	if err != nil {
		return nil, err
	}
	return s.setWhere(t), nil
}

// Close flushes pending entries, in insertion order, and releases the
// underlying stream.
func (t *tarContainer) Close() error {
	if t.closed {
		return nil
	}
	t.closed = true
	if t.mode != WriteMode {
		return nil
	}
	w := tar.NewWriter(t.out)
	if err := w.WriteHeader(&tar.Header{
		Name:     t.root,
		Typeflag: tar.TypeDir,
		Mode:     0755,
		ModTime:  time.Unix(0, 0),
	}); err != nil {
		return core.WrapError(err, core.EIO, "cannot write archive %s", t.name)
	}
	for _, entry := range t.pending {
		hdr := &tar.Header{
			Name:     t.root + entry.name,
			Typeflag: tar.TypeReg,
			Mode:     0644,
			Size:     int64(entry.buf.Len()),
			ModTime:  time.Unix(0, 0),
		}
		if err := w.WriteHeader(hdr); err != nil {
			return core.WrapError(err, core.EIO, "cannot write archive %s", t.name)
		}
		if _, err := w.Write(entry.buf.Bytes()); err != nil {
			return core.WrapError(err, core.EIO, "cannot write archive %s", t.name)
		}
	}
	if err := w.Close(); err != nil {
		return core.WrapError(err, core.EIO, "cannot finish archive %s", t.name)
	}
	return t.out.Close()
}
