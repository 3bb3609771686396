package storage

import (
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/bitfont/core"
)

// Open resolves a location, walking nested containers and wrappers, and
// returns a stream on the leaf. A location is a path whose components may
// descend into archives, e.g. "fonts.zip/dir/font.fnt.gz". The
// containerFormat hint names the nested layers as `outer.inner` and is
// consumed right to left as layers are opened; unused hints survive to the
// next layer.
func Open(pathname string, mode Mode, containerFormat string) (*Stream, error) {
	if pathname == "" {
		return nil, core.Error(core.EINVALID, "no location provided")
	}
	root := "."
	sub := filepath.ToSlash(pathname)
	if path.IsAbs(sub) {
		root = "/"
		sub = strings.TrimPrefix(sub, "/")
	}
	container, err := NewDirectory(root, mode)
	if err != nil {
		return nil, err
	}
	hints := splitHints(containerFormat)
	loc := &location{container: container, hints: hints}
	if mode == WriteMode {
		return loc.resolveWrite(sub)
	}
	return loc.resolveRead(sub)
}

type location struct {
	container Container
	hints     []string
}

// popHint consumes the outermost remaining layer hint.
func (loc *location) popHint() string {
	if len(loc.hints) == 0 {
		return ""
	}
	hint := loc.hints[len(loc.hints)-1]
	loc.hints = loc.hints[:len(loc.hints)-1]
	return hint
}

func splitHints(containerFormat string) []string {
	var hints []string
	for _, h := range strings.Split(containerFormat, ".") {
		if h != "" {
			hints = append(hints, h)
		}
	}
	return hints
}

// resolveRead walks the subpath, opening the leaf-most existing entry at
// every step, peeling wrappers and descending into containers.
func (loc *location) resolveRead(sub string) (*Stream, error) {
	for {
		head, tail := splitExisting(loc.container, sub)
		if head == "" {
			if s, ok := loc.fontDirFallback(sub); ok {
				return s, nil
			}
			return nil, core.Error(core.EMISSING,
				"'%s' does not exist in %s", sub, loc.container.Name())
		}
		if loc.container.IsDir(head) {
			return nil, core.Error(core.EUNSUPPORTED,
				"location '%s' is a directory", head)
		}
		stream, err := loc.container.Open(head, ReadMode)
		if err != nil {
			return nil, err
		}
		hint := loc.popHint()
		stream, err = unwrapAll(stream, hint)
		if err != nil {
			return nil, err
		}
		container, ok, err := openContainer(stream, hint)
		if err != nil {
			return nil, err
		}
		if !ok {
			if tail == "" {
				return stream, nil
			}
			return nil, core.Error(core.EMISSING,
				"'%s' is not a container, cannot resolve '%s'", head, tail)
		}
		if tail == "" {
			return nil, core.Error(core.EUNSUPPORTED,
				"location '%s' is a container, not a file", head)
		}
		loc.container = container
		sub = tail
	}
}

// resolveWrite walks the subpath for writing. Existing directories are
// descended; a component with an archive suffix opens a fresh archive
// writer; the final component becomes the output stream, wrapped when its
// suffix names a wrapper format.
func (loc *location) resolveWrite(sub string) (*Stream, error) {
	var owners []io.Closer
	for {
		comp, tail, _ := strings.Cut(sub, "/")
		if tail == "" {
			stream, err := loc.container.Open(comp, WriteMode)
			if err != nil {
				return nil, err
			}
			stream, err = wrapAll(stream, loc.popHint())
			if err != nil {
				return nil, err
			}
			// innermost container flushes first
			for i := len(owners) - 1; i >= 0; i-- {
				stream.addCloser(owners[i])
			}
			return stream, nil
		}
		if loc.container.IsDir(comp) {
			dir, ok := loc.container.(*Directory)
			if !ok {
				return nil, core.Error(core.EUNSUPPORTED,
					"cannot descend into directory '%s' inside an archive", comp)
			}
			sd, err := NewDirectory(filepath.Join(dir.root, comp), WriteMode)
			if err != nil {
				return nil, err
			}
			loc.container = sd
			sub = tail
			continue
		}
		hint := loc.popHint()
		candidates := containerCandidatesByName(comp, hint)
		if len(candidates) == 0 {
			// plain subdirectory to be created
			dir, ok := loc.container.(*Directory)
			if !ok {
				return nil, core.Error(core.EUNSUPPORTED,
					"cannot create directory '%s' inside an archive", comp)
			}
			sd, err := NewDirectory(filepath.Join(dir.root, comp), WriteMode)
			if err != nil {
				return nil, err
			}
			loc.container = sd
			sub = tail
			continue
		}
		stream, err := loc.container.Open(comp, WriteMode)
		if err != nil {
			return nil, err
		}
		container, err := candidates[0].OpenContainer(stream, WriteMode)
		if err != nil {
			return nil, err
		}
		owners = append(owners, container)
		loc.container = container
		sub = tail
	}
}

// fontDirFallback searches the system font directories for a bare font
// file name that does not resolve locally.
func (loc *location) fontDirFallback(sub string) (*Stream, bool) {
	if strings.Contains(sub, "/") {
		return nil, false
	}
	found, err := findfont.Find(sub)
	if err != nil {
		return nil, false
	}
	tracer().Infof("found '%s' in system font directories: %s", sub, found)
	dir, err := NewDirectory(filepath.Dir(found), ReadMode)
	if err != nil {
		return nil, false
	}
	s, err := dir.Open(filepath.Base(found), ReadMode)
	if err != nil {
		return nil, false
	}
	return s, true
}

// splitExisting finds the longest subpath prefix existing in the
// container. It returns "" when nothing exists.
func splitExisting(c Container, sub string) (head, tail string) {
	components := strings.Split(sub, "/")
	for i := len(components); i > 0; i-- {
		head := strings.Join(components[:i], "/")
		if c.Exists(head) {
			return head, strings.Join(components[i:], "/")
		}
	}
	return "", sub
}

// unwrapAll peels wrapper layers off a stream while any wrapper signature
// matches.
func unwrapAll(s *Stream, hint string) (*Stream, error) {
	for {
		candidates := Wrappers.GetFor(s, hint)
		unwrapped := false
		for _, c := range candidates {
			if c.Unwrap == nil {
				continue
			}
			if _, err := s.Seek(0, io.SeekStart); err != nil {
				return nil, err
			}
			inner, err := c.Unwrap(s, ReadMode)
			if err != nil {
				if core.IsFormatMismatch(err) {
					continue
				}
				return nil, err
			}
			tracer().Infof("unwrapped '%s' as %s", s.Name(), c.Name)
			s = inner
			unwrapped = true
			hint = "" // an explicit hint applies to one layer only
			break
		}
		if !unwrapped {
			return s, nil
		}
	}
}

// wrapAll interposes write-mode wrappers while the stream name carries
// wrapper suffixes.
func wrapAll(s *Stream, hint string) (*Stream, error) {
	for {
		matches := Wrappers.Identify(s)
		var codec *Codec
		if hint != "" {
			if c, ok := Wrappers.Get(hint); ok {
				codec = c
			}
			hint = ""
		} else if len(matches) > 0 {
			codec = matches[0]
		}
		if codec == nil || codec.Unwrap == nil {
			return s, nil
		}
		wrapped, err := codec.Unwrap(s, WriteMode)
		if err != nil {
			return nil, err
		}
		tracer().Infof("wrapping '%s' as %s", s.Name(), codec.Name)
		s = wrapped
	}
}

// openContainer tries to open a stream as a container.
func openContainer(s *Stream, hint string) (Container, bool, error) {
	candidates := Containers.GetFor(s, hint)
	for _, c := range candidates {
		if c.OpenContainer == nil {
			continue
		}
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, false, err
		}
		container, err := c.OpenContainer(s, ReadMode)
		if err != nil {
			if core.IsFormatMismatch(err) {
				continue
			}
			return nil, false, err
		}
		tracer().Infof("opened '%s' as container format %s", s.Name(), c.Name)
		return container, true, nil
	}
	return nil, false, nil
}

// containerCandidatesByName identifies archive formats from a filename.
func containerCandidatesByName(name, hint string) []*Codec {
	if hint != "" {
		if c, ok := Containers.Get(hint); ok && c.OpenContainer != nil {
			return []*Codec{c}
		}
	}
	var out []*Codec
	for _, format := range Containers.Formats() {
		c, _ := Containers.Get(format)
		if c.OpenContainer == nil {
			continue
		}
		for _, p := range c.Patterns {
			if p.Matches(path.Base(name)) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
