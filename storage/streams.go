package storage

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/npillmayer/bitfont/core"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Mode is the access mode of a stream or container, read or write
// exclusively.
type Mode byte

// Stream and container access modes.
const (
	ReadMode  Mode = 'r'
	WriteMode Mode = 'w'
)

// Stream is a seekable binary byte stream with a re-anchorable origin:
// Seek(0) returns to the position at which the stream was constructed, not
// the underlying file's zero. A stream owns its underlying resource and
// releases it on Close, unless shared via Retain.
type Stream struct {
	name     string
	mode     Mode
	where    Container
	r        io.ReadSeeker
	w        io.Writer
	anchor   int64
	wpos     int64
	refcount int
	closed   bool
	closer   io.Closer
	also     []io.Closer
	text     io.Reader
}

// NewReader wraps a readable stream. Unseekable input is drained into an
// in-memory buffer. The current position becomes the stream's anchor.
func NewReader(r io.Reader, name string) (*Stream, error) {
	if r == nil {
		return nil, core.Error(core.EINVALID, "no stream provided")
	}
	s := &Stream{name: name, mode: ReadMode}
	if closer, ok := r.(io.Closer); ok {
		s.closer = closer
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		anchor, err := rs.Seek(0, io.SeekCurrent)
		if err != nil {
			return nil, core.WrapError(err, core.EIO, "stream is not seekable")
		}
		s.r = rs
		s.anchor = anchor
		return s, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot drain unseekable stream")
	}
	s.r = bytes.NewReader(data)
	return s, nil
}

// NewWriter wraps a writable stream.
func NewWriter(w io.Writer, name string) (*Stream, error) {
	if w == nil {
		return nil, core.Error(core.EINVALID, "no stream provided")
	}
	s := &Stream{name: name, mode: WriteMode, w: w}
	if closer, ok := w.(io.Closer); ok {
		s.closer = closer
	}
	return s, nil
}

// FromBytes opens a readable stream over in-memory data.
func FromBytes(data []byte, name string) *Stream {
	return &Stream{name: name, mode: ReadMode, r: bytes.NewReader(data)}
}

// Name is the stream's name, usually a filename relative to its container.
func (s *Stream) Name() string {
	return s.name
}

// Mode is the stream's access mode.
func (s *Stream) Mode() Mode {
	return s.mode
}

// Where is the container the stream is embedded in, or nil.
func (s *Stream) Where() Container {
	return s.where
}

// WithName returns the stream under a different name.
func (s *Stream) WithName(name string) *Stream {
	s.name = name
	return s
}

func (s *Stream) setWhere(c Container) *Stream {
	s.where = c
	return s
}

// Read reads from the stream. Reading a write stream is an error.
func (s *Stream) Read(p []byte) (int, error) {
	if s.mode != ReadMode {
		return 0, core.Error(core.EUNSUPPORTED, "stream '%s' is not readable", s.name)
	}
	return s.r.Read(p)
}

// Write writes to the stream. Writing a read stream is an error.
func (s *Stream) Write(p []byte) (int, error) {
	if s.mode != WriteMode {
		return 0, core.Error(core.EUNSUPPORTED, "stream '%s' is not writable", s.name)
	}
	n, err := s.w.Write(p)
	s.wpos += int64(n)
	if err != nil {
		return n, core.WrapError(err, core.EIO, "write to '%s' failed", s.name)
	}
	return n, nil
}

// Peek returns the next n bytes without consuming them. Near the end of
// the stream fewer bytes are returned, without error.
func (s *Stream) Peek(n int) ([]byte, error) {
	if s.mode != ReadMode {
		return nil, core.Error(core.EUNSUPPORTED, "cannot peek write stream '%s'", s.name)
	}
	pos, err := s.r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "peek on '%s' failed", s.name)
	}
	buf := make([]byte, n)
	read, err := io.ReadFull(s.r, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, core.WrapError(err, core.EIO, "peek on '%s' failed", s.name)
	}
	if _, err := s.r.Seek(pos, io.SeekStart); err != nil {
		return nil, core.WrapError(err, core.EIO, "peek on '%s' failed", s.name)
	}
	return buf[:read], nil
}

// Seek moves the stream position, relative to the anchor for
// io.SeekStart.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.mode == WriteMode {
		if ws, ok := s.w.(io.WriteSeeker); ok {
			pos, err := ws.Seek(offset, whence)
			return pos, err
		}
		if offset == 0 && whence == io.SeekCurrent {
			return s.wpos, nil
		}
		return 0, core.Error(core.EUNSUPPORTED, "write stream '%s' is not seekable", s.name)
	}
	if whence == io.SeekStart {
		offset += s.anchor
	}
	pos, err := s.r.Seek(offset, whence)
	if err != nil {
		return 0, core.WrapError(err, core.EIO, "seek on '%s' failed", s.name)
	}
	return pos - s.anchor, nil
}

// Tell is the stream position relative to the anchor.
func (s *Stream) Tell() int64 {
	if s.mode == WriteMode {
		return s.wpos
	}
	pos, _ := s.r.Seek(0, io.SeekCurrent)
	return pos - s.anchor
}

// Text returns a text view of the stream: UTF-8 with an optional byte
// order mark. Write streams have no text view and yield nil. The binary
// stream remains the source of truth.
func (s *Stream) Text() io.Reader {
	if s.mode == WriteMode {
		return nil
	}
	if s.text == nil {
		s.text = transform.NewReader(s.r, unicode.UTF8BOM.NewDecoder())
	}
	return s.text
}

// Retain increments the stream's reference count so that it survives one
// extra Close. Nested scopes can share a stream this way.
func (s *Stream) Retain() *Stream {
	s.refcount++
	return s
}

// Close releases the underlying resource once the reference count reaches
// zero.
func (s *Stream) Close() error {
	if s.refcount > 0 {
		s.refcount--
		return nil
	}
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			return core.WrapError(err, core.EIO, "closing '%s' failed", s.name)
		}
	}
	for _, c := range s.also {
		if err := c.Close(); err != nil {
			return core.WrapError(err, core.EIO, "closing '%s' failed", s.name)
		}
	}
	return nil
}

// addCloser attaches an additional resource to be released after the
// stream itself has closed, e.g. the archive chain owning the stream.
func (s *Stream) addCloser(c io.Closer) {
	s.also = append(s.also, c)
}

// number of bytes to read to check if something looks like text
const textSampleSize = 256

// LooksLikeText checks if an input stream looks a bit like it might hold
// UTF-8 text, by sampling for unexpected bytes. Write streams could hold
// anything and count as text-capable.
func LooksLikeText(s *Stream) bool {
	if s.mode == WriteMode {
		return true
	}
	sample, err := s.Peek(textSampleSize)
	if err != nil {
		return false
	}
	for _, b := range sample {
		// C0 controls except TAB, LF, CR; and F8-FF, which never occur
		// in utf-8
		if b < 0x20 && b != '\t' && b != '\n' && b != '\r' {
			tracer().Debugf("found non-text bytes: stream '%s' is likely binary", s.name)
			return false
		}
		if b >= 0xf8 {
			tracer().Debugf("found non-text bytes: stream '%s' is likely binary", s.name)
			return false
		}
	}
	for i := 0; i < len(sample); {
		r, size := utf8.DecodeRune(sample[i:])
		if r == utf8.RuneError && size == 1 {
			if truncatedSequence(sample[i:]) {
				// mid-sequence truncation at the sample boundary
				break
			}
			tracer().Debugf("found non-utf8 sequences: stream '%s' is likely binary", s.name)
			return false
		}
		i += size
	}
	tracer().Debugf("stream '%s' is likely text", s.name)
	return true
}

// truncatedSequence tells whether tail is the begin of a multi-byte utf-8
// sequence clipped by the sample boundary, as opposed to garbage.
func truncatedSequence(tail []byte) bool {
	var length int
	switch b := tail[0]; {
	case b >= 0xc0 && b < 0xe0:
		length = 2
	case b >= 0xe0 && b < 0xf0:
		length = 3
	case b >= 0xf0 && b < 0xf8:
		length = 4
	default:
		return false
	}
	if len(tail) >= length {
		return false
	}
	for _, b := range tail[1:] {
		if b < 0x80 || b >= 0xc0 {
			return false
		}
	}
	return true
}
