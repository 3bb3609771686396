package storage

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/base64"
	"io"
	"path"
	"strings"

	"github.com/npillmayer/bitfont/core"
)

// innerName strips directory and wrapper suffix off a stream name, so
// that the payload can be identified by the remaining name.
func innerName(name string) string {
	name = path.Base(name)
	ext := path.Ext(name)
	if ext == "" {
		return name
	}
	return strings.TrimSuffix(name, ext)
}

// compositeWriter flushes a transforming writer before closing the
// underlying stream.
type compositeWriter struct {
	io.Writer
	closers []io.Closer
}

func (cw *compositeWriter) Close() error {
	var first error
	for _, c := range cw.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// unwrapGzip peels a gzip layer off a stream. On write it interposes a
// gzip compressor.
func unwrapGzip(s *Stream, mode Mode) (*Stream, error) {
	if mode == WriteMode {
		zw := gzip.NewWriter(s)
		out, err := NewWriter(&compositeWriter{Writer: zw, closers: []io.Closer{zw, s}},
			innerName(s.Name()))
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	zr, err := gzip.NewReader(s)
	if err != nil {
		return nil, core.Error(core.EFORMATNOMATCH, "not gzip compressed: %s", s.Name())
	}
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, core.FormatError(-1, "damaged gzip stream %s: %v", s.Name(), err)
	}
	inner := innerName(s.Name())
	if zr.Name != "" {
		inner = zr.Name
	}
	return FromBytes(data, inner), nil
}

// unwrapBzip2 peels a bzip2 layer off a stream; compression is read-only.
func unwrapBzip2(s *Stream, mode Mode) (*Stream, error) {
	if mode == WriteMode {
		return nil, core.Error(core.EUNSUPPORTED, "cannot write bzip2 compression")
	}
	data, err := io.ReadAll(bzip2.NewReader(s))
	if err != nil {
		return nil, core.Error(core.EFORMATNOMATCH, "not bzip2 compressed: %s", s.Name())
	}
	return FromBytes(data, innerName(s.Name())), nil
}

// unwrapBase64 decodes a base64 text layer. On write it interposes an
// encoder.
func unwrapBase64(s *Stream, mode Mode) (*Stream, error) {
	if mode == WriteMode {
		enc := base64.NewEncoder(base64.StdEncoding, s)
		out, err := NewWriter(&compositeWriter{Writer: enc, closers: []io.Closer{enc, s}},
			innerName(s.Name()))
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	raw, err := io.ReadAll(s)
	if err != nil {
		return nil, core.WrapError(err, core.EIO, "cannot read %s", s.Name())
	}
	clean := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == ' ' || r == '\t' {
			return -1
		}
		return r
	}, string(raw))
	data, err := base64.StdEncoding.DecodeString(clean)
	if err != nil {
		return nil, core.Error(core.EFORMATNOMATCH, "not base64 encoded: %s", s.Name())
	}
	return FromBytes(data, innerName(s.Name())), nil
}
