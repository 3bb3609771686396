package storage

import (
	"io"
	"path"
	"strings"

	"github.com/npillmayer/bitfont/core"
	"github.com/npillmayer/bitfont/font"
)

// LoadStream reads fonts from an open stream. Candidate codecs are tried
// in identification order; a codec declining the stream (or yielding zero
// fonts) passes it on to the next candidate. Other errors propagate.
func LoadStream(s *Stream, format string, opts Options) (*font.Pack, error) {
	candidates := Loaders.GetFor(s, format)
	if len(candidates) == 0 {
		return nil, core.Error(core.EFORMAT,
			"unable to read fonts from '%s': format specifier `%s` not recognised",
			s.Name(), format)
	}
	var tried []string
	var lastErr error
	for _, c := range candidates {
		if c.Load == nil {
			continue
		}
		tried = append(tried, c.Name)
		if _, err := s.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		tracer().Infof("loading '%s' as format `%s`", s.Name(), c.Name)
		fonts, err := c.Load(s, opts)
		if err != nil {
			if !core.IsFormatMismatch(err) {
				return nil, err
			}
			tracer().Debugf("%v", err)
			lastErr = err
			continue
		}
		if len(fonts) == 0 {
			tracer().Debugf("no fonts found in '%s' as format `%s`", s.Name(), c.Name)
			continue
		}
		return annotate(fonts, s.Name(), c.Name), nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, core.Error(core.EFORMAT,
		"unable to read fonts from '%s': tried formats: %s",
		s.Name(), strings.Join(tried, ", "))
}

// annotate sets source metadata on the loaded fonts.
func annotate(fonts []*font.Font, filename, format string) *font.Pack {
	out := make([]*font.Font, len(fonts))
	for i, f := range fonts {
		if f.Property("source-name") == "" {
			f = f.WithProperty("source-name", path.Base(filename))
		}
		if f.Property("source-format") == "" {
			f = f.WithProperty("source-format", format)
		}
		out[i] = f
	}
	return font.NewPack(out...)
}

// SaveStream writes a pack of fonts to an open stream. Without an explicit
// format, the filename must identify at most one saver; ambiguous matches
// are an error rather than a guess. With no match, the registry's default
// format is used.
func SaveStream(p *font.Pack, s *Stream, format string, opts Options) error {
	var codec *Codec
	if format != "" {
		c, ok := Savers.Get(format)
		if !ok {
			return core.Error(core.EMISSING,
				"format specifier `%s` not recognised", format)
		}
		codec = c
	} else {
		matches := Savers.Identify(s)
		if len(matches) > 1 {
			return core.Error(core.EINVALID,
				"cannot save '%s': multiple formats match (%s); "+
					"specify the format explicitly", s.Name(), formatList(matches))
		}
		if len(matches) == 1 {
			codec = matches[0]
		} else if candidates := Savers.GetFor(s, ""); len(candidates) > 0 {
			codec = candidates[0]
		}
	}
	if codec == nil {
		return core.Error(core.EMISSING,
			"no saver found for '%s'", s.Name())
	}
	if codec.Save == nil {
		return core.Error(core.EUNSUPPORTED,
			"format `%s` cannot be written", codec.Name)
	}
	tracer().Infof("saving '%s' as format `%s`", s.Name(), codec.Name)
	return codec.Save(p, s, opts)
}

// Load resolves a location and reads the fonts stored there. The
// containerFormat hint names nested container and wrapper layers as
// `outer.inner`, consumed right to left.
func Load(pathname, format, containerFormat string, opts Options) (*font.Pack, error) {
	s, err := Open(pathname, ReadMode, containerFormat)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return LoadStream(s, format, opts)
}

// Save resolves a location for writing and stores the fonts there.
func Save(p *font.Pack, pathname, format, containerFormat string, opts Options) error {
	s, err := Open(pathname, WriteMode, containerFormat)
	if err != nil {
		return err
	}
	if err := SaveStream(p, s, format, opts); err != nil {
		s.Close()
		return err
	}
	return s.Close()
}
