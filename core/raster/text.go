package raster

import "strings"

// TextOptions parameterise the text rendering of a raster. Zero-valued
// fields fall back to ink "@", paper ".", empty start and "\n" end.
type TextOptions struct {
	Ink, Paper string
	Start, End string
}

// AsText renders the raster as multi-line text, one character per pixel.
// Each row is preceded by Start and followed by End.
func (r Raster) AsText(opts TextOptions) string {
	if len(r.pixels) == 0 {
		return ""
	}
	ink, paper := opts.Ink, opts.Paper
	if ink == "" {
		ink = "@"
	}
	if paper == "" {
		paper = "."
	}
	end := opts.End
	if end == "" {
		end = "\n"
	}
	var sb strings.Builder
	for _, row := range r.pixels {
		sb.WriteString(opts.Start)
		for _, bit := range row {
			if bit {
				sb.WriteString(ink)
			} else {
				sb.WriteString(paper)
			}
		}
		sb.WriteString(end)
	}
	return sb.String()
}

// String renders the raster with default text options.
func (r Raster) String() string {
	return r.AsText(TextOptions{})
}
