// Package export renders frames to files: SVG documents, PNG images and
// animated GIFs.
package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/san-kum/symfield/internal/dynamo"
	"github.com/san-kum/symfield/internal/render"
)

type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

var ErrUnknownFormat = errors.New("export: unknown format")

// FormatFor picks a format from the file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return FormatSVG, nil
	case ".png":
		return FormatPNG, nil
	}
	return "", errors.Wrapf(ErrUnknownFormat, "%q", path)
}

// WriteFrame renders f with r and writes it to path in the format implied
// by the extension.
func WriteFrame(path string, r *render.Renderer, f dynamo.Frame) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatSVG:
		s := NewSVG()
		r.Render(s, f)
		data = []byte(s.String())
	case FormatPNG:
		ras, err := NewRaster()
		if err != nil {
			return err
		}
		r.Render(ras, f)
		var buf bytes.Buffer
		if err := ras.EncodePNG(&buf); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "write %s", path)
	}
	return nil
}

// WriteGIF encodes the recorder's frames to path.
func WriteGIF(path string, g *GIFRecorder) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "create %s", path)
	}
	defer f.Close()
	return g.Encode(f)
}
