package humdrum

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"humspine/internal/logging"
)

// ReadBytes decodes b and analyzes it. Input that is not valid UTF-8 is
// decoded with the fallback encoding; an error is returned only when no
// decoder applies.
func ReadBytes(b []byte, opts ...Option) (*Document, error) {
	o := buildOptions(opts)
	text, err := decodeText(b, o)
	if err != nil {
		return nil, err
	}
	d := &Document{opts: o, source: o.source}
	d.setText(text)
	d.analyze()
	return d, nil
}

// Read consumes r and analyzes its content.
func Read(r io.Reader, opts ...Option) (*Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read spine data: %w", err)
	}
	return ReadBytes(b, opts...)
}

// ReadFile reads and analyzes the file at path.
func ReadFile(path string, opts ...Option) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spine file: %w", err)
	}
	o := buildOptions(opts)
	o.source = path
	text, err := decodeText(b, o)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	d := &Document{opts: o, source: path}
	d.setText(text)
	d.analyze()
	return d, nil
}

func decodeText(b []byte, o options) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}
	var enc encoding.Encoding
	switch o.fallbackEncoding {
	case EncodingLatin1, "":
		enc = charmap.ISO8859_1
	case EncodingWindows1252:
		enc = charmap.Windows1252
	case EncodingNone:
		return "", fmt.Errorf("%w: input is not valid UTF-8", ErrEncoding)
	default:
		return "", fmt.Errorf("%w: unsupported fallback encoding %q", ErrEncoding, o.fallbackEncoding)
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), b)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	logging.NewComponentLogger(o.logger, "humdrum").Debug("decoded input with fallback encoding",
		logging.String("encoding", o.fallbackEncoding),
	)
	return string(out), nil
}
