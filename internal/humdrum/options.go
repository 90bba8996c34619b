package humdrum

import (
	"fmt"
	"log/slog"
	"strings"

	"humspine/internal/logging"
)

// Option configures how a Document is read and analyzed.
type Option func(*options)

type options struct {
	logger           *slog.Logger
	rhythm           bool
	recipScale       int64
	fallbackEncoding string
	source           string
}

func defaultOptions() options {
	return options{
		logger:           logging.NewNop(),
		rhythm:           true,
		recipScale:       4,
		fallbackEncoding: EncodingLatin1,
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// WithLogger routes analysis diagnostics to logger. A nil logger discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = logging.NewNop()
		}
		o.logger = logger
	}
}

// WithRhythm enables or disables the rhythm pass. Without it lines and tokens
// keep the unanalyzed -1 timing.
func WithRhythm(enabled bool) Option {
	return func(o *options) { o.rhythm = enabled }
}

// WithRecipScale sets the number of duration units in a whole note. The
// default of 4 measures durations in quarter notes.
func WithRecipScale(scale int) Option {
	return func(o *options) {
		if scale > 0 {
			o.recipScale = int64(scale)
		}
	}
}

// WithSource names the file the text came from. It appears in log records
// and in Document.Source.
func WithSource(path string) Option {
	return func(o *options) { o.source = path }
}

// Supported fallback encodings for ReadFile and ReadBytes.
const (
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows1252"
	EncodingNone        = "none"
)

// WithFallbackEncoding selects the decoder used when input is not valid UTF-8.
func WithFallbackEncoding(name string) Option {
	return func(o *options) {
		o.fallbackEncoding = strings.ToLower(strings.TrimSpace(name))
	}
}

// ValidateEncodingName reports whether name is a supported fallback encoding.
func ValidateEncodingName(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case EncodingLatin1, EncodingWindows1252, EncodingNone:
		return nil
	default:
		return fmt.Errorf("unsupported fallback encoding %q", name)
	}
}
