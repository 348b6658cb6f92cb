package log

import (
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Level is the severity of a log record. It extends [slog.Level] with
// [LevelTrace], which the interpreter uses for per-node records.
type Level slog.Level

const (
	LevelTrace = Level(slog.LevelDebug - 4)
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

// DefaultLevel is the level of a new [Logger].
const DefaultLevel = LevelInfo

var levels = []Level{LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError}

// String returns the lower-case name of l. Levels between the named ones
// render as an offset from the nearest slog level, e.g. "debug+2".
func (l Level) String() string {
	if l == LevelTrace {
		return "trace"
	}

	return strings.ToLower(slog.Level(l).String())
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParseLevel].
func (l *Level) UnmarshalText(text []byte) error {
	*l = ParseLevel(string(text))

	return nil
}

// Levels yields the names of the defined levels from least to most severe.
func Levels() iter.Seq[string] { return names(levels) }

// ParseLevel returns the level named s, ignoring case. Offsets such as
// "warn+1" are accepted as by [slog.Level.UnmarshalText]. Unknown names
// give [DefaultLevel].
func ParseLevel(s string) Level {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, LevelTrace.String()) {
		return LevelTrace
	}

	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return DefaultLevel
	}

	return Level(l)
}

// Format selects the record encoding.
type Format int

const (
	FormatText Format = iota // logfmt-style lines, optionally pretty
	FormatJSON               // one JSON object per record
)

// DefaultFormat is the format of a new [Logger].
const DefaultFormat = FormatText

var formats = []Format{FormatText, FormatJSON}

func (f Format) String() string {
	switch f {
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	}

	return "Format(" + strconv.Itoa(int(f)) + ")"
}

// UnmarshalText implements encoding.TextUnmarshaler using [ParseFormat].
func (f *Format) UnmarshalText(text []byte) error {
	*f = ParseFormat(string(text))

	return nil
}

// Formats yields the names of the defined formats.
func Formats() iter.Seq[string] { return names(formats) }

// ParseFormat returns the format named s, ignoring case and surrounding
// space. Unknown names give [DefaultFormat].
func ParseFormat(s string) Format {
	s = strings.TrimSpace(s)

	for _, f := range formats {
		if strings.EqualFold(s, f.String()) {
			return f
		}
	}

	return DefaultFormat
}

func names[T interface{ String() string }](values []T) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, v := range values {
			if !yield(v.String()) {
				return
			}
		}
	}
}

// DefaultTimeLayout is the timestamp layout of a new [Logger].
const DefaultTimeLayout = time.RFC3339

// config is the immutable configuration of a [Logger]. Options edit a
// private copy, so loggers never share a config.
type config struct {
	output     io.Writer
	formatTime func(time.Time) string
	level      Level
	format     Format
	caller     bool
	pretty     bool
}

// Option changes one setting of a [Logger].
type Option func(*config)

func makeConfig(w io.Writer, opts ...Option) config {
	c := config{
		level:  DefaultLevel,
		format: DefaultFormat,
		pretty: true,
	}

	WithOutput(w)(&c)
	WithTimeLayout(DefaultTimeLayout)(&c)

	return c.with(opts...)
}

func (c config) with(opts ...Option) config {
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// handler builds the slog handler c describes.
func (c config) handler() slog.Handler {
	opts := &slog.HandlerOptions{
		AddSource:   c.caller,
		Level:       slog.Level(c.level),
		ReplaceAttr: c.replaceAttr,
	}

	switch {
	case c.format == FormatJSON:
		return slog.NewJSONHandler(c.output, opts)
	case c.pretty:
		return newPrettyHandler(c.output, opts)
	default:
		return slog.NewTextHandler(c.output, opts)
	}
}

// replaceAttr applies the time layout and names levels in upper case, so
// trace records read "TRACE" rather than "DEBUG-4".
func (c config) replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		if t, ok := a.Value.Any().(time.Time); ok {
			s := c.formatTime(t)
			if s == "" {
				return slog.Attr{}
			}

			a.Value = slog.StringValue(s)
		}

	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			a.Value = slog.StringValue(strings.ToUpper(Level(l).String()))
		}
	}

	return a
}

// WithOutput sets the destination of records. A nil writer discards them.
func WithOutput(w io.Writer) Option {
	if w == nil {
		w = io.Discard
	}

	return func(c *config) { c.output = w }
}

// WithLevel discards records below level.
func WithLevel(level Level) Option {
	return func(c *config) { c.level = level }
}

// WithFormat sets the record encoding.
func WithFormat(format Format) Option {
	return func(c *config) { c.format = format }
}

// WithCaller adds the source file and line of the logging call.
func WithCaller(enable bool) Option {
	return func(c *config) { c.caller = enable }
}

// WithPretty renders text records as aligned lines, colorized when the
// output is a terminal. JSON output is unaffected.
func WithPretty(enable bool) Option {
	return func(c *config) { c.pretty = enable }
}

// WithTimeLayout sets the timestamp layout. The layout is either a name
// from [TimeLayouts], compared ignoring case and punctuation, or a
// reference-time layout for [time.Time.Format]. "none" or a blank layout
// drops timestamps.
func WithTimeLayout(layout string) Option {
	layout = resolveTimeLayout(layout)

	return func(c *config) {
		if layout == "" {
			c.formatTime = func(time.Time) string { return "" }

			return
		}

		c.formatTime = func(t time.Time) string { return t.Format(layout) }
	}
}

var namedLayouts = map[string]string{
	"none":        "",
	"rfc3339":     time.RFC3339,
	"rfc3339nano": time.RFC3339Nano,
	"datetime":    time.DateTime,
	"timeonly":    time.TimeOnly,
	"kitchen":     time.Kitchen,
	"stamp":       time.Stamp,
	"stampmilli":  time.StampMilli,
	"stampmicro":  time.StampMicro,
	"stampnano":   time.StampNano,
	"ms":          time.StampMilli,
	"us":          time.StampMicro,
	"ns":          time.StampNano,
	"unixdate":    time.UnixDate,
	"rfc822":      time.RFC822,
}

// TimeLayouts returns the sorted names [WithTimeLayout] accepts.
func TimeLayouts() []string {
	keys := make([]string, 0, len(namedLayouts))
	for k := range namedLayouts {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func resolveTimeLayout(layout string) string {
	key := strings.Map(func(r rune) rune {
		switch {
		case 'a' <= r && r <= 'z', '0' <= r && r <= '9':
			return r
		case 'A' <= r && r <= 'Z':
			return r + 'a' - 'A'
		}

		return -1
	}, layout)

	if key == "" {
		return ""
	}

	if named, ok := namedLayouts[key]; ok {
		return named
	}

	return layout
}
