package diag

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	tkerrors "github.com/vango-dev/tagkit/internal/errors"
)

// Diagnostic codes reported by the runtime.
const (
	CodeInvalidAttribute = tkerrors.CodeInvalidAttribute
	CodeMissingAttribute = tkerrors.CodeMissingAttribute
	CodeHookFailed       = tkerrors.CodeHookFailed
	CodeRenderFailed     = tkerrors.CodeRenderFailed
	CodeFlushBudget      = tkerrors.CodeFlushBudget
	CodeHandlerFailed    = tkerrors.CodeHandlerFailed
)

// Diagnostic is a non-fatal, developer-facing message about a usage
// problem: which component, what went wrong, and how to write it instead.
type Diagnostic struct {
	Code    string `json:"code"`
	Tag     string `json:"componentTag"`
	Problem string `json:"problem"`
	Example string `json:"exampleUsage,omitempty"`

	// Attr names the attribute involved, if any.
	Attr string `json:"attr,omitempty"`

	// Err is the underlying typed error.
	Err error `json:"-"`
}

// String returns a single-line form of the diagnostic.
func (d Diagnostic) String() string {
	return d.AsError().FormatCompact()
}

// AsError converts the diagnostic to a structured error for formatting.
func (d Diagnostic) AsError() *tkerrors.Error {
	e := tkerrors.New(d.Code).WithTag(d.Tag).WithExample(d.Example)
	if d.Problem != "" {
		e.WithMessage(d.Problem)
	}
	if d.Err != nil {
		e.Wrap(d.Err)
	}
	return e
}

// Matches reports whether the diagnostic's underlying error matches target
// according to errors.Is.
func (d Diagnostic) Matches(target error) bool {
	return errors.Is(d.Err, target)
}

// Channel receives diagnostics.
type Channel interface {
	Report(d Diagnostic)
}

// Func adapts a function to a Channel.
type Func func(d Diagnostic)

// Report implements Channel.
func (f Func) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Channel = Func(func(Diagnostic) {})

// Multi fans a diagnostic out to every channel in order.
func Multi(channels ...Channel) Channel {
	return Func(func(d Diagnostic) {
		for _, c := range channels {
			if c != nil {
				c.Report(d)
			}
		}
	})
}

// Logger reports diagnostics through slog at Warn level.
type Logger struct {
	log *slog.Logger
}

// NewLogger creates a slog-backed channel. A nil logger uses slog.Default().
func NewLogger(log *slog.Logger) *Logger {
	if log == nil {
		log = slog.Default()
	}
	return &Logger{log: log}
}

// Report implements Channel.
func (l *Logger) Report(d Diagnostic) {
	attrs := []any{
		slog.String("code", d.Code),
		slog.String("tag", d.Tag),
	}
	if d.Attr != "" {
		attrs = append(attrs, slog.String("attr", d.Attr))
	}
	if d.Example != "" {
		attrs = append(attrs, slog.String("example", d.Example))
	}
	if d.Err != nil {
		attrs = append(attrs, slog.Any("error", d.Err))
	}
	l.log.Warn(d.Problem, attrs...)
}

// Format selects how a Writer prints diagnostics.
type Format string

const (
	FormatText    Format = "text"
	FormatCompact Format = "compact"
	FormatJSON    Format = "json"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatCompact, FormatJSON:
		return f, nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("diag: unknown format %q", s)
}

// Writer prints diagnostics to an io.Writer.
type Writer struct {
	w      io.Writer
	format Format
}

// NewWriter creates a channel that prints each diagnostic to w.
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{w: w, format: format}
}

// Report implements Channel.
func (w *Writer) Report(d Diagnostic) {
	e := d.AsError()
	switch w.format {
	case FormatJSON:
		fmt.Fprintln(w.w, e.FormatJSON())
	case FormatCompact:
		fmt.Fprintln(w.w, e.FormatCompact())
	default:
		fmt.Fprint(w.w, e.FormatWarning())
	}
}
