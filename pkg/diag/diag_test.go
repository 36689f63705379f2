package diag

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	tkerrors "github.com/vango-dev/tagkit/internal/errors"
)

var errSpeaker = errors.New("speaker busy")

func sample() Diagnostic {
	return Diagnostic{
		Code:    CodeMissingAttribute,
		Tag:     "user-profile",
		Problem: `missing required attribute "user-id"`,
		Example: `<user-profile user-id="42"></user-profile>`,
		Attr:    "user-id",
	}
}

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	r.Report(sample())
	r.Report(Diagnostic{Code: CodeRenderFailed, Tag: "music-player", Problem: "boom"})

	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	if got := r.ForTag("user-profile"); len(got) != 1 {
		t.Errorf("ForTag = %v", got)
	}
	if got := r.ForAttr("user-id"); len(got) != 1 {
		t.Errorf("ForAttr = %v", got)
	}
	if got := r.WithCode(CodeRenderFailed); len(got) != 1 || got[0].Tag != "music-player" {
		t.Errorf("WithCode = %v", got)
	}

	all := r.All()
	all[0].Tag = "mutated"
	if r.All()[0].Tag != "user-profile" {
		t.Error("All must return a copy")
	}

	drained := r.Drain()
	if len(drained) != 2 || r.Len() != 0 {
		t.Errorf("Drain returned %d, left %d", len(drained), r.Len())
	}

	r.Report(sample())
	r.Reset()
	if r.Len() != 0 {
		t.Error("Reset should clear")
	}
}

func TestMultiAndFunc(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	var seen int
	ch := Multi(a, nil, b, Func(func(Diagnostic) { seen++ }))
	ch.Report(sample())

	if a.Len() != 1 || b.Len() != 1 || seen != 1 {
		t.Errorf("fan-out a=%d b=%d func=%d", a.Len(), b.Len(), seen)
	}

	Discard.Report(sample())
}

func TestDiagnosticAsError(t *testing.T) {
	d := sample()
	d.Err = errSpeaker

	e := d.AsError()
	if e.Code != CodeMissingAttribute || e.Tag != "user-profile" {
		t.Errorf("AsError = %+v", e)
	}
	if e.Message != d.Problem {
		t.Errorf("Message = %q", e.Message)
	}
	if !errors.Is(e, errSpeaker) {
		t.Error("AsError should wrap the underlying error")
	}
	if !d.Matches(errSpeaker) {
		t.Error("Matches should see the underlying error")
	}
	if !strings.Contains(d.String(), "TK102") || !strings.Contains(d.String(), "<user-profile>") {
		t.Errorf("String() = %q", d.String())
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))
	NewLogger(log).Report(sample())

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid log line %q: %v", buf.String(), err)
	}
	if rec["level"] != "WARN" {
		t.Errorf("level = %v", rec["level"])
	}
	if rec["tag"] != "user-profile" || rec["attr"] != "user-id" || rec["code"] != CodeMissingAttribute {
		t.Errorf("record = %v", rec)
	}
	if rec["msg"] != sample().Problem {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestWriterFormats(t *testing.T) {
	tkerrors.DisableColors()
	defer tkerrors.EnableColors()

	tests := []struct {
		format Format
		want   []string
	}{
		{FormatText, []string{"WARNING TK102", "Example:", `user-id="42"`}},
		{FormatCompact, []string{`TK102: <user-profile> missing required attribute "user-id"`}},
		{FormatJSON, []string{`"code":"TK102"`, `"tag":"user-profile"`}},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			NewWriter(&buf, tt.format).Report(sample())
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output missing %q:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "json": FormatJSON, "compact": FormatCompact} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Error("ParseFormat(xml) should fail")
	}
}

func TestDiagnosticJSONShape(t *testing.T) {
	data, err := json.Marshal(sample())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"componentTag"`, `"problem"`, `"exampleUsage"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("JSON %s missing %s", data, key)
		}
	}
}
