package diag

// Recorder collects diagnostics in memory. Useful in tests and for
// returning diagnostics alongside a response.
type Recorder struct {
	items []Diagnostic
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Report implements Channel.
func (r *Recorder) Report(d Diagnostic) {
	r.items = append(r.items, d)
}

// All returns a copy of every recorded diagnostic.
func (r *Recorder) All() []Diagnostic {
	return append([]Diagnostic(nil), r.items...)
}

// Len returns the number of recorded diagnostics.
func (r *Recorder) Len() int {
	return len(r.items)
}

// ForTag returns diagnostics reported for tag.
func (r *Recorder) ForTag(tag string) []Diagnostic {
	return r.filter(func(d Diagnostic) bool { return d.Tag == tag })
}

// ForAttr returns diagnostics that name attribute attr.
func (r *Recorder) ForAttr(attr string) []Diagnostic {
	return r.filter(func(d Diagnostic) bool { return d.Attr == attr })
}

// WithCode returns diagnostics with the given code.
func (r *Recorder) WithCode(code string) []Diagnostic {
	return r.filter(func(d Diagnostic) bool { return d.Code == code })
}

// Drain returns every recorded diagnostic and clears the recorder.
func (r *Recorder) Drain() []Diagnostic {
	out := r.items
	r.items = nil
	return out
}

// Reset clears the recorder.
func (r *Recorder) Reset() {
	r.items = nil
}

func (r *Recorder) filter(keep func(Diagnostic) bool) []Diagnostic {
	var out []Diagnostic
	for _, d := range r.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
