package element

import (
	"time"

	"github.com/vango-dev/tagkit/pkg/diag"
)

// RenderResult is the outcome of one render pass.
type RenderResult string

const (
	// RenderPainted means the output changed and the host was repainted.
	RenderPainted RenderResult = "painted"
	// RenderUnchanged means the output was byte-identical and the paint was skipped.
	RenderUnchanged RenderResult = "unchanged"
	// RenderFailed means the render function failed; prior output was kept.
	RenderFailed RenderResult = "failed"
)

// RenderInfo describes a finished render pass.
type RenderInfo struct {
	Tag      string
	Scope    string
	Start    time.Time
	Duration time.Duration
	Result   RenderResult
	Bindings int
}

// FlushInfo describes a finished flush.
type FlushInfo struct {
	Start    time.Time
	Duration time.Duration
	Passes   int
	Renders  int
	Dropped  int
}

// Observer receives runtime events. Calls happen on the document's
// goroutine and must not re-enter the document.
type Observer interface {
	RenderRequested(tag string, coalesced bool)
	Rendered(info RenderInfo)
	Transition(tag string, phase Phase)
	Flushed(info FlushInfo)
	Diagnosed(d diag.Diagnostic)
}

// NopObserver ignores every event. Embed it to implement part of Observer.
type NopObserver struct{}

func (NopObserver) RenderRequested(string, bool) {}
func (NopObserver) Rendered(RenderInfo)          {}
func (NopObserver) Transition(string, Phase)     {}
func (NopObserver) Flushed(FlushInfo)            {}
func (NopObserver) Diagnosed(diag.Diagnostic)    {}

type multiObserver []Observer

// Observers fans events out to every non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	return m
}

func (m multiObserver) RenderRequested(tag string, coalesced bool) {
	for _, o := range m {
		o.RenderRequested(tag, coalesced)
	}
}

func (m multiObserver) Rendered(info RenderInfo) {
	for _, o := range m {
		o.Rendered(info)
	}
}

func (m multiObserver) Transition(tag string, phase Phase) {
	for _, o := range m {
		o.Transition(tag, phase)
	}
}

func (m multiObserver) Flushed(info FlushInfo) {
	for _, o := range m {
		o.Flushed(info)
	}
}

func (m multiObserver) Diagnosed(d diag.Diagnostic) {
	for _, o := range m {
		o.Diagnosed(d)
	}
}
