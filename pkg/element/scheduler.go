package element

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vango-dev/tagkit/pkg/diag"
)

// Batch runs fn as one unit of work. Units nest; when the outermost unit
// completes, instance phases are synchronised with the tree and, unless
// the document was created WithManualFlush, pending renders are flushed.
//
//	doc.Batch(func() {
//	    s := inst.State()
//	    s.Add("count", 1)
//	    s.Add("count", 1)
//	})
//	// one render
func (d *Document) Batch(fn func()) {
	d.depth++
	defer func() {
		if d.depth > 1 {
			d.depth--
			return
		}
		// Still inside the unit while syncing so hooks cannot re-enter.
		d.sync()
		d.depth--
		if !d.manual {
			d.Flush()
		}
	}()
	fn()
}

// Flush runs deferred tasks and renders every pending instance once, in
// request order, repeating while new work appears. At most the configured
// number of passes run; work left after that is dropped and reported.
// Flush inside a unit of work is a no-op; the unit flushes when it ends.
func (d *Document) Flush() {
	if d.depth > 0 {
		return
	}
	d.depth++
	defer func() { d.depth-- }()

	start := time.Now()
	d.sync()

	var passes, renders, dropped int
	for len(d.queue) > 0 || len(d.deferred) > 0 {
		if passes >= d.maxPasses {
			dropped = d.dropPending()
			break
		}
		passes++

		tasks := d.deferred
		d.deferred = nil
		for _, t := range tasks {
			d.runDeferred(t)
		}

		queue := d.queue
		d.queue = nil
		for _, inst := range queue {
			if !inst.pending || inst.phase != PhaseAttached {
				continue
			}
			inst.pending = false
			if !d.contains(inst.host) {
				continue
			}
			d.render(inst)
			renders++
		}

		d.sync()
	}

	if passes == 0 {
		return
	}
	info := FlushInfo{
		Start:    start,
		Duration: time.Since(start),
		Passes:   passes,
		Renders:  renders,
		Dropped:  dropped,
	}
	d.log.Debug("flush", "passes", passes, "renders", renders, "dropped", dropped)
	d.obs.Flushed(info)
}

func (d *Document) runDeferred(t deferredTask) {
	if t.inst.phase != PhaseAttached || t.ctx.Err() != nil {
		return
	}
	err := protect(func() error { return t.fn(t.ctx) })
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	herr := &HookError{Tag: t.inst.def.tag, Hook: "defer", Err: err}
	d.report(diag.Diagnostic{
		Code:    diag.CodeHookFailed,
		Tag:     t.inst.def.tag,
		Problem: fmt.Sprintf("deferred task failed: %v", err),
		Example: t.inst.def.Usage(),
		Err:     herr,
	})
}

// dropPending discards queued renders and deferred tasks once the pass
// budget is spent, reporting each affected instance once.
func (d *Document) dropPending() int {
	seen := make(map[*Instance]bool)
	var order []*Instance
	for _, inst := range d.queue {
		if inst.pending && !seen[inst] {
			seen[inst] = true
			order = append(order, inst)
		}
		inst.pending = false
	}
	for _, t := range d.deferred {
		if !seen[t.inst] {
			seen[t.inst] = true
			order = append(order, t.inst)
		}
	}
	d.queue = nil
	d.deferred = nil

	for _, inst := range order {
		d.report(diag.Diagnostic{
			Code:    diag.CodeFlushBudget,
			Tag:     inst.def.tag,
			Problem: fmt.Sprintf("render budget of %d passes exceeded; pending work dropped", d.maxPasses),
			Example: inst.def.Usage(),
		})
	}
	return len(order)
}
