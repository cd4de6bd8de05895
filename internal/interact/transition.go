package interact

import "time"

type transitionKind string

const (
	kindCrossfade      transitionKind = "crossfade"
	kindPanel          transitionKind = "panel"
	kindTabletCollapse transitionKind = "tablet-collapse"
)

// transition is the token of one animated change. Only the current token
// of a kind may run its callbacks; replacing it invalidates the old one.
type transition struct {
	kind   transitionKind
	timers []Timer
	settle func() // applies the end state at once
}

// start replaces the current transition of kind. The replaced one is
// settled immediately and its pending callbacks are dropped.
func (c *Controller) start(kind transitionKind, settle func()) *transition {
	c.cancel(kind)
	tr := &transition{kind: kind, settle: settle}
	c.transitions[kind] = tr
	return tr
}

// cancel settles and drops the current transition of kind, if any.
func (c *Controller) cancel(kind transitionKind) {
	tr := c.transitions[kind]
	if tr == nil {
		return
	}
	c.discard(kind)
	if tr.settle != nil {
		tr.settle()
	}
}

// discard drops the current transition of kind without settling it.
func (c *Controller) discard(kind transitionKind) {
	tr := c.transitions[kind]
	if tr == nil {
		return
	}
	delete(c.transitions, kind)
	for _, t := range tr.timers {
		t.Stop()
	}
}

// after schedules f as a step of tr. The step is skipped if tr has been
// replaced, finished or the controller disposed by the time it fires.
func (c *Controller) after(tr *transition, d time.Duration, f func()) {
	t := c.opts.Clock.AfterFunc(d, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.disposed || c.transitions[tr.kind] != tr {
			return
		}
		f()
	})
	tr.timers = append(tr.timers, t)
}

// finish retires tr once its last step has run.
func (c *Controller) finish(tr *transition) {
	if c.transitions[tr.kind] == tr {
		delete(c.transitions, tr.kind)
	}
}
