package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// Event types dispatched by the document.
const (
	EventClick    = "click"
	EventKeyDown  = "keydown"
	EventFocus    = "focus"
	EventFocusOut = "focusout"
)

// Key codes, as reported by KeyboardEvent.code.
const (
	KeyEscape = "Escape"
	KeyEnter  = "Enter"
	KeySpace  = "Space"
)

// Event is a dispatched user-input event.
type Event struct {
	Type          string
	Target        *html.Node // nil targets the window
	Key           string     // keydown only
	RelatedTarget *html.Node // focusout: the element receiving focus

	// CurrentTarget is the node whose listener is running; nil for window.
	CurrentTarget *html.Node

	stopped          bool
	defaultPrevented bool
}

// StopPropagation prevents the event from reaching further ancestors.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener cancelled the default action.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Handler handles a dispatched event.
type Handler func(*Event)

type listener struct {
	id     uint64
	target *html.Node
	typ    string
	fn     Handler
}

// Registry holds event listeners keyed by target node and event type.
// A nil target registers on the window.
type Registry struct {
	mu        sync.Mutex
	nextID    uint64
	listeners []listener
}

// On registers fn and returns a function that removes it.
func (r *Registry) On(target *html.Node, typ string, fn Handler) (off func()) {
	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.listeners = append(r.listeners, listener{id: id, target: target, typ: typ, fn: fn})
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { r.remove(id) })
	}
}

func (r *Registry) remove(id uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, l := range r.listeners {
		if l.id == id {
			r.listeners = append(r.listeners[:i], r.listeners[i+1:]...)
			return
		}
	}
}

// Len returns the number of registered listeners.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.listeners)
}

// Dispatch delivers ev to listeners on its target, then (for bubbling
// types) on each ancestor, then on the window. Handlers run synchronously
// without the registry lock held, so they may register or remove listeners.
func (r *Registry) Dispatch(ev *Event) {
	path := []*html.Node{ev.Target}
	if bubbles(ev.Type) && ev.Target != nil {
		for p := ev.Target.Parent; p != nil; p = p.Parent {
			path = append(path, p)
		}
		path = append(path, nil)
	}

	for _, node := range path {
		ev.CurrentTarget = node
		for _, fn := range r.handlers(node, ev.Type) {
			fn(ev)
		}
		if ev.stopped {
			return
		}
	}
}

func (r *Registry) handlers(target *html.Node, typ string) []Handler {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Handler
	for _, l := range r.listeners {
		if l.target == target && l.typ == typ {
			out = append(out, l.fn)
		}
	}
	return out
}

func bubbles(typ string) bool {
	return typ != EventFocus
}
