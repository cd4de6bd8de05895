package dom

import "sync"

// Viewport tracks the page width and notifies listeners on resize.
type Viewport struct {
	mu        sync.Mutex
	width     int
	nextID    uint64
	listeners map[uint64]func(width int)
}

// NewViewport returns a viewport of the given width.
func NewViewport(width int) *Viewport {
	return &Viewport{width: width, listeners: make(map[uint64]func(int))}
}

// Width returns the current width in CSS pixels.
func (v *Viewport) Width() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width
}

// OnResize registers fn and returns a function that removes it.
func (v *Viewport) OnResize(fn func(width int)) (off func()) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.nextID++
	id := v.nextID
	v.listeners[id] = fn
	return func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		delete(v.listeners, id)
	}
}

// Resize changes the width and calls every listener. Listeners run without
// the viewport lock held.
func (v *Viewport) Resize(width int) {
	v.mu.Lock()
	v.width = width
	fns := make([]func(int), 0, len(v.listeners))
	for _, fn := range v.listeners {
		fns = append(fns, fn)
	}
	v.mu.Unlock()

	for _, fn := range fns {
		fn(width)
	}
}

// Listeners returns the number of resize listeners.
func (v *Viewport) Listeners() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.listeners)
}
