package dom

import (
	"sync"

	"golang.org/x/net/html"
)

// Document is a mounted page: a node tree, its listeners, its viewport and
// the bits of browser state the navigation touches (focus, location).
type Document struct {
	Root     *html.Node
	Head     *html.Node
	Body     *html.Node
	Events   *Registry
	Viewport *Viewport

	mu       sync.Mutex
	active   *html.Node
	location string
}

// NewDocument creates an empty page at the given viewport width.
func NewDocument(width int) *Document {
	head := Element("head")
	body := Element("body")
	root := Append(Element("html"), head, body)
	return &Document{
		Root:     root,
		Head:     head,
		Body:     body,
		Events:   &Registry{},
		Viewport: NewViewport(width),
	}
}

// SetMeta adds or replaces a <meta name=... content=...> in the head.
func (d *Document) SetMeta(name, value string) {
	if m := Find(d.Head, func(n *html.Node) bool { return n.Data == "meta" && Attr(n, "name") == name }); m != nil {
		SetAttr(m, "content", value)
		return
	}
	Append(d.Head, Element("meta", "name", name, "content", value))
}

// Meta returns the content of a named meta tag, or "".
func (d *Document) Meta(name string) string {
	m := Find(d.Head, func(n *html.Node) bool { return n.Data == "meta" && Attr(n, "name") == name })
	return Attr(m, "content")
}

// GetElementByID finds an element anywhere in the page.
func (d *Document) GetElementByID(id string) *html.Node {
	return Find(d.Root, ByID(id))
}

// ActiveElement returns the focused element, or nil.
func (d *Document) ActiveElement() *html.Node {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.active
}

// Focus moves focus to n: a focusout is dispatched on the previously
// focused element (with n as related target), then a focus on n.
func (d *Document) Focus(n *html.Node) {
	d.mu.Lock()
	prev := d.active
	d.active = n
	d.mu.Unlock()

	if prev == n {
		return
	}
	if prev != nil {
		d.Events.Dispatch(&Event{Type: EventFocusOut, Target: prev, RelatedTarget: n})
	}
	if n != nil {
		d.Events.Dispatch(&Event{Type: EventFocus, Target: n})
	}
}

// Blur removes focus from the page.
func (d *Document) Blur() {
	d.Focus(nil)
}

// SetFocusQuiet records n as focused without dispatching events; used when
// a handler returns focus programmatically in the middle of a dispatch.
func (d *Document) SetFocusQuiet(n *html.Node) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.active = n
}

// Click dispatches a click on n.
func (d *Document) Click(n *html.Node) {
	d.Events.Dispatch(&Event{Type: EventClick, Target: n})
}

// KeyDown dispatches a keydown at the focused element (or the window).
func (d *Document) KeyDown(code string) {
	d.Events.Dispatch(&Event{Type: EventKeyDown, Target: d.ActiveElement(), Key: code})
}

// Navigate records a location change.
func (d *Document) Navigate(href string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.location = href
}

// Location returns the last navigated-to href.
func (d *Document) Location() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.location
}

// ScrollLocked reports whether the body's vertical scroll is disabled.
func (d *Document) ScrollLocked() bool {
	return Attr(d.Body, "style") == "overflow-y: hidden"
}

// LockScroll disables or restores the body's vertical scroll.
func (d *Document) LockScroll(locked bool) {
	if locked {
		SetAttr(d.Body, "style", "overflow-y: hidden")
		return
	}
	RemoveAttr(d.Body, "style")
}
