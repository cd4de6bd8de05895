package interact

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dgallion1/navgest/internal/dom"
	"github.com/dgallion1/navgest/internal/nav"
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

var (
	ErrUnknownItem = errors.New("unknown navigation item")
	ErrNoPanel     = errors.New("no submenu panel open")
	ErrNoHamburger = errors.New("navigation has no menu toggle")
)

const (
	classClosing    = "closing"
	labelOpenMenu   = "Open navigation"
	labelCloseMenu  = "Close navigation"
	tabletSlideAway = "transform: translateY(-100%)"
)

// Options configures a Controller. Zero values take the defaults.
type Options struct {
	Breakpoints Breakpoints
	Timings     Timings
	Clock       Clock
	Logger      *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.Breakpoints == (Breakpoints{}) {
		o.Breakpoints = DefaultBreakpoints()
	}
	if o.Timings == (Timings{}) {
		o.Timings = DefaultTimings()
	}
	if o.Clock == nil {
		o.Clock = RealClock()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// Controller owns the interaction state of one mounted navigation. Event
// handlers and timer callbacks serialize on its lock.
type Controller struct {
	mu   sync.Mutex
	id   string
	doc  *dom.Document
	tree *nav.Tree
	opts Options
	log  *slog.Logger

	nav       *html.Node
	brand     *html.Node
	sections  *html.Node
	tools     *html.Node
	hamburger *html.Node
	items     map[*html.Node]*nav.Item
	order     []*html.Node

	viewport Viewport
	menuOpen bool
	panel    *Panel

	transitions map[transitionKind]*transition
	offs        []func()
	focusOffs   map[*html.Node]func()
	keyOffs     map[*html.Node]func()
	disposed    bool
}

// New binds a controller to a rendered, decorated nav inside doc and
// applies the regime of the current viewport width.
func New(doc *dom.Document, navNode *html.Node, tree *nav.Tree, opts Options) *Controller {
	opts = opts.withDefaults()
	c := &Controller{
		id:          uuid.NewString(),
		doc:         doc,
		tree:        tree,
		opts:        opts,
		nav:         navNode,
		brand:       nav.Region(navNode, nav.ClassBrand),
		sections:    nav.Region(navNode, nav.ClassSections),
		tools:       nav.Region(navNode, nav.ClassTools),
		hamburger:   nav.HamburgerButton(navNode),
		items:       make(map[*html.Node]*nav.Item),
		transitions: make(map[transitionKind]*transition),
		focusOffs:   make(map[*html.Node]func()),
		keyOffs:     make(map[*html.Node]func()),
	}
	c.log = opts.Logger.With("instance", c.id)

	for _, li := range nav.ItemNodes(navNode) {
		item := tree.Item(dom.Attr(li, nav.AttrItem))
		if item == nil {
			continue
		}
		c.items[li] = item
		c.order = append(c.order, li)

		c.listen(li, dom.EventClick, func(ev *dom.Event) { c.onItemClick(li, ev) })
		if btn := dom.Find(li, dom.ByClass(nav.ClassExpandButton)); btn != nil {
			c.listen(btn, dom.EventClick, func(ev *dom.Event) { c.onExpandClick(li, ev) })
		}
	}
	if c.hamburger != nil {
		c.listen(c.hamburger, dom.EventClick, c.onHamburger)
	}
	c.listen(nil, dom.EventKeyDown, c.onKeyDown)
	c.listen(navNode, dom.EventFocusOut, c.onFocusOut)
	c.offs = append(c.offs, doc.Viewport.OnResize(c.onResize))

	c.mu.Lock()
	c.enter(opts.Breakpoints.Regime(doc.Viewport.Width()))
	c.mu.Unlock()

	c.log.Debug("navigation controller started", "items", len(c.order), "viewport", c.viewport)
	return c
}

func (c *Controller) listen(target *html.Node, typ string, fn dom.Handler) {
	c.offs = append(c.offs, c.doc.Events.On(target, typ, fn))
}

// locked runs fn under the controller lock unless the controller is disposed.
func (c *Controller) locked(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	fn()
}

// ID returns the instance id used in log records.
func (c *Controller) ID() string { return c.id }

// Nav returns the controlled <nav> element.
func (c *Controller) Nav() *html.Node { return c.nav }

// Tree returns the navigation tree the controller was built from.
func (c *Controller) Tree() *nav.Tree { return c.tree }

// State returns a snapshot of the interaction state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{
		Viewport:     c.viewport,
		Width:        c.doc.Viewport.Width(),
		MenuOpen:     c.menuOpen,
		Expanded:     []string{},
		ScrollLocked: c.doc.ScrollLocked(),
		ToolsHidden:  dom.HasClass(c.tools, nav.ClassToolsHidden),
		Location:     c.doc.Location(),
	}
	for _, li := range c.order {
		if !c.isExpanded(li) {
			continue
		}
		item := c.items[li]
		s.Expanded = append(s.Expanded, item.ID)
		if s.ExpandedItem == nil {
			cp := *item
			s.ExpandedItem = &cp
		}
	}
	if c.panel != nil {
		cp := *c.panel.item
		s.SubmenuPanel = &cp
	}
	switch active := c.doc.ActiveElement(); {
	case active == nil:
	case active == c.hamburger:
		s.Focus = FocusHamburger
	case c.items[active] != nil:
		s.Focus = c.items[active].ID
	}
	return s
}

// Panel returns the open submenu panel, or nil.
func (c *Controller) Panel() *Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panel
}

// Dispose stops every pending transition and removes every listener the
// controller registered. The DOM is left as it is.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	for kind := range c.transitions {
		c.discard(kind)
	}
	if c.panel != nil {
		c.panel.detach()
	}
	for _, off := range c.focusOffs {
		off()
	}
	for _, off := range c.keyOffs {
		off()
	}
	for _, off := range c.offs {
		off()
	}
	c.offs = nil
	c.log.Debug("navigation controller disposed")
}

// Input helpers. They dispatch through the document exactly like user
// input and must not be called from inside a handler.

// Click clicks the item with the given id or label.
func (c *Controller) Click(key string) error {
	li := c.itemNode(key)
	if li == nil {
		return fmt.Errorf("click %q: %w", key, ErrUnknownItem)
	}
	c.doc.Click(li)
	return nil
}

// ClickExpand clicks the expand button of a holder.
func (c *Controller) ClickExpand(key string) error {
	li := c.itemNode(key)
	if li == nil {
		return fmt.Errorf("expand %q: %w", key, ErrUnknownItem)
	}
	btn := dom.Find(li, dom.ByClass(nav.ClassExpandButton))
	if btn == nil {
		return fmt.Errorf("expand %q: %w", key, ErrUnknownItem)
	}
	c.doc.Click(btn)
	return nil
}

// ToggleMenu clicks the hamburger control.
func (c *Controller) ToggleMenu() error {
	if c.hamburger == nil {
		return ErrNoHamburger
	}
	c.doc.Click(c.hamburger)
	return nil
}

// Back clicks the back control of the open submenu panel.
func (c *Controller) Back() error {
	c.mu.Lock()
	p := c.panel
	c.mu.Unlock()
	if p == nil {
		return ErrNoPanel
	}
	c.doc.Click(p.back)
	return nil
}

// Focus moves keyboard focus to an item.
func (c *Controller) Focus(key string) error {
	li := c.itemNode(key)
	if li == nil {
		return fmt.Errorf("focus %q: %w", key, ErrUnknownItem)
	}
	c.doc.Focus(li)
	return nil
}

// KeyDown presses a key at the focused element.
func (c *Controller) KeyDown(code string) {
	c.doc.KeyDown(code)
}

// FocusOut moves focus out of the navigation.
func (c *Controller) FocusOut() {
	if active := c.doc.ActiveElement(); active != nil && dom.Contains(c.nav, active) {
		c.doc.Blur()
		return
	}
	c.doc.Events.Dispatch(&dom.Event{Type: dom.EventFocusOut, Target: c.nav})
}

// Resize changes the viewport width.
func (c *Controller) Resize(width int) {
	c.doc.Viewport.Resize(width)
}

func (c *Controller) itemNode(key string) *html.Node {
	for _, li := range c.order {
		if it := c.items[li]; it.ID == key || it.Label == key {
			return li
		}
	}
	return nil
}

// Event handlers.

func (c *Controller) onItemClick(li *html.Node, ev *dom.Event) {
	c.locked(func() {
		item := c.items[li]
		if a := dom.Closest(ev.Target, dom.ByTag("a")); a != nil && a != topAnchor(li) {
			if href := dom.Attr(a, "href"); href != "" && href != nav.PlaceholderHref {
				c.follow(href)
				return
			}
		}
		if !item.IsHolder() {
			c.follow(item.Href)
			return
		}
		c.activate(li)
	})
}

func (c *Controller) onExpandClick(li *html.Node, ev *dom.Event) {
	ev.PreventDefault()
	ev.StopPropagation()
	c.locked(func() { c.activate(li) })
}

// activate is a click on a submenu holder in the current regime.
func (c *Controller) activate(li *html.Node) {
	switch c.viewport {
	case Desktop:
		c.toggleDesktop(li)
	case Tablet:
		c.setExpanded(li, !c.isExpanded(li))
	default:
		c.openPanel(li)
	}
}

func (c *Controller) onHamburger(*dom.Event) {
	c.locked(func() { c.setMenu(!c.menuOpen) })
}

func (c *Controller) onKeyDown(ev *dom.Event) {
	if ev.Key != dom.KeyEscape {
		return
	}
	c.locked(func() {
		if c.viewport == Desktop {
			if li := c.expandedNode(); li != nil {
				c.cancel(kindCrossfade)
				c.collapseAll()
				c.focus(li)
			}
			return
		}
		if c.menuOpen {
			c.setMenu(false)
			c.focus(c.hamburger)
		}
	})
}

func (c *Controller) onFocusOut(ev *dom.Event) {
	if dom.Contains(c.nav, ev.RelatedTarget) {
		return
	}
	c.locked(func() {
		if c.panel != nil {
			return
		}
		if c.viewport == Desktop {
			c.cancel(kindCrossfade)
			c.collapseAll()
			return
		}
		if c.menuOpen {
			c.setMenu(false)
		}
	})
}

func (c *Controller) onResize(width int) {
	c.locked(func() {
		if r := c.opts.Breakpoints.Regime(width); r != c.viewport {
			c.enter(r)
			return
		}
		c.relocateTools()
	})
}

// Transitions.

// enter resets the controller into a regime: the menu closes, any panel
// and pending animation is dropped, and items take the regime's default
// (all open on tablet, all closed otherwise).
func (c *Controller) enter(r Viewport) {
	prev := c.viewport
	c.viewport = r
	c.cancel(kindCrossfade)
	c.cancel(kindTabletCollapse)
	c.removePanel()

	c.menuOpen = false
	c.doc.LockScroll(false)
	c.syncMenu()
	for _, li := range c.order {
		dom.RemoveClass(li, ClassSlideIn, ClassSlideOut)
	}
	if r == Tablet {
		c.expandAll()
	} else {
		c.collapseAll()
	}
	if r == Desktop {
		c.enableKeyboard()
	} else {
		c.disableKeyboard()
	}
	c.relocateTools()
	c.log.Debug("viewport regime entered", "from", prev, "to", r)
}

// toggleDesktop opens li exclusively, cross-fading from any open item, or
// closes it when it is already open.
func (c *Controller) toggleDesktop(li *html.Node) {
	if c.isExpanded(li) {
		c.cancel(kindCrossfade)
		dom.RemoveClass(li, ClassSlideIn, ClassSlideOut)
		c.collapseAll()
		return
	}
	prev := c.expandedNode()
	if prev == nil {
		c.setExpanded(li, true)
		return
	}

	tr := c.start(kindCrossfade, func() {
		dom.RemoveClass(prev, ClassSlideOut)
		dom.RemoveClass(li, ClassSlideIn)
	})
	c.collapseAll()
	dom.AddClass(prev, ClassSlideOut)
	c.setExpanded(li, true)
	dom.AddClass(li, ClassSlideIn)

	c.after(tr, c.opts.Timings.SlideOut, func() {
		dom.RemoveClass(prev, ClassSlideOut)
		c.after(tr, c.opts.Timings.SlideIn, func() {
			c.finish(tr)
			dom.RemoveClass(li, ClassSlideIn)
		})
	})
}

// setMenu opens or closes the hamburger menu. Closing on tablet slides the
// section list away and collapses the items only once it has settled.
func (c *Controller) setMenu(open bool) {
	if !open && c.menuOpen && c.viewport == Tablet {
		c.menuOpen = false
		c.doc.LockScroll(false)
		c.syncMenu()
		c.removePanel()

		collapse := func() {
			dom.RemoveClass(c.sections, classClosing)
			dom.RemoveAttr(c.sections, "style")
			c.collapseAll()
		}
		tr := c.start(kindTabletCollapse, collapse)
		dom.AddClass(c.sections, classClosing)
		dom.SetAttr(c.sections, "style", tabletSlideAway)
		c.after(tr, c.opts.Timings.TabletCollapse, func() {
			c.finish(tr)
			collapse()
		})
		c.relocateTools()
		return
	}

	c.cancel(kindTabletCollapse)
	c.menuOpen = open
	c.doc.LockScroll(open && c.viewport != Desktop)
	c.syncMenu()
	c.removePanel()
	if open && c.viewport == Tablet {
		c.expandAll()
	} else {
		c.collapseAll()
	}
	c.relocateTools()
	c.log.Debug("menu toggled", "open", open, "viewport", c.viewport)
}

func (c *Controller) syncMenu() {
	dom.SetAttr(c.nav, nav.AttrExpanded, fmt.Sprint(c.menuOpen))
	if c.hamburger == nil {
		return
	}
	label := labelOpenMenu
	if c.menuOpen {
		label = labelCloseMenu
	}
	dom.SetAttr(c.hamburger, "aria-label", label)
}

// relocateTools keeps the tools below the section list while the menu is
// open on narrow screens, and next to the brand otherwise.
func (c *Controller) relocateTools() {
	if c.tools == nil || c.sections == nil || c.brand == nil {
		return
	}
	if c.doc.Viewport.Width() > c.opts.Breakpoints.Tablet {
		return
	}
	if c.menuOpen {
		moveAfter(c.tools, c.sections)
		return
	}
	moveAfter(c.tools, c.brand)
}

func moveAfter(n, anchor *html.Node) {
	if anchor.Parent == nil || dom.PrevElement(n) == anchor {
		return
	}
	ref := anchor.NextSibling
	if ref == n {
		return
	}
	dom.InsertBefore(anchor.Parent, n, ref)
}

// Keyboard access on desktop: holders are focusable, and while one has
// focus Enter or Space toggles it.

func (c *Controller) enableKeyboard() {
	for _, li := range c.holders() {
		if _, ok := c.focusOffs[li]; ok {
			continue
		}
		dom.SetAttr(li, "tabindex", "0")
		onFocus := c.doc.Events.On(li, dom.EventFocus, func(*dom.Event) {
			c.locked(func() { c.attachKeys(li) })
		})
		onBlur := c.doc.Events.On(li, dom.EventFocusOut, func(ev *dom.Event) {
			if ev.Target == li {
				c.locked(func() { c.detachKeys(li) })
			}
		})
		c.focusOffs[li] = func() {
			onFocus()
			onBlur()
		}
	}
}

func (c *Controller) disableKeyboard() {
	for li, off := range c.focusOffs {
		off()
		delete(c.focusOffs, li)
		dom.RemoveAttr(li, "tabindex")
	}
	for li := range c.keyOffs {
		c.detachKeys(li)
	}
}

func (c *Controller) attachKeys(li *html.Node) {
	if _, ok := c.keyOffs[li]; ok || c.viewport != Desktop {
		return
	}
	c.keyOffs[li] = c.doc.Events.On(li, dom.EventKeyDown, func(ev *dom.Event) {
		if ev.Target != li || (ev.Key != dom.KeyEnter && ev.Key != dom.KeySpace) {
			return
		}
		ev.PreventDefault()
		c.locked(func() {
			if c.viewport == Desktop {
				c.toggleDesktop(li)
			}
		})
	})
}

func (c *Controller) detachKeys(li *html.Node) {
	if off, ok := c.keyOffs[li]; ok {
		off()
		delete(c.keyOffs, li)
	}
}

// focus moves focus without dispatching events; it runs inside a handler.
func (c *Controller) focus(n *html.Node) {
	if n == nil {
		return
	}
	c.doc.SetFocusQuiet(n)
	if c.items[n].IsHolder() {
		c.attachKeys(n)
	}
}

func (c *Controller) follow(href string) {
	if href == "" || href == nav.PlaceholderHref {
		return
	}
	c.doc.Navigate(href)
	c.log.Debug("navigated", "href", href)
}

// Item state.

func (c *Controller) holders() []*html.Node {
	var out []*html.Node
	for _, li := range c.order {
		if c.items[li].IsHolder() {
			out = append(out, li)
		}
	}
	return out
}

func (c *Controller) isExpanded(li *html.Node) bool {
	return dom.Attr(li, nav.AttrExpanded) == "true"
}

func (c *Controller) setExpanded(li *html.Node, v bool) {
	item := c.items[li]
	if !item.IsHolder() {
		return
	}
	dom.SetAttr(li, nav.AttrExpanded, fmt.Sprint(v))
	item.Expanded = v
}

func (c *Controller) expandedNode() *html.Node {
	for _, li := range c.order {
		if c.isExpanded(li) {
			return li
		}
	}
	return nil
}

func (c *Controller) collapseAll() {
	for _, li := range c.holders() {
		c.setExpanded(li, false)
	}
}

func (c *Controller) expandAll() {
	for _, li := range c.holders() {
		c.setExpanded(li, true)
	}
}

func topAnchor(li *html.Node) *html.Node {
	for _, el := range dom.ChildElements(li) {
		if el.Data == "a" {
			return el
		}
	}
	return nil
}
