package interact

import (
	"github.com/dgallion1/navgest/internal/dom"
	"github.com/dgallion1/navgest/internal/nav"
	"golang.org/x/net/html"
)

// Panel markers.
const (
	ClassPanel        = "mobile-submenu-panel"
	ClassPanelHeader  = "submenu-header"
	ClassPanelBack    = "submenu-back-btn"
	ClassPanelTitle   = "submenu-title"
	ClassPanelContent = "submenu-content"
	ClassSlideIn      = "slide-in"
	ClassSlideOut     = "slide-out"
)

// Panel is the mobile overlay presenting one holder's children.
type Panel struct {
	item    *nav.Item
	li      *html.Node
	node    *html.Node
	back    *html.Node
	closing bool
	offs    []func()
}

// newPanel builds the overlay for item. Children are listed flat, one
// level deep.
func newPanel(item *nav.Item, li *html.Node) *Panel {
	back := dom.Element("button", "class", ClassPanelBack, "aria-label", "Back to menu")
	dom.Append(back, nav.BackChevron())
	title := dom.Append(dom.Element("div", "class", ClassPanelTitle), dom.Text(item.Label))
	header := dom.Append(dom.Element("div", "class", ClassPanelHeader), back, title)

	ul := dom.Element("ul")
	for _, child := range item.Children {
		a := dom.Append(dom.Element("a", "href", child.Href), dom.Text(child.Label))
		dom.Append(ul, dom.Append(dom.Element("li", nav.AttrItem, child.ID), a))
	}
	body := dom.Append(dom.Element("div", "class", ClassPanelContent), ul)

	return &Panel{
		item: item,
		li:   li,
		node: dom.Append(dom.Element("div", "class", ClassPanel), header, body),
		back: back,
	}
}

// Item returns the holder the panel presents.
func (p *Panel) Item() *nav.Item { return p.item }

// Node returns the overlay element.
func (p *Panel) Node() *html.Node { return p.node }

// Closing reports whether the exit animation has started.
func (p *Panel) Closing() bool { return p.closing }

func (p *Panel) detach() {
	for _, off := range p.offs {
		off()
	}
	p.offs = nil
}

func (p *Panel) remove() {
	p.detach()
	dom.Remove(p.node)
}

// openPanel shows the overlay for a holder. While a panel exists, including
// one that is animating out, further opens are ignored.
func (c *Controller) openPanel(li *html.Node) {
	item := c.items[li]
	if c.panel != nil {
		c.log.Debug("submenu panel already open", "item", item.ID, "open", c.panel.item.ID)
		return
	}
	if len(item.Children) == 0 {
		c.log.Debug("submenu holder has no entries", "item", item.ID)
		return
	}

	p := newPanel(item, li)
	dom.InsertBefore(c.sections.Parent, p.node, c.sections)
	p.offs = append(p.offs,
		c.doc.Events.On(p.back, dom.EventClick, c.onBack),
		c.doc.Events.On(p.node, dom.EventClick, c.onPanelLink),
	)
	c.panel = p
	if c.doc.Viewport.Width() < c.opts.Breakpoints.Tablet {
		dom.AddClass(c.tools, nav.ClassToolsHidden)
	}

	enter := func() { dom.AddClass(p.node, ClassSlideIn) }
	tr := c.start(kindPanel, enter)
	c.after(tr, c.opts.Timings.PanelEnter, func() {
		c.finish(tr)
		enter()
	})
	c.log.Debug("submenu panel opened", "item", item.ID)
}

// closePanel animates the overlay out and removes it once the exit has
// settled. The outer menu stays open.
func (c *Controller) closePanel() {
	p := c.panel
	if p == nil || p.closing {
		return
	}
	p.closing = true

	done := func() {
		if c.panel == p {
			c.panel = nil
		}
		p.remove()
		c.setExpanded(p.li, false)
		if c.doc.Viewport.Width() < c.opts.Breakpoints.Tablet {
			dom.RemoveClass(c.tools, nav.ClassToolsHidden)
		}
		c.log.Debug("submenu panel closed", "item", p.item.ID)
	}
	tr := c.start(kindPanel, done)
	dom.RemoveClass(p.node, ClassSlideIn)
	dom.AddClass(p.node, ClassSlideOut)
	c.after(tr, c.opts.Timings.PanelExit, func() {
		c.finish(tr)
		done()
	})
}

// removePanel drops the overlay immediately, discarding any animation.
func (c *Controller) removePanel() {
	p := c.panel
	if p == nil {
		return
	}
	c.discard(kindPanel)
	c.panel = nil
	p.remove()
	c.setExpanded(p.li, false)
	dom.RemoveClass(c.tools, nav.ClassToolsHidden)
}

func (c *Controller) onBack(ev *dom.Event) {
	ev.PreventDefault()
	ev.StopPropagation()
	c.locked(c.closePanel)
}

func (c *Controller) onPanelLink(ev *dom.Event) {
	a := dom.Closest(ev.Target, dom.ByTag("a"))
	if a == nil {
		return
	}
	c.locked(func() { c.follow(dom.Attr(a, "href")) })
}
