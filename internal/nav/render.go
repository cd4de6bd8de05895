package nav

import (
	"fmt"
	"strconv"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/dgallion1/navgest/internal/dom"
	"golang.org/x/net/html"
)

// Stable markers of the output DOM.
const (
	NavID              = "nav"
	ClassBrand         = "nav-brand"
	ClassSections      = "nav-sections"
	ClassTools         = "nav-tools"
	ClassWrapper       = "default-content-wrapper"
	ClassDrop          = "nav-drop"
	ClassExpandButton  = "menu-expand-btn"
	ClassHamburger     = "nav-hamburger"
	ClassSeparator     = "nav-hamburger-separator"
	ClassBadge         = "nav-150years"
	ClassToolsText     = "nav-tools-text"
	ClassToolsHidden   = "nav-tools-hidden"
	AttrItem           = "data-nav-item"
	AttrRegion         = "data-region"
	AttrExpanded       = "aria-expanded"
	AttrDecorated      = "data-decorated"
	chevronRight       = "M7 5L12 10L7 15"
	chevronLeft        = "M13 5L8 10L13 15"
	hamburgerOpenLabel = "Open navigation"
)

// Render builds the <nav> element for a navigation tree. The result is
// undecorated: see Decorate.
func Render(t *Tree) *html.Node {
	nav := dom.Element("nav", "id", NavID, AttrExpanded, "false")

	brand := dom.Element("div", "class", ClassBrand, AttrRegion, content.RegionBrand)
	dom.Append(brand, RenderBlocks(t.Brand)...)

	ul := dom.Element("ul")
	for _, it := range t.Items {
		dom.Append(ul, renderItem(it))
	}
	sections := dom.Append(
		dom.Element("div", "class", ClassSections, AttrRegion, content.RegionSections),
		dom.Append(dom.Element("div", "class", ClassWrapper), ul),
	)

	tools := dom.Element("div", "class", ClassTools, AttrRegion, content.RegionTools)
	dom.Append(tools, RenderBlocks(t.Tools)...)

	return dom.Append(nav, brand, sections, tools)
}

func renderItem(it *Item) *html.Node {
	li := dom.Element("li", AttrItem, it.ID)
	top := dom.Append(dom.Element("a", "href", it.Href), dom.Text(it.Label))
	dom.Append(li, top)
	if !it.IsHolder() {
		return li
	}

	dom.AddClass(li, ClassDrop)
	dom.Append(li, RenderBlocks(it.Content)...)
	btn := dom.Element("button",
		"class", ClassExpandButton,
		"aria-label", fmt.Sprintf("View %s submenu", it.Label),
	)
	dom.Append(btn, Chevron(chevronRight))
	return dom.Append(li, btn)
}

// Chevron returns a 20x20 stroked SVG arrow with the given path.
func Chevron(d string) *html.Node {
	svg := dom.Element("svg",
		"width", "20", "height", "20", "viewBox", "0 0 20 20",
		"fill", "none", "xmlns", "http://www.w3.org/2000/svg",
	)
	svg.Namespace = "svg"
	path := dom.Element("path",
		"d", d, "stroke", "currentColor", "stroke-width", "2",
		"stroke-linecap", "round", "stroke-linejoin", "round",
	)
	path.Namespace = "svg"
	return dom.Append(svg, path)
}

// BackChevron is the left-pointing arrow of the submenu back control.
func BackChevron() *html.Node {
	return Chevron(chevronLeft)
}

// RenderBlocks converts content blocks to HTML nodes.
func RenderBlocks(blocks []*content.Block) []*html.Node {
	out := make([]*html.Node, 0, len(blocks))
	for _, b := range blocks {
		if n := renderBlock(b); n != nil {
			out = append(out, n)
		}
	}
	return out
}

func renderBlock(b *content.Block) *html.Node {
	var n *html.Node
	switch b.Kind {
	case content.KindText:
		return dom.Text(b.Text)
	case content.KindGroup:
		n = dom.Element("div")
	case content.KindHeading:
		level := min(max(b.Level, 1), 6)
		n = dom.Element("h" + strconv.Itoa(level))
	case content.KindParagraph:
		n = dom.Element("p")
	case content.KindList:
		if b.Ordered {
			n = dom.Element("ol")
		} else {
			n = dom.Element("ul")
		}
	case content.KindListItem:
		n = dom.Element("li")
	case content.KindLink:
		n = dom.Element("a", "href", b.Href)
	case content.KindImage:
		n = dom.Element("img", "src", b.Src, "alt", b.Alt)
	case content.KindEmphasis:
		n = dom.Element("em")
	case content.KindIcon:
		n = dom.Element("span")
		dom.AddClass(n, "icon", "icon-"+b.Name)
	default:
		return nil
	}
	if len(b.Classes) > 0 {
		dom.AddClass(n, b.Classes...)
	}
	return dom.Append(n, RenderBlocks(b.Children)...)
}

// Region returns the region container of a rendered nav.
func Region(nav *html.Node, class string) *html.Node {
	return dom.Find(nav, dom.ByClass(class))
}

// ItemNode returns the <li> of a rendered item.
func ItemNode(nav *html.Node, id string) *html.Node {
	return dom.Find(nav, func(n *html.Node) bool { return dom.Attr(n, AttrItem) == id })
}

// ItemNodes returns the top-level <li> elements in order.
func ItemNodes(nav *html.Node) []*html.Node {
	ul := dom.Find(nav, func(n *html.Node) bool {
		return n.Data == "ul" && dom.HasClass(n.Parent, ClassWrapper)
	})
	if ul == nil {
		return nil
	}
	var out []*html.Node
	for _, li := range dom.ChildElements(ul) {
		if li.Data == "li" {
			out = append(out, li)
		}
	}
	return out
}
