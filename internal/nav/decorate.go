package nav

import (
	"slices"
	"strings"

	"github.com/dgallion1/navgest/internal/dom"
	"golang.org/x/net/html"
)

// DecorateOptions controls the presentational pass.
type DecorateOptions struct {
	// CodeBasePath prefixes icon image URLs.
	CodeBasePath string
	// BadgeMarker is matched against the href of a second brand link to
	// recognise the secondary logo.
	BadgeMarker string
	// Tablet starts every submenu holder expanded.
	Tablet bool
}

// Decorate applies icons, logo variants, ARIA scaffolding and the hamburger
// control to a rendered nav. It never changes which items exist or where
// they link. A nav that already carries the decoration marker is left
// untouched and false is returned.
func Decorate(nav *html.Node, opts DecorateOptions) bool {
	if nav == nil || dom.HasAttr(nav, AttrDecorated) {
		return false
	}

	if tools := Region(nav, ClassTools); tools != nil {
		wrapToolsText(tools)
	}
	if brand := Region(nav, ClassBrand); brand != nil {
		unbutton(brand)
		tagLogos(brand)
	}
	decorateIcons(nav, opts.CodeBasePath)
	extractBadge(nav, opts.BadgeMarker)

	expanded := "false"
	if opts.Tablet {
		expanded = "true"
	}
	for _, li := range ItemNodes(nav) {
		if dom.HasClass(li, ClassDrop) {
			dom.SetAttr(li, AttrExpanded, expanded)
		}
	}

	insertHamburger(nav)
	dom.SetAttr(nav, AttrExpanded, "false")
	dom.SetAttr(nav, AttrDecorated, "true")
	return true
}

// wrapToolsText puts the bare text of tool links into spans so it can be
// styled apart from the icon.
func wrapToolsText(tools *html.Node) {
	for _, a := range dom.FindAll(tools, dom.ByTag("a")) {
		for c := a.FirstChild; c != nil; {
			next := c.NextSibling
			if c.Type == html.TextNode && strings.TrimSpace(c.Data) != "" {
				span := dom.Element("span", "class", ClassToolsText)
				a.InsertBefore(span, c)
				dom.Append(span, c)
			}
			c = next
		}
	}
}

func unbutton(brand *html.Node) {
	link := dom.Find(brand, dom.ByClass("button"))
	if link == nil {
		return
	}
	dom.RemoveAttr(link, "class")
	if container := dom.Closest(link, dom.ByClass("button-container")); container != nil {
		dom.RemoveAttr(container, "class")
	}
}

func tagLogos(brand *html.Node) {
	for _, p := range dom.FindAll(brand, dom.ByTag("p")) {
		img := dom.Find(p, dom.ByTag("img"))
		if img == nil {
			continue
		}
		switch src := dom.Attr(img, "src"); {
		case strings.Contains(src, "logo-mob"):
			dom.AddClass(img, "logo-mobile")
		case strings.Contains(src, "logo-desk"):
			dom.AddClass(img, "logo-desktop")
		}
	}
}

// decorateIcons gives every icon marker without a glyph an image reference.
func decorateIcons(nav *html.Node, base string) {
	spans := dom.FindAll(nav, func(n *html.Node) bool {
		return n.Data == "span" && dom.HasClass(n, "icon") && dom.Find(n, dom.ByTag("img")) == nil
	})
	for _, span := range spans {
		i := slices.IndexFunc(dom.Classes(span), func(c string) bool {
			return strings.HasPrefix(c, "icon-")
		})
		if i < 0 {
			continue
		}
		name := strings.TrimPrefix(dom.Classes(span)[i], "icon-")
		dom.Append(span, dom.Element("img",
			"data-icon-name", name,
			"src", IconURL(base, name),
			"alt", "",
			"loading", "lazy",
			"width", "16",
			"height", "16",
		))
	}
}

// IconURL is the image location of a named icon.
func IconURL(base, name string) string {
	return strings.TrimSuffix(base, "/") + "/icons/" + name + ".svg"
}

// extractBadge moves the secondary brand logo into its own container at
// the front of the nav: the third linked paragraph of the brand, or the
// second one when its target carries the badge marker.
func extractBadge(nav *html.Node, marker string) {
	brand := Region(nav, ClassBrand)
	if brand == nil {
		return
	}
	paras := dom.FindAll(brand, func(n *html.Node) bool {
		return n.Data == "p" && dom.Find(n, dom.ByTag("a")) != nil
	})

	var para *html.Node
	switch {
	case len(paras) >= 3:
		para = paras[2]
	case len(paras) == 2 && marker != "":
		link := dom.Find(paras[1], dom.ByTag("a"))
		if strings.Contains(dom.Attr(link, "href"), marker) {
			para = paras[1]
		}
	}
	if para == nil {
		return
	}

	badge := dom.Element("div", "class", ClassBadge)
	dom.Append(badge, dom.Clone(dom.Find(para, dom.ByTag("a"))))
	dom.Remove(para)
	nav.InsertBefore(badge, nav.FirstChild)
}

// insertHamburger adds the menu toggle and its separator after the badge,
// or in front of the brand when there is none.
func insertHamburger(nav *html.Node) {
	btn := dom.Element("button",
		"type", "button",
		"aria-controls", NavID,
		"aria-label", hamburgerOpenLabel,
	)
	dom.Append(btn, dom.Element("span", "class", "nav-hamburger-icon"))
	hamburger := dom.Append(dom.Element("div", "class", ClassHamburger), btn)
	sep := dom.Append(dom.Element("span", "class", ClassSeparator), dom.Text("|"))

	var ref *html.Node
	if badge := dom.Find(nav, dom.ByClass(ClassBadge)); badge != nil {
		ref = badge.NextSibling
	} else if brand := Region(nav, ClassBrand); brand != nil {
		ref = brand
	} else {
		ref = nav.FirstChild
	}
	nav.InsertBefore(sep, ref)
	nav.InsertBefore(hamburger, ref)
}

// HamburgerButton returns the menu toggle of a decorated nav.
func HamburgerButton(nav *html.Node) *html.Node {
	h := dom.Find(nav, dom.ByClass(ClassHamburger))
	if h == nil {
		return nil
	}
	return dom.Find(h, dom.ByTag("button"))
}
