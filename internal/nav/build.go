package nav

import (
	"fmt"
	"log/slog"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/gosimple/slug"
)

// Build normalizes the content tree and classifies its sections region into
// navigation items. A nil logger discards the recovery notes.
func Build(t *content.Tree, p Policy, log *slog.Logger) *Tree {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	norm := Normalize(t)

	sections, orphans := Sections(flatten(norm.Region(content.RegionSections).Children))

	tree := &Tree{
		Brand: norm.Region(content.RegionBrand).Children,
		Tools: norm.Region(content.RegionTools).Children,
		Items: make([]*Item, 0, len(sections)),
	}
	// Content ahead of the first heading has no section to live in; it
	// leads the tools region instead.
	if len(orphans) > 0 {
		log.Debug("sections region has content before its first heading", "blocks", len(orphans))
		tree.Tools = append(orphans, tree.Tools...)
	}
	ids := newIDSet("nav-item")
	for _, s := range sections {
		label := s.Heading.TextContent()
		c := Classify(s, p)
		item := &Item{
			ID:    ids.next(label),
			Label: label,
			Kind:  c.Kind,
		}
		switch c.Kind {
		case DirectLink:
			item.Href = c.Href
		case SubmenuHolder:
			item.Href = PlaceholderHref
			item.Content = c.Children
			item.Children = submenuItems(item.ID, c.Children)
			if len(item.Children) == 0 {
				log.Debug("submenu holder has no links", "item", label)
			}
		}
		tree.Items = append(tree.Items, item)
	}
	return tree
}

// submenuItems flattens the list entries of a submenu into child items,
// one level deep. Entries without a link get the placeholder target.
func submenuItems(parentID string, blocks []*content.Block) []*Item {
	children := []*Item{}
	ids := newIDSet(parentID)
	var visit func(list *content.Block)
	visit = func(list *content.Block) {
		for _, li := range list.Children {
			if !li.Is(content.KindListItem) {
				continue
			}
			if label, href := entry(li); label != "" {
				children = append(children, &Item{
					ID:    ids.next(label),
					Label: label,
					Href:  href,
					Kind:  DirectLink,
				})
			}
			for _, c := range li.Children {
				if c.Is(content.KindList) {
					visit(c)
				}
			}
		}
	}
	for _, b := range blocks {
		if b.Is(content.KindList) {
			visit(b)
		}
	}
	return children
}

// entry reads the label and target of a list item, ignoring nested lists
// (their items are visited on their own).
func entry(li *content.Block) (label, href string) {
	own := &content.Block{Kind: content.KindListItem}
	for _, c := range li.Children {
		if !c.Is(content.KindList) {
			own.Children = append(own.Children, c)
		}
	}
	if link := own.Find(content.KindLink); link != nil && link.Href != "" {
		label = link.TextContent()
		if label == "" {
			label = own.TextContent()
		}
		return label, link.Href
	}
	return own.TextContent(), PlaceholderHref
}

// idSet hands out slug-based ids, suffixing duplicates.
type idSet struct {
	prefix string
	seen   map[string]int
}

func newIDSet(prefix string) *idSet {
	return &idSet{prefix: prefix, seen: make(map[string]int)}
}

func (s *idSet) next(label string) string {
	base := slug.Make(label)
	if base == "" {
		base = "item"
	}
	id := s.prefix + "-" + base
	s.seen[id]++
	if n := s.seen[id]; n > 1 {
		return fmt.Sprintf("%s-%d", id, n)
	}
	return id
}
