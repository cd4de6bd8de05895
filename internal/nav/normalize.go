package nav

import "github.com/dgallion1/navgest/internal/content"

// Normalize reshapes a content tree into the canonical three groups tagged
// brand, sections and tools. It never fails: unexpected shapes degrade to
// best-effort heuristics. A tree that already has the canonical shape is
// returned as an unchanged copy, which makes Normalize idempotent.
func Normalize(t *content.Tree) *content.Tree {
	if t == nil {
		return canonical(nil, nil, nil)
	}
	if t.IsCanonical() {
		return t.Clone()
	}

	groups := content.CloneAll(t.Groups)

	// Already segmented: assign positionally, unless the brand group holds
	// headings, in which case the author put everything in the wrong place.
	if len(groups) >= 3 && !groups[0].Has(content.KindHeading) {
		tools := groups[2].Children
		for _, extra := range groups[3:] {
			tools = append(tools, extra.Children...)
		}
		return canonical(groups[0].Children, groups[1].Children, tools)
	}

	var flat []*content.Block
	var second *content.Block
	switch {
	case len(groups) >= 3:
		for _, g := range groups {
			flat = append(flat, unwrap(g.Children)...)
		}
	case len(groups) > 0:
		flat = unwrap(groups[0].Children)
		if len(groups) == 2 {
			second = groups[1]
		}
	}

	brand, sections, tools := split(flat)
	if second != nil {
		tools = append(tools, second.Children...)
	}
	return canonical(brand, sections, tools)
}

// split partitions a flat run of blocks into the three regions.
func split(flat []*content.Block) (brand, sections, tools []*content.Block) {
	first, last := -1, -1
	for i, b := range flat {
		if b.Is(content.KindHeading) {
			if first < 0 {
				first = i
			}
			last = i
		}
	}

	if first < 0 {
		for _, b := range flat {
			if isLogoParagraph(b) {
				brand = append(brand, b)
			} else {
				tools = append(tools, b)
			}
		}
		return brand, nil, tools
	}

	// Everything before the first heading is brand material; logos are what
	// matter there but nothing is discarded.
	brand = append(brand, flat[:first]...)

	// The last section's own content runs until the first block that cannot
	// belong to a submenu; icon links after that point are tools.
	end := last + 1
	for end < len(flat) && isSectionContent(flat[end]) {
		end++
	}
	sections = append(sections, flat[first:end]...)
	for _, b := range flat[end:] {
		if isToolParagraph(b) {
			tools = append(tools, b)
		} else {
			sections = append(sections, b)
		}
	}
	return brand, sections, tools
}

func canonical(brand, sections, tools []*content.Block) *content.Tree {
	region := func(name string, children []*content.Block) *content.Block {
		g := content.NewBlock(content.KindGroup, children...)
		g.Region = name
		g.Classes = []string{"nav-" + name}
		return g
	}
	return &content.Tree{Groups: []*content.Block{
		region(content.RegionBrand, brand),
		region(content.RegionSections, sections),
		region(content.RegionTools, tools),
	}}
}

// unwrap removes one level of single generic container.
func unwrap(blocks []*content.Block) []*content.Block {
	if len(blocks) == 1 && blocks[0].Is(content.KindGroup) {
		return blocks[0].Children
	}
	return blocks
}

// flatten inlines generic containers at any depth, so headings nested in
// sibling wrappers end up at the top level.
func flatten(blocks []*content.Block) []*content.Block {
	out := make([]*content.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Is(content.KindGroup) {
			out = append(out, flatten(b.Children)...)
			continue
		}
		out = append(out, b)
	}
	return out
}

func isLogoParagraph(b *content.Block) bool {
	return b.Is(content.KindParagraph) && (b.Has(content.KindImage) || b.Has(content.KindIcon))
}

func isToolParagraph(b *content.Block) bool {
	return b.Is(content.KindParagraph) && b.Has(content.KindLink) && b.Has(content.KindIcon)
}

// isSectionContent reports whether b belongs to a submenu: lists, subtitle
// paragraphs and plain image paragraphs.
func isSectionContent(b *content.Block) bool {
	switch {
	case b.Is(content.KindList):
		return true
	case b.Is(content.KindParagraph) && b.Has(content.KindEmphasis):
		return true
	case b.Is(content.KindParagraph) && b.Has(content.KindImage) && !b.Has(content.KindIcon):
		return true
	}
	return false
}
