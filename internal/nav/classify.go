package nav

import "github.com/dgallion1/navgest/internal/content"

// Section is one heading and the blocks between it and the next heading.
type Section struct {
	Heading *content.Block
	Body    []*content.Block
	// Last is set for the final section of the run, which is not followed
	// by another heading.
	Last bool
}

// Rule names which classification rule fired.
type Rule string

const (
	RuleAlwaysDirect Rule = "always_direct" // configured label with a single link
	RuleSingleLink   Rule = "single_link"   // section is exactly one link paragraph
	RuleSubmenu      Rule = "submenu"       // fallback: expandable group
)

// Classification is the result of classifying one section.
type Classification struct {
	Kind     ItemKind
	Rule     Rule
	Href     string           // DirectLink only
	Children []*content.Block // SubmenuHolder only; never nil for holders
}

// Classify decides whether a section is a direct link or a submenu holder.
// Rules are tried in strict priority and exactly one fires:
//
//  1. a configured always-direct label whose first block is a single-item
//     list with a link, or a paragraph with exactly one link;
//  2. a section whose only block is a paragraph consisting of exactly one
//     plain link, followed by another heading;
//  3. otherwise a submenu holder over every body block, minus the tool
//     paragraphs (link + icon, no emphasis) of the last section.
func Classify(s Section, p Policy) Classification {
	var first *content.Block
	if len(s.Body) > 0 {
		first = s.Body[0]
	}

	if s.Heading != nil && p.isDirectLabel(s.Heading.TextContent()) {
		if href := alwaysDirectTarget(first); href != "" {
			return Classification{Kind: DirectLink, Rule: RuleAlwaysDirect, Href: href}
		}
	}

	if len(s.Body) == 1 && !s.Last {
		if href := singleLinkTarget(first); href != "" {
			return Classification{Kind: DirectLink, Rule: RuleSingleLink, Href: href}
		}
	}

	children := make([]*content.Block, 0, len(s.Body))
	for _, b := range s.Body {
		if s.Last && isToolParagraph(b) && !b.Has(content.KindEmphasis) {
			continue
		}
		children = append(children, b)
	}
	return Classification{Kind: SubmenuHolder, Rule: RuleSubmenu, Children: children}
}

func alwaysDirectTarget(b *content.Block) string {
	switch {
	case b.Is(content.KindList):
		items := b.FindAll(content.KindListItem)
		if len(items) != 1 {
			return ""
		}
		if link := items[0].Find(content.KindLink); link != nil {
			return link.Href
		}
	case b.Is(content.KindParagraph):
		links := b.FindAll(content.KindLink)
		if len(links) == 1 {
			return links[0].Href
		}
	}
	return ""
}

func singleLinkTarget(b *content.Block) string {
	if !b.Is(content.KindParagraph) || b.Has(content.KindEmphasis) || b.Has(content.KindImage) {
		return ""
	}
	links := b.FindAll(content.KindLink)
	if len(links) != 1 {
		return ""
	}
	if b.TextContent() != links[0].TextContent() {
		return ""
	}
	return links[0].Href
}

// Sections splits a run of blocks at headings. Blocks before the first
// heading belong to no section and are returned separately.
func Sections(blocks []*content.Block) (sections []Section, orphans []*content.Block) {
	for _, b := range blocks {
		if b.Is(content.KindHeading) {
			sections = append(sections, Section{Heading: b})
			continue
		}
		if len(sections) == 0 {
			orphans = append(orphans, b)
			continue
		}
		cur := &sections[len(sections)-1]
		cur.Body = append(cur.Body, b)
	}
	if len(sections) > 0 {
		sections[len(sections)-1].Last = true
	}
	return sections, orphans
}
