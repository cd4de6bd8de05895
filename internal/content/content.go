package content

import (
	"slices"
	"strings"
)

// Kind identifies the type of a content block.
type Kind string

const (
	KindGroup     Kind = "group"
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
	KindListItem  Kind = "list_item"
	KindImage     Kind = "image"
	KindLink      Kind = "link"
	KindText      Kind = "text"
	KindEmphasis  Kind = "emphasis"
	KindIcon      Kind = "icon"
)

// Region names of the canonical three-region shape.
const (
	RegionBrand    = "brand"
	RegionSections = "sections"
	RegionTools    = "tools"
)

// Tree is the root of a parsed content fragment.
type Tree struct {
	Groups []*Block `json:"groups"` // Top-level block groups (authoring sections)
}

// Block is a typed node in a content tree.
type Block struct {
	Kind     Kind     `json:"kind"`
	Text     string   `json:"text,omitempty"`    // Text nodes only
	Href     string   `json:"href,omitempty"`    // Links
	Src      string   `json:"src,omitempty"`     // Images
	Alt      string   `json:"alt,omitempty"`     // Images
	Name     string   `json:"name,omitempty"`    // Icons: marker name without the "icon-" prefix
	Level    int      `json:"level,omitempty"`   // Headings: 1-6
	Ordered  bool     `json:"ordered,omitempty"` // Lists
	Classes  []string `json:"classes,omitempty"`
	Region   string   `json:"region,omitempty"` // Set on groups of a normalized tree
	Children []*Block `json:"children,omitempty"`
}

// NewText returns a text block.
func NewText(s string) *Block {
	return &Block{Kind: KindText, Text: s}
}

// NewBlock returns a block of the given kind with children.
func NewBlock(kind Kind, children ...*Block) *Block {
	return &Block{Kind: kind, Children: children}
}

// NewLink returns a link with a single text child.
func NewLink(href, label string) *Block {
	return &Block{Kind: KindLink, Href: href, Children: []*Block{NewText(label)}}
}

// NewHeading returns a heading with a single text child.
func NewHeading(level int, label string) *Block {
	return &Block{Kind: KindHeading, Level: level, Children: []*Block{NewText(label)}}
}

// NewIcon returns an icon marker block.
func NewIcon(name string) *Block {
	return &Block{Kind: KindIcon, Name: name, Classes: []string{"icon", "icon-" + name}}
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Groups: make([]*Block, 0, len(t.Groups))}
	for _, g := range t.Groups {
		out.Groups = append(out.Groups, g.Clone())
	}
	return out
}

// Clone returns a deep copy of the block.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	c := *b
	c.Classes = slices.Clone(b.Classes)
	c.Children = CloneAll(b.Children)
	return &c
}

// CloneAll deep-copies a block slice. A nil slice stays nil.
func CloneAll(blocks []*Block) []*Block {
	if blocks == nil {
		return nil
	}
	out := make([]*Block, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Clone())
	}
	return out
}

// Is reports whether the block has the given kind. Nil-safe.
func (b *Block) Is(kind Kind) bool {
	return b != nil && b.Kind == kind
}

// HasClass reports whether the block carries a class name.
func (b *Block) HasClass(class string) bool {
	return slices.Contains(b.Classes, class)
}

// TextContent concatenates all descendant text, trimmed.
func (b *Block) TextContent() string {
	var buf strings.Builder
	var walk func(*Block)
	walk = func(n *Block) {
		if n.Kind == KindText {
			buf.WriteString(n.Text)
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(b)
	return strings.TrimSpace(buf.String())
}

// Find returns the first descendant (excluding b itself) of the given kind.
func (b *Block) Find(kind Kind) *Block {
	for _, c := range b.Children {
		if c.Kind == kind {
			return c
		}
		if f := c.Find(kind); f != nil {
			return f
		}
	}
	return nil
}

// FindAll returns every descendant of the given kind in document order.
func (b *Block) FindAll(kind Kind) []*Block {
	var out []*Block
	var walk func(*Block)
	walk = func(n *Block) {
		for _, c := range n.Children {
			if c.Kind == kind {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(b)
	return out
}

// Has reports whether any descendant has the given kind.
func (b *Block) Has(kind Kind) bool {
	return b.Find(kind) != nil
}

// IsCanonical reports whether the tree already has the three-region shape.
func (t *Tree) IsCanonical() bool {
	if t == nil || len(t.Groups) != 3 {
		return false
	}
	want := [3]string{RegionBrand, RegionSections, RegionTools}
	for i, g := range t.Groups {
		if g.Kind != KindGroup || g.Region != want[i] {
			return false
		}
	}
	return true
}

// Region returns the group tagged with the given region name, or nil.
func (t *Tree) Region(name string) *Block {
	if t == nil {
		return nil
	}
	for _, g := range t.Groups {
		if g.Region == name {
			return g
		}
	}
	return nil
}
