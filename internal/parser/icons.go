package parser

import (
	"regexp"

	"github.com/dgallion1/navgest/internal/content"
)

// iconToken matches the :name: shorthand authors use for icons in
// markdown and word documents.
var iconToken = regexp.MustCompile(`:([a-z0-9][a-z0-9-]*):`)

// splitIcons turns a text run into text and icon blocks.
func splitIcons(s string) []*content.Block {
	if s == "" {
		return nil
	}
	matches := iconToken.FindAllStringSubmatchIndex(s, -1)
	if len(matches) == 0 {
		return []*content.Block{content.NewText(s)}
	}
	var out []*content.Block
	last := 0
	for _, m := range matches {
		if m[0] > last {
			out = append(out, content.NewText(s[last:m[0]]))
		}
		out = append(out, content.NewIcon(s[m[2]:m[3]]))
		last = m[1]
	}
	if last < len(s) {
		out = append(out, content.NewText(s[last:]))
	}
	return out
}

// expandIcons splits every text block of a run into text and icons.
func expandIcons(blocks []*content.Block) []*content.Block {
	var out []*content.Block
	for _, b := range blocks {
		if b.Kind == content.KindText {
			out = append(out, splitIcons(b.Text)...)
			continue
		}
		out = append(out, b)
	}
	return out
}

// groupBuilder accumulates blocks into top-level groups separated by
// section breaks.
type groupBuilder struct {
	groups  []*content.Block
	current *content.Block
}

func (g *groupBuilder) add(b *content.Block) {
	if b == nil {
		return
	}
	if g.current == nil {
		g.current = content.NewBlock(content.KindGroup)
	}
	g.current.Children = append(g.current.Children, b)
}

// last returns the most recently added block of the current group.
func (g *groupBuilder) last() *content.Block {
	if g.current == nil || len(g.current.Children) == 0 {
		return nil
	}
	return g.current.Children[len(g.current.Children)-1]
}

func (g *groupBuilder) breakGroup() {
	if g.current != nil && len(g.current.Children) > 0 {
		g.groups = append(g.groups, g.current)
	}
	g.current = nil
}

func (g *groupBuilder) tree() *content.Tree {
	g.breakGroup()
	return &content.Tree{Groups: g.groups}
}
