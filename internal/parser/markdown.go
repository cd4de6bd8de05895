package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown fragments using goldmark. Thematic breaks
// (---) separate the top-level groups.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*content.Tree, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var gb groupBuilder
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if _, ok := n.(*ast.ThematicBreak); ok {
			gb.breakGroup()
			continue
		}
		gb.add(convertMarkdownBlock(n, src))
	}
	return gb.tree(), nil
}

func convertMarkdownBlock(n ast.Node, src []byte) *content.Block {
	switch node := n.(type) {
	case *ast.Heading:
		b := content.NewBlock(content.KindHeading, convertInlines(node, src)...)
		b.Level = node.Level
		return b
	case *ast.Paragraph, *ast.TextBlock:
		return content.NewBlock(content.KindParagraph, convertInlines(node, src)...)
	case *ast.List:
		list := content.NewBlock(content.KindList)
		list.Ordered = node.IsOrdered()
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			list.Children = append(list.Children, convertListItem(c, src))
		}
		return list
	case *ast.HTMLBlock:
		return nil
	default:
		// Code blocks and quotes carry no nav meaning; keep their text.
		t := strings.TrimSpace(blockText(n, src))
		if t == "" {
			return nil
		}
		return content.NewBlock(content.KindParagraph, content.NewText(t))
	}
}

// convertListItem flattens the item's paragraphs into inline children so a
// list item looks the same as an HTML <li>.
func convertListItem(n ast.Node, src []byte) *content.Block {
	item := content.NewBlock(content.KindListItem)
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			item.Children = append(item.Children, convertInlines(c, src)...)
		default:
			if b := convertMarkdownBlock(c, src); b != nil {
				item.Children = append(item.Children, b)
			}
		}
	}
	return item
}

func convertInlines(parent ast.Node, src []byte) []*content.Block {
	var out []*content.Block
	for c := parent.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			s := string(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				s += " "
			}
			out = append(out, content.NewText(s))
		case *ast.String:
			out = append(out, content.NewText(string(node.Value)))
		case *ast.CodeSpan:
			out = append(out, content.NewText(inlineText(node, src)))
		case *ast.Emphasis:
			if node.Level >= 2 {
				// Strong emphasis is presentational only.
				out = append(out, convertInlines(node, src)...)
				continue
			}
			out = append(out, content.NewBlock(content.KindEmphasis, convertInlines(node, src)...))
		case *ast.Link:
			link := content.NewBlock(content.KindLink, convertInlines(node, src)...)
			link.Href = string(node.Destination)
			out = append(out, link)
		case *ast.AutoLink:
			out = append(out, content.NewLink(string(node.URL(src)), string(node.Label(src))))
		case *ast.Image:
			out = append(out, &content.Block{
				Kind: content.KindImage,
				Src:  string(node.Destination),
				Alt:  inlineText(node, src),
			})
		}
	}
	return expandIcons(mergeText(out))
}

// inlineText returns the plain text of an inline subtree.
func inlineText(n ast.Node, src []byte) string {
	var buf strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Segment.Value(src))
		case *ast.String:
			buf.Write(node.Value)
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}

func blockText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return inlineText(n, src)
	}
	var buf strings.Builder
	lines := n.Lines()
	if lines.Len() > 0 {
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return buf.String()
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		buf.WriteString(blockText(c, src))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// mergeText joins adjacent text blocks, which goldmark splits at every
// delimiter it considered.
func mergeText(blocks []*content.Block) []*content.Block {
	var out []*content.Block
	for _, b := range blocks {
		if b.Kind == content.KindText && len(out) > 0 && out[len(out)-1].Kind == content.KindText {
			out[len(out)-1].Text += b.Text
			continue
		}
		out = append(out, b)
	}
	if len(out) > 0 && out[len(out)-1].Kind == content.KindText {
		out[len(out)-1].Text = strings.TrimRight(out[len(out)-1].Text, " ")
	}
	return out
}
