package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/navgest/internal/content"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTMLParser handles plain HTML fragments: a body whose top-level divs are
// the authoring sections.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*content.Tree, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	nodes = unwrapPage(nodes)

	// Stray top-level content outside any div shares one implicit group.
	var gb groupBuilder
	for _, n := range nodes {
		if n.Type == html.ElementNode && isGroupElement(n.DataAtom) {
			gb.breakGroup()
			gb.groups = append(gb.groups, convertGroup(n))
			continue
		}
		for _, b := range convertHTML(n) {
			gb.add(b)
		}
	}
	return gb.tree(), nil
}

// unwrapPage descends through a lone <main> (or similar page wrapper) so a
// full page and a bare fragment parse the same way.
func unwrapPage(nodes []*html.Node) []*html.Node {
	for {
		var only *html.Node
		count := 0
		for _, n := range nodes {
			if n.Type == html.ElementNode {
				only = n
				count++
			} else if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
				count += 2
			}
		}
		if count != 1 {
			return nodes
		}
		switch only.DataAtom {
		case atom.Main, atom.Html, atom.Body:
		default:
			return nodes
		}
		var children []*html.Node
		for c := only.FirstChild; c != nil; c = c.NextSibling {
			children = append(children, c)
		}
		nodes = children
	}
}

func isGroupElement(a atom.Atom) bool {
	switch a {
	case atom.Div, atom.Section, atom.Header, atom.Nav, atom.Footer, atom.Article, atom.Aside:
		return true
	}
	return false
}

func convertGroup(n *html.Node) *content.Block {
	g := content.NewBlock(content.KindGroup)
	g.Classes = classList(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		g.Children = append(g.Children, convertHTML(c)...)
	}
	return g
}

// convertHTML maps one HTML node to zero or more content blocks. Elements
// with no content meaning are unwrapped.
func convertHTML(n *html.Node) []*content.Block {
	switch n.Type {
	case html.TextNode:
		if strings.TrimSpace(n.Data) == "" {
			return nil
		}
		return []*content.Block{content.NewText(collapseSpace(n.Data))}
	case html.ElementNode:
	default:
		return nil
	}

	children := func() []*content.Block {
		var out []*content.Block
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			out = append(out, convertHTML(c)...)
		}
		return out
	}
	wrap := func(kind content.Kind) []*content.Block {
		b := content.NewBlock(kind, children()...)
		b.Classes = classList(n)
		return []*content.Block{b}
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Template, atom.Noscript, atom.Source, atom.Br, atom.Meta, atom.Link:
		return nil
	case atom.Div, atom.Section, atom.Header, atom.Nav, atom.Footer, atom.Article, atom.Aside:
		return []*content.Block{convertGroup(n)}
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		b := wrap(content.KindHeading)
		b[0].Level = int(n.Data[1] - '0')
		return b
	case atom.P:
		return wrap(content.KindParagraph)
	case atom.Ul, atom.Ol:
		b := wrap(content.KindList)
		b[0].Ordered = n.DataAtom == atom.Ol
		return b
	case atom.Li:
		return wrap(content.KindListItem)
	case atom.A:
		b := wrap(content.KindLink)
		b[0].Href = attr(n, "href")
		return b
	case atom.Img:
		return []*content.Block{{
			Kind:    content.KindImage,
			Src:     attr(n, "src"),
			Alt:     attr(n, "alt"),
			Classes: classList(n),
		}}
	case atom.Em, atom.I:
		return wrap(content.KindEmphasis)
	case atom.Span:
		classes := classList(n)
		for _, c := range classes {
			if name, ok := strings.CutPrefix(c, "icon-"); ok && name != "" {
				return []*content.Block{{
					Kind:     content.KindIcon,
					Name:     name,
					Classes:  classes,
					Children: children(),
				}}
			}
		}
	}
	return children()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func classList(n *html.Node) []string {
	return strings.Fields(attr(n, "class"))
}

func collapseSpace(s string) string {
	lead := len(s) > 0 && isSpace(s[0])
	trail := len(s) > 0 && isSpace(s[len(s)-1])
	out := strings.Join(strings.Fields(s), " ")
	if lead {
		out = " " + out
	}
	if trail {
		out += " "
	}
	return out
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\t' || c == '\r'
}
