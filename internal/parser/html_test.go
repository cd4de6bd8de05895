package parser

import (
	"strings"
	"testing"

	"github.com/dgallion1/navgest/internal/content"
)

const plainFragment = `
<div>
  <div class="default-content-wrapper">
    <p><a href="/"><img src="/media/logo-desk.png" alt="Maison"></a></p>
    <h3>Collections</h3>
    <p><em>Explore the collections</em></p>
    <ul>
      <li><a href="/collections/rings">Rings</a></li>
      <li><a href="/collections/watches">Watches</a></li>
    </ul>
    <h3>Stories</h3>
    <ul><li><a href="/stories">All stories</a></li></ul>
    <p><a href="/search"><span class="icon icon-search"></span>Search</a></p>
  </div>
</div>
<div><p><a href="/account">Account</a></p></div>
`

func TestHTMLParser_PlainFragment(t *testing.T) {
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(plainFragment), "nav.plain.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(tree.Groups))
	}

	first := tree.Groups[0]
	if len(first.Children) != 1 {
		t.Fatalf("expected single wrapper child, got %d", len(first.Children))
	}
	wrapper := first.Children[0]
	if !wrapper.Is(content.KindGroup) || !wrapper.HasClass("default-content-wrapper") {
		t.Fatalf("expected default-content-wrapper group, got %+v", wrapper)
	}

	headings := wrapper.FindAll(content.KindHeading)
	if len(headings) != 2 {
		t.Fatalf("expected 2 headings, got %d", len(headings))
	}
	if headings[0].Level != 3 || headings[0].TextContent() != "Collections" {
		t.Errorf("unexpected first heading %+v", headings[0])
	}

	img := wrapper.Find(content.KindImage)
	if img == nil || img.Src != "/media/logo-desk.png" || img.Alt != "Maison" {
		t.Errorf("unexpected logo image %+v", img)
	}

	icon := wrapper.Find(content.KindIcon)
	if icon == nil || icon.Name != "search" {
		t.Fatalf("expected search icon, got %+v", icon)
	}

	links := tree.Groups[1].FindAll(content.KindLink)
	if len(links) != 1 || links[0].Href != "/account" {
		t.Errorf("expected account link in second group, got %+v", links)
	}
}

func TestHTMLParser_UnwrapsMainAndStrayContent(t *testing.T) {
	input := `<main><h3>Only</h3><p>text</p></main>`
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "nav.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tree.Groups) != 1 {
		t.Fatalf("expected stray content in one implicit group, got %d groups", len(tree.Groups))
	}
	if n := len(tree.Groups[0].Children); n != 2 {
		t.Errorf("expected 2 blocks, got %d", n)
	}
}

func TestHTMLParser_DropsScriptsAndUnwrapsInline(t *testing.T) {
	input := `<div><p><strong>Bold <em>and</em> more</strong><script>x()</script></p></div>`
	p := &HTMLParser{}
	tree, err := p.Parse(strings.NewReader(input), "nav.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	para := tree.Groups[0].Children[0]
	if got := para.TextContent(); got != "Bold and more" {
		t.Errorf("expected %q, got %q", "Bold and more", got)
	}
	if !para.Has(content.KindEmphasis) {
		t.Error("expected emphasis to be kept")
	}
}
