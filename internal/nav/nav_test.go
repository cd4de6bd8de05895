package nav

import (
	"testing"

	"github.com/dgallion1/navgest/internal/content"
	"github.com/google/go-cmp/cmp"
)

func para(children ...*content.Block) *content.Block {
	return content.NewBlock(content.KindParagraph, children...)
}

func list(items ...*content.Block) *content.Block {
	var lis []*content.Block
	for _, it := range items {
		lis = append(lis, content.NewBlock(content.KindListItem, it))
	}
	return content.NewBlock(content.KindList, lis...)
}

func group(children ...*content.Block) *content.Block {
	return content.NewBlock(content.KindGroup, children...)
}

func h(label string) *content.Block { return content.NewHeading(3, label) }

func link(href, label string) *content.Block { return content.NewLink(href, label) }

func logo() *content.Block {
	return para(link("/", ""), &content.Block{Kind: content.KindImage, Src: "/logo-desk.svg"})
}

func tool(href, label, icon string) *content.Block {
	l := link(href, label)
	l.Children = append([]*content.Block{content.NewIcon(icon)}, l.Children...)
	return para(l)
}

// scenarioA is a single flat group: logo, three sections, two tools.
func scenarioA() *content.Tree {
	return &content.Tree{Groups: []*content.Block{group(
		logo(),
		h("Collections"),
		list(link("/rings", "Rings"), link("/watches", "Watches")),
		h("Stories"),
		list(link("/stories", "Stories")),
		h("Boutiques"),
		list(link("/paris", "Paris")),
		tool("/search", "Search", "search"),
		tool("/account", "Account", "user"),
	)}}
}

func TestBuildScenarioA(t *testing.T) {
	tree := Build(scenarioA(), DefaultPolicy(), nil)

	if len(tree.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(tree.Items))
	}
	labels := []string{tree.Items[0].Label, tree.Items[1].Label, tree.Items[2].Label}
	if diff := cmp.Diff([]string{"Collections", "Stories", "Boutiques"}, labels); diff != "" {
		t.Errorf("labels (-want +got):\n%s", diff)
	}

	stories := tree.Item("Stories")
	if stories.Kind != DirectLink || stories.Href != "/stories" {
		t.Errorf("expected Stories direct link to /stories, got %s %q", stories.Kind, stories.Href)
	}
	if stories.Children != nil {
		t.Errorf("expected no children on a direct link, got %d", len(stories.Children))
	}

	coll := tree.Item("Collections")
	if coll.Kind != SubmenuHolder || coll.Href != PlaceholderHref {
		t.Errorf("expected Collections holder with #, got %s %q", coll.Kind, coll.Href)
	}
	if len(coll.Children) != 2 || coll.Children[1].Href != "/watches" {
		t.Errorf("expected 2 children ending at /watches, got %+v", coll.Children)
	}

	if len(tree.Brand) != 1 {
		t.Errorf("expected logo in brand, got %d blocks", len(tree.Brand))
	}
	if len(tree.Tools) != 2 {
		t.Errorf("expected 2 tools, got %d", len(tree.Tools))
	}
	if b := tree.Item("Boutiques"); len(b.Content) != 1 {
		t.Errorf("expected tools excluded from last submenu, got %d blocks", len(b.Content))
	}
}

func TestBuildItemIDs(t *testing.T) {
	tree := Build(&content.Tree{Groups: []*content.Block{group(
		h("Our World"), list(link("/a", "A")),
		h("Our World"), list(link("/b", "B"), link("/b2", "B")),
	)}}, DefaultPolicy(), nil)

	if tree.Items[0].ID != "nav-item-our-world" {
		t.Errorf("expected nav-item-our-world, got %q", tree.Items[0].ID)
	}
	if tree.Items[1].ID != "nav-item-our-world-2" {
		t.Errorf("expected nav-item-our-world-2, got %q", tree.Items[1].ID)
	}
	kids := tree.Items[1].Children
	if kids[0].ID != "nav-item-our-world-2-b" || kids[1].ID != "nav-item-our-world-2-b-2" {
		t.Errorf("unexpected child ids %q %q", kids[0].ID, kids[1].ID)
	}
}

func TestBuildNestedSectionGroups(t *testing.T) {
	in := &content.Tree{Groups: []*content.Block{
		group(logo()),
		group(
			para(content.NewText("Free delivery")),
			group(h("Collections"), list(link("/rings", "Rings"), link("/watches", "Watches"))),
			group(group(h("Boutiques"), para(link("/paris", "Paris")))),
		),
		group(tool("/search", "Search", "search")),
	}}
	tree := Build(in, DefaultPolicy(), nil)

	if len(tree.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(tree.Items))
	}
	if tree.Items[0].Label != "Collections" || tree.Items[1].Label != "Boutiques" {
		t.Errorf("expected Collections, Boutiques, got %q, %q", tree.Items[0].Label, tree.Items[1].Label)
	}
	if len(tree.Items[0].Children) != 2 {
		t.Errorf("expected 2 Collections children, got %d", len(tree.Items[0].Children))
	}
	if len(tree.Tools) != 2 {
		t.Fatalf("expected leading content kept with the tools, got %d blocks", len(tree.Tools))
	}
	if got := tree.Tools[0].TextContent(); got != "Free delivery" {
		t.Errorf("expected leading paragraph first, got %q", got)
	}
}

func TestClassifyRulePriority(t *testing.T) {
	tests := []struct {
		name string
		s    Section
		kind ItemKind
		rule Rule
		href string
	}{
		{
			name: "single link paragraph followed by heading",
			s:    Section{Heading: h("About"), Body: []*content.Block{para(link("/about", "About us"))}},
			kind: DirectLink, rule: RuleSingleLink, href: "/about",
		},
		{
			name: "single link paragraph as last section",
			s:    Section{Heading: h("About"), Body: []*content.Block{para(link("/about", "About us"))}, Last: true},
			kind: SubmenuHolder, rule: RuleSubmenu,
		},
		{
			name: "always direct label beats single link",
			s:    Section{Heading: h("Stories"), Body: []*content.Block{para(link("/stories", "Read"))}},
			kind: DirectLink, rule: RuleAlwaysDirect, href: "/stories",
		},
		{
			name: "always direct label with a single-item list",
			s:    Section{Heading: h(" Stories "), Body: []*content.Block{list(link("/s", "S")), para(content.NewText("x"))}},
			kind: DirectLink, rule: RuleAlwaysDirect, href: "/s",
		},
		{
			name: "always direct label with a two-item list",
			s:    Section{Heading: h("Stories"), Body: []*content.Block{list(link("/a", "A"), link("/b", "B"))}},
			kind: SubmenuHolder, rule: RuleSubmenu,
		},
		{
			name: "link with surrounding text",
			s:    Section{Heading: h("Shop"), Body: []*content.Block{para(content.NewText("Visit "), link("/shop", "shop"))}},
			kind: SubmenuHolder, rule: RuleSubmenu,
		},
		{
			name: "emphasised link",
			s: Section{Heading: h("Shop"), Body: []*content.Block{
				para(content.NewBlock(content.KindEmphasis, link("/shop", "Shop"))),
			}},
			kind: SubmenuHolder, rule: RuleSubmenu,
		},
		{
			name: "empty href falls through",
			s:    Section{Heading: h("Shop"), Body: []*content.Block{para(link("", "Shop"))}},
			kind: SubmenuHolder, rule: RuleSubmenu,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.s, DefaultPolicy())
			if c.Kind != tt.kind || c.Rule != tt.rule {
				t.Fatalf("expected %s/%s, got %s/%s", tt.kind, tt.rule, c.Kind, c.Rule)
			}
			if c.Href != tt.href {
				t.Errorf("expected href %q, got %q", tt.href, c.Href)
			}
			if c.Kind == SubmenuHolder && c.Children == nil {
				t.Error("expected non-nil children for a holder")
			}
		})
	}
}

func TestClassifyDefaultSafety(t *testing.T) {
	body := []*content.Block{
		para(content.NewText("Shop "), link("/a", "rings")),
		para(content.NewText("or "), link("/b", "watches")),
		para(content.NewBlock(content.KindEmphasis, content.NewText("since 1875"))),
	}
	c := Classify(Section{Heading: h("Collections"), Body: body}, DefaultPolicy())
	if c.Kind != SubmenuHolder {
		t.Fatalf("expected holder, got %s", c.Kind)
	}
	if diff := cmp.Diff(body, c.Children); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}

func TestClassifyLastSectionDropsTools(t *testing.T) {
	body := []*content.Block{
		list(link("/a", "A")),
		tool("/search", "Search", "search"),
		para(content.NewBlock(content.KindEmphasis, link("/x", "X")), content.NewIcon("star")),
	}
	c := Classify(Section{Heading: h("Last"), Body: body, Last: true}, DefaultPolicy())
	if len(c.Children) != 2 {
		t.Fatalf("expected tool paragraph dropped, got %d children", len(c.Children))
	}
	c = Classify(Section{Heading: h("Middle"), Body: body}, DefaultPolicy())
	if len(c.Children) != 3 {
		t.Fatalf("expected all content kept before the last section, got %d", len(c.Children))
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name                   string
		in                     *content.Tree
		brand, sections, tools int
	}{
		{"nil", nil, 0, 0, 0},
		{"empty", &content.Tree{}, 0, 0, 0},
		{"flat single group", scenarioA(), 1, 6, 2},
		{
			name: "wrapped single group",
			in:   &content.Tree{Groups: []*content.Block{group(group(logo(), h("A"), list(link("/a", "a"))))}},
			brand: 1, sections: 2, tools: 0,
		},
		{
			name: "positional",
			in: &content.Tree{Groups: []*content.Block{
				group(logo()), group(h("A"), list()), group(tool("/s", "S", "search")), group(para(link("/x", "x"))),
			}},
			brand: 1, sections: 2, tools: 2,
		},
		{
			name: "headings in brand group are restructured",
			in: &content.Tree{Groups: []*content.Block{
				group(logo(), h("A")), group(list(link("/a", "a"))), group(tool("/s", "S", "search")),
			}},
			brand: 1, sections: 2, tools: 1,
		},
		{
			name: "second group appended to tools",
			in: &content.Tree{Groups: []*content.Block{
				group(h("A"), para(link("/a", "a"))), group(para(link("/x", "x")), para(link("/y", "y"))),
			}},
			brand: 0, sections: 2, tools: 2,
		},
		{
			name:  "no headings",
			in:    &content.Tree{Groups: []*content.Block{group(logo(), para(link("/s", "S")), para(content.NewText("hi")))}},
			brand: 1, sections: 0, tools: 2,
		},
		{
			name: "trailing non tool content stays in sections",
			in: &content.Tree{Groups: []*content.Block{group(
				h("A"), list(link("/a", "a")), tool("/s", "S", "search"), para(content.NewText("note")),
			)}},
			brand: 0, sections: 3, tools: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Normalize(tt.in)
			if !out.IsCanonical() {
				t.Fatal("expected canonical shape")
			}
			got := [3]int{
				len(out.Region(content.RegionBrand).Children),
				len(out.Region(content.RegionSections).Children),
				len(out.Region(content.RegionTools).Children),
			}
			if want := [3]int{tt.brand, tt.sections, tt.tools}; got != want {
				t.Errorf("expected region sizes %v, got %v", want, got)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []*content.Tree{
		nil,
		scenarioA(),
		{Groups: []*content.Block{group(logo()), group(h("A")), group(), group(para())}},
		{Groups: []*content.Block{group(h("A"), para(link("/a", "a"))), group(para())}},
	}
	for i, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("input %d: normalize not idempotent (-once +twice):\n%s", i, diff)
		}
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	in := scenarioA()
	before := in.Clone()
	Normalize(in)
	Build(in, DefaultPolicy(), nil)
	if diff := cmp.Diff(before, in); diff != "" {
		t.Errorf("input mutated (-before +after):\n%s", diff)
	}
}

func TestSubmenuItemsFlattenNested(t *testing.T) {
	nested := list(link("/a", "A"))
	nested.Children[0].Children = append(nested.Children[0].Children, list(link("/a1", "A1")))
	plain := content.NewBlock(content.KindList, content.NewBlock(content.KindListItem, content.NewText("Soon")))

	kids := submenuItems("p", []*content.Block{para(content.NewText("intro")), nested, plain})
	var got []string
	for _, k := range kids {
		got = append(got, k.Label+"="+k.Href)
	}
	want := []string{"A=/a", "A1=/a1", "Soon=#"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("children (-want +got):\n%s", diff)
	}
}
