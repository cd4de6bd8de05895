// Package nav turns a loosely authored content fragment into a navigation
// tree: it normalizes the fragment into brand, sections and tools regions,
// classifies each section heading as a direct link or a submenu holder,
// renders the result as HTML and applies the presentational decoration.
package nav

import (
	"slices"
	"strings"

	"github.com/dgallion1/navgest/internal/content"
)

// ItemKind distinguishes direct links from submenu-bearing items.
type ItemKind string

const (
	DirectLink    ItemKind = "direct_link"
	SubmenuHolder ItemKind = "submenu_holder"
)

// PlaceholderHref is the non-navigating target used when no natural target exists.
const PlaceholderHref = "#"

// Tree is the canonical navigation output.
type Tree struct {
	Brand []*content.Block `json:"brand"`
	Items []*Item          `json:"items"`
	Tools []*content.Block `json:"tools"`
}

// Item is one top-level navigation entry or one entry of a submenu.
type Item struct {
	ID       string           `json:"id"`
	Label    string           `json:"label"`
	Href     string           `json:"href"`
	Kind     ItemKind         `json:"kind"`
	Children []*Item          `json:"children,omitempty"` // non-nil iff Kind == SubmenuHolder
	Content  []*content.Block `json:"-"`                  // raw submenu content, rendered in the dropdown
	Expanded bool             `json:"expanded"`
}

// IsHolder reports whether the item discloses a submenu.
func (i *Item) IsHolder() bool {
	return i != nil && i.Kind == SubmenuHolder
}

// Item returns the top-level item with the given id or label.
func (t *Tree) Item(key string) *Item {
	for _, it := range t.Items {
		if it.ID == key || it.Label == key {
			return it
		}
	}
	return nil
}

// Holders returns every submenu holder in order.
func (t *Tree) Holders() []*Item {
	var out []*Item
	for _, it := range t.Items {
		if it.IsHolder() {
			out = append(out, it)
		}
	}
	return out
}

// Expanded returns the items currently marked expanded.
func (t *Tree) Expanded() []*Item {
	var out []*Item
	for _, it := range t.Items {
		if it.Expanded {
			out = append(out, it)
		}
	}
	return out
}

// Policy holds the site-specific knobs of normalization and decoration.
type Policy struct {
	// DirectLabels are section labels always rendered as direct links when
	// their first block offers a single link.
	DirectLabels []string `yaml:"direct_labels"`
	// BadgeMarker identifies the secondary brand logo by a substring of its href.
	BadgeMarker string `yaml:"badge_marker"`
	// CodeBasePath prefixes icon image URLs ({base}/icons/{name}.svg).
	CodeBasePath string `yaml:"code_base_path"`
}

// DefaultPolicy returns the policy used when nothing is configured.
func DefaultPolicy() Policy {
	return Policy{
		DirectLabels: []string{"Stories"},
		BadgeMarker:  "150years",
	}
}

func (p Policy) isDirectLabel(label string) bool {
	return slices.Contains(p.DirectLabels, strings.TrimSpace(label))
}
