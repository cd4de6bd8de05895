// Package interact drives a mounted navigation: it owns the open/closed
// state of items across the desktop, tablet and mobile regimes, mediates
// clicks, keys, focus and viewport changes, and runs the mobile submenu
// panel. All mutations happen on one lock; deferred animation steps are
// cancellable timers.
package interact

import (
	"time"

	"github.com/dgallion1/navgest/internal/nav"
)

// Viewport is a named width regime.
type Viewport int

const (
	Mobile Viewport = iota
	Tablet
	Desktop
)

func (v Viewport) String() string {
	switch v {
	case Tablet:
		return "tablet"
	case Desktop:
		return "desktop"
	default:
		return "mobile"
	}
}

func (v Viewport) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// Breakpoints are the width thresholds between regimes, in CSS pixels.
type Breakpoints struct {
	Tablet    int `yaml:"tablet"`     // first tablet width
	TabletMax int `yaml:"tablet_max"` // last tablet width
	Desktop   int `yaml:"desktop"`    // nominal desktop width
}

// DefaultBreakpoints returns 768 / 1024 / 1440.
func DefaultBreakpoints() Breakpoints {
	return Breakpoints{Tablet: 768, TabletMax: 1024, Desktop: 1440}
}

// Regime maps a width to its viewport regime. Widths between the tablet
// maximum and the desktop breakpoint behave like desktop.
func (b Breakpoints) Regime(width int) Viewport {
	switch {
	case width < b.Tablet:
		return Mobile
	case width <= b.TabletMax:
		return Tablet
	default:
		return Desktop
	}
}

// Timings are the settle times of the animated transitions.
type Timings struct {
	PanelEnter     time.Duration `yaml:"panel_enter"`
	PanelExit      time.Duration `yaml:"panel_exit"`
	SlideOut       time.Duration `yaml:"slide_out"`
	SlideIn        time.Duration `yaml:"slide_in"`
	TabletCollapse time.Duration `yaml:"tablet_collapse"`
}

// DefaultTimings match the CSS transition durations of the widget.
func DefaultTimings() Timings {
	return Timings{
		PanelEnter:     10 * time.Millisecond,
		PanelExit:      300 * time.Millisecond,
		SlideOut:       300 * time.Millisecond,
		SlideIn:        400 * time.Millisecond,
		TabletCollapse: 700 * time.Millisecond,
	}
}

// State is a snapshot of a controller's interaction state.
type State struct {
	Viewport Viewport `json:"viewport"`
	Width    int      `json:"width"`
	MenuOpen bool     `json:"menu_open"`
	// ExpandedItem is the open item on desktop (the first one on tablet).
	ExpandedItem *nav.Item `json:"expanded_item,omitempty"`
	Expanded     []string  `json:"expanded"`
	SubmenuPanel *nav.Item `json:"submenu_panel,omitempty"`
	ScrollLocked bool      `json:"scroll_locked"`
	ToolsHidden  bool      `json:"tools_hidden"`
	// Focus is the id of the focused item, "hamburger", or "".
	Focus    string `json:"focus,omitempty"`
	Location string `json:"location,omitempty"`
}

// FocusHamburger is the State.Focus value for the menu toggle.
const FocusHamburger = "hamburger"
