package dom

import (
	"slices"
	"testing"

	"golang.org/x/net/html"
)

func TestDispatchBubbles(t *testing.T) {
	doc := NewDocument(1024)
	ul := Element("ul")
	li := Element("li")
	a := Element("a", "href", "/x")
	Append(doc.Body, Append(ul, Append(li, a)))

	var order []string
	doc.Events.On(a, EventClick, func(*Event) { order = append(order, "a") })
	doc.Events.On(li, EventClick, func(ev *Event) {
		order = append(order, "li")
		if ev.Target != a || ev.CurrentTarget != li {
			t.Errorf("expected target a and current li, got %v %v", ev.Target.Data, ev.CurrentTarget.Data)
		}
	})
	doc.Events.On(nil, EventClick, func(*Event) { order = append(order, "window") })

	doc.Click(a)
	if want := []string{"a", "li", "window"}; !slices.Equal(order, want) {
		t.Errorf("expected %v, got %v", want, order)
	}
}

func TestStopPropagation(t *testing.T) {
	doc := NewDocument(1024)
	li := Element("li")
	btn := Element("button")
	Append(doc.Body, Append(li, btn))

	reached := false
	doc.Events.On(btn, EventClick, func(ev *Event) { ev.StopPropagation() })
	doc.Events.On(li, EventClick, func(*Event) { reached = true })
	doc.Click(btn)
	if reached {
		t.Error("expected propagation stopped at the button")
	}
}

func TestOffAndReentrantRegistration(t *testing.T) {
	doc := NewDocument(1024)
	n := Element("div")
	calls := 0
	var off func()
	off = doc.Events.On(n, EventClick, func(*Event) {
		calls++
		off()
		doc.Events.On(n, EventKeyDown, func(*Event) {})
	})
	doc.Click(n)
	doc.Click(n)
	if calls != 1 {
		t.Errorf("expected one call, got %d", calls)
	}
	if doc.Events.Len() != 1 {
		t.Errorf("expected one listener left, got %d", doc.Events.Len())
	}
	off() // idempotent
}

func TestFocusDoesNotBubble(t *testing.T) {
	doc := NewDocument(1024)
	nav := Element("nav")
	a := Element("a")
	b := Element("a")
	Append(doc.Body, Append(nav, a, b))

	var focusOnNav, focusOuts int
	var related *html.Node
	doc.Events.On(nav, EventFocus, func(*Event) { focusOnNav++ })
	doc.Events.On(nav, EventFocusOut, func(ev *Event) {
		focusOuts++
		related = ev.RelatedTarget
	})

	doc.Focus(a)
	doc.Focus(b)
	if focusOnNav != 0 {
		t.Errorf("expected focus not to bubble, got %d", focusOnNav)
	}
	if focusOuts != 1 || related != b {
		t.Errorf("expected one focusout related to b, got %d", focusOuts)
	}
	doc.SetFocusQuiet(a)
	if doc.ActiveElement() != a || focusOuts != 1 {
		t.Error("expected quiet focus without events")
	}
}

func TestViewportResize(t *testing.T) {
	v := NewViewport(375)
	var got []int
	off := v.OnResize(func(w int) { got = append(got, w) })
	v.Resize(1440)
	off()
	v.Resize(800)
	if !slices.Equal(got, []int{1440}) || v.Width() != 800 || v.Listeners() != 0 {
		t.Errorf("unexpected resize result %v, width %d", got, v.Width())
	}
}

func TestClassesAndAttrs(t *testing.T) {
	n := Element("div", "class", "a")
	AddClass(n, "b", "a")
	if Attr(n, "class") != "a b" {
		t.Errorf("expected \"a b\", got %q", Attr(n, "class"))
	}
	RemoveClass(n, "a", "b")
	if HasAttr(n, "class") {
		t.Error("expected empty class attribute dropped")
	}
	SetAttr(n, "aria-expanded", "false")
	SetAttr(n, "aria-expanded", "true")
	if Attr(n, "aria-expanded") != "true" || len(n.Attr) != 1 {
		t.Errorf("expected one replaced attribute, got %v", n.Attr)
	}
}

func TestMetaAndLocation(t *testing.T) {
	doc := NewDocument(1024)
	doc.SetMeta("nav", "/fr/nav")
	doc.SetMeta("nav", "/de/nav")
	if doc.Meta("nav") != "/de/nav" || doc.Meta("missing") != "" {
		t.Errorf("unexpected meta %q", doc.Meta("nav"))
	}
	doc.LockScroll(true)
	if !doc.ScrollLocked() {
		t.Error("expected scroll locked")
	}
	doc.LockScroll(false)
	if doc.ScrollLocked() {
		t.Error("expected scroll restored")
	}
	doc.Navigate("/rings")
	if doc.Location() != "/rings" {
		t.Errorf("expected /rings, got %q", doc.Location())
	}
}
