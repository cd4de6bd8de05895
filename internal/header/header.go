// Package header mounts the navigation into a page: it fetches the
// fragment, builds and decorates the nav, attaches it under a host element
// and starts an interaction controller bound to it.
package header

import (
	"context"
	"log/slog"

	"github.com/dgallion1/navgest/internal/dom"
	"github.com/dgallion1/navgest/internal/fragment"
	"github.com/dgallion1/navgest/internal/interact"
	"github.com/dgallion1/navgest/internal/nav"
	"golang.org/x/net/html"
)

const (
	// MetaNav names the page metadata that overrides the fragment path.
	MetaNav = "nav"
	// ClassWrapper is the element the nav is attached in.
	ClassWrapper = "nav-wrapper"
)

// Options configures a mount.
type Options struct {
	Source fragment.Source
	// Path is used when the page has no nav metadata. Empty means
	// fragment.DefaultPath.
	Path     string
	Policy   nav.Policy
	Interact interact.Options
	Logger   *slog.Logger
}

// Decorate mounts the navigation under host and returns its controller.
// When the fragment is unavailable the host is left untouched, a warning
// is logged and nil is returned.
func Decorate(ctx context.Context, doc *dom.Document, host *html.Node, opts Options) *interact.Controller {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	path := fragment.ResolvePath(doc.Meta(MetaNav), opts.Path)
	log = log.With("path", path)

	if opts.Source == nil || host == nil {
		log.Warn("navigation not mounted", "reason", "no source or host")
		return nil
	}
	ct, err := opts.Source.Fetch(ctx, path)
	if err != nil {
		log.Warn("navigation fragment unavailable", "error", err)
		return nil
	}

	tree := nav.Build(ct, opts.Policy, log)
	navNode := nav.Render(tree)

	bp := opts.Interact.Breakpoints
	if bp == (interact.Breakpoints{}) {
		bp = interact.DefaultBreakpoints()
	}
	nav.Decorate(navNode, nav.DecorateOptions{
		CodeBasePath: opts.Policy.CodeBasePath,
		BadgeMarker:  opts.Policy.BadgeMarker,
		Tablet:       bp.Regime(doc.Viewport.Width()) == interact.Tablet,
	})

	dom.Append(host, dom.Append(dom.Element("div", "class", ClassWrapper), navNode))

	iopts := opts.Interact
	if iopts.Logger == nil {
		iopts.Logger = log
	}
	c := interact.New(doc, navNode, tree, iopts)
	log.Info("navigation mounted", "instance", c.ID(), "items", len(tree.Items))
	return c
}

// NewPage returns an empty page of the given width with a <header> host
// and, when path is set, the nav metadata pointing at it.
func NewPage(width int, path string) (*dom.Document, *html.Node) {
	doc := dom.NewDocument(width)
	if path != "" {
		doc.SetMeta(MetaNav, path)
	}
	host := dom.Element("header")
	dom.Append(doc.Body, host)
	return doc, host
}
