// Package fragment retrieves authored content fragments by path: over HTTP
// from the content delivery origin, from a local directory, or from a
// chain of both, with an in-memory TTL cache in front.
package fragment

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dgallion1/navgest/internal/content"
)

// DefaultPath is the fragment route used when a page names none.
const DefaultPath = "/nav"

// ErrUnavailable reports that a fragment could not be retrieved or carried
// no usable structure.
var ErrUnavailable = errors.New("fragment unavailable")

// Source returns the content tree of the fragment at path. Failures wrap
// ErrUnavailable.
type Source interface {
	Fetch(ctx context.Context, path string) (*content.Tree, error)
}

// ResolvePath turns a page's metadata value into a fragment path. A full
// URL contributes only its path; an empty or unusable value yields fallback
// (DefaultPath when fallback is empty).
func ResolvePath(meta, fallback string) string {
	if fallback == "" {
		fallback = DefaultPath
	}
	meta = strings.TrimSpace(meta)
	if meta == "" {
		return fallback
	}
	u, err := url.Parse(meta)
	if err != nil || u.Path == "" {
		return fallback
	}
	p := u.Path
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return p
}

// usable reports whether a parsed fragment has anything to normalize.
func usable(t *content.Tree) bool {
	if t == nil {
		return false
	}
	for _, g := range t.Groups {
		if len(g.Children) > 0 {
			return true
		}
	}
	return false
}

// Fixed serves one already-parsed tree for every path.
func Fixed(t *content.Tree) Source {
	return fixed{tree: t}
}

type fixed struct {
	tree *content.Tree
}

func (f fixed) Fetch(ctx context.Context, path string) (*content.Tree, error) {
	if !usable(f.tree) {
		return nil, fmt.Errorf("fetch fragment %s: no content: %w", path, ErrUnavailable)
	}
	return f.tree.Clone(), nil
}
