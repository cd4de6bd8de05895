package fragment

import (
	"context"
	"fmt"

	"github.com/dgallion1/navgest/internal/content"
	"go.uber.org/multierr"
)

// Chain tries each source in order and returns the first fragment found.
type Chain []Source

func (c Chain) Fetch(ctx context.Context, path string) (*content.Tree, error) {
	if len(c) == 0 {
		return nil, fmt.Errorf("fetch fragment %s: no sources: %w", path, ErrUnavailable)
	}
	var errs error
	for _, src := range c {
		tree, err := src.Fetch(ctx, path)
		if err == nil {
			return tree, nil
		}
		errs = multierr.Append(errs, err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("fetch fragment %s: %w", path, errs)
}
