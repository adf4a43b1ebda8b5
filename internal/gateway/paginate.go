package gateway

import (
	"context"

	"github.com/naka-gawa/github-onboarding/internal/domain"
)

// Page is one page of a cursor-paginated result.
// EndCursor is only meaningful when HasNextPage is true.
type Page[T any] struct {
	Nodes       []T
	HasNextPage bool
	EndCursor   string
}

// PageFunc fetches the page that starts after cursor. The first call receives "".
type PageFunc[T any] func(ctx context.Context, cursor string) (Page[T], error)

// Walk calls fetch until the provider reports no further pages and returns every
// node in response order. A page that claims more results but carries no end
// cursor is a protocol error.
func Walk[T any](ctx context.Context, fetch PageFunc[T]) ([]T, error) {
	var (
		nodes  []T
		cursor string
	)
	for {
		if err := ctx.Err(); err != nil {
			return nil, domain.TransportError("gateway.walk", err)
		}
		page, err := fetch(ctx, cursor)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, page.Nodes...)
		if !page.HasNextPage {
			return nodes, nil
		}
		if page.EndCursor == "" {
			return nil, domain.ProtocolError("gateway.walk", domain.ErrStaleCursor)
		}
		cursor = page.EndCursor
	}
}
