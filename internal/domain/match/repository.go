package match

import "context"

// Repository describes the append-only match log.
type Repository interface {
	List(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, record Record) error
}

// RecentLister is implemented by stores that can select a club's latest
// matches without reading the whole log. Records come back oldest first.
type RecentLister interface {
	ListInvolving(ctx context.Context, team string, n int) ([]Record, error)
}
