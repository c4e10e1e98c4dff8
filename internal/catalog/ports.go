package catalog

import "context"

// Registry is the structured track registry.
type Registry interface {
	// Rows returns all track rows, newest first.
	Rows(ctx context.Context) ([]Row, error)
}

// Resolver turns a stored file reference into a publicly fetchable URL.
type Resolver interface {
	PublicURL(ctx context.Context, key string) (string, error)
}

// ListOptions selects one page of a storage listing.
type ListOptions struct {
	Prefix string
	Limit  int
	Offset int
}

// Lister lists raw objects of a flat storage bucket.
type Lister interface {
	List(ctx context.Context, opts ListOptions) ([]Object, error)
}

// Storage is a bucket that can both list and resolve its objects.
type Storage interface {
	Lister
	Resolver
}
