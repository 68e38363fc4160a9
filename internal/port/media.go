package port

import "context"

// MediaFetcher downloads remote bytes with a bounded wait.
type MediaFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
