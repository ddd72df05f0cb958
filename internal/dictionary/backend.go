package dictionary

import (
	"context"
)

//go:generate mockgen -source=backend.go -destination=../mocks/dictionary/mock_backend.go -package=mock_dictionary

// Backend is one remote dictionary service integration. Fetch must be
// a pure function of the query and the backend's own configuration, so
// no state leaks between requests.
type Backend interface {
	// ID returns the stable identifier the backend is registered under.
	ID() string
	// Fetch retrieves and normalizes the article for the query. An
	// empty article means the service had no entry; failures are
	// reported as TransportError, AuthError or MalformedResponseError.
	Fetch(ctx context.Context, query Query) (Article, error)
	// Languages retrieves a fresh catalog snapshot from the service.
	Languages(ctx context.Context) (*Catalog, error)
	// Usage reports the request quota, or ErrUsageUnsupported.
	Usage(ctx context.Context) (Usage, error)
}
