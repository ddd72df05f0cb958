package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine orchestrates the registered backends: it consults the response
// cache, gates requests on the language-pair catalog, dispatches network
// calls through the single-flight executor and applies the auto-swap
// fallback when a query comes back empty.
type Engine struct {
	mu        sync.Mutex
	backends  map[string]Backend
	catalogs  map[string]*Catalog
	cache     *Cache
	lookups   *Executor[Article]
	refreshes *Executor[*Catalog]
	progress  func(key Query)
}

// LookupRequest carries one lookup operation as issued by the caller.
type LookupRequest struct {
	BackendID string
	Source    string
	Target    string
	Text      string
	AutoSwap  bool
}

// LookupResult reports the article together with the language pair that
// actually produced it, whether auto-swap kicked in and whether the
// article came from the cache.
type LookupResult struct {
	Article   Article
	Source    string
	Target    string
	Swapped   bool
	FromCache bool
}

type Option func(*Engine)

// WithCacheCapacity bounds the response cache.
func WithCacheCapacity(capacity int) Option {
	return func(e *Engine) {
		e.cache = NewCache(capacity)
	}
}

// WithProgress registers an advisory callback invoked on every progress
// interval while a request for the key is still in flight.
func WithProgress(fn func(key Query)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// WithTimeouts overrides the background request timeout and the
// progress signal interval.
func WithTimeouts(requestTimeout, progressInterval time.Duration) Option {
	return func(e *Engine) {
		e.lookups = NewExecutor[Article](requestTimeout, progressInterval)
		e.refreshes = NewExecutor[*Catalog](requestTimeout, progressInterval)
	}
}

func NewEngine(options ...Option) *Engine {
	engine := &Engine{
		backends:  make(map[string]Backend),
		catalogs:  make(map[string]*Catalog),
		cache:     NewCache(DefaultCacheCapacity),
		lookups:   NewExecutor[Article](DefaultRequestTimeout, DefaultProgressInterval),
		refreshes: NewExecutor[*Catalog](DefaultRequestTimeout, DefaultProgressInterval),
	}
	for _, option := range options {
		option(engine)
	}
	return engine
}

// Register adds a backend together with its initial catalog snapshot,
// typically the one shipped with the backend package.
func (e *Engine) Register(backend Backend, initial *Catalog) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.backends[backend.ID()] = backend
	if initial == nil {
		initial = NewCatalog(nil)
	}
	e.catalogs[backend.ID()] = initial
}

// Catalog returns the current catalog snapshot for the backend, or an
// empty catalog for an unknown backend id.
func (e *Engine) Catalog(backendID string) *Catalog {
	e.mu.Lock()
	defer e.mu.Unlock()
	if catalog, ok := e.catalogs[backendID]; ok {
		return catalog
	}
	return NewCatalog(nil)
}

func (e *Engine) backend(backendID string) (Backend, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	backend, ok := e.backends[backendID]
	if !ok {
		return nil, fmt.Errorf("unknown dictionary service %q", backendID)
	}
	return backend, nil
}

// Lookup resolves the request per the orchestration contract: normalize,
// cache check, catalog gate, background fetch, then at most one retry
// with the languages swapped when the result is empty, auto-swap is
// enabled and the reverse pair is supported. Backend errors are
// surfaced unchanged; only emptiness triggers the swap.
func (e *Engine) Lookup(ctx context.Context, request LookupRequest) (LookupResult, error) {
	query, err := NewQuery(request.BackendID, request.Source, request.Target, request.Text)
	if err != nil {
		return LookupResult{Source: request.Source, Target: request.Target}, err
	}

	result, err := e.lookup(ctx, query)
	if err != nil || !result.Article.IsEmpty() || !request.AutoSwap {
		return result, err
	}
	if _, ok := e.Catalog(query.BackendID).Reverse(query.Source, query.Target); !ok {
		return result, nil
	}

	swapped := query
	swapped.Source, swapped.Target = query.Target, query.Source
	slog.Default().Debug("empty result, retrying with languages swapped",
		slog.String("source", swapped.Source),
		slog.String("target", swapped.Target),
		slog.String("text", swapped.Text),
	)
	result, err = e.lookup(ctx, swapped)
	result.Swapped = true
	return result, err
}

// Swap validates the reversed language pair against the catalog and,
// only when it is supported, re-issues the lookup with the languages
// exchanged. An unsupported reverse pair fails without touching the
// network, so the caller can keep its original pair active.
func (e *Engine) Swap(ctx context.Context, request LookupRequest) (LookupResult, error) {
	if !e.Catalog(request.BackendID).Contains(request.Target, request.Source) {
		return LookupResult{Source: request.Source, Target: request.Target},
			&UnsupportedPairError{Source: request.Target, Target: request.Source}
	}
	request.Source, request.Target = request.Target, request.Source
	return e.Lookup(ctx, request)
}

func (e *Engine) lookup(ctx context.Context, query Query) (LookupResult, error) {
	result := LookupResult{Source: query.Source, Target: query.Target}

	if article, ok := e.cache.Get(query); ok {
		result.Article = article
		result.FromCache = true
		return result, nil
	}

	backend, err := e.backend(query.BackendID)
	if err != nil {
		return result, err
	}
	if !e.Catalog(query.BackendID).Contains(query.Source, query.Target) {
		return result, &UnsupportedPairError{Source: query.Source, Target: query.Target}
	}

	article, err := e.lookups.Do(ctx, query, func(ctx context.Context) (Article, error) {
		article, err := backend.Fetch(ctx, query)
		if err != nil {
			return Article{}, fmt.Errorf("backend.Fetch > %w", err)
		}
		// The insert happens on the completion path so a call whose
		// waiters all withdrew still populates the cache. Empty
		// articles and errors are never cached.
		if !article.IsEmpty() {
			e.cache.Put(query, article)
		}
		return article, nil
	}, e.progressFor(query))
	if err != nil {
		return result, err
	}
	result.Article = article
	return result, nil
}

// RefreshLanguages fetches a fresh catalog snapshot on the background
// executor and swaps it in atomically. On failure the previous snapshot
// stays authoritative and the error is reported to the caller once.
func (e *Engine) RefreshLanguages(ctx context.Context, backendID string) (*Catalog, error) {
	backend, err := e.backend(backendID)
	if err != nil {
		return nil, err
	}

	// The empty-text key cannot collide with lookups, whose text is
	// validated non-empty, so concurrent refreshes collapse as well.
	key := Query{BackendID: backendID}
	catalog, err := e.refreshes.Do(ctx, key, func(ctx context.Context) (*Catalog, error) {
		catalog, err := backend.Languages(ctx)
		if err != nil {
			return nil, fmt.Errorf("backend.Languages > %w", err)
		}
		return catalog, nil
	}, e.progressFor(key))
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.catalogs[backendID] = catalog
	e.mu.Unlock()
	slog.Default().Debug("language catalog refreshed",
		slog.String("backend", backendID),
		slog.Int("pairs", catalog.Len()),
	)
	return catalog, nil
}

// UsageInfo reports the backend's request quota, bounded by the
// executor's request timeout.
func (e *Engine) UsageInfo(ctx context.Context, backendID string) (Usage, error) {
	backend, err := e.backend(backendID)
	if err != nil {
		return Usage{}, err
	}
	ctx, cancel := context.WithTimeout(ctx, e.lookups.Timeout())
	defer cancel()
	usage, err := backend.Usage(ctx)
	if err != nil {
		return Usage{}, err
	}
	return usage, nil
}

// CacheStats returns the lifetime cache counters.
func (e *Engine) CacheStats() CacheStats {
	return e.cache.Stats()
}

func (e *Engine) progressFor(key Query) func() {
	if e.progress == nil {
		return nil
	}
	return func() {
		e.progress(key)
	}
}
