package client

import "context"

// Pages is a lazy, finite, forward-only sequence of decoded record batches
// obtained by chasing the server's pagination cursor: the first call sends
// no cursor, each subsequent call sends the cursor the prior page returned.
// It is not restartable.
//
//	pages := c.CollectionAssets(ctx, slug, ceiling)
//	for pages.Next(ctx) {
//		handle(pages.Batch())
//	}
//	if err := pages.Err(); err != nil {
//		// partial results: already-yielded batches remain valid
//	}
//
// The sequence ends when the server returns a null cursor, when the call
// ceiling is reached (ceiling counts total calls including the first;
// 0 means unbounded), or on the first failed call. A failed call never
// yields a partial batch.
type Pages[T any] struct {
	fetch   func(ctx context.Context, cursor *string) ([]T, *string, error)
	ceiling int
	calls   int
	cursor  *string
	batch   []T
	started bool
	done    bool
	err     error
}

func newPages[T any](ceiling int, fetch func(ctx context.Context, cursor *string) ([]T, *string, error)) *Pages[T] {
	return &Pages[T]{fetch: fetch, ceiling: ceiling}
}

// exhaustedPages returns an already-finished sequence. Used for the
// null-address wallet guard, which must make no network calls.
func exhaustedPages[T any]() *Pages[T] {
	return &Pages[T]{done: true}
}

// Next advances to the next page, returning false once the sequence is
// exhausted or a call has failed.
func (p *Pages[T]) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	if p.started && p.cursor == nil {
		p.done = true
		return false
	}
	if p.ceiling > 0 && p.calls >= p.ceiling {
		p.done = true
		return false
	}

	batch, next, err := p.fetch(ctx, p.cursor)
	p.calls++
	p.started = true
	if err != nil {
		p.err = err
		p.done = true
		return false
	}

	p.batch = batch
	p.cursor = next
	return true
}

// Batch returns the page most recently fetched by Next.
func (p *Pages[T]) Batch() []T {
	return p.batch
}

// Err returns the error that ended the sequence early, if any.
func (p *Pages[T]) Err() error {
	return p.err
}

// Calls returns the number of API calls made so far.
func (p *Pages[T]) Calls() int {
	return p.calls
}
