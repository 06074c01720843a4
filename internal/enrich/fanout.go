// Package enrich attaches third-party metadata to catalog rows after they
// have been fetched from the content store.
package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout = 3 * time.Second
	DefaultLimit   = 10
)

// FetchFunc retrieves the external document for id. Any error, including a
// deadline, is treated as "no data" for that row only.
type FetchFunc func(ctx context.Context, id int64) (json.RawMessage, error)

// ExtractFunc returns the external id of a row, or false when the row has none.
type ExtractFunc[T any] func(row T) (int64, bool)

// EnrichedRow is a catalog row plus its external document. ExternalData is
// nil when the row has no external id or the lookup failed.
type EnrichedRow[T any] struct {
	Row          T
	ExternalData json.RawMessage
}

// MarshalJSON flattens the row's own fields and adds "externalData", which is
// null when absent.
func (e EnrichedRow[T]) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(e.Row)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("enriched row must marshal to an object: %w", err)
	}
	ext := json.RawMessage("null")
	if len(bytes.TrimSpace(e.ExternalData)) > 0 {
		ext = e.ExternalData
	}
	fields["externalData"] = ext
	return json.Marshal(fields)
}

// Fanout issues one external lookup per row concurrently.
type Fanout struct {
	timeout time.Duration
	limit   int
	log     *slog.Logger
}

// NewFanout builds a Fanout. timeout bounds each call individually; limit
// caps in-flight calls. Non-positive values select the defaults.
func NewFanout(timeout time.Duration, limit int, log *slog.Logger) *Fanout {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if log == nil {
		log = slog.Default()
	}
	return &Fanout{timeout: timeout, limit: limit, log: log}
}

// Enrich returns one EnrichedRow per input row, in input order. A failing,
// slow or cancelled lookup leaves that row's ExternalData nil and never
// affects its siblings. Each lookup gets its own deadline derived from ctx,
// so an aborted request cancels outstanding calls.
func Enrich[T any](ctx context.Context, f *Fanout, rows []T, extract ExtractFunc[T], fetch FetchFunc) []EnrichedRow[T] {
	out := make([]EnrichedRow[T], len(rows))
	for i, r := range rows {
		out[i].Row = r
	}
	if fetch == nil || extract == nil {
		return out
	}

	var g errgroup.Group
	g.SetLimit(f.limit)
	for i, r := range rows {
		id, ok := extract(r)
		if !ok {
			continue
		}
		i := i
		g.Go(func() error {
			doc, err := f.call(ctx, id, fetch)
			if err != nil {
				f.log.WarnContext(ctx, "enrichment lookup failed", "external_id", id, "error", err)
				return nil
			}
			out[i].ExternalData = doc
			return nil
		})
	}
	_ = g.Wait()
	return out
}

type fetchResult struct {
	doc json.RawMessage
	err error
}

// call runs fetch under the per-call deadline. The deadline is enforced here
// as well, so a fetcher that ignores its context still cannot hold the
// response past the timeout.
func (f *Fanout) call(ctx context.Context, id int64, fetch FetchFunc) (json.RawMessage, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan fetchResult, 1)
	go func() {
		doc, err := fetch(callCtx, id)
		done <- fetchResult{doc: doc, err: err}
	}()

	select {
	case res := <-done:
		return res.doc, res.err
	case <-callCtx.Done():
		return nil, callCtx.Err()
	}
}
