package ingest

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jengzang/hcip-dashboard-go/internal/errors"
)

// FetchResult is the concatenation of every source that produced rows.
type FetchResult struct {
	Rows      []Row
	Total     int
	Succeeded []string
	Failed    []string
	Errors    map[string]error
}

// Empty reports whether no source produced any row
func (r FetchResult) Empty() bool {
	return len(r.Rows) == 0
}

// FetchAll fetches every source with at most concurrency requests in flight.
// A failing or empty source is recorded in Failed and skipped; rows of the
// remaining sources are concatenated in source order.
func FetchAll(ctx context.Context, sources []Source, concurrency int, logger zerolog.Logger) FetchResult {
	tables := make([]Table, len(sources))
	errs := make([]error, len(sources))

	var g errgroup.Group
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, src := range sources {
		g.Go(func() error {
			table, err := src.Fetch(ctx)
			if err == nil && table.Len() == 0 {
				err = fmt.Errorf("%w: %s: no rows", errors.ErrSourceFetch, src.Name())
			}
			tables[i] = table
			errs[i] = err
			// per-source failures never cancel the others
			return nil
		})
	}
	_ = g.Wait()

	result := FetchResult{Total: len(sources), Errors: make(map[string]error)}
	for i, src := range sources {
		if errs[i] != nil {
			logger.Warn().Err(errs[i]).Str("source", src.Name()).Msg("failed to load source")
			result.Failed = append(result.Failed, src.Name())
			result.Errors[src.Name()] = errs[i]
			continue
		}
		result.Succeeded = append(result.Succeeded, src.Name())
		result.Rows = append(result.Rows, tables[i].Rows...)
		logger.Debug().Str("source", src.Name()).Int("rows", tables[i].Len()).Msg("source loaded")
	}

	return result
}
