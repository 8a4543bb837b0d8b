package sheets

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/todaypicks/storefront/internal/telemetry"
)

// FetchAll fetches and normalizes every named sheet concurrently. Per-sheet
// failures are isolated: a failed sheet contributes an empty grid and a
// logged warning, never aborting the batch. The result contains exactly one
// entry per requested name; no ordering is guaranteed between fetches.
func (c *Client) FetchAll(ctx context.Context, names []string, spreadsheetID string) map[string]Grid {
	results := make(map[string]Grid, len(names))
	if len(names) == 0 {
		return results
	}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.NewWeighted(int64(c.concurrency))
	)

	for _, name := range names {
		if err := sem.Acquire(ctx, 1); err != nil {
			// Context cancelled mid-batch; remaining sheets report empty.
			mu.Lock()
			results[name] = Grid{}
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(sheet string) {
			defer sem.Release(1)
			defer wg.Done()

			grid, err := c.Sheet(ctx, sheet, spreadsheetID)
			if err != nil {
				c.logger.Warn().Err(err).Str("sheet", sheet).Msg("Failed to fetch sheet")
				telemetry.RecordSheetFetchFailure(sheet)
				grid = Grid{}
			}
			if grid == nil {
				grid = Grid{}
			}

			mu.Lock()
			results[sheet] = grid
			mu.Unlock()
		}(name)
	}

	wg.Wait()
	return results
}
