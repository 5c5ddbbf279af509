package gym

import (
	"context"
	"errors"
	"sync"

	"github.com/souravsatyam/gymapp/internal/logger"
	"github.com/souravsatyam/gymapp/internal/metrics"
)

var ErrFetchInFlight = errors.New("a page fetch is already in flight")

// Fetcher is the slice of Client the directory needs; tests substitute a
// fake.
type Fetcher interface {
	FetchPage(ctx context.Context, lat, long float64, search string, limit, page int) ([]Gym, error)
}

// Directory accumulates pages of gyms for one list view. It owns the
// pagination cursor and enforces the rules callers must not have to think
// about: at most one fetch in flight, no duplicate gyms in the accumulator,
// no fetch once the server ran dry, and responses from a superseded
// search/location are dropped instead of clobbering newer state.
type Directory struct {
	mu      sync.Mutex
	fetcher Fetcher

	pageSize int
	lat      float64
	long     float64
	search   string

	gyms    []Gym
	seen    map[int64]struct{}
	page    int
	hasMore bool

	inFlight bool
	// generation increments on every Reset; a fetch started under an
	// older generation discards its result.
	generation uint64
}

func NewDirectory(fetcher Fetcher, pageSize int) *Directory {
	d := &Directory{
		fetcher:  fetcher,
		pageSize: pageSize,
	}
	d.resetLocked(0, 0, "")
	return d
}

// Reset points the directory at a new location/search pair and clears the
// accumulator. Any in-flight fetch becomes stale.
func (d *Directory) Reset(lat, long float64, search string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resetLocked(lat, long, search)
}

func (d *Directory) resetLocked(lat, long float64, search string) {
	d.lat = lat
	d.long = long
	d.search = search
	d.gyms = nil
	d.seen = make(map[int64]struct{})
	d.page = 0
	d.hasMore = true
	d.generation++
}

// LoadNextPage fetches the next page and appends it. It returns
// ErrFetchInFlight while a previous call is outstanding, and is a no-op
// once the cursor is exhausted. On failure the cursor does not advance, so
// the same page can be retried by a later trigger.
func (d *Directory) LoadNextPage(ctx context.Context) error {
	d.mu.Lock()
	if !d.hasMore {
		d.mu.Unlock()
		return nil
	}
	if d.inFlight {
		d.mu.Unlock()
		return ErrFetchInFlight
	}
	d.inFlight = true
	gen := d.generation
	lat, long, search := d.lat, d.long, d.search
	page := d.page + 1
	d.mu.Unlock()

	batch, err := d.fetcher.FetchPage(ctx, lat, long, search, d.pageSize, page)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight = false

	if gen != d.generation {
		// The search or location changed while we were waiting.
		logger.Debugf("Dropping stale gym page %d for %q", page, search)
		return nil
	}

	if err != nil {
		logger.Errorf("Gym page %d fetch failed: %v", page, err)
		return err
	}

	metrics.RecordDirectoryPage()

	for _, g := range batch {
		if _, dup := d.seen[g.ID]; dup {
			continue
		}
		d.seen[g.ID] = struct{}{}
		d.gyms = append(d.gyms, g)
	}

	d.page = page
	d.hasMore = len(batch) >= d.pageSize

	return nil
}

// Gyms returns a copy of the accumulated list in arrival order.
func (d *Directory) Gyms() []Gym {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Gym, len(d.gyms))
	copy(out, d.gyms)
	return out
}

func (d *Directory) HasMore() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasMore
}

func (d *Directory) Page() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.page
}
