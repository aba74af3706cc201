package wealth

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"
)

// AggregatorOptions configures a CategoryAggregator
type AggregatorOptions struct {
	// Type selects which side of the summary drives totals (default expense)
	Type FlowType

	// Palette colors segments (default DefaultPalette)
	Palette []string

	// Compare fetches the prior equal-length window to fill in differences
	Compare bool

	// CacheTTL expires cached summaries; zero keeps them until Invalidate
	CacheTTL time.Duration

	// OnUpdate is called after every applied result, error or type change
	OnUpdate func(AggregateResult)

	// Logger for debug logging
	Logger Logger
}

// AggregateResult is a consistent view of the aggregator's state
type AggregateResult struct {
	// Stats is never nil; it is replaced, not mutated, on recompute
	Stats   *BudgetStats
	Type    FlowType
	Loading bool
	Err     error
	Range   DateRange
}

type cacheEntry struct {
	summary   *CategorySummaryResponse
	fetchedAt time.Time
}

// CategoryAggregator fetches category summaries for the active date range
// and derives BudgetStats from them.
//
// Each distinct (start, end) pair is fetched once: results are cached by the
// pair and concurrent requests for the same pair share one network call.
// Only the most recent FetchData call may publish its result; older calls
// that settle later are dropped.
type CategoryAggregator struct {
	service CategoryService
	opts    AggregatorOptions
	now     func() time.Time

	group   singleflight.Group
	cacheMu sync.Mutex
	cache   map[string]cacheEntry

	latest atomic.Uint64

	mu         sync.RWMutex
	flow       FlowType
	active     DateRange
	summary    *CategorySummaryResponse
	comparison *CategorySummaryResponse
	// summaryRange is the window summary was fetched for; active may
	// already point at a newer window that is loading or failed
	summaryRange DateRange
	stats        *BudgetStats
	loading      bool
	err          error
	cancel       context.CancelFunc

	attachMu    sync.Mutex
	unsubscribe func()
	inflight    sync.WaitGroup
}

// NewCategoryAggregator creates an aggregator over service
func NewCategoryAggregator(service CategoryService, opts *AggregatorOptions) *CategoryAggregator {
	var o AggregatorOptions
	if opts != nil {
		o = *opts
	}
	if !o.Type.Valid() {
		o.Type = FlowExpense
	}
	if len(o.Palette) == 0 {
		o.Palette = DefaultPalette
	}

	return &CategoryAggregator{
		service: service,
		opts:    o,
		now:     time.Now,
		cache:   make(map[string]cacheEntry),
		flow:    o.Type,
		stats:   EmptyStats(),
	}
}

// Snapshot returns the current state
func (a *CategoryAggregator) Snapshot() AggregateResult {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snapshotLocked()
}

func (a *CategoryAggregator) snapshotLocked() AggregateResult {
	return AggregateResult{
		Stats:   a.stats,
		Type:    a.flow,
		Loading: a.loading,
		Err:     a.err,
		Range:   a.active,
	}
}

// SetType switches between income and expense and recomputes stats from the
// already fetched summary
func (a *CategoryAggregator) SetType(flow FlowType) error {
	if !flow.Valid() {
		return &ValidationError{Field: "type", Message: "must be income or expense", Value: string(flow)}
	}

	a.mu.Lock()
	a.flow = flow
	if a.summary != nil {
		a.stats = DeriveStats(a.summary, flow, a.summaryRange, a.comparison, a.opts.Palette)
	}
	result := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(result)
	return nil
}

// FetchData loads and derives stats for the inclusive range [from, to].
//
// A call superseded by a later FetchData returns nil without touching the
// published state. On failure the error is recorded and the previous stats
// are kept.
func (a *CategoryAggregator) FetchData(ctx context.Context, from, to time.Time) error {
	if Day(to).Before(Day(from)) {
		err := &ValidationError{Field: "to", Message: "must not be before from", Value: Day(to).Format(DateLayout), Err: ErrInvalidRange}
		a.fail(err)
		return err
	}
	return a.FetchRange(ctx, CustomRange(from, to))
}

// FetchRange is FetchData for a resolved window; the published Range keeps
// r's scope, so its Label reads "March 2024" rather than a date span
func (a *CategoryAggregator) FetchRange(ctx context.Context, r DateRange) error {
	if r.End.Before(r.Start) {
		err := &ValidationError{Field: "range", Message: "end must not be before start", Value: r.Key(), Err: ErrInvalidRange}
		a.fail(err)
		return err
	}

	id, fetchCtx := a.begin(ctx, r)
	return a.run(fetchCtx, id, r)
}

// Attach follows state: every window change triggers a fetch. The current
// window is fetched immediately. Attaching again replaces the previous state.
func (a *CategoryAggregator) Attach(ctx context.Context, state *DateRangeState) {
	a.attachMu.Lock()
	defer a.attachMu.Unlock()

	if a.unsubscribe != nil {
		a.unsubscribe()
	}

	start := func(r DateRange) {
		// The request id is taken on the writer's goroutine so ids follow
		// the order of window changes
		id, fetchCtx := a.begin(ctx, r)
		a.inflight.Add(1)
		go func() {
			defer a.inflight.Done()
			_ = a.run(fetchCtx, id, r)
		}()
	}

	a.unsubscribe = state.Subscribe(start)
	start(state.Current())
}

// Detach stops following the attached DateRangeState
func (a *CategoryAggregator) Detach() {
	a.attachMu.Lock()
	defer a.attachMu.Unlock()

	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Wait blocks until fetches started by Attach have settled
func (a *CategoryAggregator) Wait() {
	a.inflight.Wait()
}

// Invalidate drops every cached summary, e.g. after an edit on the server
func (a *CategoryAggregator) Invalidate() {
	a.cacheMu.Lock()
	a.cache = make(map[string]cacheEntry)
	a.cacheMu.Unlock()
}

// begin registers a new request as the latest and cancels the one it supersedes
func (a *CategoryAggregator) begin(ctx context.Context, r DateRange) (uint64, context.Context) {
	fetchCtx, cancel := context.WithCancel(ctx)

	a.mu.Lock()
	id := a.latest.Add(1)
	if a.cancel != nil {
		a.cancel()
	}
	a.cancel = cancel
	a.active = r
	a.loading = true
	result := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(result)
	return id, fetchCtx
}

// run performs the fetches for request id and publishes the result if id is
// still the latest
func (a *CategoryAggregator) run(ctx context.Context, id uint64, r DateRange) error {
	summary, err := a.load(ctx, r)

	var comparison *CategorySummaryResponse
	if err == nil && a.opts.Compare {
		prev := r.Previous()
		comparison, err = a.load(ctx, prev)
		if err != nil {
			if a.opts.Logger != nil && ctx.Err() == nil {
				a.opts.Logger.Warn("Comparison fetch failed", "range", prev.Key(), "error", err)
			}
			comparison, err = nil, nil
		}
	}

	a.mu.Lock()
	if id != a.latest.Load() {
		a.mu.Unlock()
		if a.opts.Logger != nil {
			a.opts.Logger.Debug("Discarding superseded result", "range", r.Key())
		}
		return nil
	}

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.loading = false
	if err != nil {
		a.err = err
	} else {
		a.err = nil
		a.summary = summary
		a.summaryRange = r
		a.comparison = comparison
		a.stats = DeriveStats(summary, a.flow, r, comparison, a.opts.Palette)
	}
	result := a.snapshotLocked()
	a.mu.Unlock()

	if err != nil && a.opts.Logger != nil {
		a.opts.Logger.Error("Category summary fetch failed", "range", r.Key(), "error", err)
	}

	a.notify(result)
	return err
}

// load returns the summary for r from the cache or a shared network call.
// Cancelling ctx stops the wait, not the shared call, whose result still
// lands in the cache.
func (a *CategoryAggregator) load(ctx context.Context, r DateRange) (*CategorySummaryResponse, error) {
	key := r.Key()
	if summary, ok := a.cached(key); ok {
		return summary, nil
	}

	ch := a.group.DoChan(key, func() (interface{}, error) {
		if summary, ok := a.cached(key); ok {
			return summary, nil
		}

		summary, err := a.service.Summary(context.WithoutCancel(ctx), r.Start, r.End)
		if err != nil {
			return nil, err
		}
		summary = summary.Normalize()

		a.cacheMu.Lock()
		a.cache[key] = cacheEntry{summary: summary, fetchedAt: a.now()}
		a.cacheMu.Unlock()

		return summary, nil
	})

	select {
	case <-ctx.Done():
		return nil, errors.Wrap(ctx.Err(), "category summary fetch abandoned")
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*CategorySummaryResponse), nil
	}
}

func (a *CategoryAggregator) cached(key string) (*CategorySummaryResponse, bool) {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()

	entry, ok := a.cache[key]
	if !ok {
		return nil, false
	}
	if a.opts.CacheTTL > 0 && a.now().Sub(entry.fetchedAt) > a.opts.CacheTTL {
		delete(a.cache, key)
		return nil, false
	}
	return entry.summary, true
}

// fail records an error without a fetch, keeping the previous stats. It
// counts as the latest request, so fetches still in flight are dropped.
func (a *CategoryAggregator) fail(err error) {
	a.mu.Lock()
	a.latest.Add(1)
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.loading = false
	a.err = err
	result := a.snapshotLocked()
	a.mu.Unlock()

	a.notify(result)
}

func (a *CategoryAggregator) notify(result AggregateResult) {
	if a.opts.OnUpdate != nil {
		a.opts.OnUpdate(result)
	}
}
