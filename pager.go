package moderator

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// Step is a navigation move of the Pager.
type Step int

const (
	// StepNext moves to the page after the current one.
	StepNext Step = iota
	// StepPrev moves to the page before the current one.
	StepPrev
	// StepStay re-reads the current page in place, e.g. after a moderation
	// action changed it.
	StepStay
)

func (s Step) String() string {
	switch s {
	case StepNext:
		return "next"
	case StepPrev:
		return "prev"
	case StepStay:
		return "stay"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

// Page is the result of a Pager fetch.
type Page struct {
	// Items are the fetched documents that passed the local predicates. Local
	// filtering can leave fewer than the page size even when more matching
	// documents exist further in the collection; no backfill fetch is made.
	Items []Item
	// Fetched is the number of raw documents returned by the store.
	Fetched int
	// First and Last mark the raw, unfiltered page bounds. Both are nil when
	// the store returned nothing.
	First *Marker
	Last  *Marker
	// Number is the page number after the fetch.
	Number int
}

// IsEmpty reports whether the store returned no documents at all.
func (p *Page) IsEmpty() bool {
	return p == nil || p.Fetched == 0
}

// Pager walks the items collection page by page under a Filter. It keeps a
// stack with the first marker of every page reached by StepNext so StepPrev
// can go back.
//
// One Pager serves one browsing session. Fetches on the same Pager never
// overlap: a Fetch started while another is running fails with
// ErrFetchInFlight.
type Pager struct {
	store    Store
	log      *zap.Logger
	inflight *semaphore.Weighted

	mu sync.Mutex
	// epoch is bumped by Reset; a fetch planned in an older epoch is discarded.
	epoch    uint64
	page     int
	pageSize int
	first    *Marker
	last     *Marker
	cursors  []Marker
}

func NewPager(store Store) *Pager {
	return &Pager{
		store:    store,
		log:      zap.NewNop(),
		inflight: semaphore.NewWeighted(1),
		pageSize: DefaultLimit,
	}
}

// WithLogger sets the logger for page fetch tracing.
func (p *Pager) WithLogger(log *zap.Logger) *Pager {
	if log != nil {
		p.log = log
	}

	return p
}

// WithPageSize sets the normalized page size without resetting.
func (p *Pager) WithPageSize(size int) *Pager {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setPageSizeLocked(size)

	return p
}

// SetPageSize changes the page size and resets the pager.
func (p *Pager) SetPageSize(size int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.setPageSizeLocked(size)
	p.resetLocked()
}

func (p *Pager) setPageSizeLocked(size int) {
	normalized, ok := isNormalizedLimitMax(size, MaxLimit)
	if !ok {
		p.log.Debug("page_size_normalized", zap.Int("requested", size), zap.Int("page_size", normalized))
	}
	p.pageSize = normalized
}

func (p *Pager) PageSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.pageSize
}

// Number returns the current page number, starting at 1.
func (p *Pager) Number() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return max(p.page, 1)
}

// Cursors returns a copy of the cursor stack.
func (p *Pager) Cursors() []Marker {
	p.mu.Lock()
	defer p.mu.Unlock()

	return slices.Clone(p.cursors)
}

// Reset forgets all positions: the next StepNext fetch returns the first
// page. A fetch running during Reset is discarded.
func (p *Pager) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.resetLocked()
}

func (p *Pager) resetLocked() {
	p.epoch++
	p.page = 0
	p.first = nil
	p.last = nil
	p.cursors = nil
}

// fetchPlan is the state transition prepared for a fetch. It is applied only
// after the store answered, so a failed fetch leaves the pager untouched.
type fetchPlan struct {
	step    Step
	epoch   uint64
	query   Query
	cursors []Marker
	page    int
}

func (p *Pager) planLocked(step Step, filter Filter) (fetchPlan, error) {
	plan := fetchPlan{
		step:    step,
		epoch:   p.epoch,
		query:   filter.query(p.pageSize),
		cursors: p.cursors,
		page:    p.page,
	}

	switch step {
	case StepNext:
		if p.last != nil {
			after := *p.last
			plan.query.StartAfter = &after
		} else if n := len(p.cursors); n > 0 {
			// The current page came back empty: continue from its start.
			at := p.cursors[n-1]
			plan.query.StartAt = &at
		}
	case StepPrev:
		if n := len(plan.cursors); n > 1 {
			plan.cursors = plan.cursors[:n-1]
			at := plan.cursors[n-2]
			plan.query.StartAt = &at
		} else {
			plan.cursors = nil
		}
		plan.page = len(plan.cursors)
	case StepStay:
		if n := len(plan.cursors); n > 0 {
			at := plan.cursors[n-1]
			plan.query.StartAt = &at
		}
	default:
		return fetchPlan{}, fmt.Errorf("unknown pager step %s", step)
	}

	return plan, nil
}

// commitLocked keeps len(p.cursors) == p.page: every reached page has its
// first marker on the stack, and page 0 means nothing was fetched yet.
func (p *Pager) commitLocked(plan fetchPlan, raw []Item) {
	if plan.step == StepPrev {
		p.cursors = plan.cursors
		p.page = plan.page
		p.first, p.last = nil, nil
	}

	if len(raw) == 0 {
		return
	}

	first, last := raw[0].Marker(), raw[len(raw)-1].Marker()
	p.first, p.last = &first, &last

	// A fetch from the beginning of the collection lands on page 1 whatever
	// step asked for it.
	if plan.step == StepNext || len(p.cursors) == 0 {
		p.cursors = append(p.cursors, first)
		p.page = len(p.cursors)
	}
}

// Fetch loads the page reached by step under filter.
//
// Status and type constraints, the ordering, the page size limit and the
// start position go to the store; the remaining predicates are applied to the
// returned documents. The page bounds always come from the raw documents, so
// local filtering never shifts the cursors.
//
// A StepNext that finds nothing leaves the pager where it was. Store errors
// are returned without any state change.
func (p *Pager) Fetch(ctx context.Context, step Step, filter Filter) (*Page, error) {
	if !p.inflight.TryAcquire(1) {
		return nil, ErrFetchInFlight
	}
	defer p.inflight.Release(1)

	p.mu.Lock()
	plan, err := p.planLocked(step, filter)
	p.mu.Unlock()
	if err != nil {
		return nil, err
	}

	raw, err := p.store.Find(ctx, plan.query)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page: %w", step, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if plan.epoch != p.epoch {
		p.log.Debug("page_fetch_discarded", zap.Stringer("step", step))
		return nil, ErrPageSuperseded
	}
	p.commitLocked(plan, raw)

	page := &Page{
		Items:   filter.applyLocal(raw),
		Fetched: len(raw),
		Number:  max(p.page, 1),
	}
	if len(raw) > 0 {
		page.First, page.Last = p.first, p.last
	}

	p.log.Debug("page_fetched",
		zap.Stringer("step", step),
		zap.Int("page", page.Number),
		zap.Int("fetched", page.Fetched),
		zap.Int("kept", len(page.Items)),
		zap.Int("depth", len(p.cursors)),
	)

	return page, nil
}
