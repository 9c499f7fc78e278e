package moderator

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newGORMMySQLMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      mockDB,
		SkipInitializeWithVersion: true,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "mysql", db.Debug(), mock, nil
}

func newGORMPostgresMock() (string, *gorm.DB, sqlmock.Sqlmock, error) {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		return "", nil, nil, err
	}

	dialector := postgres.New(postgres.Config{
		Conn: mockDB,
	})

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return "", nil, nil, err
	}

	return "postgres", db.Debug(), mock, nil
}

var testEpoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// newTestItems returns n active lost items posted one minute apart, newest
// first: "item-00" is the most recent.
func newTestItems(n int, mutate func(i int, item *Item)) []Item {
	items := make([]Item, 0, n)
	for i := 0; i < n; i++ {
		item := Item{
			ID:             fmt.Sprintf("item-%02d", i),
			Title:          fmt.Sprintf("Item %d", i),
			Type:           TypeLost,
			Status:         StatusActive,
			Category:       "Bags",
			StationOrTrain: "Central",
			PostedByEmail:  fmt.Sprintf("poster%d@example.com", i),
			Timestamp:      testEpoch.Add(-time.Duration(i) * time.Minute),
		}
		if mutate != nil {
			mutate(i, &item)
		}
		items = append(items, item)
	}

	return items
}

func itemIDs(items []Item) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	return ids
}

// memStore is an in-memory Store honoring the same query contract as
// GORMStore: equality filters on status and type, ItemOrdering, limit and a
// start marker.
type memStore struct {
	mu      sync.Mutex
	items   map[string]Item
	queries []Query
	txCount int

	findErr error
	getErr  error

	// When gate is set, Find signals on entered and waits for gate to close.
	gate    chan struct{}
	entered chan struct{}
}

func newMemStore(items ...Item) *memStore {
	s := &memStore{items: make(map[string]Item, len(items))}
	for _, item := range items {
		s.items[item.ID] = item
	}

	return s
}

func (s *memStore) blockFinds() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 1)
}

func (s *memStore) Find(ctx context.Context, q Query) ([]Item, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	gate, entered := s.gate, s.entered
	s.queries = append(s.queries, q)
	s.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findErr != nil {
		return nil, s.findErr
	}

	var rows []Item
	for _, item := range s.items {
		if q.Status != "" && item.Status != q.Status {
			continue
		}
		if q.Type != "" && item.Type != q.Type {
			continue
		}
		if q.StartAfter != nil && !markerBefore(*q.StartAfter, item.Marker()) {
			continue
		}
		if q.StartAt != nil && markerBefore(item.Marker(), *q.StartAt) {
			continue
		}
		rows = append(rows, item)
	}

	slices.SortFunc(rows, func(a, b Item) int {
		switch {
		case markerBefore(a.Marker(), b.Marker()):
			return -1
		case markerBefore(b.Marker(), a.Marker()):
			return 1
		default:
			return 0
		}
	})

	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	return rows, nil
}

// markerBefore reports whether a comes before b in ItemOrdering.
func markerBefore(a, b Marker) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}

	return a.ID > b.ID
}

func (s *memStore) Get(_ context.Context, id string) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	return s.getLocked(s.items, id)
}

func (s *memStore) getLocked(items map[string]Item, id string) (*Item, error) {
	item, ok := items[id]
	if !ok {
		return nil, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	}

	return &item, nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("delete item %s: %w", id, ErrNotFound)
	}
	delete(s.items, id)

	return nil
}

func (s *memStore) RunTransaction(_ context.Context, fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCount++

	tx := &memTx{store: s, items: maps.Clone(s.items)}
	if err := fn(tx); err != nil {
		return err
	}
	s.items = tx.items

	return nil
}

func (s *memStore) item(id string) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]

	return item, ok
}

func (s *memStore) queryLog() []Query {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.queries)
}

// calls counts every store access made so far.
func (s *memStore) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.queries) + s.txCount
}

type memTx struct {
	store *memStore
	items map[string]Item
}

func (t *memTx) Get(id string) (*Item, error) {
	return t.store.getLocked(t.items, id)
}

func (t *memTx) Update(id string, patch ItemPatch) error {
	item, ok := t.items[id]
	if !ok {
		return fmt.Errorf("update item %s: %w", id, ErrNotFound)
	}
	if patch.Status != "" {
		item.Status = patch.Status
	}
	if patch.ClaimedBy != "" {
		item.ClaimedBy = patch.ClaimedBy
	}
	t.items[id] = item

	return nil
}

// memAudit collects appended events.
type memAudit struct {
	mu     sync.Mutex
	events []AuditEvent
	err    error
}

func (a *memAudit) Append(_ context.Context, event AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.err != nil {
		return a.err
	}
	a.events = append(a.events, event)

	return nil
}

func (a *memAudit) recorded() []AuditEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	return slices.Clone(a.events)
}

var (
	_ Store     = (*memStore)(nil)
	_ AuditSink = (*memAudit)(nil)
)
