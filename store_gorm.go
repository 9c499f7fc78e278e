package moderator

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMStore is a Store over a SQL database. It only issues the queries the
// remote collection contract allows: two equality filters, ItemOrdering, a
// limit and a keyset start position.
type GORMStore struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewGORMStore(db *gorm.DB) *GORMStore {
	return &GORMStore{db: db, log: zap.NewNop()}
}

// WithLogger sets the logger used for query tracing.
func (s *GORMStore) WithLogger(log *zap.Logger) *GORMStore {
	if log != nil {
		s.log = log
	}

	return s
}

// Create inserts items. Used to seed development databases.
func (s *GORMStore) Create(ctx context.Context, items ...Item) error {
	if len(items) == 0 {
		return nil
	}

	if err := s.db.WithContext(ctx).Create(&items).Error; err != nil {
		return fmt.Errorf("create items: %w", err)
	}

	return nil
}

func (s *GORMStore) Find(ctx context.Context, q Query) ([]Item, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	cursor, err := q.cursor()
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	db := s.db.WithContext(ctx).Model(&Item{})
	if q.Status != "" {
		db = db.Where(ColumnStatus+" = ?", q.Status)
	}
	if q.Type != "" {
		db = db.Where(ColumnType+" = ?", q.Type)
	}

	pager := NewCursorPager().
		WithLimit(q.Limit).
		WithCursor(cursor).
		WithSubstitutedSort(ItemOrdering...)

	db, err = pager.Paginate(db)
	if err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	var items []Item
	if err = db.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("find items: %w", err)
	}

	s.log.Debug("items_query",
		zap.String("status", string(q.Status)),
		zap.String("type", string(q.Type)),
		zap.String("order", pager.GetSort().ToSQL()),
		zap.Int("limit", pager.GetLimit()),
		zap.Stringer("cursor", pager.GetCursor()),
		zap.Int("found", len(items)),
	)

	return items, nil
}

func (s *GORMStore) Get(ctx context.Context, id string) (*Item, error) {
	return getItem(s.db.WithContext(ctx), id)
}

func (s *GORMStore) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where(ColumnID+" = ?", id).Delete(&Item{})
	if res.Error != nil {
		return fmt.Errorf("delete item %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete item %s: %w", id, ErrNotFound)
	}

	return nil
}

func (s *GORMStore) RunTransaction(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return fn(&gormTx{db: db})
	})
}

type gormTx struct {
	db *gorm.DB
}

// Get reads the item with a row lock held until the transaction ends.
func (t *gormTx) Get(id string) (*Item, error) {
	return getItem(t.db.Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (t *gormTx) Update(id string, patch ItemPatch) error {
	updates := map[string]any{}
	if patch.Status != "" {
		updates[ColumnStatus] = patch.Status
	}
	if patch.ClaimedBy != "" {
		updates["claimed_by"] = patch.ClaimedBy
	}
	if len(updates) == 0 {
		return nil
	}

	// Existence is checked by Get under the row lock. MySQL reports
	// unchanged rows as unaffected.
	err := t.db.Model(&Item{}).Where(ColumnID+" = ?", id).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("update item %s: %w", id, err)
	}

	return nil
}

func getItem(db *gorm.DB, id string) (*Item, error) {
	var item Item
	err := db.Where(ColumnID+" = ?", id).Take(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get item %s: %w", id, ErrNotFound)
	} else if err != nil {
		return nil, fmt.Errorf("get item %s: %w", id, err)
	}

	return &item, nil
}

var (
	_ Store = (*GORMStore)(nil)
	_ Tx    = (*gormTx)(nil)
)
