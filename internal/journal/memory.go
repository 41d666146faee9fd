package journal

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps trades in process memory. It is the default store
// when no database is configured and the store used by tests.
type MemoryStore struct {
	mu     sync.RWMutex
	trades map[int64]Trade
	nextID int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{trades: make(map[int64]Trade), nextID: 1}
}

func (s *MemoryStore) Insert(ctx context.Context, trade *Trade) error {
	if err := trade.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trade.ID = s.nextID
	s.nextID++
	if trade.OpenedAt.IsZero() {
		trade.OpenedAt = time.Now().UTC()
	}
	trade.CreatedAt = time.Now().UTC()
	s.trades[trade.ID] = *trade
	return nil
}

func (s *MemoryStore) Close(ctx context.Context, id int64, exitPrice float64, closedAt time.Time) error {
	if exitPrice <= 0 {
		return errExitPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	trade, ok := s.trades[id]
	if !ok {
		return ErrNotFound
	}
	trade.ExitPrice = exitPrice
	trade.ClosedAt = &closedAt
	s.trades[id] = trade
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id int64) (*Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trade, ok := s.trades[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &trade, nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Trade, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.RLock()
	trades := make([]Trade, 0, len(s.trades))
	for _, t := range s.trades {
		trades = append(trades, t)
	}
	s.mu.RUnlock()

	sort.Slice(trades, func(i, j int) bool {
		if !trades[i].OpenedAt.Equal(trades[j].OpenedAt) {
			return trades[i].OpenedAt.After(trades[j].OpenedAt)
		}
		return trades[i].ID > trades[j].ID
	})
	if len(trades) > limit {
		trades = trades[:limit]
	}
	return trades, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.trades[id]; !ok {
		return ErrNotFound
	}
	delete(s.trades, id)
	return nil
}
