package scanner

import (
	"sync"
	"time"

	"github.com/panicdrop/altscan/internal/domain"
)

// Snapshot is a read-only view of one refresh cycle's token collection.
type Snapshot struct {
	Generation uint64         `json:"generation"`
	Tokens     []domain.Token `json:"tokens"`
	Fallback   bool           `json:"fallback"` // listings came from the sample set
	UpdatedAt  time.Time      `json:"updated_at"`
}

// TokenStore owns the in-memory token collection. Each refresh cycle
// replaces the collection wholesale under its own generation number;
// enrichment writes carry the generation they belong to and are
// discarded when a newer cycle has taken over. This is the single-writer
// discipline that closes the stale-enrichment race.
type TokenStore struct {
	mu   sync.RWMutex
	snap Snapshot
}

func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Replace installs a new collection for the given generation. Older
// generations cannot replace newer ones.
func (s *TokenStore) Replace(gen uint64, tokens []domain.Token, fallback bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.snap.Generation {
		return false
	}
	s.snap = Snapshot{
		Generation: gen,
		Tokens:     tokens,
		Fallback:   fallback,
		UpdatedAt:  time.Now(),
	}
	return true
}

// Mutate applies fn to the token with the given symbol, but only while
// gen is still the current generation. Returns false when the write was
// discarded as stale or the symbol is gone.
func (s *TokenStore) Mutate(gen uint64, symbol string, fn func(*domain.Token)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.snap.Generation {
		return false
	}
	for i := range s.snap.Tokens {
		if s.snap.Tokens[i].Symbol == symbol {
			fn(&s.snap.Tokens[i])
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the current collection. Callers may read
// and rank it freely without holding any lock.
func (s *TokenStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.snap
	out.Tokens = make([]domain.Token, len(s.snap.Tokens))
	copy(out.Tokens, s.snap.Tokens)
	return out
}

// Generation returns the current generation number.
func (s *TokenStore) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Generation
}
