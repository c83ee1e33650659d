package checkout

import (
	"sync"
	"time"

	"github.com/Nikolino98/SillonesCordoba/internal/domain"
)

const (
	// phaseTTL is how long an idle session keeps an explicit phase
	// before falling back to reviewing.
	phaseTTL = 2 * time.Hour

	// cleanupInterval is how often the background cleanup runs.
	cleanupInterval = 5 * time.Minute
)

type phaseEntry struct {
	phase     domain.CheckoutPhase
	touchedAt time.Time
}

// PhaseStore tracks each session's checkout phase in memory. Sessions
// with no entry are in the reviewing phase; stale entries are dropped
// by a background sweep.
type PhaseStore struct {
	mu     sync.RWMutex
	phases map[string]*phaseEntry

	stopCleanup chan struct{}
	wg          sync.WaitGroup
}

func NewPhaseStore() *PhaseStore {
	s := &PhaseStore{
		phases:      make(map[string]*phaseEntry),
		stopCleanup: make(chan struct{}),
	}

	s.wg.Add(1)
	go s.cleanupLoop()

	return s
}

func (s *PhaseStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.expireStale()
		case <-s.stopCleanup:
			return
		}
	}
}

func (s *PhaseStore) expireStale() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-phaseTTL)
	for sessionID, entry := range s.phases {
		if entry.touchedAt.Before(cutoff) {
			delete(s.phases, sessionID)
		}
	}
}

// Get returns the session's phase, defaulting to reviewing.
func (s *PhaseStore) Get(sessionID string) domain.CheckoutPhase {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if entry, exists := s.phases[sessionID]; exists {
		return entry.phase
	}
	return domain.PhaseReviewing
}

// Set records the session's phase.
func (s *PhaseStore) Set(sessionID string, phase domain.CheckoutPhase) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.phases[sessionID] = &phaseEntry{
		phase:     phase,
		touchedAt: time.Now(),
	}
}

// Close stops the background cleanup and waits for it to finish.
func (s *PhaseStore) Close() error {
	close(s.stopCleanup)
	s.wg.Wait()
	return nil
}
