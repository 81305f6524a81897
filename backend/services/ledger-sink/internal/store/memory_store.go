package store

import (
	"errors"
	"sort"
	"strings"
	"sync"

	"lremanager/backend/services/ledger-sink/internal/models"
)

var (
	// ErrProgramNotFound is returned for unknown program ids.
	ErrProgramNotFound = errors.New("program not found")
	// ErrEntryNotFound is returned for unknown entry ids.
	ErrEntryNotFound = errors.New("ledger entry not found")
)

// MemoryStore keeps ledger entries per program in memory.
type MemoryStore struct {
	mu       sync.RWMutex
	programs map[int64]models.Program
	entries  map[int64][]models.LedgerEntry
	owner    map[string]int64
}

// NewMemoryStore returns a store that accepts entries for the given programs only.
func NewMemoryStore(programs []models.Program) *MemoryStore {
	s := &MemoryStore{
		programs: make(map[int64]models.Program, len(programs)),
		entries:  make(map[int64][]models.LedgerEntry, len(programs)),
		owner:    make(map[string]int64),
	}
	for _, p := range programs {
		s.programs[p.ID] = p
	}
	return s
}

// Program looks up a program by id.
func (s *MemoryStore) Program(id int64) (models.Program, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.programs[id]
	if !ok {
		return models.Program{}, ErrProgramNotFound
	}
	return p, nil
}

// Add stores entry under its program.
func (s *MemoryStore) Add(entry models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.programs[entry.Program.ID]; !ok {
		return ErrProgramNotFound
	}
	s.entries[entry.Program.ID] = append(s.entries[entry.Program.ID], entry)
	s.owner[entry.ID] = entry.Program.ID
	return nil
}

// List returns entries of a program whose vendor contains search (case-insensitive),
// ordered by baseline date, and the total number of matches.
func (s *MemoryStore) List(programID int64, search string, offset, limit int) ([]models.LedgerEntry, int, error) {
	s.mu.RLock()
	if _, ok := s.programs[programID]; !ok {
		s.mu.RUnlock()
		return nil, 0, ErrProgramNotFound
	}
	needle := strings.ToLower(search)
	matched := make([]models.LedgerEntry, 0, len(s.entries[programID]))
	for _, e := range s.entries[programID] {
		if needle == "" || strings.Contains(strings.ToLower(e.VendorName), needle) {
			matched = append(matched, e)
		}
	}
	s.mu.RUnlock()

	// YYYY-MM-DD orders lexicographically.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].BaselineDate < matched[j].BaselineDate
	})

	total := len(matched)
	if offset >= total {
		return []models.LedgerEntry{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

// Delete removes one entry by id.
func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	programID, ok := s.owner[id]
	if !ok {
		return ErrEntryNotFound
	}
	entries := s.entries[programID]
	for i := range entries {
		if entries[i].ID == id {
			s.entries[programID] = append(entries[:i], entries[i+1:]...)
			break
		}
	}
	delete(s.owner, id)
	return nil
}
