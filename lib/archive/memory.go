package archive

import (
	"context"
	"sort"
	"sync"
)

type memoryRun struct {
	summary Summary
	payload []byte
}

// MemoryStore keeps encoded runs in memory.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]memoryRun
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.runs == nil { s.runs = make(map[string]memoryRun) }
	return nil
}

func (s *MemoryStore) Save(_ context.Context, run *Run) (string, error) {
	if err := prepare(run); err != nil { return "", err }
	payload, err := encodeTable(run)
	if err != nil { return "", err }

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.runs == nil { return "", ErrNotInitialized }

	s.runs[run.ID] = memoryRun{summarize(run, len(payload)), payload}
	return run.ID, nil
}

func (s *MemoryStore) Load(_ context.Context, id string) (*Run, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runs == nil { return nil, false, ErrNotInitialized }

	mr, ok := s.runs[id]
	if !ok { return nil, false, nil }

	run := &Run{
		ID: mr.summary.ID, Instrument: mr.summary.Instrument,
		Seed: mr.summary.Seed, Particles: mr.summary.Particles,
		Created: mr.summary.Created,
	}
	if err := decodeTable(mr.payload, run); err != nil {
		return nil, false, err
	}
	return run, true, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.runs == nil { return nil, ErrNotInitialized }

	out := make([]Summary, 0, len(s.runs))
	for _, mr := range s.runs {
		out = append(out, mr.summary)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Created.Equal(out[j].Created) {
			return out[i].Created.Before(out[j].Created)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func summarize(run *Run, size int) Summary {
	return Summary{
		ID: run.ID, Instrument: run.Instrument, Seed: run.Seed,
		Particles: run.Particles, Created: run.Created, PayloadSize: size,
	}
}
