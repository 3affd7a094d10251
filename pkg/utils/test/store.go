package testutils

import (
	"context"

	"github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/pkg/chunks"
)

// MockStore is a test chunk store with error injection.
type MockStore struct {
	// Chunks is the full candidate pool across both modes.
	Chunks []chunks.Chunk

	// FailCandidates, when non-nil, is returned by every Candidates call.
	FailCandidates error

	// FailPing, when non-nil, is returned by Ping.
	FailPing error

	// CandidatesCalls counts Candidates invocations.
	CandidatesCalls int
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Candidates(_ context.Context, mode chunks.Mode, filter chunks.Filter) ([]chunks.Chunk, error) {
	m.CandidatesCalls++

	if m.FailCandidates != nil {
		return nil, m.FailCandidates
	}

	var out []chunks.Chunk
	for _, c := range m.Chunks {
		if c.Mode == mode && filter.Matches(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *MockStore) Ping(_ context.Context) error {
	return m.FailPing
}

func (m *MockStore) Close() error {
	return nil
}

var _ chunks.Store = (*MockStore)(nil)
