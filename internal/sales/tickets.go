package sales

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

type branchCounter interface {
	CountByBranch(ctx context.Context, branchID uuid.UUID) (int64, error)
}

// TicketSequence issues sequential ticket numbers per branch, formatted as
// <prefix>-<branchCode>-NNNNNN. Counters are seeded lazily from the sales
// table so numbering continues across restarts.
type TicketSequence struct {
	prefix  string
	counter branchCounter

	mu   sync.Mutex
	next map[uuid.UUID]int64
}

// NewTicketSequence builds the sequence over the sales repository.
func NewTicketSequence(prefix string, counter branchCounter) *TicketSequence {
	if prefix == "" {
		prefix = "T"
	}
	return &TicketSequence{
		prefix:  prefix,
		counter: counter,
		next:    make(map[uuid.UUID]int64),
	}
}

// Next reserves and returns the next ticket number for the branch.
func (s *TicketSequence) Next(ctx context.Context, branchID uuid.UUID, branchCode string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.next[branchID]
	if !ok {
		count, err := s.counter.CountByBranch(ctx, branchID)
		if err != nil {
			return "", err
		}
		n = count + 1
	}
	s.next[branchID] = n + 1
	return fmt.Sprintf("%s-%s-%06d", s.prefix, branchCode, n), nil
}
