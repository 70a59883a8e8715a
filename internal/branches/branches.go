package branches

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

// Branch is one physical store location.
type Branch struct {
	ID       uuid.UUID `json:"id"`
	Name     string    `json:"name"`
	Code     string    `json:"code"`
	Address  string    `json:"address"`
	Phone    string    `json:"phone"`
	IsActive bool      `json:"is_active"`
}

type auditTrail interface {
	Record(ctx context.Context, action enums.AuditAction, actor audit.Actor, entityType string, entityID *string, details string)
}

// Service is the in-memory branch directory.
type Service struct {
	audits auditTrail

	mu       sync.RWMutex
	order    []uuid.UUID
	branches map[uuid.UUID]Branch
}

// NewService builds the directory with the provided branches.
func NewService(seed []Branch, audits auditTrail) *Service {
	svc := &Service{
		audits:   audits,
		branches: make(map[uuid.UUID]Branch, len(seed)),
	}
	for _, branch := range seed {
		if branch.ID == uuid.Nil {
			branch.ID = uuid.New()
		}
		svc.order = append(svc.order, branch.ID)
		svc.branches[branch.ID] = branch
	}
	return svc
}

// List returns every branch in seed order.
func (s *Service) List(_ context.Context) []Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Branch, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.branches[id])
	}
	return out
}

// Get returns one branch.
func (s *Service) Get(_ context.Context, id uuid.UUID) (Branch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	branch, ok := s.branches[id]
	return branch, ok
}

// FirstActive returns the default branch for a fresh session.
func (s *Service) FirstActive(_ context.Context) (Branch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range s.order {
		if branch := s.branches[id]; branch.IsActive {
			return branch, true
		}
	}
	return Branch{}, false
}

// SetActive toggles a branch. Owners only; disabling a branch does not touch
// sessions already working against it.
func (s *Service) SetActive(ctx context.Context, id uuid.UUID, active bool, actor audit.Actor, role enums.Role) (Branch, error) {
	if role != enums.RoleOwner {
		return Branch{}, pkgerrors.New(pkgerrors.CodeForbidden, "only the owner can toggle branches")
	}

	s.mu.Lock()
	branch, ok := s.branches[id]
	if !ok {
		s.mu.Unlock()
		return Branch{}, pkgerrors.New(pkgerrors.CodeNotFound, "branch not found")
	}
	branch.IsActive = active
	s.branches[id] = branch
	s.mu.Unlock()

	if s.audits != nil {
		code := branch.Code
		state := "disabled"
		if active {
			state = "enabled"
		}
		s.audits.Record(ctx, enums.AuditActionBranchToggled, actor, "branch", &code, "branch "+branch.Name+" "+state)
	}
	return branch, nil
}

// SeedBranches returns the demo locations.
func SeedBranches() []Branch {
	return []Branch{
		{Name: "Sucursal Centro", Code: "CEN", Address: "Av. Juárez 123, Centro", Phone: "555-0101", IsActive: true},
		{Name: "Sucursal Norte", Code: "NOR", Address: "Blvd. Norte 456", Phone: "555-0102", IsActive: true},
		{Name: "Sucursal Sur", Code: "SUR", Address: "Calle Sur 789", Phone: "555-0103", IsActive: false},
	}
}
