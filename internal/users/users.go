package users

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	"github.com/tiendalopez/pos-backend/pkg/security"
)

// User is an operator account. Password hashes are Argon2id strings computed
// at seed time for the demo accounts.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         enums.Role `json:"role"`
	PasswordHash string     `json:"-"`
	IsActive     bool       `json:"is_active"`
}

// Repository is the in-memory account store.
type Repository struct {
	mu    sync.RWMutex
	order []uuid.UUID
	users map[uuid.UUID]User
}

// NewRepository builds the store with the provided accounts.
func NewRepository(seed []User) *Repository {
	repo := &Repository{users: make(map[uuid.UUID]User, len(seed))}
	for _, user := range seed {
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		repo.order = append(repo.order, user.ID)
		repo.users[user.ID] = user
	}
	return repo
}

// List returns every account in seed order.
func (r *Repository) List(_ context.Context) []User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.users[id])
	}
	return out
}

// GetByID returns the account when present.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	return user, ok
}

// GetByEmail matches case-insensitively.
func (r *Repository) GetByEmail(_ context.Context, email string) (User, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		if strings.EqualFold(r.users[id].Email, email) {
			return r.users[id], true
		}
	}
	return User{}, false
}

// SeedUser pairs a demo account with its plaintext password.
type SeedUser struct {
	User     User
	Password string
}

// SeedUsers returns the demo accounts. Every account shares the documented
// demo password.
func SeedUsers() []SeedUser {
	const demoPassword = "demo123"
	return []SeedUser{
		{User: User{Email: "owner@demo.com", Name: "Carlos Mendoza", Role: enums.RoleOwner, IsActive: true}, Password: demoPassword},
		{User: User{Email: "admin@demo.com", Name: "María García", Role: enums.RoleAdmin, IsActive: true}, Password: demoPassword},
		{User: User{Email: "cajero@demo.com", Name: "Juan López", Role: enums.RoleCashier, IsActive: true}, Password: demoPassword},
	}
}

// BuildSeedRepository hashes the seed passwords and returns a ready store.
func BuildSeedRepository(cfg config.PasswordConfig) (*Repository, error) {
	seeds := SeedUsers()
	accounts := make([]User, 0, len(seeds))
	for _, seed := range seeds {
		hash, err := security.HashPassword(seed.Password, cfg)
		if err != nil {
			return nil, err
		}
		seed.User.PasswordHash = hash
		accounts = append(accounts, seed.User)
	}
	return NewRepository(accounts), nil
}
