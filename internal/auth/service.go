package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/internal/branches"
	"github.com/tiendalopez/pos-backend/internal/users"
	pkgauth "github.com/tiendalopez/pos-backend/pkg/auth"
	"github.com/tiendalopez/pos-backend/pkg/auth/session"
	"github.com/tiendalopez/pos-backend/pkg/config"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
	"github.com/tiendalopez/pos-backend/pkg/logger"
	"github.com/tiendalopez/pos-backend/pkg/security"
)

type auditTrail interface {
	Record(ctx context.Context, action enums.AuditAction, actor audit.Actor, entityType string, entityID *string, details string)
}

// Service handles operator login and logout.
type Service struct {
	cfg      config.JWTConfig
	users    *users.Repository
	branches *branches.Service
	sessions *session.Manager
	audits   auditTrail
	logg     *logger.Logger
}

// NewService wires the auth service.
func NewService(cfg config.JWTConfig, userRepo *users.Repository, branchSvc *branches.Service, sessions *session.Manager, audits auditTrail, logg *logger.Logger) (*Service, error) {
	if userRepo == nil || branchSvc == nil || sessions == nil {
		return nil, fmt.Errorf("users, branches and sessions required")
	}
	return &Service{
		cfg:      cfg,
		users:    userRepo,
		branches: branchSvc,
		sessions: sessions,
		audits:   audits,
		logg:     logg,
	}, nil
}

// LoginResult is the successful login payload.
type LoginResult struct {
	Token  string          `json:"token"`
	User   users.User      `json:"user"`
	Branch branches.Branch `json:"branch"`
}

// Login verifies the credentials and issues a session-bound JWT. The operator
// starts at the first active branch.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, ok := s.users.GetByEmail(ctx, email)
	if !ok || !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	match, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	branch, ok := s.branches.FirstActive(ctx)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "no active branch available")
	}

	accessID, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to create session")
	}

	token, err := pkgauth.MintAccessToken(s.cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:   user.ID,
		Role:     user.Role,
		BranchID: branch.ID,
		JTI:      accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to mint token")
	}

	if s.audits != nil {
		s.audits.Record(ctx, enums.AuditActionLogin,
			audit.Actor{ID: user.ID, Name: user.Name}, "user", nil, user.Email+" logged in")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "operator logged in")
	}

	return &LoginResult{Token: token, User: user, Branch: branch}, nil
}

// Logout revokes the session behind the token's jti.
func (s *Service) Logout(ctx context.Context, claims *pkgauth.AccessTokenClaims) error {
	if claims == nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to revoke session")
	}
	if s.audits != nil {
		user, ok := s.users.GetByID(ctx, claims.UserID)
		name := claims.UserID.String()
		if ok {
			name = user.Name
		}
		s.audits.Record(ctx, enums.AuditActionLogout,
			audit.Actor{ID: claims.UserID, Name: name}, "user", nil, "operator logged out")
	}
	return nil
}
