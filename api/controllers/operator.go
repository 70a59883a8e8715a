package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/tiendalopez/pos-backend/api/middleware"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/internal/checkout"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	pkgerrors "github.com/tiendalopez/pos-backend/pkg/errors"
)

// operatorFromContext rebuilds the acting operator from the auth middleware's
// context values, resolving the display name from the account store.
func operatorFromContext(ctx context.Context, userRepo *users.Repository) (checkout.Operator, error) {
	userID, err := uuid.Parse(middleware.UserIDFromContext(ctx))
	if err != nil {
		return checkout.Operator{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing operator identity")
	}
	branchID, err := uuid.Parse(middleware.BranchIDFromContext(ctx))
	if err != nil {
		return checkout.Operator{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing branch context")
	}

	op := checkout.Operator{
		ID:       userID,
		Role:     enums.Role(middleware.RoleFromContext(ctx)),
		BranchID: branchID,
	}
	if userRepo != nil {
		if user, ok := userRepo.GetByID(ctx, userID); ok {
			op.Name = user.Name
		}
	}
	if op.Name == "" {
		op.Name = userID.String()
	}
	return op, nil
}

func actorFor(op checkout.Operator) audit.Actor {
	return audit.Actor{ID: op.ID, Name: op.Name}
}
