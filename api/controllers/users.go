package controllers

import (
	"net/http"

	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

// UsersList serves the operator accounts. Password hashes never serialize.
func UsersList(repo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accounts := repo.List(r.Context())
		responses.WriteSuccess(w, map[string]any{
			"users": accounts,
			"count": len(accounts),
		})
	}
}
