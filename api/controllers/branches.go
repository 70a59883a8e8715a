package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/api/validators"
	"github.com/tiendalopez/pos-backend/internal/branches"
	"github.com/tiendalopez/pos-backend/internal/users"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

type branchActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

// BranchesList serves every store location.
func BranchesList(svc *branches.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]any{"branches": svc.List(r.Context())})
	}
}

// BranchSetActive toggles a location on or off.
func BranchSetActive(svc *branches.Service, userRepo *users.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseURLUUID(chi.URLParam(r, "branchID"), "branchID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var body branchActiveRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		op, err := operatorFromContext(r.Context(), userRepo)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		branch, err := svc.SetActive(r.Context(), id, *body.Active, actorFor(op), op.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, branch)
	}
}
