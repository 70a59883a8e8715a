package controllers

import (
	"net/http"

	"github.com/tiendalopez/pos-backend/api/responses"
	"github.com/tiendalopez/pos-backend/api/validators"
	"github.com/tiendalopez/pos-backend/internal/audit"
	"github.com/tiendalopez/pos-backend/pkg/enums"
	"github.com/tiendalopez/pos-backend/pkg/logger"
)

// AuditList serves the operator action trail, newest first.
func AuditList(svc *audit.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 100, 1, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		entries, err := svc.List(r.Context(), audit.ListFilter{
			Action: enums.AuditAction(r.URL.Query().Get("action")),
			Limit:  limit,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"entries": entries,
			"count":   len(entries),
		})
	}
}
