package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"mamoolah/internal/auth"
	"mamoolah/internal/middleware"
	"mamoolah/internal/websocket"
)

// WSBalances subscribes the caller to live balance updates for one company.
// Browsers cannot set headers on websocket upgrades, so the token may come
// through the query string instead.
func (h *Handler) WSBalances(w http.ResponseWriter, r *http.Request) {
	claims, err := auth.ParseToken(h.cfg.JWTSecret, middleware.TokenFromRequest(r))
	if err != nil {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	companyID := r.URL.Query().Get("company_id")
	if companyID == "" {
		respondError(w, http.StatusBadRequest, "company_id is required")
		return
	}
	if _, err := h.roles.Get(r.Context(), claims.UserID, companyID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, http.StatusForbidden, "not a member of this company")
			return
		}
		respondError(w, http.StatusInternalServerError, "unable to verify membership")
		return
	}
	websocket.ServeWS(w, r, h.hub, companyID)
}
