package middleware

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"mamoolah/internal/models"

	"github.com/go-chi/chi/v5"
)

const companyIDKey contextKey = "company_id"

type RoleStore interface {
	Get(ctx context.Context, userID, companyID string) (models.CompanyRole, error)
}

func CompanyIDFromContext(ctx context.Context) (string, bool) {
	companyID, ok := ctx.Value(companyIDKey).(string)
	return companyID, ok
}

var roleRank = map[string]int{
	"employee": 1,
	"admin":    2,
	"owner":    3,
}

// RequireMember resolves the {companyID} URL parameter, verifies the
// authenticated user holds at least minRole in that company, and passes the
// company id down through the request context. Handlers always receive the
// company scope explicitly; there is no session-bound current company.
func RequireMember(roles RoleStore, minRole string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := UserIDFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			companyID := chi.URLParam(r, "companyID")
			if companyID == "" {
				http.Error(w, "company id required", http.StatusBadRequest)
				return
			}
			role, err := roles.Get(r.Context(), userID, companyID)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					http.Error(w, "not a member of this company", http.StatusForbidden)
					return
				}
				http.Error(w, "unable to verify membership", http.StatusInternalServerError)
				return
			}
			if roleRank[role.Role] < roleRank[minRole] {
				http.Error(w, "insufficient role", http.StatusForbidden)
				return
			}
			ctx := context.WithValue(r.Context(), companyIDKey, companyID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
