package auth

import (
	"log/slog"
	"net/http"
)

// IsAuthorized is the access-control gate: true iff the session carries an
// authenticated principal whose role is in allowedRoles. Services call this
// before every repository or engine call; the HTTP middleware below is a
// second fence in front of the handlers.
func IsAuthorized(user *User, allowedRoles ...string) bool {
	if user == nil {
		return false
	}
	for _, role := range allowedRoles {
		if user.Role == role {
			return true
		}
	}
	return false
}

type RBACAuthorization struct {
	logger *slog.Logger
}

func NewRBACAuthorization(logger *slog.Logger) *RBACAuthorization {
	return &RBACAuthorization{logger: logger}
}

// RequireRoles rejects the request before the handler runs unless the
// context principal holds one of the given roles.
func (ra *RBACAuthorization) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || user == nil {
				ra.logger.Warn("authorization check failed: user not found in context")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			if !IsAuthorized(user, roles...) {
				ra.logger.WarnContext(r.Context(), "access denied: insufficient role",
					"user_id", user.ID,
					"role", user.Role,
					"required_roles", roles)
				http.Error(w, "Forbidden: insufficient role", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (ra *RBACAuthorization) RequireAdmin() func(http.Handler) http.Handler {
	return ra.RequireRoles(RoleAdmin)
}
