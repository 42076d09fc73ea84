package audit

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/hospital-records/internal/auth"
	"github.com/frahmantamala/hospital-records/internal/transport"
	"github.com/frahmantamala/hospital-records/pkg/logger"
)

type ServiceAPI interface {
	List(actor *auth.User) ([]*Entry, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.L()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	entries, err := h.Service.List(user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if entries == nil {
		entries = []*Entry{}
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"total":   len(entries),
	})
}
