package patient

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/frahmantamala/hospital-records/internal/auth"
	"github.com/frahmantamala/hospital-records/internal/transport"
	"github.com/frahmantamala/hospital-records/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	AddPatient(actor *auth.User, dto CreatePatientDTO) (*Patient, error)
	UpdatePatient(actor *auth.User, id int64, dto UpdatePatientDTO) (*Patient, error)
	ListPatients(actor *auth.User) ([]*Patient, error)
	AnonymizeAll(actor *auth.User) (int, error)
	DecryptField(actor *auth.User, dto DecryptFieldDTO) (string, error)
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

// listView is the non-admin projection: pseudonymised identity fields only.
// The service returns full records to every role; raw name and contact stay
// a display decision made here.
type listView struct {
	ID               int64      `json:"id"`
	PseudonymName    string     `json:"pseudonym_name"`
	PseudonymContact string     `json:"pseudonym_contact"`
	Diagnosis        string     `json:"diagnosis"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

func (h *Handler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreatePatientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.AddPatient(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("patient created", "patient_id", p.ID, "actor_id", user.ID)
	h.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) UpdatePatient(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid patient ID")
		return
	}

	var dto UpdatePatientDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.UpdatePatient(user, id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) ListPatients(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	patients, err := h.Service.ListPatients(user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if user.Role == auth.RoleAdmin {
		if patients == nil {
			patients = []*Patient{}
		}
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"patients": patients,
			"total":    len(patients),
		})
		return
	}

	views := make([]listView, 0, len(patients))
	for _, p := range patients {
		views = append(views, listView{
			ID:               p.ID,
			PseudonymName:    p.PseudonymName,
			PseudonymContact: p.PseudonymContact,
			Diagnosis:        p.Diagnosis,
			CreatedAt:        p.CreatedAt,
			UpdatedAt:        p.UpdatedAt,
		})
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"patients": views,
		"total":    len(views),
	})
}

func (h *Handler) AnonymizeAll(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	count, err := h.Service.AnonymizeAll(user)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{"anonymized": count})
}

func (h *Handler) DecryptField(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto DecryptFieldDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	value, err := h.Service.DecryptField(user, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"value": value})
}
