package audit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hospital-records/internal"
	"github.com/frahmantamala/hospital-records/internal/auth"
)

// Service appends and lists audit entries. Appends that fail abort the
// triggering operation: accountability over availability.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// Record appends an entry for the given actor with a server-side timestamp.
func (s *Service) Record(actor *auth.User, action, detail string) error {
	if actor == nil {
		return fmt.Errorf("%w: no actor", ErrAppendFailed)
	}

	entry := &Entry{
		UserID:    actor.ID,
		Role:      actor.Role,
		Action:    action,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Append(entry); err != nil {
		s.logger.Error("audit append failed", "error", err, "user_id", actor.ID, "action", action)
		return fmt.Errorf("%w: %v", ErrAppendFailed, err)
	}
	return nil
}

// List returns all entries newest first, admin only. Reading the trail is
// itself recorded.
func (s *Service) List(actor *auth.User) ([]*Entry, error) {
	if !auth.IsAuthorized(actor, auth.RoleAdmin) {
		s.logger.Warn("audit log view denied", "role", roleOf(actor))
		return nil, internal.ErrForbidden
	}

	entries, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list audit log", "error", err)
		return nil, err
	}

	if err := s.Record(actor, ActionViewAuditLog, fmt.Sprintf("viewed %d entries", len(entries))); err != nil {
		return nil, err
	}

	return entries, nil
}

func roleOf(u *auth.User) string {
	if u == nil {
		return ""
	}
	return u.Role
}
