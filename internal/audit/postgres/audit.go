package postgres

import (
	"database/sql"

	"github.com/frahmantamala/hospital-records/internal/audit"
	"gorm.io/gorm"
)

// AuditRepository implements the audit.Repository interface using GORM
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) audit.Repository {
	return &AuditRepository{db: db}
}

// Append inserts a new entry. There is no update path: entries are immutable
// once written.
func (r *AuditRepository) Append(entry *audit.Entry) error {
	return r.db.Create(entry).Error
}

// GetAll returns all entries newest first with the current username joined
// best-effort; a removed user leaves the username null rather than failing
// the listing.
func (r *AuditRepository) GetAll() ([]*audit.Entry, error) {
	rows, err := r.db.Raw(`
		SELECT l.id, l.user_id, u.username, l.role, l.action, l.detail, l.created_at
		FROM audit_logs l
		LEFT JOIN users u ON u.id = l.user_id
		ORDER BY l.created_at DESC`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*audit.Entry
	for rows.Next() {
		var e audit.Entry
		var username sql.NullString
		if err := rows.Scan(&e.ID, &e.UserID, &username, &e.Role, &e.Action, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if username.Valid {
			e.Username = &username.String
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}
