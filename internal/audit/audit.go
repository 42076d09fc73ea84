package audit

import (
	"errors"
	"time"
)

// Entry is one append-only audit record. Role is captured at write time, not
// resolved later; Username is joined best-effort at read time and stays nil
// when the user no longer exists.
type Entry struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    int64     `json:"user_id" gorm:"column:user_id;not null"`
	Username  *string   `json:"username,omitempty" gorm:"-"`
	Role      string    `json:"role" gorm:"not null"`
	Action    string    `json:"action" gorm:"not null"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
}

func (Entry) TableName() string {
	return "audit_logs"
}

// Action tags recorded by the services.
const (
	ActionLogin         = "login"
	ActionAddPatient    = "add_patient"
	ActionUpdatePatient = "update_patient"
	ActionViewPatients  = "view_patients"
	ActionAnonymizeAll  = "anonymize_all"
	ActionDecryptField  = "decrypt_field"
	ActionViewAuditLog  = "view_audit_log"
)

// Repository is the append-only store. Append errors must surface to the
// caller; losing audit records silently is not an option here.
type Repository interface {
	Append(entry *Entry) error
	GetAll() ([]*Entry, error)
}

var ErrAppendFailed = errors.New("failed to append audit log entry")
