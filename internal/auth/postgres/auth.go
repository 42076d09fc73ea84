package postgres

import (
	"database/sql"
	"fmt"

	"github.com/frahmantamala/hospital-records/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentialsByUsername(username string) (*auth.User, string, error) {
	var user auth.User
	var passwordHash string

	query := `SELECT id, username, role, password_hash FROM users WHERE username = ?`

	row := r.db.Raw(query, username).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Role, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return nil, "", fmt.Errorf("user not found")
		}
		return nil, "", err
	}
	return &user, passwordHash, nil
}

func (r *Repository) GetByID(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, username, role FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser inserts the account only when the username is absent, so
// re-running the seeder never trips the unique constraint.
func (r *Repository) EnsureUser(username, passwordHash, role string) error {
	if !auth.ValidRole(role) {
		return fmt.Errorf("invalid role %q for user %s", role, username)
	}

	var exists int
	row := r.db.Raw(`SELECT 1 FROM users WHERE username = ?`, username).Row()
	if err := row.Scan(&exists); err == nil {
		return nil
	}

	return r.db.Exec(
		`INSERT INTO users (username, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		username, passwordHash, role,
	).Error
}
