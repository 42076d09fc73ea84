package patient

import (
	"strings"
	"time"

	"github.com/frahmantamala/hospital-records/internal"
)

// Patient carries the raw fields next to their pseudonymised and encrypted
// forms. The pseudonym columns are always populated from the id/contact as
// of the last write; the encrypted columns are refreshed on every raw-field
// mutation and by the bulk anonymize sweep.
type Patient struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	Name             string     `json:"name" gorm:"not null"`
	Contact          string     `json:"contact" gorm:"not null"`
	Diagnosis        string     `json:"diagnosis" gorm:"not null"`
	PseudonymName    string     `json:"pseudonym_name" gorm:"column:pseudonym_name"`
	PseudonymContact string     `json:"pseudonym_contact" gorm:"column:pseudonym_contact"`
	EncryptedName    string     `json:"encrypted_name" gorm:"column:encrypted_name"`
	EncryptedContact string     `json:"encrypted_contact" gorm:"column:encrypted_contact"`
	CreatedAt        time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty" gorm:"column:updated_at"`
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// CreatePatientDTO represents the request payload for intake.
type CreatePatientDTO struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Diagnosis string `json:"diagnosis"`
}

func (dto CreatePatientDTO) Validate() error {
	if strings.TrimSpace(dto.Name) == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if strings.TrimSpace(dto.Contact) == "" {
		return internal.NewValidationError("contact is required", internal.ErrCodeInvalidContact)
	}
	if strings.TrimSpace(dto.Diagnosis) == "" {
		return internal.NewValidationError("diagnosis is required", internal.ErrCodeInvalidDiagnosis)
	}
	return nil
}

// UpdatePatientDTO represents the request payload for updating a record.
type UpdatePatientDTO struct {
	Name      string `json:"name"`
	Contact   string `json:"contact"`
	Diagnosis string `json:"diagnosis"`
}

func (dto UpdatePatientDTO) Validate() error {
	return CreatePatientDTO(dto).Validate()
}

// DecryptFieldDTO carries one ciphertext value for the admin decrypt surface.
type DecryptFieldDTO struct {
	Ciphertext string `json:"ciphertext"`
}

func (dto DecryptFieldDTO) Validate() error {
	if dto.Ciphertext == "" {
		return internal.NewValidationError("ciphertext is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
