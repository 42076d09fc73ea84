package postgres

import (
	"errors"

	"github.com/frahmantamala/hospital-records/internal"
	"github.com/frahmantamala/hospital-records/internal/patient"
	"github.com/frahmantamala/hospital-records/internal/pseudonym"
	"gorm.io/gorm"
)

// PatientRepository implements the patient.Repository interface using GORM
type PatientRepository struct {
	db *gorm.DB
}

func NewPatientRepository(db *gorm.DB) patient.Repository {
	return &PatientRepository{db: db}
}

// Create inserts the record and fills in the pseudonym name derived from the
// assigned id. Both statements run in one transaction so no reader ever sees
// the placeholder state.
func (r *PatientRepository) Create(p *patient.Patient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		p.PseudonymName = pseudonym.MaskPatientID(p.ID)
		return tx.Model(&patient.Patient{}).
			Where("id = ?", p.ID).
			Update("pseudonym_name", p.PseudonymName).Error
	})
}

func (r *PatientRepository) GetByID(id int64) (*patient.Patient, error) {
	var p patient.Patient
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrPatientNotFound
		}
		return nil, err
	}
	return &p, nil
}

// GetAll returns every record, newest first.
func (r *PatientRepository) GetAll() ([]*patient.Patient, error) {
	var patients []*patient.Patient
	err := r.db.Order("created_at DESC").Find(&patients).Error
	return patients, err
}

func (r *PatientRepository) Update(p *patient.Patient) error {
	result := r.db.Model(&patient.Patient{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"name":              p.Name,
			"contact":           p.Contact,
			"diagnosis":         p.Diagnosis,
			"pseudonym_name":    p.PseudonymName,
			"pseudonym_contact": p.PseudonymContact,
			"encrypted_name":    p.EncryptedName,
			"encrypted_contact": p.EncryptedContact,
			"updated_at":        p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrPatientNotFound
	}
	return nil
}

// SaveAnonymized overwrites the derived fields of the given records in a
// single transaction; a failure on any row rolls back the whole sweep.
func (r *PatientRepository) SaveAnonymized(patients []*patient.Patient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, p := range patients {
			err := tx.Model(&patient.Patient{}).
				Where("id = ?", p.ID).
				Updates(map[string]interface{}{
					"pseudonym_name":    p.PseudonymName,
					"pseudonym_contact": p.PseudonymContact,
					"encrypted_name":    p.EncryptedName,
					"encrypted_contact": p.EncryptedContact,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
