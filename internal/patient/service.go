package patient

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/hospital-records/internal"
	"github.com/frahmantamala/hospital-records/internal/audit"
	"github.com/frahmantamala/hospital-records/internal/auth"
	"github.com/frahmantamala/hospital-records/internal/pseudonym"
)

// Repository defines the data access methods for patient records.
type Repository interface {
	// Create performs the two-phase insert (row, then pseudonym name derived
	// from the assigned id) inside a single transaction.
	Create(p *Patient) error
	GetByID(id int64) (*Patient, error)
	GetAll() ([]*Patient, error)
	Update(p *Patient) error
	// SaveAnonymized overwrites the derived fields of all given records in
	// one transaction.
	SaveAnonymized(patients []*Patient) error
}

// Cipher is the reversible transform the service needs from the
// pseudonymisation engine.
type Cipher interface {
	Encrypt(plaintext string) (string, error)
	DecryptField(ciphertext string) string
}

// Auditor records actor actions; a failed append aborts the operation.
type Auditor interface {
	Record(actor *auth.User, action, detail string) error
}

// Service handles patient business logic. Every operation checks the role
// gate before touching the repository or the engine.
type Service struct {
	repo    Repository
	cipher  Cipher
	auditor Auditor
	logger  *slog.Logger
}

func NewService(repo Repository, cipher Cipher, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		cipher:  cipher,
		auditor: auditor,
		logger:  logger,
	}
}

// AddPatient creates a record with derived pseudonym and encrypted fields.
// Admin and receptionist only.
func (s *Service) AddPatient(actor *auth.User, dto CreatePatientDTO) (*Patient, error) {
	if !auth.IsAuthorized(actor, auth.RoleAdmin, auth.RoleReceptionist) {
		s.logger.Warn("add patient denied", "role", roleOf(actor))
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	encName, err := s.cipher.Encrypt(dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to encrypt patient name", err)
	}
	encContact, err := s.cipher.Encrypt(dto.Contact)
	if err != nil {
		return nil, internal.NewInternalError("failed to encrypt patient contact", err)
	}

	p := &Patient{
		Name:             dto.Name,
		Contact:          dto.Contact,
		Diagnosis:        dto.Diagnosis,
		PseudonymContact: pseudonym.MaskContact(dto.Contact),
		EncryptedName:    encName,
		EncryptedContact: encContact,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create patient", "error", err)
		return nil, internal.NewInternalError("failed to create patient", err)
	}

	if err := s.auditor.Record(actor, audit.ActionAddPatient, fmt.Sprintf("patient %d added", p.ID)); err != nil {
		return nil, err
	}

	s.logger.Info("patient created", "patient_id", p.ID, "actor_id", actor.ID)
	return p, nil
}

// UpdatePatient overwrites raw fields and re-derives every masked and
// encrypted field from the new values. Admin and receptionist only.
func (s *Service) UpdatePatient(actor *auth.User, id int64, dto UpdatePatientDTO) (*Patient, error) {
	if !auth.IsAuthorized(actor, auth.RoleAdmin, auth.RoleReceptionist) {
		s.logger.Warn("update patient denied", "role", roleOf(actor), "patient_id", id)
		return nil, internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	encName, err := s.cipher.Encrypt(dto.Name)
	if err != nil {
		return nil, internal.NewInternalError("failed to encrypt patient name", err)
	}
	encContact, err := s.cipher.Encrypt(dto.Contact)
	if err != nil {
		return nil, internal.NewInternalError("failed to encrypt patient contact", err)
	}

	now := time.Now()
	p.Name = dto.Name
	p.Contact = dto.Contact
	p.Diagnosis = dto.Diagnosis
	p.PseudonymName = pseudonym.MaskPatientID(p.ID)
	p.PseudonymContact = pseudonym.MaskContact(dto.Contact)
	p.EncryptedName = encName
	p.EncryptedContact = encContact
	p.UpdatedAt = &now

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update patient", "error", err, "patient_id", id)
		return nil, internal.NewInternalError("failed to update patient", err)
	}

	if err := s.auditor.Record(actor, audit.ActionUpdatePatient, fmt.Sprintf("patient %d updated", id)); err != nil {
		return nil, err
	}

	return p, nil
}

// ListPatients returns all records newest first. Any authenticated role may
// read; what gets displayed raw versus masked is the caller's concern.
func (s *Service) ListPatients(actor *auth.User) ([]*Patient, error) {
	if !auth.IsAuthorized(actor, auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist) {
		return nil, internal.ErrForbidden
	}

	patients, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list patients", "error", err)
		return nil, internal.NewInternalError("failed to list patients", err)
	}

	if err := s.auditor.Record(actor, audit.ActionViewPatients, fmt.Sprintf("viewed %d records", len(patients))); err != nil {
		return nil, err
	}

	return patients, nil
}

// AnonymizeAll recomputes pseudonym and encrypted fields for every record.
// Admin only. Re-running changes ciphertext bytes (fresh nonces) without
// changing what they decrypt to.
func (s *Service) AnonymizeAll(actor *auth.User) (int, error) {
	if !auth.IsAuthorized(actor, auth.RoleAdmin) {
		s.logger.Warn("anonymize sweep denied", "role", roleOf(actor))
		return 0, internal.ErrForbidden
	}

	patients, err := s.repo.GetAll()
	if err != nil {
		return 0, internal.NewInternalError("failed to load patients for anonymization", err)
	}

	for _, p := range patients {
		encName, err := s.cipher.Encrypt(p.Name)
		if err != nil {
			return 0, internal.NewInternalError("failed to encrypt patient name", err)
		}
		encContact, err := s.cipher.Encrypt(p.Contact)
		if err != nil {
			return 0, internal.NewInternalError("failed to encrypt patient contact", err)
		}
		p.PseudonymName = pseudonym.MaskPatientID(p.ID)
		p.PseudonymContact = pseudonym.MaskContact(p.Contact)
		p.EncryptedName = encName
		p.EncryptedContact = encContact
	}

	if err := s.repo.SaveAnonymized(patients); err != nil {
		s.logger.Error("anonymize sweep failed", "error", err)
		return 0, internal.NewInternalError("failed to anonymize patients", err)
	}

	if err := s.auditor.Record(actor, audit.ActionAnonymizeAll, fmt.Sprintf("anonymized %d records", len(patients))); err != nil {
		return 0, err
	}

	s.logger.Info("anonymize sweep complete", "records", len(patients), "actor_id", actor.ID)
	return len(patients), nil
}

// DecryptField reverses one encrypted value for an admin. Malformed input
// comes back as a descriptive placeholder, never an error.
func (s *Service) DecryptField(actor *auth.User, dto DecryptFieldDTO) (string, error) {
	if !auth.IsAuthorized(actor, auth.RoleAdmin) {
		s.logger.Warn("decrypt field denied", "role", roleOf(actor))
		return "", internal.ErrForbidden
	}

	if err := dto.Validate(); err != nil {
		return "", err
	}

	value := s.cipher.DecryptField(dto.Ciphertext)

	if err := s.auditor.Record(actor, audit.ActionDecryptField, "encrypted field decrypted"); err != nil {
		return "", err
	}

	return value, nil
}

func roleOf(u *auth.User) string {
	if u == nil {
		return ""
	}
	return u.Role
}
