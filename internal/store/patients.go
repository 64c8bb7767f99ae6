package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"clinic-records-server/internal/models"
	"clinic-records-server/internal/patientid"
)

// Patients is the patient record store.
type Patients struct {
	DB *gorm.DB
}

// NewPatients creates a new Patients store.
func NewPatients(db *gorm.DB) *Patients {
	return &Patients{DB: db}
}

// FindByPatientID returns the record whose identifier equals patientID byte
// for byte. A column collation that folds case does not widen the match.
func (s *Patients) FindByPatientID(ctx context.Context, patientID string) (*models.Patient, error) {
	var candidates []models.Patient
	if err := s.DB.WithContext(ctx).Where("patient_id = ?", patientID).Find(&candidates).Error; err != nil {
		return nil, translate(err, "find patient")
	}
	for i := range candidates {
		if candidates[i].PatientID == patientID {
			return &candidates[i], nil
		}
	}
	return nil, ErrNotFound
}

// Create inserts patient, failing with ErrDuplicateKey when the patient
// identifier is already in use.
func (s *Patients) Create(ctx context.Context, patient *models.Patient) error {
	_, err := s.FindByPatientID(ctx, patient.PatientID)
	switch {
	case err == nil:
		return ErrDuplicateKey
	case !errors.Is(err, ErrNotFound):
		return err
	}
	return translate(s.DB.WithContext(ctx).Create(patient).Error, "create patient")
}

// Update merges changes into the stored record and returns the result.
func (s *Patients) Update(ctx context.Context, patientID string, changes models.PatientChanges) (*models.Patient, error) {
	patient, err := s.FindByPatientID(ctx, patientID)
	if err != nil {
		return nil, err
	}
	changes.Apply(patient)
	if err := s.DB.WithContext(ctx).Save(patient).Error; err != nil {
		return nil, translate(err, "update patient")
	}
	return patient, nil
}

// ListAll returns every record, most recent visit first.
func (s *Patients) ListAll(ctx context.Context) ([]models.Patient, error) {
	patients := []models.Patient{}
	if err := s.DB.WithContext(ctx).Order("visit_date desc").Order("created_at desc").Find(&patients).Error; err != nil {
		return nil, translate(err, "list patients")
	}
	return patients, nil
}

// Delete removes the record permanently.
func (s *Patients) Delete(ctx context.Context, patientID string) error {
	patient, err := s.FindByPatientID(ctx, patientID)
	if err != nil {
		return err
	}
	res := s.DB.WithContext(ctx).Delete(&models.Patient{}, "id = ?", patient.ID)
	if res.Error != nil {
		return translate(res.Error, "delete patient")
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// FindMostRecentlyCreated returns the newest record by creation time. Records
// created in the same instant are ordered by identifier, so PAT010 beats PAT009.
func (s *Patients) FindMostRecentlyCreated(ctx context.Context) (*models.Patient, error) {
	var patient models.Patient
	err := s.DB.WithContext(ctx).
		Order("created_at desc").
		Order("LENGTH(patient_id) desc").
		Order("patient_id desc").
		Take(&patient).Error
	if err != nil {
		return nil, translate(err, "find latest patient")
	}
	return &patient, nil
}

// MaxSequence returns the highest PATnnn sequence number among stored
// identifiers, or zero when none follows the convention.
func (s *Patients) MaxSequence(ctx context.Context) (int, error) {
	var ids []string
	err := s.DB.WithContext(ctx).
		Model(&models.Patient{}).
		Where("patient_id LIKE ?", patientid.Prefix+"%").
		Pluck("patient_id", &ids).Error
	if err != nil {
		return 0, translate(err, "scan patient ids")
	}

	highest := 0
	for _, id := range ids {
		if n, err := patientid.Parse(id); err == nil && n > highest {
			highest = n
		}
	}
	return highest, nil
}

// Count returns the number of stored records.
func (s *Patients) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(&models.Patient{}).Count(&n).Error; err != nil {
		return 0, translate(err, "count patients")
	}
	return n, nil
}
