package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment methods offered by the intake form. The server stores whatever the
// client sends.
const (
	PaymentCash    = "Cash"
	PaymentGpay    = "Gpay"
	PaymentPhonePe = "PhonePe"
)

// Patient is one patient's visit and billing record, keyed by the
// human-readable PatientID (e.g. PAT001).
type Patient struct {
	BaseModel
	PatientID       string                      `gorm:"uniqueIndex;size:32;not null" json:"patientId"`
	Name            string                      `gorm:"size:255;not null" json:"name"`
	Diagnosis       string                      `gorm:"type:text" json:"diagnosis"`
	Medications     datatypes.JSONSlice[string] `json:"medications"`
	VisitDate       time.Time                   `gorm:"index" json:"visitDate"`
	PhoneNumber     string                      `gorm:"size:32" json:"phoneNumber"`
	PaymentMethod   string                      `gorm:"size:32" json:"paymentMethod"`
	TotalAmount     string                      `gorm:"size:32" json:"totalAmount"`
	Doctor          string                      `gorm:"size:255" json:"doctor"`
	NextAppointment string                      `gorm:"size:64" json:"nextAppointment"`
	Notes           string                      `gorm:"type:text" json:"notes"`
}

// PatientPublic is the record shape returned by point lookups.
type PatientPublic struct {
	PatientID       string    `json:"patientId"`
	Name            string    `json:"name"`
	Diagnosis       string    `json:"diagnosis"`
	Medications     []string  `json:"medications"`
	VisitDate       time.Time `json:"visitDate"`
	PhoneNumber     string    `json:"phoneNumber"`
	PaymentMethod   string    `json:"paymentMethod"`
	TotalAmount     string    `json:"totalAmount"`
	Doctor          string    `json:"doctor"`
	NextAppointment string    `json:"nextAppointment"`
	Notes           string    `json:"notes"`
}

// BeforeCreate assigns the id and fills the defaults for medications and visit date.
func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if err := p.BaseModel.BeforeCreate(tx); err != nil {
		return err
	}
	if p.Medications == nil {
		p.Medications = datatypes.JSONSlice[string]{}
	}
	if p.VisitDate.IsZero() {
		p.VisitDate = time.Now()
	}
	return nil
}

// Public returns the client-facing fields of the record.
func (p *Patient) Public() PatientPublic {
	meds := []string(p.Medications)
	if meds == nil {
		meds = []string{}
	}
	return PatientPublic{
		PatientID:       p.PatientID,
		Name:            p.Name,
		Diagnosis:       p.Diagnosis,
		Medications:     meds,
		VisitDate:       p.VisitDate,
		PhoneNumber:     p.PhoneNumber,
		PaymentMethod:   p.PaymentMethod,
		TotalAmount:     p.TotalAmount,
		Doctor:          p.Doctor,
		NextAppointment: p.NextAppointment,
		Notes:           p.Notes,
	}
}

// PatientChanges is a partial update. Empty strings and a zero VisitDate mean
// "leave unchanged"; a nil Medications slice means the same, while a non-nil
// empty slice clears the list.
type PatientChanges struct {
	Name            string
	Diagnosis       string
	Medications     []string
	VisitDate       time.Time
	PhoneNumber     string
	PaymentMethod   string
	TotalAmount     string
	Doctor          string
	NextAppointment string
	Notes           string
}

// IsEmpty reports whether the changes would leave a record untouched.
func (c PatientChanges) IsEmpty() bool {
	return c.Name == "" &&
		c.Diagnosis == "" &&
		c.Medications == nil &&
		c.VisitDate.IsZero() &&
		c.PhoneNumber == "" &&
		c.PaymentMethod == "" &&
		c.TotalAmount == "" &&
		c.Doctor == "" &&
		c.NextAppointment == "" &&
		c.Notes == ""
}

// Apply merges the supplied fields into p. PatientID is never touched.
func (c PatientChanges) Apply(p *Patient) {
	if c.Name != "" {
		p.Name = c.Name
	}
	if c.Diagnosis != "" {
		p.Diagnosis = c.Diagnosis
	}
	if c.Medications != nil {
		p.Medications = append(datatypes.JSONSlice[string]{}, c.Medications...)
	}
	if !c.VisitDate.IsZero() {
		p.VisitDate = c.VisitDate
	}
	if c.PhoneNumber != "" {
		p.PhoneNumber = c.PhoneNumber
	}
	if c.PaymentMethod != "" {
		p.PaymentMethod = c.PaymentMethod
	}
	if c.TotalAmount != "" {
		p.TotalAmount = c.TotalAmount
	}
	if c.Doctor != "" {
		p.Doctor = c.Doctor
	}
	if c.NextAppointment != "" {
		p.NextAppointment = c.NextAppointment
	}
	if c.Notes != "" {
		p.Notes = c.Notes
	}
}
