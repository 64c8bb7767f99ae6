package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"clinic-records-server/internal/models"
	"clinic-records-server/internal/patientid"
	"clinic-records-server/internal/store"
	"clinic-records-server/internal/utils"
)

// PatientHandler handles patient record requests.
type PatientHandler struct {
	Patients PatientRepository
	Metrics  Counters
	Log      zerolog.Logger
	now      func() time.Time
}

// NewPatientHandler creates a new PatientHandler. counters may be nil.
func NewPatientHandler(patients PatientRepository, counters Counters, log zerolog.Logger) *PatientHandler {
	if counters == nil {
		counters = noopCounters{}
	}
	return &PatientHandler{Patients: patients, Metrics: counters, Log: log, now: time.Now}
}

// AddPatientRequest represents the request body for creating a patient record.
type AddPatientRequest struct {
	PatientID       string   `json:"patientId" validate:"required" label:"Patient ID"`
	Name            string   `json:"name" validate:"required" label:"Name"`
	Diagnosis       string   `json:"diagnosis"`
	Medications     []string `json:"medications"`
	VisitDate       string   `json:"visitDate"`
	PhoneNumber     string   `json:"phoneNumber"`
	PaymentMethod   string   `json:"paymentMethod"`
	TotalAmount     string   `json:"totalAmount"`
	Doctor          string   `json:"doctor"`
	NextAppointment string   `json:"nextAppointment"`
	Notes           string   `json:"notes"`
}

// AddPatient handles POST /add-patient.
func (h *PatientHandler) AddPatient(c *gin.Context) {
	var req AddPatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	visitDate, err := parseVisitDate(req.VisitDate)
	if err != nil {
		utils.BadRequest(c, "Invalid visit date")
		return
	}
	if visitDate.IsZero() {
		visitDate = h.now()
	}

	meds := datatypes.JSONSlice[string]{}
	if req.Medications != nil {
		meds = append(meds, req.Medications...)
	}

	patient := models.Patient{
		PatientID:       req.PatientID,
		Name:            req.Name,
		Diagnosis:       req.Diagnosis,
		Medications:     meds,
		VisitDate:       visitDate,
		PhoneNumber:     req.PhoneNumber,
		PaymentMethod:   req.PaymentMethod,
		TotalAmount:     req.TotalAmount,
		Doctor:          req.Doctor,
		NextAppointment: req.NextAppointment,
		Notes:           req.Notes,
	}

	err = h.Patients.Create(c.Request.Context(), &patient)
	if errors.Is(err, store.ErrDuplicateKey) {
		utils.BadRequest(c, "Patient ID already exists")
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "create patient")
		return
	}

	h.Metrics.PatientCreated()
	utils.Created(c, "Patient added successfully", utils.Payload{"patient": patient})
}

// EditPatientRequest represents the request body for a partial update. Empty
// fields are left untouched; patientId in the body is ignored.
type EditPatientRequest struct {
	Name            string   `json:"name"`
	Diagnosis       string   `json:"diagnosis"`
	Medications     []string `json:"medications"`
	VisitDate       string   `json:"visitDate"`
	PhoneNumber     string   `json:"phoneNumber"`
	PaymentMethod   string   `json:"paymentMethod"`
	TotalAmount     string   `json:"totalAmount"`
	Doctor          string   `json:"doctor"`
	NextAppointment string   `json:"nextAppointment"`
	Notes           string   `json:"notes"`
}

func (r EditPatientRequest) changes() (models.PatientChanges, error) {
	visitDate, err := parseVisitDate(r.VisitDate)
	if err != nil {
		return models.PatientChanges{}, err
	}
	return models.PatientChanges{
		Name:            r.Name,
		Diagnosis:       r.Diagnosis,
		Medications:     r.Medications,
		VisitDate:       visitDate,
		PhoneNumber:     r.PhoneNumber,
		PaymentMethod:   r.PaymentMethod,
		TotalAmount:     r.TotalAmount,
		Doctor:          r.Doctor,
		NextAppointment: r.NextAppointment,
		Notes:           r.Notes,
	}, nil
}

// EditPatient handles PUT /edit-patient/:patientId.
func (h *PatientHandler) EditPatient(c *gin.Context) {
	patientID := c.Param("patientId")

	var req EditPatientRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	changes, err := req.changes()
	if err != nil {
		utils.BadRequest(c, "Invalid visit date")
		return
	}
	if changes.IsEmpty() {
		utils.BadRequest(c, "No changes provided")
		return
	}
	if changes.PhoneNumber != "" && changes.Name == "" {
		utils.BadRequest(c, "Name is required when updating the phone number")
		return
	}

	patient, err := h.Patients.Update(c.Request.Context(), patientID, changes)
	if errors.Is(err, store.ErrNotFound) {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "update patient")
		return
	}

	utils.Success(c, "Patient updated successfully", utils.Payload{"patient": patient})
}

// GetAllPatients handles GET /get-all-patients.
func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	patients, err := h.Patients.ListAll(c.Request.Context())
	if err != nil {
		internalError(c, h.Log, err, "list patients")
		return
	}
	utils.Success(c, "All patients retrieved successfully", utils.Payload{"patients": patients})
}

// GetPatient handles GET /get-patient/:patientId.
func (h *PatientHandler) GetPatient(c *gin.Context) {
	patient, err := h.Patients.FindByPatientID(c.Request.Context(), c.Param("patientId"))
	if errors.Is(err, store.ErrNotFound) {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "find patient")
		return
	}
	utils.Success(c, "Patient details retrieved successfully", utils.Payload{"patient": patient.Public()})
}

// DeletePatient handles DELETE /delete-patient/:patientId.
func (h *PatientHandler) DeletePatient(c *gin.Context) {
	patientID := c.Param("patientId")

	err := h.Patients.Delete(c.Request.Context(), patientID)
	if errors.Is(err, store.ErrNotFound) {
		utils.NotFound(c, "Patient not found")
		return
	}
	if err != nil {
		internalError(c, h.Log, err, "delete patient")
		return
	}

	h.Log.Info().Str("patient_id", patientID).Msg("patient deleted")
	utils.Success(c, "Patient deleted successfully", nil)
}

// GetLastPatientID handles GET /get-last-patient-id. lastPatientId is the
// identifier of the newest record; nextPatientId follows the highest PATnnn in
// use, so it is free even after deletions and out-of-order inserts.
func (h *PatientHandler) GetLastPatientID(c *gin.Context) {
	ctx := c.Request.Context()

	var last *string
	patient, err := h.Patients.FindMostRecentlyCreated(ctx)
	switch {
	case err == nil:
		last = &patient.PatientID
	case errors.Is(err, store.ErrNotFound):
	default:
		internalError(c, h.Log, err, "find latest patient")
		return
	}

	highest, err := h.Patients.MaxSequence(ctx)
	if err != nil {
		internalError(c, h.Log, err, "find highest patient sequence")
		return
	}

	var next *string
	if id, err := patientid.NextAfter(highest); err == nil {
		next = &id
	} else {
		h.Log.Warn().Err(err).Int("sequence", highest).Msg("cannot derive next patient id")
	}

	utils.Success(c, "Last patient ID retrieved successfully", utils.Payload{
		"lastPatientId": last,
		"nextPatientId": next,
	})
}

var visitDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

// parseVisitDate accepts RFC 3339 timestamps and plain dates. An empty string
// yields the zero time.
func parseVisitDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range visitDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized visit date %q", s)
}
