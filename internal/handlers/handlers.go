package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"clinic-records-server/internal/models"
	"clinic-records-server/internal/utils"
)

// AccountRepository is the credential store used by the auth handlers.
type AccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, fullName, email, password string) (*models.Account, error)
}

// PatientRepository is the patient store used by the patient handlers.
type PatientRepository interface {
	FindByPatientID(ctx context.Context, patientID string) (*models.Patient, error)
	Create(ctx context.Context, patient *models.Patient) error
	Update(ctx context.Context, patientID string, changes models.PatientChanges) (*models.Patient, error)
	ListAll(ctx context.Context) ([]models.Patient, error)
	Delete(ctx context.Context, patientID string) error
	FindMostRecentlyCreated(ctx context.Context) (*models.Patient, error)
	MaxSequence(ctx context.Context) (int, error)
}

// TokenIssuer signs access tokens for an account.
type TokenIssuer interface {
	Issue(accountID string) (string, error)
}

// Counters receives domain events for metrics.
type Counters interface {
	AccountRegistered()
	PatientCreated()
}

type noopCounters struct{}

func (noopCounters) AccountRegistered() {}
func (noopCounters) PatientCreated()    {}

// internalError logs the cause and sends the generic 500 envelope.
func internalError(c *gin.Context, log zerolog.Logger, err error, msg string) {
	_ = c.Error(err)
	log.Error().Err(err).Str("route", c.FullPath()).Msg(msg)
	utils.InternalServerError(c)
}
