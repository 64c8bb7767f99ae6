package handlers

import (
	"context"
	"errors"
	"sync/atomic"

	"clinic-records-server/internal/models"
	"clinic-records-server/internal/store"
)

var (
	_ AccountRepository = (*mockAccounts)(nil)
	_ PatientRepository = (*mockPatients)(nil)
)

type mockAccounts struct {
	FindByEmailFunc func(ctx context.Context, email string) (*models.Account, error)
	FindByIDFunc    func(ctx context.Context, id string) (*models.Account, error)
	CreateFunc      func(ctx context.Context, fullName, email, password string) (*models.Account, error)

	CreateCallCount int32
}

func (m *mockAccounts) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockAccounts) FindByID(ctx context.Context, id string) (*models.Account, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockAccounts) Create(ctx context.Context, fullName, email, password string) (*models.Account, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, fullName, email, password)
	}
	return nil, errors.New("CreateFunc not implemented in mock")
}

type mockPatients struct {
	FindByPatientIDFunc         func(ctx context.Context, patientID string) (*models.Patient, error)
	CreateFunc                  func(ctx context.Context, patient *models.Patient) error
	UpdateFunc                  func(ctx context.Context, patientID string, changes models.PatientChanges) (*models.Patient, error)
	ListAllFunc                 func(ctx context.Context) ([]models.Patient, error)
	DeleteFunc                  func(ctx context.Context, patientID string) error
	FindMostRecentlyCreatedFunc func(ctx context.Context) (*models.Patient, error)
	MaxSequenceFunc             func(ctx context.Context) (int, error)

	UpdateCallCount int32
}

func (m *mockPatients) FindByPatientID(ctx context.Context, patientID string) (*models.Patient, error) {
	if m.FindByPatientIDFunc != nil {
		return m.FindByPatientIDFunc(ctx, patientID)
	}
	return nil, store.ErrNotFound
}

func (m *mockPatients) Create(ctx context.Context, patient *models.Patient) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, patient)
	}
	return nil
}

func (m *mockPatients) Update(ctx context.Context, patientID string, changes models.PatientChanges) (*models.Patient, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, patientID, changes)
	}
	return nil, store.ErrNotFound
}

func (m *mockPatients) ListAll(ctx context.Context) ([]models.Patient, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return []models.Patient{}, nil
}

func (m *mockPatients) Delete(ctx context.Context, patientID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, patientID)
	}
	return store.ErrNotFound
}

func (m *mockPatients) FindMostRecentlyCreated(ctx context.Context) (*models.Patient, error) {
	if m.FindMostRecentlyCreatedFunc != nil {
		return m.FindMostRecentlyCreatedFunc(ctx)
	}
	return nil, store.ErrNotFound
}

func (m *mockPatients) MaxSequence(ctx context.Context) (int, error) {
	if m.MaxSequenceFunc != nil {
		return m.MaxSequenceFunc(ctx)
	}
	return 0, nil
}

type stubTokens struct {
	token string
	err   error
}

func (s stubTokens) Issue(accountID string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.token + ":" + accountID, nil
}
