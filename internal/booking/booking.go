// Package booking orchestrates registration, authentication and slot
// reservation on top of the store and the token/credential helpers.
package booking

import (
	"context"
	"errors"
	"time"

	"patient-booking-api/internal/auth"
	"patient-booking-api/internal/model"
	"patient-booking-api/internal/store"
)

var (
	// ErrBadCredentials is the single login failure: unknown email and
	// wrong password are indistinguishable on purpose.
	ErrBadCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means the token failed to decode or its subject
	// no longer resolves to a patient.
	ErrUnauthenticated = errors.New("unauthenticated")

	ErrEmailTaken      = store.ErrEmailTaken
	ErrSlotUnavailable = store.ErrSlotUnavailable
)

type Service struct {
	store    *store.Store
	secret   string
	tokenTTL time.Duration
}

func New(st *store.Store, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	return &Service{store: st, secret: secret, tokenTTL: tokenTTL}
}

// Register hashes the password and persists a new patient. Returns
// ErrEmailTaken if the email is already registered.
func (s *Service) Register(ctx context.Context, firstName, lastName, email, password string) (*model.Patient, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	p := &model.Patient{
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.CreatePatient(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Authenticate checks the credentials and issues an access token keyed on
// the patient's email.
func (s *Service) Authenticate(ctx context.Context, email, password string) (string, error) {
	p, err := s.store.PatientByEmail(ctx, email)
	if errors.Is(err, store.ErrPatientNotFound) {
		return "", ErrBadCredentials
	}
	if err != nil {
		return "", err
	}
	if !auth.CheckPassword(p.PasswordHash, password) {
		return "", ErrBadCredentials
	}
	return auth.MakeToken(p.Email, s.secret, s.tokenTTL)
}

// CurrentPatient resolves a token back to the patient it was issued for.
func (s *Service) CurrentPatient(ctx context.Context, token string) (*model.Patient, error) {
	email, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, ErrUnauthenticated
	}
	p, err := s.store.PatientByEmail(ctx, email)
	if errors.Is(err, store.ErrPatientNotFound) {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Book claims the slot for the token's patient. ErrSlotUnavailable from the
// store propagates unchanged — a lost race is a normal outcome, not a fault.
func (s *Service) Book(ctx context.Context, token string, slotID int64) (*model.Claim, error) {
	p, err := s.CurrentPatient(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.store.ClaimSlot(ctx, p.ID, slotID)
}

func (s *Service) AvailableSlots(ctx context.Context) ([]model.Slot, error) {
	return s.store.ListAvailableSlots(ctx)
}

func (s *Service) MyBookings(ctx context.Context, token string) ([]model.Slot, error) {
	p, err := s.CurrentPatient(ctx, token)
	if err != nil {
		return nil, err
	}
	return s.store.ListClaimedSlots(ctx, p.ID)
}
