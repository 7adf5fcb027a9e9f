package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"patient-booking-api/internal/model"
)

const uniqueViolation = "23505"

// CreatePatient inserts the patient and fills in the store-generated id.
// A duplicate email surfaces as ErrEmailTaken; other storage failures pass
// through untranslated.
func (s *Store) CreatePatient(ctx context.Context, p *model.Patient) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO patients (first_name, last_name, email, password_hash)
		 VALUES ($1,$2,$3,$4)
		 RETURNING id, created_at`,
		p.FirstName, p.LastName, p.Email, p.PasswordHash,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (s *Store) PatientByEmail(ctx context.Context, email string) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, password_hash, created_at
		 FROM patients WHERE email = $1`, email,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) PatientByID(ctx context.Context, id int64) (*model.Patient, error) {
	p := &model.Patient{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, first_name, last_name, email, password_hash, created_at
		 FROM patients WHERE id = $1`, id,
	).Scan(&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.PasswordHash, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
