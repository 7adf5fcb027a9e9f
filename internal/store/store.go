package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	// ErrEmailTaken is returned when a patient's email is already registered.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPatientNotFound is returned when no patient matches the lookup.
	ErrPatientNotFound = errors.New("patient not found")

	// ErrSlotUnavailable covers both a missing slot and an already claimed
	// one; the two are deliberately indistinguishable to callers.
	ErrSlotUnavailable = errors.New("slot not found or already claimed")
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}
