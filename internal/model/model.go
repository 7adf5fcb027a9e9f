package model

import "time"

type Patient struct {
	ID           int64     `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Slot struct {
	ID                     int64     `json:"id"`
	SiteID                 int64     `json:"site_id"`
	StartTime              time.Time `json:"start_time"`
	EndTime                time.Time `json:"end_time"`
	DoctorSpecializationID int64     `json:"doctor_specialization_id"`
	Claimed                bool      `json:"claimed"`
}

// Claim records that a patient holds an exclusive reservation on a slot.
// At most one claim ever exists per slot.
type Claim struct {
	ID        int64 `json:"id"`
	PatientID int64 `json:"patient_id"`
	SlotID    int64 `json:"slot_id"`
}
