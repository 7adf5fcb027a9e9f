package store

import (
	"context"

	"patient-booking-api/internal/model"
)

func (s *Store) ListAvailableSlots(ctx context.Context) ([]model.Slot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, site_id, start_time, end_time, doctor_specialization_id, claimed
		 FROM slots
		 WHERE claimed = false
		 ORDER BY start_time`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var sl model.Slot
		if err := rows.Scan(
			&sl.ID, &sl.SiteID, &sl.StartTime, &sl.EndTime,
			&sl.DoctorSpecializationID, &sl.Claimed,
		); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}

// ClaimSlot atomically flips the slot's claimed flag and records the claim.
// The conditional UPDATE is the sole arbiter of the race: of N concurrent
// calls on one slot, exactly one sees a row affected. Zero rows means the
// slot is missing or already claimed — ErrSlotUnavailable either way, with
// nothing written. The flag flip and the claim insert commit together, so
// the two can never disagree.
func (s *Store) ClaimSlot(ctx context.Context, patientID, slotID int64) (*model.Claim, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		`UPDATE slots SET claimed = true WHERE id = $1 AND claimed = false`, slotID,
	)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrSlotUnavailable
	}

	c := &model.Claim{PatientID: patientID, SlotID: slotID}
	err = tx.QueryRow(ctx,
		`INSERT INTO claims (patient_id, slot_id) VALUES ($1,$2) RETURNING id`,
		patientID, slotID,
	).Scan(&c.ID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// ListClaimedSlots returns the slots a patient has claimed, joined through
// the claims table.
func (s *Store) ListClaimedSlots(ctx context.Context, patientID int64) ([]model.Slot, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sl.id, sl.site_id, sl.start_time, sl.end_time, sl.doctor_specialization_id, sl.claimed
		 FROM slots sl
		 JOIN claims c ON c.slot_id = sl.id
		 WHERE c.patient_id = $1
		 ORDER BY sl.start_time`, patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Slot
	for rows.Next() {
		var sl model.Slot
		if err := rows.Scan(
			&sl.ID, &sl.SiteID, &sl.StartTime, &sl.EndTime,
			&sl.DoctorSpecializationID, &sl.Claimed,
		); err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
	return out, rows.Err()
}
