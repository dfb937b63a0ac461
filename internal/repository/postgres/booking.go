package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
)

// The bookings table carries a unique index on (doctor_id,
// appointment_time). Concurrent commits for the same pair race on that
// index, so exactly one insert wins and the rest surface ErrSlotTaken.

func (r *bookingRepository) TryCommit(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, patient_id, doctor_id, appointment_time, description,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	booking.ID = uuid.New()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		booking.ID,
		booking.PatientID,
		booking.DoctorID,
		booking.AppointmentTime,
		booking.Description,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to commit booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) Get(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_time, description,
			   created_at, updated_at
		FROM bookings
		WHERE id = $1
	`
	var booking model.Booking
	err := r.db.GetContext(ctx, &booking, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return &booking, nil
}

// Update rewrites the booking in place. Moving to an occupied slot
// trips the same unique index as TryCommit; moving onto the booking's
// current slot rewrites its own row and never self-conflicts.
func (r *bookingRepository) Update(ctx context.Context, booking *model.Booking) error {
	query := `
		UPDATE bookings
		SET appointment_time = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	booking.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		booking.AppointmentTime,
		booking.Description,
		booking.UpdatedAt,
		booking.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return repository.ErrSlotTaken
		}
		return fmt.Errorf("failed to update booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `
		DELETE FROM bookings
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func (r *bookingRepository) ActiveBookingsFor(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error) {
	query := `
		SELECT appointment_time
		FROM bookings
		WHERE doctor_id = $1
		AND appointment_time >= $2
		AND appointment_time < $3
		ORDER BY appointment_time ASC
	`
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var booked []time.Time
	err := r.db.SelectContext(ctx, &booked, query, doctorID, dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to get active bookings: %w", err)
	}
	return booked, nil
}

func (r *bookingRepository) ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error) {
	query := `
		SELECT id, patient_id, doctor_id, appointment_time, description,
			   created_at, updated_at
		FROM bookings
		WHERE patient_id = $1
		ORDER BY appointment_time ASC
	`
	var bookings []*model.Booking
	err := r.db.SelectContext(ctx, &bookings, query, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
