package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
)

func (r *doctorRepository) CreateProfile(ctx context.Context, profile *model.DoctorProfile) error {
	query := `
		INSERT INTO doctor_profiles (account_id, category, photo, cv)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query,
		profile.AccountID,
		profile.Category,
		profile.Photo,
		profile.CV,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor profile: %w", err)
	}
	return nil
}

func (r *doctorRepository) GetProfile(ctx context.Context, accountID uuid.UUID) (*model.DoctorProfile, error) {
	query := `
		SELECT account_id, category, photo, cv
		FROM doctor_profiles
		WHERE account_id = $1
	`
	var profile model.DoctorProfile
	err := r.db.GetContext(ctx, &profile, query, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get doctor profile: %w", err)
	}
	return &profile, nil
}

func (r *doctorRepository) Exists(ctx context.Context, accountID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM doctor_profiles WHERE account_id = $1)`

	var exists bool
	err := r.db.GetContext(ctx, &exists, query, accountID)
	if err != nil {
		return false, fmt.Errorf("failed to check doctor existence: %w", err)
	}
	return exists, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	query := `
		SELECT p.account_id, a.first_name, a.last_name, p.category, p.photo, p.cv
		FROM doctor_profiles p
		JOIN accounts a ON a.id = p.account_id
		ORDER BY a.last_name, a.first_name
	`
	var doctors []*model.Doctor
	err := r.db.SelectContext(ctx, &doctors, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
