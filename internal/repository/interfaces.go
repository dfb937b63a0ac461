package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
)

// Sentinel errors repositories translate storage failures into. The
// booking ledger maps its uniqueness-constraint violation to
// ErrSlotTaken at the boundary; callers never see driver errors.
var (
	ErrNotFound       = errors.New("record not found")
	ErrSlotTaken      = errors.New("slot already booked")
	ErrDuplicateEmail = errors.New("email already registered")
)

type AccountRepository interface {
	Create(ctx context.Context, account *model.Account) error
	Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)
}

type DoctorRepository interface {
	CreateProfile(ctx context.Context, profile *model.DoctorProfile) error
	GetProfile(ctx context.Context, accountID uuid.UUID) (*model.DoctorProfile, error)
	Exists(ctx context.Context, accountID uuid.UUID) (bool, error)
	List(ctx context.Context) ([]*model.Doctor, error)
}

// BookingRepository is the booking ledger. TryCommit must behave as an
// atomic test-and-set on (doctor_id, appointment_time): of N concurrent
// commits for the same pair exactly one succeeds, the rest observe
// ErrSlotTaken.
type BookingRepository interface {
	TryCommit(ctx context.Context, booking *model.Booking) error
	Get(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	Update(ctx context.Context, booking *model.Booking) error
	Delete(ctx context.Context, id uuid.UUID) error
	ActiveBookingsFor(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error)
	ListForPatient(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error)
}

// OutboxRepository backs the transactional outbox. ClaimPendingEvents
// atomically moves a batch to PROCESSING so concurrent drainers never
// pick up the same event; claims abandoned by a crashed drainer become
// claimable again after a timeout, so delivery is at-least-once.
type OutboxRepository interface {
	Create(ctx context.Context, event *model.OutboxEvent) error
	ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
}
