package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking-api/internal/model"
	"github.com/jwalitptl/clinic-booking-api/internal/repository"
	"github.com/jwalitptl/clinic-booking-api/internal/service/schedule"
	apperrors "github.com/jwalitptl/clinic-booking-api/pkg/errors"
	"github.com/jwalitptl/clinic-booking-api/pkg/logger"
	"github.com/jwalitptl/clinic-booking-api/pkg/metrics"
)

// Emitter publishes domain events after successful mutations.
type Emitter interface {
	Emit(ctx context.Context, eventType string, payload interface{}) error
}

// Service is the single choke point for every slot-affecting mutation.
// It validates requested instants against the canonical template, then
// delegates the atomic test-and-set to the booking ledger.
type Service struct {
	bookings repository.BookingRepository
	doctors  repository.DoctorRepository
	events   Emitter
	logger   *logger.Logger
	metrics  *metrics.Metrics
}

func NewService(
	bookings repository.BookingRepository,
	doctors repository.DoctorRepository,
	events Emitter,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *Service {
	return &Service{
		bookings: bookings,
		doctors:  doctors,
		events:   events,
		logger:   logger,
		metrics:  metrics,
	}
}

func (s *Service) CreateBooking(ctx context.Context, patientID uuid.UUID, req *model.CreateBookingRequest) (*model.Booking, error) {
	if err := s.validateSlot(ctx, req.DoctorID, req.AppointmentTime); err != nil {
		return nil, err
	}

	// Instants are stored in UTC so the unique index and the free-slot
	// subtraction agree on one calendar regardless of client offsets.
	booking := &model.Booking{
		PatientID:       patientID,
		DoctorID:        req.DoctorID,
		AppointmentTime: req.AppointmentTime.UTC(),
		Description:     req.Description,
	}

	if err := s.bookings.TryCommit(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrSlotTaken) {
			s.metrics.SlotConflicts.Inc()
			s.metrics.BookingCommits.WithLabelValues("conflict").Inc()
			return nil, apperrors.Conflict("slot already booked")
		}
		s.metrics.BookingCommits.WithLabelValues("error").Inc()
		return nil, apperrors.Internal(err)
	}
	s.metrics.BookingCommits.WithLabelValues("ok").Inc()

	s.emit(ctx, model.EventBookingCreated, booking)
	return booking, nil
}

func (s *Service) UpdateBooking(ctx context.Context, callerID, bookingID uuid.UUID, req *model.UpdateBookingRequest) (*model.Booking, error) {
	booking, err := s.getOwned(ctx, callerID, bookingID)
	if err != nil {
		return nil, err
	}

	if err := s.validateSlot(ctx, booking.DoctorID, req.AppointmentTime); err != nil {
		return nil, err
	}

	booking.AppointmentTime = req.AppointmentTime.UTC()
	if req.Description != nil {
		booking.Description = *req.Description
	}

	if err := s.bookings.Update(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrSlotTaken):
			s.metrics.SlotConflicts.Inc()
			return nil, apperrors.Conflict("slot already booked")
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NotFound("booking", err)
		default:
			return nil, apperrors.Internal(err)
		}
	}

	s.emit(ctx, model.EventBookingUpdated, booking)
	return booking, nil
}

func (s *Service) DeleteBooking(ctx context.Context, callerID, bookingID uuid.UUID) error {
	booking, err := s.getOwned(ctx, callerID, bookingID)
	if err != nil {
		return err
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("booking", err)
		}
		return apperrors.Internal(err)
	}

	s.emit(ctx, model.EventBookingCancelled, booking)
	return nil
}

func (s *Service) ListBookings(ctx context.Context, patientID uuid.UUID) ([]*model.Booking, error) {
	bookings, err := s.bookings.ListForPatient(ctx, patientID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return bookings, nil
}

// FreeSlots subtracts the doctor's active bookings from the canonical
// template for the date. Every element of the result is committable at
// the moment it is computed; the next TryCommit still decides the race.
func (s *Service) FreeSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]time.Time, error) {
	if err := s.doctorExists(ctx, doctorID); err != nil {
		return nil, err
	}

	booked, err := s.bookings.ActiveBookingsFor(ctx, doctorID, date)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	taken := make(map[int64]struct{}, len(booked))
	for _, t := range booked {
		taken[t.Unix()] = struct{}{}
	}

	free := make([]time.Time, 0, schedule.SlotsPerDay)
	for _, slot := range schedule.SlotsFor(date) {
		if _, ok := taken[slot.Unix()]; !ok {
			free = append(free, slot)
		}
	}
	return free, nil
}

// validateSlot runs the first two conflict-guard steps: doctor
// existence, then canonical-template membership of the instant.
func (s *Service) validateSlot(ctx context.Context, doctorID uuid.UUID, instant time.Time) error {
	if err := s.doctorExists(ctx, doctorID); err != nil {
		return err
	}
	if !schedule.IsCanonical(instant) {
		return apperrors.InvalidSlot("requested time is not a bookable slot")
	}
	return nil
}

func (s *Service) doctorExists(ctx context.Context, doctorID uuid.UUID) error {
	exists, err := s.doctors.Exists(ctx, doctorID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if !exists {
		return apperrors.NotFound("doctor", nil)
	}
	return nil
}

func (s *Service) getOwned(ctx context.Context, callerID, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.Get(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFound("booking", err)
		}
		return nil, apperrors.Internal(err)
	}

	if booking.PatientID != callerID {
		s.metrics.OwnershipDenials.Inc()
		return nil, apperrors.Forbidden("booking belongs to another patient")
	}
	return booking, nil
}

func (s *Service) emit(ctx context.Context, eventType string, booking *model.Booking) {
	if err := s.events.Emit(ctx, eventType, booking); err != nil {
		s.logger.Error(err, "failed to emit booking event",
			"event_type", eventType,
			"booking_id", booking.ID.String())
	}
}
