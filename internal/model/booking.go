package model

import (
	"time"

	"github.com/google/uuid"
)

// Booking is an appointment commitment for a single canonical slot.
// (DoctorID, AppointmentTime) is unique among stored bookings; a booking
// has no duration, the slot granularity is fixed at one hour.
type Booking struct {
	Base
	PatientID       uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID        uuid.UUID `json:"doctor_id" db:"doctor_id"`
	AppointmentTime time.Time `json:"appointment_time" db:"appointment_time"`
	Description     string    `json:"description" db:"description"`
}

type CreateBookingRequest struct {
	DoctorID        uuid.UUID `json:"doctor_id" binding:"required"`
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
	Description     string    `json:"description" binding:"max=1000"`
}

type UpdateBookingRequest struct {
	AppointmentTime time.Time `json:"appointment_time" binding:"required"`
	Description     *string   `json:"description"`
}
