package model

import (
	"time"
)

// Role constants. Role is assigned at registration and never changes.
const (
	RolePatient = "Patient"
	RoleDoctor  = "Doctor"
)

// Account represents a registered identity. The password hash and
// activation state are owned by the credential store; scheduling code
// only ever references accounts by id.
type Account struct {
	Base
	Email                   string     `json:"email" db:"email"`
	FirstName               string     `json:"first_name" db:"first_name"`
	LastName                string     `json:"last_name" db:"last_name"`
	Role                    string     `json:"role" db:"role"`
	PasswordHash            string     `json:"-" db:"password_hash"`
	PrivateNumber           string     `json:"private_number" db:"private_number"`
	ActivationCode          string     `json:"-" db:"activation_code"`
	ActivationCodeExpiresAt *time.Time `json:"-" db:"activation_code_expires_at"`
	Photo                   []byte     `json:"-" db:"photo"`
}

// RegisterPatientRequest mirrors the public registration form.
type RegisterPatientRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	PrivateNumber string `json:"private_number" binding:"required"`
	Photo         string `json:"photo,omitempty"`
}

// RegisterDoctorRequest additionally carries the doctor profile fields.
type RegisterDoctorRequest struct {
	FirstName     string `json:"first_name" binding:"required"`
	LastName      string `json:"last_name" binding:"required"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required"`
	PrivateNumber string `json:"private_number" binding:"required"`
	Category      string `json:"category" binding:"required"`
	Photo         string `json:"photo,omitempty"`
	CV            string `json:"cv,omitempty"`
}
