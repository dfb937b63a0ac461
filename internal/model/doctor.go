package model

import (
	"github.com/google/uuid"
)

// DoctorProfile is the one-to-one companion record of a doctor account.
// Photo and CV are opaque blobs, stored and served as-is.
type DoctorProfile struct {
	AccountID uuid.UUID `json:"account_id" db:"account_id"`
	Category  string    `json:"category" db:"category"`
	Photo     []byte    `json:"-" db:"photo"`
	CV        []byte    `json:"-" db:"cv"`
}

// Doctor is the joined account-plus-profile row the repository returns
// for listings.
type Doctor struct {
	AccountID uuid.UUID `db:"account_id"`
	FirstName string    `db:"first_name"`
	LastName  string    `db:"last_name"`
	Category  string    `db:"category"`
	Photo     []byte    `db:"photo"`
	CV        []byte    `db:"cv"`
}

// DoctorListing is the public view returned by GET /doctors.
type DoctorListing struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Category  string    `json:"category"`
	Photo     string    `json:"photo,omitempty"`
	CV        string    `json:"cv,omitempty"`
}
