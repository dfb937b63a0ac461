package model

// LoginRequest carries account credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// DoctorDetails is embedded in the login profile for doctor accounts.
type DoctorDetails struct {
	Category string `json:"category"`
	Photo    string `json:"photo,omitempty"`
	CV       string `json:"cv,omitempty"`
}

// Profile is the identity snapshot returned on login.
type Profile struct {
	FirstName     string         `json:"first_name"`
	LastName      string         `json:"last_name"`
	Email         string         `json:"email"`
	Photo         string         `json:"photo,omitempty"`
	Role          string         `json:"role"`
	DoctorDetails *DoctorDetails `json:"doctor_details,omitempty"`
}

// LoginResponse pairs the signed token with the profile snapshot.
type LoginResponse struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}
