package models

import "time"

// Member is the persisted registration record. Mobile is the natural key;
// MembershipNo is empty until assigned and immutable afterwards.
type Member struct {
	ID           int       `json:"id"`
	MembershipNo string    `json:"membership_no"`
	Name         string    `json:"name"`
	FatherName   string    `json:"father_name,omitempty"`
	Gender       string    `json:"gender,omitempty"`
	DOB          string    `json:"dob,omitempty"`
	Age          int       `json:"age"`
	BloodGroup   string    `json:"blood_group,omitempty"`
	Mobile       string    `json:"mobile"`
	Email        string    `json:"email,omitempty"`
	State        string    `json:"state,omitempty"`
	District     string    `json:"district"`
	LocalBody    string    `json:"local_body,omitempty"`
	Constituency string    `json:"constituency,omitempty"`
	Ward         string    `json:"ward,omitempty"`
	Address      string    `json:"address,omitempty"`
	VoterID      string    `json:"voter_id,omitempty"`
	Aadhaar      string    `json:"aadhaar,omitempty"`
	PhotoPath    string    `json:"photo_path,omitempty"`
	CardPath     string    `json:"card_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RegisterRequest carries the validated form fields from POST /register.
// Name, age, blood group, mobile and district are required; the rest are
// optional profile fields.
type RegisterRequest struct {
	Name         string `json:"name"`
	FatherName   string `json:"father_name"`
	Gender       string `json:"gender"`
	DOB          string `json:"dob"`
	Age          int    `json:"age"`
	BloodGroup   string `json:"blood_group"`
	Mobile       string `json:"mobile"`
	Email        string `json:"email"`
	State        string `json:"state"`
	District     string `json:"district"`
	LocalBody    string `json:"local_body"`
	Constituency string `json:"constituency"`
	Ward         string `json:"ward"`
	Address      string `json:"address"`
	VoterID      string `json:"voter_id"`
	Aadhaar      string `json:"aadhaar"`
}

// MemberSummary is the projection returned by the admin list.
type MemberSummary struct {
	ID           int    `json:"id"`
	MembershipNo string `json:"membership_no"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	District     string `json:"district"`
	Gender       string `json:"gender"`
	Age          int    `json:"age"`
}

// VerificationResult is the payload served to the QR code's target endpoint.
type VerificationResult struct {
	Status       string `json:"status"`
	Name         string `json:"name"`
	Mobile       string `json:"mobile"`
	District     string `json:"district"`
	MembershipNo string `json:"membership_no"`
}

// RegistrationEvent is broadcast on the admin live feed when a member is
// registered.
type RegistrationEvent struct {
	ID           int       `json:"id"`
	MembershipNo string    `json:"membership_no"`
	Name         string    `json:"name"`
	District     string    `json:"district"`
	RegisteredAt time.Time `json:"registered_at"`
}
