package request

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ProfileRequest carries the personal information of a profile.
// Photo is a base64 image data URI; on update an empty photo keeps the stored one.
type ProfileRequest struct {
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	PrimaryContactName   string `json:"primary_contact_name"`
	PrimaryPhone         string `json:"primary_phone"`
	SecondaryContactName string `json:"secondary_contact_name,omitempty"`
	SecondaryPhone       string `json:"secondary_phone,omitempty"`
	Email                string `json:"email,omitempty"`
	Message              string `json:"message,omitempty"`
	Photo                string `json:"photo,omitempty"`
}

// RegistrationRequest is the request body for activating a bracelet
type RegistrationRequest struct {
	ID       string         `json:"id"`
	Username string         `json:"username"`
	Password string         `json:"password"`
	Profile  ProfileRequest `json:"profile"`
}
