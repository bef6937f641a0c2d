package model

// BraceletID identifies one physical bracelet and the profile linked to it.
// It arrives embedded in the QR code URL or typed into the search box.
type BraceletID string

// Profile is the emergency-contact record stored for a bracelet.
// The JSON field names are the persisted record format.
type Profile struct {
	FirstName            string `json:"firstName"`
	LastName             string `json:"lastName"`
	PrimaryContactName   string `json:"contactName1"`
	PrimaryPhone         string `json:"phone"`
	SecondaryContactName string `json:"contactName2"`
	SecondaryPhone       string `json:"phone2"`
	Email                string `json:"email"`
	Message              string `json:"message"`
	Photo                string `json:"photo"` // data URI
}

// DisplayName is the first and last name joined by one space, as entered
func (p *Profile) DisplayName() string {
	return p.FirstName + " " + p.LastName
}

// Credential grants edit ownership of one bracelet's profile.
// Passwords are kept as entered; the store is device-local by design.
type Credential struct {
	Password string     `json:"password"`
	ID       BraceletID `json:"id"`
}
