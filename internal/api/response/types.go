package response

import (
	"github.com/mcoot/ofelia/internal/services/auth"
	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/services/resolver"
)

// Resolution is the result of resolving a bracelet ID
type Resolution struct {
	ID       string `json:"id"`
	Outcome  string `json:"outcome"`
	Location string `json:"location"`
}

// ResolutionFromOutcome converts a resolver outcome
func ResolutionFromOutcome(o resolver.Outcome) Resolution {
	return Resolution{
		ID:       string(o.ID),
		Outcome:  string(o.Kind),
		Location: o.Location(),
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	BraceletID   string `json:"bracelet_id"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		BraceletID:   string(s.BraceletID),
		SessionToken: s.Token,
	}
}

// Contact is one contact card
type Contact struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	CallURL string `json:"call_url"`
	ChatURL string `json:"chat_url"`
}

// Email is the prepared alert email
type Email struct {
	Address string `json:"address"`
	URL     string `json:"url"`
}

// Profile is a presented profile
type Profile struct {
	ID          string    `json:"id"`
	DisplayName string    `json:"display_name"`
	Photo       string    `json:"photo"`
	Message     string    `json:"message,omitempty"`
	Contacts    []Contact `json:"contacts"`
	Email       *Email    `json:"email,omitempty"`
	CanEdit     bool      `json:"can_edit"`
	EditURL     string    `json:"edit_url,omitempty"`
}

// ProfileFromView converts a presenter view
func ProfileFromView(v *presenter.View) Profile {
	contacts := make([]Contact, len(v.Cards))
	for i, c := range v.Cards {
		contacts[i] = Contact{
			Name:    c.Name,
			Phone:   c.Phone,
			CallURL: c.CallURL,
			ChatURL: c.ChatURL,
		}
	}

	var email *Email
	if v.Email != nil {
		email = &Email{Address: v.Email.Address, URL: v.Email.URL}
	}

	return Profile{
		ID:          string(v.ID),
		DisplayName: v.DisplayName,
		Photo:       v.Photo,
		Message:     v.Message,
		Contacts:    contacts,
		Email:       email,
		CanEdit:     v.CanEdit,
		EditURL:     v.EditURL,
	}
}

// Committed is returned after a registration or update is stored
type Committed struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	ProfileURL string `json:"profile_url"`
}
