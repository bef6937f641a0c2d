package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output formats accepted by --output
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == FormatJSON {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == FormatJSON {
		o.printJSON(map[string]string{"message": msg})
	} else {
		_, _ = fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Resolution:
		o.printf("Bracelet: %s\nOutcome: %s\nLocation: %s\n", v.ID, v.Outcome, v.Location)
	case AuthResult:
		o.printf("Logged in as owner of %s\nToken: %s\n", v.BraceletID, v.SessionToken)
	case Profile:
		o.printProfile(v)
	case Committed:
		o.printf("Saved %s (%s)\nProfile: %s\n", v.ID, v.Mode, v.ProfileURL)
	case HealthResult:
		o.printf("Status: %s\n", v.Status)
	default:
		o.printJSON(data)
	}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

func (o *Output) printProfile(p Profile) {
	o.printf("%s (%s)\n", p.DisplayName, p.ID)
	if p.Message != "" {
		o.printf("Message: %s\n", p.Message)
	}
	for _, c := range p.Contacts {
		o.printf("  %s: %s\n", c.Name, c.Phone)
	}
	if p.Email != nil {
		o.printf("Email: %s\n", p.Email.Address)
	}
	if p.CanEdit {
		o.printf("Edit: %s\n", p.EditURL)
	}
}

// Resolution is where a bracelet ID leads
type Resolution struct {
	ID       string `json:"id"`
	Outcome  string `json:"outcome"`
	Location string `json:"location"`
}

// AuthResult is the session issued at login
type AuthResult struct {
	BraceletID   string `json:"bracelet_id"`
	SessionToken string `json:"session_token"`
}

// Contact is one emergency contact
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

// Committed is returned after a registration or edit is stored
type Committed struct {
	ID         string `json:"id"`
	Mode       string `json:"mode"`
	ProfileURL string `json:"profile_url"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}
