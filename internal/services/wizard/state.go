package wizard

import (
	"github.com/mcoot/ofelia/internal/model"
)

// Step is a position in the registration wizard
type Step string

const (
	StepAccount   Step = "account"
	StepPersonal  Step = "personal"
	StepReview    Step = "review"
	StepSubmitted Step = "submitted"

	// StepExited means the owner backed out of an edit; nothing is written
	StepExited Step = "exited"
)

// Terminal reports whether no further events apply
func (s Step) Terminal() bool {
	return s == StepSubmitted || s == StepExited
}

// Mode selects between first registration and editing an existing profile
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// Account holds the credentials chosen on the first step of a create
type Account struct {
	Username string
	Password string
}

// State is the full wizard value. Transitions take a State and return a new one.
type State struct {
	ID      model.BraceletID
	Mode    Mode
	Step    Step
	Account Account
	Profile model.Profile
}

// NewCreate starts a first registration for id at the Account step
func NewCreate(id model.BraceletID) State {
	return State{
		ID:   id,
		Mode: ModeCreate,
		Step: StepAccount,
	}
}

// NewEdit starts an edit at PersonalInfo, pre-filled from the stored record
// including its photo
func NewEdit(id model.BraceletID, stored model.Profile) State {
	return State{
		ID:      id,
		Mode:    ModeEdit,
		Step:    StepPersonal,
		Profile: stored,
	}
}

// SubmitLabel is the caption of the final submit action
func (s State) SubmitLabel() string {
	if s.Mode == ModeEdit {
		return "Save changes"
	}
	return "Create profile"
}

// Event is an input to the wizard
type Event interface {
	isEvent()
}

// EditAccount replaces the Account fields. It never validates.
type EditAccount struct {
	Username string
	Password string
}

// EditPersonal replaces the PersonalInfo fields. It never validates.
// An empty Photo keeps whatever photo the draft already holds.
type EditPersonal struct {
	FirstName            string
	LastName             string
	PrimaryContactName   string
	PrimaryPhone         string
	SecondaryContactName string
	SecondaryPhone       string
	Email                string
	Message              string
	Photo                string
}

// Next asks to pass the current step's gate. At Review it submits.
type Next struct{}

// Back returns to the previous step
type Back struct{}

func (EditAccount) isEvent()  {}
func (EditPersonal) isEvent() {}
func (Next) isEvent()         {}
func (Back) isEvent()         {}

// PersonalFrom copies a profile into an EditPersonal event, keeping its photo
func PersonalFrom(p model.Profile) EditPersonal {
	return EditPersonal{
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		PrimaryContactName:   p.PrimaryContactName,
		PrimaryPhone:         p.PrimaryPhone,
		SecondaryContactName: p.SecondaryContactName,
		SecondaryPhone:       p.SecondaryPhone,
		Email:                p.Email,
		Message:              p.Message,
		Photo:                p.Photo,
	}
}
