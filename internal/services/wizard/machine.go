package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidTransition is returned for an event that does not apply to the current step
var ErrInvalidTransition = errors.New("invalid wizard transition")

// Machine applies events to wizard states. Apart from the username
// availability lookup it has no side effects.
type Machine struct {
	account  []Validator
	personal []Validator
}

// NewMachine creates a Machine that checks usernames against users
func NewMachine(users UsernameChecker) *Machine {
	return &Machine{
		account:  accountValidators(users),
		personal: personalValidators(),
	}
}

// Transition returns the state after ev. On a failed gate it returns the input
// state (with any edits already applied by earlier events) and the error.
func (m *Machine) Transition(ctx context.Context, st State, ev Event) (State, error) {
	if st.Step.Terminal() {
		return st, fmt.Errorf("%w: wizard already %s", ErrInvalidTransition, st.Step)
	}

	switch e := ev.(type) {
	case EditAccount:
		if st.Mode != ModeCreate || st.Step != StepAccount {
			return st, fmt.Errorf("%w: account is fixed at step %s", ErrInvalidTransition, st.Step)
		}
		st.Account = Account{
			Username: strings.TrimSpace(e.Username),
			Password: e.Password,
		}
		return st, nil

	case EditPersonal:
		if st.Step != StepPersonal {
			return st, fmt.Errorf("%w: personal info is not editable at step %s", ErrInvalidTransition, st.Step)
		}
		photo := st.Profile.Photo
		if e.Photo != "" {
			photo = e.Photo
		}
		st.Profile.FirstName = e.FirstName
		st.Profile.LastName = e.LastName
		st.Profile.PrimaryContactName = e.PrimaryContactName
		st.Profile.PrimaryPhone = e.PrimaryPhone
		st.Profile.SecondaryContactName = e.SecondaryContactName
		st.Profile.SecondaryPhone = e.SecondaryPhone
		st.Profile.Email = e.Email
		st.Profile.Message = e.Message
		st.Profile.Photo = photo
		return st, nil

	case Next:
		return m.next(ctx, st)

	case Back:
		return back(st)
	}

	return st, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

// Apply runs events in order, stopping at the first error
func (m *Machine) Apply(ctx context.Context, st State, events ...Event) (State, error) {
	for _, ev := range events {
		var err error
		st, err = m.Transition(ctx, st, ev)
		if err != nil {
			return st, err
		}
	}
	return st, nil
}

func (m *Machine) next(ctx context.Context, st State) (State, error) {
	switch st.Step {
	case StepAccount:
		if err := runValidators(ctx, st, m.account); err != nil {
			return st, err
		}
		st.Step = StepPersonal
	case StepPersonal:
		if err := runValidators(ctx, st, m.personal); err != nil {
			return st, err
		}
		st.Step = StepReview
	case StepReview:
		st.Step = StepSubmitted
	}
	return st, nil
}

func back(st State) (State, error) {
	switch st.Step {
	case StepAccount:
		return st, fmt.Errorf("%w: no step before account", ErrInvalidTransition)
	case StepPersonal:
		if st.Mode == ModeEdit {
			st.Step = StepExited
		} else {
			st.Step = StepAccount
		}
	case StepReview:
		st.Step = StepPersonal
	}
	return st, nil
}
