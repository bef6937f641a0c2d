package wizard

import (
	"context"
	"errors"
	"strings"

	"github.com/mcoot/ofelia/internal/model"
)

// UsernameChecker reports whether a username already has a credential
type UsernameChecker interface {
	UsernameTaken(ctx context.Context, username string) (bool, error)
}

// Validator is one named gate check. Check returns a *model.FieldError when
// the state fails the check, or another error if the check could not run.
type Validator struct {
	Name  string
	Check func(ctx context.Context, st State) error
}

// required fails when the value is empty or only whitespace
func required(field, message string, value func(State) string) Validator {
	return check(field, message, func(st State) bool { return strings.TrimSpace(value(st)) != "" })
}

// nonEmpty fails only on the empty string; whitespace is a valid value
func nonEmpty(field, message string, value func(State) string) Validator {
	return check(field, message, func(st State) bool { return value(st) != "" })
}

func check(field, message string, ok func(State) bool) Validator {
	return Validator{
		Name: field,
		Check: func(_ context.Context, st State) error {
			if !ok(st) {
				return model.MissingField(field, message)
			}
			return nil
		},
	}
}

// accountValidators gate Account -> PersonalInfo. The availability check only
// runs once both fields are present.
func accountValidators(users UsernameChecker) []Validator {
	return []Validator{
		required("username", "Please choose a username", func(s State) string { return s.Account.Username }),
		nonEmpty("password", "Please choose a password", func(s State) string { return s.Account.Password }),
		{
			Name: "username_available",
			Check: func(ctx context.Context, st State) error {
				if st.Account.Username == "" || st.Account.Password == "" {
					return nil
				}
				taken, err := users.UsernameTaken(ctx, st.Account.Username)
				if err != nil {
					return err
				}
				if taken {
					return &model.FieldError{
						Field:   "username",
						Message: "That username is already taken, please choose another",
						Err:     model.ErrDuplicateUsername,
					}
				}
				return nil
			},
		},
	}
}

// personalValidators gate PersonalInfo -> Review
func personalValidators() []Validator {
	return []Validator{
		{
			Name: "photo",
			Check: func(_ context.Context, st State) error {
				if st.Profile.Photo == "" {
					return model.MissingField("photo", "Please upload a profile photo")
				}
				return nil
			},
		},
		required("firstName", "Please enter a first name", func(s State) string { return s.Profile.FirstName }),
		required("lastName", "Please enter a last name", func(s State) string { return s.Profile.LastName }),
		required("phone", "Please enter the primary contact phone", func(s State) string { return s.Profile.PrimaryPhone }),
		required("contactName1", "Please enter the primary contact name", func(s State) string { return s.Profile.PrimaryContactName }),
	}
}

// runValidators runs every validator in order and gathers field failures
func runValidators(ctx context.Context, st State, validators []Validator) error {
	var failed []*model.FieldError
	for _, v := range validators {
		err := v.Check(ctx, st)
		if err == nil {
			continue
		}
		var fieldErr *model.FieldError
		if !errors.As(err, &fieldErr) {
			return err
		}
		failed = append(failed, fieldErr)
	}
	if len(failed) > 0 {
		return &model.ValidationError{Fields: failed}
	}
	return nil
}
