package presenter

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/storage"
)

// Config holds the wording used on profile pages
type Config struct {
	Brand          string
	PrimaryLabel   string
	SecondaryLabel string
}

// DefaultConfig returns default presenter configuration
func DefaultConfig() Config {
	return Config{
		Brand:          "Ofelia",
		PrimaryLabel:   "Primary contact",
		SecondaryLabel: "Alternative contact",
	}
}

// ContactCard is one emergency contact with call and chat actions
type ContactCard struct {
	Name    string
	Phone   string
	CallURL string
	ChatURL string
}

// EmailAction is a prepared alert email
type EmailAction struct {
	Address string
	URL     string
}

// View is everything a profile page shows
type View struct {
	ID          model.BraceletID
	DisplayName string
	Photo       string
	Message     string
	Cards       []ContactCard
	Email       *EmailAction
	CanEdit     bool
	EditURL     string
}

// ShowMessage reports whether the emergency message block is rendered at all
func (v *View) ShowMessage() bool {
	return v.Message != ""
}

// Service builds read-only profile views
type Service struct {
	storage storage.Store
	cfg     Config
}

// New creates a new presenter Service
func New(storage storage.Store, cfg Config) *Service {
	defaults := DefaultConfig()
	if cfg.Brand == "" {
		cfg.Brand = defaults.Brand
	}
	if cfg.PrimaryLabel == "" {
		cfg.PrimaryLabel = defaults.PrimaryLabel
	}
	if cfg.SecondaryLabel == "" {
		cfg.SecondaryLabel = defaults.SecondaryLabel
	}
	return &Service{storage: storage, cfg: cfg}
}

// Present loads the profile for id and assembles its view. viewer is the
// bracelet the current session is logged in as, or "".
// A missing id yields model.ErrMissingContextID and an id with no record
// yields model.ErrOrphanProfile.
func (s *Service) Present(ctx context.Context, id, viewer model.BraceletID) (*View, error) {
	if id == "" {
		return nil, model.ErrMissingContextID
	}

	profile, err := s.storage.GetProfile(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrProfileNotFound) {
			return nil, model.ErrOrphanProfile
		}
		return nil, err
	}

	return s.Build(id, profile, viewer), nil
}

// Build assembles the view for an already loaded profile
func (s *Service) Build(id model.BraceletID, p *model.Profile, viewer model.BraceletID) *View {
	view := &View{
		ID:          id,
		DisplayName: p.DisplayName(),
		Photo:       p.Photo,
		Message:     p.Message,
		Cards:       []ContactCard{},
	}

	if p.PrimaryPhone != "" {
		view.Cards = append(view.Cards, s.card(p.PrimaryContactName, p.PrimaryPhone, s.cfg.PrimaryLabel, p.FirstName))
	}
	if p.SecondaryPhone != "" {
		view.Cards = append(view.Cards, s.card(p.SecondaryContactName, p.SecondaryPhone, s.cfg.SecondaryLabel, p.FirstName))
	}

	if p.Email != "" {
		view.Email = &EmailAction{
			Address: p.Email,
			URL: "mailto:" + p.Email +
				"?subject=" + escape(fmt.Sprintf("%s alert: %s", s.cfg.Brand, p.FirstName)) +
				"&body=" + escape(fmt.Sprintf("Hi, I scanned %s's bracelet.", p.FirstName)),
		}
	}

	if viewer != "" && viewer == id {
		view.CanEdit = true
		view.EditURL = model.EditPath(id)
	}

	return view
}

func (s *Service) card(name, phone, label, firstName string) ContactCard {
	if name == "" {
		name = label
	}
	text := fmt.Sprintf("Hi, I found %s and scanned their %s bracelet.", firstName, s.cfg.Brand)
	return ContactCard{
		Name:    name,
		Phone:   phone,
		CallURL: "tel:" + phone,
		ChatURL: "https://wa.me/" + digits(phone) + "?text=" + escape(text),
	}
}

// digits strips everything but 0-9 from a phone number
func digits(phone string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && unicode.IsDigit(r) {
			return r
		}
		return -1
	}, phone)
}

// escape encodes a query value with %20 for spaces, which mail and chat
// clients handle more reliably than +
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
