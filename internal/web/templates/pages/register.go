package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/ofelia/internal/services/wizard"
	"github.com/mcoot/ofelia/internal/web/templates/layout"
)

// RegisterData holds data for one wizard step
type RegisterData struct {
	layout.PageData
	Token       string
	State       wizard.State
	Error       string
	FieldErrors map[string]string
}

// Register renders the form for the wizard's current step
func Register(data RegisterData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := layout.NewPrinter(w)
		esc := layout.Esc
		st := data.State

		heading := "Activate your bracelet"
		if st.Mode == wizard.ModeEdit {
			heading = "Edit your profile"
		}
		p.Rawf(`<h1>%s</h1><p class="bracelet-id">Bracelet %s</p>`, esc(heading), esc(string(st.ID)))

		if data.Error != "" {
			p.Rawf(`<p class="error wizard-error">%s</p>`, esc(data.Error))
		}

		p.Rawf(`<form id="wizard" class="step-%s" method="post" action="/register" enctype="multipart/form-data">`, esc(string(st.Step)))
		p.Raw(layout.CSRFField(data.CSRFToken))
		p.Rawf(`<input type="hidden" name="draft" value="%s">`, esc(data.Token))
		p.Rawf(`<input type="hidden" name="id" value="%s">`, esc(string(st.ID)))
		if st.Mode == wizard.ModeEdit {
			p.Raw(`<input type="hidden" name="edit" value="true">`)
		}

		switch st.Step {
		case wizard.StepAccount:
			accountStep(p, data)
		case wizard.StepPersonal:
			personalStep(p, data)
		case wizard.StepReview:
			reviewStep(p, data)
		}

		p.Raw(`</form>`)
		return p.Err()
	})

	return layout.Base(data.PageData, body)
}

func accountStep(p *layout.Printer, data RegisterData) {
	p.Raw(`<fieldset id="step-account"><legend>1. Account</legend>`)
	input(p, "username", "Username", "text", data.State.Account.Username, data.FieldErrors)
	p.Raw(`<label for="password">Password</label><input id="password" type="password" name="password">`)
	fieldError(p, data.FieldErrors, "password")
	p.Raw(`</fieldset>`)
	p.Raw(`<button type="submit" name="action" value="next">Next</button>`)
}

func personalStep(p *layout.Printer, data RegisterData) {
	prof := data.State.Profile
	p.Raw(`<fieldset id="step-personal"><legend>2. Personal information</legend>`)

	p.Raw(`<label for="photo">Photo</label>`)
	if prof.Photo != "" {
		p.Rawf(`<img id="photo-preview" src="%s" alt="Profile photo">`, layout.PhotoSrc(prof.Photo))
	}
	p.Raw(`<input id="photo" type="file" name="photo" accept="image/*">`)
	fieldError(p, data.FieldErrors, "photo")

	input(p, "firstName", "First name", "text", prof.FirstName, data.FieldErrors)
	input(p, "lastName", "Last name", "text", prof.LastName, data.FieldErrors)
	input(p, "contactName1", "Primary contact name", "text", prof.PrimaryContactName, data.FieldErrors)
	input(p, "phone", "Primary contact phone", "tel", prof.PrimaryPhone, data.FieldErrors)
	input(p, "contactName2", "Alternative contact name", "text", prof.SecondaryContactName, data.FieldErrors)
	input(p, "phone2", "Alternative contact phone", "tel", prof.SecondaryPhone, data.FieldErrors)
	input(p, "email", "Email", "email", prof.Email, data.FieldErrors)
	p.Rawf(`<label for="message">Emergency message</label><textarea id="message" name="message">%s</textarea>`, layout.Esc(prof.Message))
	p.Raw(`</fieldset>`)

	p.Raw(`<button type="submit" name="action" value="back">Back</button>`)
	p.Raw(`<button type="submit" name="action" value="next">Next</button>`)
}

func reviewStep(p *layout.Printer, data RegisterData) {
	prof := data.State.Profile
	esc := layout.Esc

	p.Raw(`<fieldset id="step-review"><legend>3. Review</legend><dl>`)
	if data.State.Mode == wizard.ModeCreate {
		p.Rawf(`<dt>Username</dt><dd class="review-username">%s</dd>`, esc(data.State.Account.Username))
	}
	p.Rawf(`<dt>Name</dt><dd class="review-name">%s %s</dd>`, esc(prof.FirstName), esc(prof.LastName))
	p.Rawf(`<dt>Primary contact</dt><dd class="review-contact1">%s %s</dd>`, esc(prof.PrimaryContactName), esc(prof.PrimaryPhone))
	if prof.SecondaryPhone != "" || prof.SecondaryContactName != "" {
		p.Rawf(`<dt>Alternative contact</dt><dd class="review-contact2">%s %s</dd>`, esc(prof.SecondaryContactName), esc(prof.SecondaryPhone))
	}
	if prof.Email != "" {
		p.Rawf(`<dt>Email</dt><dd class="review-email">%s</dd>`, esc(prof.Email))
	}
	if prof.Message != "" {
		p.Rawf(`<dt>Message</dt><dd class="review-message">%s</dd>`, esc(prof.Message))
	}
	p.Raw(`</dl>`)
	if prof.Photo != "" {
		p.Rawf(`<img id="photo-preview" src="%s" alt="Profile photo">`, layout.PhotoSrc(prof.Photo))
	}
	p.Raw(`</fieldset>`)

	p.Raw(`<button type="submit" name="action" value="back">Back</button>`)
	p.Rawf(`<button type="submit" name="action" value="next" class="submit">%s</button>`, esc(data.State.SubmitLabel()))
}

func input(p *layout.Printer, name, label, kind, value string, errs map[string]string) {
	esc := layout.Esc
	p.Rawf(`<label for="%s">%s</label><input id="%s" type="%s" name="%s" value="%s">`,
		esc(name), esc(label), esc(name), esc(kind), esc(name), esc(value))
	fieldError(p, errs, name)
}
