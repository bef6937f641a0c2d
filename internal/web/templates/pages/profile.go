package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/ofelia/internal/services/presenter"
	"github.com/mcoot/ofelia/internal/web/templates/layout"
)

// ProfileData holds data for a public profile page
type ProfileData struct {
	layout.PageData
	View *presenter.View
}

// Profile renders a bracelet owner's emergency profile
func Profile(data ProfileData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := layout.NewPrinter(w)
		esc := layout.Esc
		href := layout.Href
		v := data.View

		p.Raw(`<article class="profile">`)
		p.Rawf(`<div class="profile-img-container"><img id="profile-photo" src="%s" alt="%s"></div>`, layout.PhotoSrc(v.Photo), esc(v.DisplayName))
		if v.CanEdit {
			p.Rawf(`<a id="edit-profile" class="btn btn-outline" href="%s">Edit profile</a>`, href(v.EditURL))
		}
		p.Rawf(`<h1 id="profile-name">%s</h1>`, esc(v.DisplayName))

		if v.ShowMessage() {
			p.Rawf(`<section class="message"><h2>Emergency message</h2><p id="profile-message">%s</p></section>`, esc(v.Message))
		}

		p.Raw(`<section id="contact-actions">`)
		for _, card := range v.Cards {
			p.Raw(`<div class="contact-card">`)
			p.Rawf(`<p class="contact-name">%s</p>`, esc(card.Name))
			p.Raw(`<div class="contact-buttons">`)
			p.Rawf(`<a class="btn call" href="%s">Call</a>`, href(card.CallURL))
			p.Rawf(`<a class="btn chat" href="%s" target="_blank" rel="noopener">WhatsApp</a>`, href(card.ChatURL))
			p.Raw(`</div></div>`)
		}
		if v.Email != nil {
			p.Rawf(`<a class="btn email" href="%s">Send alert email</a>`, href(v.Email.URL))
		}
		p.Raw(`</section></article>`)
		return p.Err()
	})

	return layout.Base(data.PageData, body)
}
