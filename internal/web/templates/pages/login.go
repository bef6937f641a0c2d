package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/ofelia/internal/web/templates/layout"
)

// LoginData holds data for the login and search page
type LoginData struct {
	layout.PageData
	SearchID    string
	SearchError string
	Username    string
	Error       string
	FieldErrors map[string]string
}

// Login renders the bracelet search box and the owner login form
func Login(data LoginData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := layout.NewPrinter(w)
		esc := layout.Esc

		p.Raw(`<section class="search"><h1>Find a bracelet</h1>`)
		p.Raw(`<form id="search-form" method="post" action="/search">`)
		p.Raw(layout.CSRFField(data.CSRFToken))
		p.Rawf(`<label for="search-id">Bracelet ID</label><input id="search-id" name="id" value="%s" autocomplete="off">`, esc(data.SearchID))
		if data.SearchError != "" {
			p.Rawf(`<p class="error search-error">%s</p>`, esc(data.SearchError))
		}
		p.Raw(`<button type="submit">Search</button></form></section>`)

		p.Raw(`<section class="login"><h2>Owner login</h2>`)
		if data.Error != "" {
			p.Rawf(`<p class="error login-error">%s</p>`, esc(data.Error))
		}
		p.Raw(`<form id="login-form" method="post" action="/auth/login">`)
		p.Raw(layout.CSRFField(data.CSRFToken))
		p.Rawf(`<label for="username">Username</label><input id="username" name="username" value="%s">`, esc(data.Username))
		fieldError(p, data.FieldErrors, "username")
		p.Raw(`<label for="password">Password</label><input id="password" type="password" name="password">`)
		fieldError(p, data.FieldErrors, "password")
		p.Raw(`<button type="submit">Log in</button></form></section>`)
		return p.Err()
	})

	return layout.Base(data.PageData, body)
}

func fieldError(p *layout.Printer, errs map[string]string, field string) {
	if msg, ok := errs[field]; ok {
		p.Rawf(`<p class="field-error" data-field="%s">%s</p>`, layout.Esc(field), layout.Esc(msg))
	}
}
