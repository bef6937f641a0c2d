package layout

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/mcoot/ofelia/internal/model"
)

// FlashMessage is a one-shot notice carried across a redirect
type FlashMessage struct {
	Type    string // success, error, info
	Message string
}

// PageData is shared by every page
type PageData struct {
	Title     string
	Brand     string
	Owner     model.BraceletID
	Flash     *FlashMessage
	CSRFToken string
}

// CSRFFieldName is the form field gorilla/csrf reads the token from
const CSRFFieldName = "gorilla.csrf.Token"

// Base wraps body in the document shell with navigation and flash notice
func Base(data PageData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		brand := data.Brand
		if brand == "" {
			brand = "Ofelia"
		}

		p := NewPrinter(w)
		p.Raw("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		p.Raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		p.Rawf("<title>%s | %s</title>\n</head>\n<body>\n", Esc(data.Title), Esc(brand))

		p.Rawf(`<nav class="nav"><a class="brand" href="/">%s</a>`, Esc(brand))
		if data.Owner != "" {
			p.Rawf(`<a class="nav-profile" href="%s">My profile</a>`, Href(model.ProfilePath(data.Owner)))
			p.Raw(`<form class="nav-logout" method="post" action="/auth/logout">`)
			p.Raw(CSRFField(data.CSRFToken))
			p.Raw(`<button type="submit">Log out</button></form>`)
		} else {
			p.Rawf(`<a class="nav-login" href="%s">Log in</a>`, Href(model.LoginPath()))
		}
		p.Raw("</nav>\n")

		if data.Flash != nil {
			p.Rawf(`<div class="flash flash-%s" role="alert">%s</div>`, Esc(data.Flash.Type), Esc(data.Flash.Message))
		}

		p.Raw("<main>\n")
		if p.Err() != nil {
			return p.Err()
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		p.Raw("\n</main>\n</body>\n</html>\n")
		return p.Err()
	})
}

// CSRFField renders the hidden token input, or nothing when protection is off
func CSRFField(token string) string {
	if token == "" {
		return ""
	}
	return fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`, CSRFFieldName, Esc(token))
}

// Esc escapes s for use in element text or a quoted attribute
func Esc(s string) string {
	return templ.EscapeString(s)
}

// Href sanitizes a link target with templ.URL and escapes it for a quoted
// attribute. Schemes other than http, https, mailto, tel and ftp are replaced.
func Href(u string) string {
	return Esc(string(templ.URL(u)))
}

// PhotoSrc allows image data URIs only; anything else renders an empty src
func PhotoSrc(uri string) string {
	if !strings.HasPrefix(uri, "data:image/") {
		return ""
	}
	return Esc(uri)
}

// Printer writes markup and remembers the first write error
type Printer struct {
	w   io.Writer
	err error
}

// NewPrinter creates a Printer over w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Raw writes already-escaped markup
func (p *Printer) Raw(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

// Rawf formats markup; arguments must already be escaped
func (p *Printer) Rawf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

// Err returns the first write error
func (p *Printer) Err() error {
	return p.err
}
