package pages

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/mcoot/ofelia/internal/web/templates/layout"
)

// NotFound renders the 404 page
func NotFound(data layout.PageData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := layout.NewPrinter(w)
		p.Raw(`<h1>Page not found</h1><p><a href="/">Return to home</a></p>`)
		return p.Err()
	})
	return layout.Base(data, body)
}

// ServerError renders the page shown when a request fails unexpectedly
func ServerError(data layout.PageData) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		p := layout.NewPrinter(w)
		p.Raw(`<h1>Something went wrong</h1><p>Please try again later.</p><p><a href="/">Return to home</a></p>`)
		return p.Err()
	})
	return layout.Base(data, body)
}
