package web_test

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ofelia/internal/factory"
	"github.com/mcoot/ofelia/internal/model"
	"github.com/mcoot/ofelia/internal/web"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

// webTestServer provides a test server for web interface testing
type webTestServer struct {
	t       *testing.T
	handler http.Handler
	app     *factory.App
	cookies *cookieJar
}

// newWebTestServer creates a new test server with all dependencies wired
func newWebTestServer(t *testing.T) *webTestServer {
	t.Helper()
	return newWebTestServerWithConfig(t, web.RouterConfig{})
}

// newWebTestServerWithConfig wires the services into cfg and builds the router
func newWebTestServerWithConfig(t *testing.T, cfg web.RouterConfig) *webTestServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := factory.New(factory.Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	cfg.Logger = logger
	cfg.Metrics = app.Metrics
	cfg.AuthService = app.AuthService
	cfg.Resolver = app.ResolverService
	cfg.Wizard = app.WizardService
	cfg.Presenter = app.PresenterService

	return &webTestServer{
		t:       t,
		handler: web.NewRouter(cfg),
		app:     app,
		cookies: newCookieJar(),
	}
}

// do sends req with the jar's cookies and stores any cookies set in the response
func (ts *webTestServer) do(req *http.Request) *httptest.ResponseRecorder {
	ts.cookies.addTo(req)

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	ts.cookies.extract(rr)
	return rr
}

// get makes a GET request
func (ts *webTestServer) get(path string) *httptest.ResponseRecorder {
	return ts.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// post makes a POST request with url-encoded form data
func (ts *webTestServer) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ts.do(req)
}

// postMultipart makes a multipart POST, attaching photo as the "photo" file when non-nil
func (ts *webTestServer) postMultipart(path string, form url.Values, photo []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range form {
		for _, v := range values {
			require.NoError(ts.t, mw.WriteField(key, v))
		}
	}
	if photo != nil {
		fw, err := mw.CreateFormFile("photo", "me.png")
		require.NoError(ts.t, err)
		_, err = fw.Write(photo)
		require.NoError(ts.t, err)
	}
	require.NoError(ts.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ts.do(req)
}

// followRedirect follows a redirect response
func (ts *webTestServer) followRedirect(rr *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	ts.t.Helper()
	location := rr.Header().Get("Location")
	require.NotEmpty(ts.t, location, "expected a Location header")
	return ts.get(location)
}

// parseHTML parses the response body as HTML
func parseHTML(r io.Reader) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		panic(err)
	}
	return doc
}

// cookieJar maintains cookies across requests (like a browser would)
type cookieJar struct {
	cookies map[string]*http.Cookie
}

func newCookieJar() *cookieJar {
	return &cookieJar{
		cookies: make(map[string]*http.Cookie),
	}
}

// addTo adds all cookies to the request
func (j *cookieJar) addTo(req *http.Request) {
	for _, cookie := range j.cookies {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
}

// extract extracts Set-Cookie headers from response
func (j *cookieJar) extract(rr *httptest.ResponseRecorder) {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.MaxAge < 0 {
			delete(j.cookies, cookie.Name)
		} else {
			j.cookies[cookie.Name] = cookie
		}
	}
}

// hasSession returns true if the session cookie is set
func (j *cookieJar) hasSession() bool {
	_, ok := j.cookies["session"]
	return ok
}

// Helper functions for common test operations

// seedOwner stores a registered bracelet with a photo
func (ts *webTestServer) seedOwner(id model.BraceletID, username, password string) {
	ts.t.Helper()
	photo := "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg=="
	profile := model.Profile{
		FirstName:            "Ana",
		LastName:             "Ruiz",
		PrimaryContactName:   "Luis",
		PrimaryPhone:         "+34 600 111 222",
		SecondaryContactName: "Marta",
		SecondaryPhone:       "+34 600 333 444",
		Email:                "luis@example.com",
		Message:              "Type 1 diabetic",
		Photo:                photo,
	}
	ctx := ts.t.Context()
	require.NoError(ts.t, ts.app.Store.SaveProfile(ctx, id, &profile))
	require.NoError(ts.t, ts.app.Store.CreateCredential(ctx, username, model.Credential{Password: password, ID: id}))
}

// login submits the login form and expects success
func (ts *webTestServer) login(username, password string) {
	ts.t.Helper()
	rr := ts.post("/auth/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(ts.t, http.StatusSeeOther, rr.Code, "expected redirect after login")
	require.True(ts.t, ts.cookies.hasSession(), "expected session cookie to be set")
}

// draftToken reads the hidden draft token from a rendered wizard page
func draftToken(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	token, ok := doc.Find("#wizard input[name='draft']").Attr("value")
	require.True(t, ok, "expected a draft token in the wizard form")
	require.NotEmpty(t, token)
	return token
}

// assertContainsElement checks that the selector matches at least one element
func assertContainsElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	assert.Positive(t, doc.Find(selector).Length(), "expected element matching %q", selector)
}

// assertNoElement checks that the selector matches nothing
func assertNoElement(t *testing.T, doc *goquery.Document, selector string) {
	t.Helper()
	assert.Zero(t, doc.Find(selector).Length(), "expected no element matching %q", selector)
}

// assertContainsText checks that the selector's text contains text
func assertContainsText(t *testing.T, doc *goquery.Document, selector, text string) {
	t.Helper()
	assert.Contains(t, doc.Find(selector).Text(), text, "selector %q", selector)
}
