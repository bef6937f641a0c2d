package web_test

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoginPageRenders(t *testing.T) {
	ts := newWebTestServer(t)

	for _, path := range []string{"/", "/login"} {
		rr := ts.get(path)
		assert.Equal(t, http.StatusOK, rr.Code)

		doc := parseHTML(rr.Body)
		assertContainsElement(t, doc, "#search-form input[name='id']")
		assertContainsElement(t, doc, "#login-form input[name='username']")
		assertContainsElement(t, doc, "#login-form input[name='password']")
		assertContainsElement(t, doc, "nav .nav-login")
	}
}

func TestLogin(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")

	rr := ts.post("/auth/login", url.Values{"username": {"  bob  "}, "password": {"right"}})

	// Straight to the owner's own profile
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/profile?id=OF6233Q81", rr.Header().Get("Location"))
	assert.True(t, ts.cookies.hasSession())

	rr = ts.followRedirect(rr)
	assert.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".flash", "Welcome back!")
	assertContainsElement(t, doc, "nav .nav-profile")
	assertContainsElement(t, doc, "#edit-profile")
}

func TestLoginWrongPassword(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")

	rr := ts.post("/auth/login", url.Values{"username": {"bob"}, "password": {"wrong"}})

	// Re-rendered in place with the typed username kept
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".login-error", "Incorrect username or password.")
	value, _ := doc.Find("#login-form input[name='username']").Attr("value")
	assert.Equal(t, "bob", value)
}

func TestLoginPasswordIsCaseSensitive(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")

	rr := ts.post("/auth/login", url.Values{"username": {"bob"}, "password": {"RIGHT"}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())
}

func TestLoginMissingFields(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.post("/auth/login", url.Values{"username": {""}, "password": {""}})
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, ts.cookies.hasSession())

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, ".login-error", "Please fill in username and password.")
	assertContainsElement(t, doc, ".field-error[data-field='username']")
	assertContainsElement(t, doc, ".field-error[data-field='password']")
}

func TestLogout(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")
	ts.login("bob", "right")

	rr := ts.post("/auth/logout", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/", rr.Header().Get("Location"))
	assert.False(t, ts.cookies.hasSession())

	// The profile is still public, but no longer editable
	rr = ts.get("/profile?id=OF6233Q81")
	assert.Equal(t, http.StatusOK, rr.Code)
	doc := parseHTML(rr.Body)
	assertNoElement(t, doc, "#edit-profile")
}

func TestLoginReplacesPreviousSession(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")
	ts.seedOwner("XG2867G11", "eve", "pw")

	ts.login("bob", "right")
	first := ts.cookies.cookies["session"].Value

	ts.login("eve", "pw")
	assert.NotEqual(t, first, ts.cookies.cookies["session"].Value)

	_, err := ts.app.AuthService.ValidateSession(first)
	assert.Error(t, err)

	// Only the new identity may edit
	doc := parseHTML(ts.get("/profile?id=OF6233Q81").Body)
	assertNoElement(t, doc, "#edit-profile")
	doc = parseHTML(ts.get("/profile?id=XG2867G11").Body)
	assertContainsElement(t, doc, "#edit-profile")
}
