package web_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/ofelia/internal/model"
)

func TestProfilePublicView(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")

	rr := ts.get("/profile?id=OF6233Q81")
	require.Equal(t, http.StatusOK, rr.Code)

	doc := parseHTML(rr.Body)
	assertContainsText(t, doc, "#profile-name", "Ana Ruiz")
	assertContainsText(t, doc, "#profile-message", "Type 1 diabetic")
	assertNoElement(t, doc, "#edit-profile")

	cards := doc.Find(".contact-card")
	require.Equal(t, 2, cards.Length())
	assert.Equal(t, "Luis", strings.TrimSpace(cards.Eq(0).Find(".contact-name").Text()))
	assert.Equal(t, "Marta", strings.TrimSpace(cards.Eq(1).Find(".contact-name").Text()))

	call, _ := cards.Eq(0).Find("a.call").Attr("href")
	assert.Equal(t, "tel:+34 600 111 222", call)
	chat, _ := cards.Eq(0).Find("a.chat").Attr("href")
	assert.True(t, strings.HasPrefix(chat, "https://wa.me/34600111222?text="), chat)
	assert.NotContains(t, chat, "+")

	mail, _ := doc.Find("a.email").Attr("href")
	assert.True(t, strings.HasPrefix(mail, "mailto:luis@example.com?subject="), mail)
}

func TestProfileOptionalSectionsHidden(t *testing.T) {
	ts := newWebTestServer(t)

	profile := model.Profile{
		FirstName:    "Ana",
		LastName:     "Ruiz",
		PrimaryPhone: "600111222",
		Photo:        "data:image/png;base64,iVBORw0KGgoAAAANSUhEUg==",
	}
	require.NoError(t, ts.app.Store.SaveProfile(t.Context(), "DD2349X66", &profile))

	doc := parseHTML(ts.get("/profile?id=DD2349X66").Body)
	assertNoElement(t, doc, "#profile-message")
	assertNoElement(t, doc, "a.email")

	cards := doc.Find(".contact-card")
	require.Equal(t, 1, cards.Length())
	assert.Equal(t, "Primary contact", strings.TrimSpace(cards.Find(".contact-name").Text()))
}

func TestProfileOwnerSeesEdit(t *testing.T) {
	ts := newWebTestServer(t)
	ts.seedOwner("OF6233Q81", "bob", "right")
	ts.seedOwner("XG2867G11", "eve", "pw")
	ts.login("bob", "right")

	doc := parseHTML(ts.get("/profile?id=OF6233Q81").Body)
	href, ok := doc.Find("#edit-profile").Attr("href")
	require.True(t, ok)
	assert.Equal(t, model.EditPath("OF6233Q81"), href)

	// Someone else's profile is read-only
	doc = parseHTML(ts.get("/profile?id=XG2867G11").Body)
	assertNoElement(t, doc, "#edit-profile")
}

func TestProfileRedirects(t *testing.T) {
	ts := newWebTestServer(t)

	rr := ts.get("/profile")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))

	rr = ts.get("/profile?id=DD2349X66")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/register?id=DD2349X66", rr.Header().Get("Location"))
}
