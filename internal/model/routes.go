package model

import "net/url"

// Navigation targets shared by the resolver, wizard and presenter

// LoginPath is the login / search page
func LoginPath() string {
	return "/login"
}

// RegisterPath is the registration wizard for a bracelet in create mode
func RegisterPath(id BraceletID) string {
	return "/register?" + url.Values{"id": {string(id)}}.Encode()
}

// EditPath is the registration wizard for a bracelet in edit mode
func EditPath(id BraceletID) string {
	return "/register?" + url.Values{"edit": {"true"}, "id": {string(id)}}.Encode()
}

// ProfilePath is the public profile page for a bracelet
func ProfilePath(id BraceletID) string {
	return "/profile?" + url.Values{"id": {string(id)}}.Encode()
}
