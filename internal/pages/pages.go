// Package pages models the login and registration screens of the
// target application as page objects: stateless handles that locate
// and drive DOM elements through a browser session and poll for
// asynchronous feedback. Every read hits the live page; nothing is
// cached between calls.
package pages

import (
	"context"
	"fmt"

	"auth-pages/internal/wait"
)

// Session is the browser surface page objects consume. Interaction
// calls wait for their target element and fail if it never appears.
// The query calls never wait and never fail: a missing element
// degrades to false, an empty string, or an empty slice.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Fill(ctx context.Context, selector, text string) error
	Click(ctx context.Context, selector string) error
	SelectOption(ctx context.Context, selector, value string) error
	Visible(selector string) bool
	Present(selector string) bool
	Text(selector string) (string, bool)
	Texts(selector string) []string
}

// Page is the readiness contract every page object satisfies.
type Page interface {
	// URL returns the full address of the page.
	URL() string
	// IsLoaded reports whether the browser is on the page with its
	// key elements available. Safe to call regardless of where the
	// browser currently is.
	IsLoaded() bool
}

// WaitForPage blocks until p reports loaded.
func WaitForPage(p Page, cfg wait.Config) error {
	return wait.Until(fmt.Sprintf("browser is on page %s", p.URL()), p.IsLoaded, cfg)
}

// Visit navigates the session to p and waits for it to load.
func Visit(ctx context.Context, s Session, p Page) error {
	if err := s.Navigate(ctx, p.URL()); err != nil {
		return err
	}
	return WaitForPage(p, wait.Defaults())
}
