package pages

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"auth-pages/internal/wait"
)

// ErrInvalidStartPage is returned when a CombinedAuthPage is asked to
// open on anything but the login or register form.
var ErrInvalidStartPage = errors.New("start page must be login or register")

// CombinedAuthPage drives the unified login / registration /
// password-reset page. The page shows one form at a time; which one
// is derived from the live DOM on every read, never cached.
type CombinedAuthPage struct {
	session   Session
	baseURL   string
	startPage FormState
	courseID  string
	wait      wait.Config
}

// NewCombinedAuthPage builds the page object. startPage picks the
// form the page opens on and is restricted to FormLogin and
// FormRegister. courseID is optional; when set, the URL carries the
// enrollment context through the auth flow.
func NewCombinedAuthPage(s Session, baseURL string, startPage FormState, courseID string) (*CombinedAuthPage, error) {
	if startPage != FormLogin && startPage != FormRegister {
		return nil, fmt.Errorf("%w, got %q", ErrInvalidStartPage, startPage)
	}
	return &CombinedAuthPage{
		session:   s,
		baseURL:   baseURL,
		startPage: startPage,
		courseID:  courseID,
		wait:      wait.Defaults(),
	}, nil
}

// SetWait replaces the polling budget used by blocking operations.
func (p *CombinedAuthPage) SetWait(cfg wait.Config) {
	p.wait = cfg
}

// URL returns the page address. Course context, when present, is
// URL-encoded into the query string.
func (p *CombinedAuthPage) URL() string {
	u := fmt.Sprintf("%s/account/%s", p.baseURL, p.startPage)
	if p.courseID == "" {
		return u
	}
	q := url.Values{}
	q.Set("course_id", p.courseID)
	q.Set("enrollment_action", "enroll")
	return u + "?" + q.Encode()
}

// IsLoaded reports whether both form toggles are on the page and one
// of the forms is already detectable.
func (p *CombinedAuthPage) IsLoaded() bool {
	return p.session.Present("#register-option") &&
		p.session.Present("#login-option") &&
		p.CurrentForm() != FormNone
}

// CurrentForm derives the active form from element visibility alone.
// It never errors and never touches the page state; while nothing is
// rendered yet it reports FormNone. The probes run in a fixed order
// (register, login, password-reset), so if the page ever rendered
// several forms at once the first match wins.
func (p *CombinedAuthPage) CurrentForm() FormState {
	switch {
	case p.session.Visible(".register-button"):
		return FormRegister
	case p.session.Visible(".login-button"):
		return FormLogin
	case p.session.Visible(".js-reset") || p.session.Visible(".js-reset-success"):
		return FormPasswordReset
	default:
		return FormNone
	}
}

// ToggleForm switches between the login and register forms and blocks
// until the switch took effect.
func (p *CombinedAuthPage) ToggleForm(ctx context.Context) error {
	before := p.CurrentForm()
	if err := p.session.Click(ctx, ".form-toggle:not(:checked)"); err != nil {
		return err
	}
	return wait.Until("Finish toggling to the other form", func() bool {
		return p.CurrentForm() != before
	}, p.wait)
}

// Register submits the registration form. The email, password,
// username, and full-name inputs are always written, even when the
// value is empty; the country select and the honor-code checkbox are
// only touched when set. The register form must be the active one;
// that precondition is the caller's to hold. The call returns once
// the form is sent, and the outcome arrives asynchronously via Errors
// or Success.
func (p *CombinedAuthPage) Register(ctx context.Context, creds Credentials) error {
	fields := []struct {
		selector string
		value    string
	}{
		{"#register-email", creds.Email},
		{"#register-password", creds.Password},
		{"#register-username", creds.Username},
		{"#register-name", creds.FullName},
	}
	for _, f := range fields {
		if err := p.session.Fill(ctx, f.selector, f.value); err != nil {
			return err
		}
	}
	if creds.Country != "" {
		if err := p.session.SelectOption(ctx, "#register-country", creds.Country); err != nil {
			return err
		}
	}
	if creds.TermsOfService {
		if err := p.session.Click(ctx, "#register-honor_code"); err != nil {
			return err
		}
	}
	return p.session.Click(ctx, ".register-button")
}

// Login submits the login form. Email and password are always
// written, even when empty; remember-me is only clicked when set. The
// login form must be the active one. Non-blocking, like Register.
func (p *CombinedAuthPage) Login(ctx context.Context, creds Credentials) error {
	if err := p.session.Fill(ctx, "#login-email", creds.Email); err != nil {
		return err
	}
	if err := p.session.Fill(ctx, "#login-password", creds.Password); err != nil {
		return err
	}
	if creds.RememberMe {
		if err := p.session.Click(ctx, "#login-remember"); err != nil {
			return err
		}
	}
	return p.session.Click(ctx, ".login-button")
}

// PasswordReset switches from the login form to the password-reset
// form, then requests a reset for email.
func (p *CombinedAuthPage) PasswordReset(ctx context.Context, email string) error {
	before := p.CurrentForm()
	if err := p.session.Click(ctx, "a.forgot-password"); err != nil {
		return err
	}
	if err := wait.Until("Finish toggling to the password reset form", func() bool {
		return p.CurrentForm() != before
	}, p.wait); err != nil {
		return err
	}
	if err := p.session.Fill(ctx, "#password-reset-email", email); err != nil {
		return err
	}
	return p.session.Click(ctx, "button.js-reset")
}

// Errors returns the texts of the submission errors currently shown,
// top to bottom. No errors means an empty slice.
func (p *CombinedAuthPage) Errors() []string {
	return p.session.Texts(".submission-error li")
}

// WaitForErrors blocks until submission errors appear, then returns
// them.
func (p *CombinedAuthPage) WaitForErrors() ([]string, error) {
	return wait.For("Errors are visible", func() ([]string, bool) {
		errs := p.Errors()
		return errs, len(errs) > 0
	}, p.wait)
}

// Success returns the submission success message, or ok=false while
// none is shown.
func (p *CombinedAuthPage) Success() (string, bool) {
	if !p.session.Visible(".submission-success") {
		return "", false
	}
	return p.session.Text(".submission-success h4")
}

// WaitForSuccess blocks until the success message appears, then
// returns it.
func (p *CombinedAuthPage) WaitForSuccess() (string, error) {
	return wait.For("Success message is visible", func() (string, bool) {
		return p.Success()
	}, p.wait)
}
