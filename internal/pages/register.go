package pages

import (
	"context"
	"fmt"
	"strings"

	"auth-pages/internal/wait"
)

// RegistrationPage drives the standalone course-enrollment
// registration form: one page that creates an account and enrolls it
// in a course in a single step.
type RegistrationPage struct {
	session  Session
	baseURL  string
	courseID string
	wait     wait.Config
}

// NewRegistrationPage builds the page object for the given course.
// courseID uses the organization/number/run form and is embedded in
// the URL as-is; its validity is the caller's business.
func NewRegistrationPage(s Session, baseURL, courseID string) *RegistrationPage {
	return &RegistrationPage{
		session:  s,
		baseURL:  baseURL,
		courseID: courseID,
		wait:     wait.Defaults(),
	}
}

// SetWait replaces the polling budget used by blocking operations.
func (p *RegistrationPage) SetWait(cfg wait.Config) {
	p.wait = cfg
}

// URL returns the registration address, carrying the course and the
// enrollment action the post-registration flow picks up.
func (p *RegistrationPage) URL() string {
	return fmt.Sprintf("%s/register?course_id=%s&enrollment_action=enroll", p.baseURL, p.courseID)
}

// IsLoaded reports whether a sub-title mentioning registration is
// shown. A missing sub-title means "not loaded", never an error.
func (p *RegistrationPage) IsLoaded() bool {
	for _, text := range p.session.Texts("span.title-sub") {
		if strings.Contains(strings.ToLower(text), "register") {
			return true
		}
	}
	return false
}

// FillRegistrationInfo enters the account fields, accepts the
// terms-of-service and honor-code checkboxes, and picks the default
// country (US). Values are written as-is; the page's own validation
// decides what to reject.
func (p *RegistrationPage) FillRegistrationInfo(ctx context.Context, email, password, username, fullName string) error {
	fields := []struct {
		selector string
		value    string
	}{
		{"input#email", email},
		{"input#password", password},
		{"input#username", username},
		{"input#name", fullName},
	}
	for _, f := range fields {
		if err := p.session.Fill(ctx, f.selector, f.value); err != nil {
			return err
		}
	}
	if err := p.session.Click(ctx, "input#tos-yes"); err != nil {
		return err
	}
	if err := p.session.Click(ctx, "input#honorcode-yes"); err != nil {
		return err
	}
	return p.session.SelectOption(ctx, "#country", "US")
}

// Submit sends the form and blocks until the dashboard is shown; the
// returned page object is already loaded.
func (p *RegistrationPage) Submit(ctx context.Context) (*DashboardPage, error) {
	if err := p.session.Click(ctx, "button#submit"); err != nil {
		return nil, err
	}
	dash := NewDashboardPage(p.session, p.baseURL)
	dash.wait = p.wait
	if err := dash.WaitForPage(); err != nil {
		return nil, err
	}
	return dash, nil
}
