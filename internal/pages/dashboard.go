package pages

import (
	"auth-pages/internal/wait"
)

// DashboardPage is the authenticated landing page; registration and
// login flows end here. Only the readiness surface is modeled.
type DashboardPage struct {
	session Session
	baseURL string
	wait    wait.Config
}

func NewDashboardPage(s Session, baseURL string) *DashboardPage {
	return &DashboardPage{
		session: s,
		baseURL: baseURL,
		wait:    wait.Defaults(),
	}
}

// SetWait replaces the polling budget used by WaitForPage.
func (p *DashboardPage) SetWait(cfg wait.Config) {
	p.wait = cfg
}

func (p *DashboardPage) URL() string {
	return p.baseURL + "/dashboard"
}

func (p *DashboardPage) IsLoaded() bool {
	return p.session.Present("section.my-courses")
}

// WaitForPage blocks until the dashboard is shown.
func (p *DashboardPage) WaitForPage() error {
	return WaitForPage(p, p.wait)
}
