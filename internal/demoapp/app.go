// Package demoapp serves a miniature stand-in for the target
// application: the same forms, selectors, and asynchronous feedback
// the page objects expect, backed by an in-memory account store.
package demoapp

import (
	"embed"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
)

//go:embed templates/*.html
var templatesFS embed.FS

var tmpl = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// Seeded account: a known login and the "already registered" fixture.
const (
	SeededEmail    = "staff@example.com"
	SeededPassword = "Password123!"
)

// Config tunes the demo app. Delay is applied to every API response
// to keep the feedback window open for polling clients.
type Config struct {
	Delay time.Duration
}

// App holds the in-memory account store behind the handlers.
type App struct {
	delay time.Duration

	mu       sync.Mutex
	accounts map[string]string // email -> password
}

func New(cfg Config) *App {
	return &App{
		delay: cfg.Delay,
		accounts: map[string]string{
			SeededEmail: SeededPassword,
		},
	}
}

func (a *App) Handler() http.Handler {
	logger := httplog.NewLogger("demoapp", httplog.Options{Concise: true})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))

	r.Get("/register", a.legacyRegisterPage)
	r.Post("/register", a.legacyRegisterSubmit)
	r.Get("/account/{form}", a.accountPage)
	r.Post("/api/register", a.apiRegister)
	r.Post("/api/login", a.apiLogin)
	r.Post("/api/password-reset", a.apiPasswordReset)
	r.Get("/dashboard", a.dashboard)

	return r
}

type accountData struct {
	StartRegister bool
	CourseID      string
}

func (a *App) accountPage(w http.ResponseWriter, r *http.Request) {
	form := chi.URLParam(r, "form")
	if form != "login" && form != "register" {
		http.NotFound(w, r)
		return
	}
	a.render(w, "account.html", accountData{
		StartRegister: form == "register",
		CourseID:      r.URL.Query().Get("course_id"),
	})
}

type registerData struct {
	CourseID         string
	EnrollmentAction string
}

func (a *App) legacyRegisterPage(w http.ResponseWriter, r *http.Request) {
	a.render(w, "register.html", registerData{
		CourseID:         r.URL.Query().Get("course_id"),
		EnrollmentAction: r.URL.Query().Get("enrollment_action"),
	})
}

// The legacy form has no client-side feedback: a submit registers the
// account and lands on the dashboard.
func (a *App) legacyRegisterSubmit(w http.ResponseWriter, r *http.Request) {
	a.pause()
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}

	a.mu.Lock()
	a.accounts[r.FormValue("email")] = r.FormValue("password")
	a.mu.Unlock()

	target := "/dashboard"
	if course := r.FormValue("course_id"); course != "" {
		target += "?course_id=" + url.QueryEscape(course)
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (a *App) dashboard(w http.ResponseWriter, r *http.Request) {
	a.render(w, "dashboard.html", registerData{
		CourseID: r.URL.Query().Get("course_id"),
	})
}

type registerRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Country   string `json:"country"`
	HonorCode bool   `json:"honor_code"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

type resetRequest struct {
	Email string `json:"email"`
}

type apiResponse struct {
	Success  bool     `json:"success"`
	Message  string   `json:"message,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Redirect string   `json:"redirect,omitempty"`
}

func (a *App) apiRegister(w http.ResponseWriter, r *http.Request) {
	a.pause()
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Errors: []string{"Malformed request"}})
		return
	}

	if errs := a.validateRegistration(req); len(errs) > 0 {
		writeJSON(w, http.StatusOK, apiResponse{Errors: errs})
		return
	}

	a.mu.Lock()
	a.accounts[req.Email] = req.Password
	a.mu.Unlock()

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Message: "Account created!"})
}

func (a *App) validateRegistration(req registerRequest) []string {
	var errs []string
	if !strings.Contains(req.Email, "@") {
		errs = append(errs, "Invalid email")
	}
	if len(req.Password) < 8 {
		errs = append(errs, "Password too short")
	}
	a.mu.Lock()
	_, taken := a.accounts[req.Email]
	a.mu.Unlock()
	if taken {
		errs = append(errs, "Email already registered")
	}
	if !req.HonorCode {
		errs = append(errs, "You must agree to the Honor Code")
	}
	return errs
}

func (a *App) apiLogin(w http.ResponseWriter, r *http.Request) {
	a.pause()
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Errors: []string{"Malformed request"}})
		return
	}

	a.mu.Lock()
	password, known := a.accounts[req.Email]
	a.mu.Unlock()

	if !known || password != req.Password {
		writeJSON(w, http.StatusOK, apiResponse{Errors: []string{"Email or password is incorrect"}})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Redirect: "/dashboard"})
}

func (a *App) apiPasswordReset(w http.ResponseWriter, r *http.Request) {
	a.pause()
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, apiResponse{Errors: []string{"Malformed request"}})
		return
	}
	// Resets never disclose whether the account exists.
	writeJSON(w, http.StatusOK, apiResponse{Success: true})
}

func (a *App) pause() {
	if a.delay > 0 {
		time.Sleep(a.delay)
	}
}

func (a *App) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
