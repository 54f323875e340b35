package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"auth-pages/internal/browser"
	"auth-pages/internal/config"
	"auth-pages/internal/demoapp"
	"auth-pages/internal/pages"
	"auth-pages/internal/wait"
)

// authflow drives every auth page object once against a live target:
// combined-page registration, a rejected login, a password reset, and
// the legacy course registration. Exits non-zero on the first failed
// step, leaving a page dump behind.
func main() {
	settings := config.Load()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := run(ctx, logger, settings); err != nil {
		logger.Error("auth flows failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("all auth flows passed")
}

func run(ctx context.Context, logger *zap.Logger, settings config.Settings) error {
	if settings.BaseURL == "" {
		ln, err := net.Listen("tcp", settings.ListenAddr)
		if err != nil {
			return fmt.Errorf("demo app listener: %w", err)
		}
		srv := &http.Server{Handler: demoapp.New(demoapp.Config{}).Handler()}
		go func() { _ = srv.Serve(ln) }()
		defer func() { _ = srv.Close() }()

		settings.BaseURL = "http://" + ln.Addr().String()
		logger.Info("demo app started", zap.String("base_url", settings.BaseURL))
	}

	cfg := browser.DefaultConfig()
	cfg.Headless = settings.Headless
	cfg.SlowMotion = settings.SlowMotion
	cfg.Timeout = settings.Timeout
	cfg.Logger = logger
	session, err := browser.NewSession(ctx, cfg)
	if err != nil {
		return fmt.Errorf("browser session: %w", err)
	}
	defer session.Close()

	if err := runFlows(ctx, logger, session, settings); err != nil {
		if path, dumpErr := session.DumpPage(settings.DumpDir); dumpErr == nil {
			logger.Error("page dumped for inspection", zap.String("dump", path))
		}
		return err
	}
	return nil
}

func runFlows(ctx context.Context, logger *zap.Logger, session *browser.Session, settings config.Settings) error {
	waitCfg := wait.Config{Timeout: settings.WaitTimeout, Interval: settings.PollInterval}

	// A fresh account through the combined page, opened on the
	// configured start form.
	combined, err := pages.NewCombinedAuthPage(session, settings.BaseURL, pages.FormState(settings.StartPage), settings.CourseID)
	if err != nil {
		return err
	}
	combined.SetWait(waitCfg)

	if err := pages.Visit(ctx, session, combined); err != nil {
		return err
	}
	logger.Info("combined page loaded", zap.String("form", string(combined.CurrentForm())))

	// START_PAGE may have opened the login form; registration needs
	// the other one.
	if combined.CurrentForm() != pages.FormRegister {
		if err := combined.ToggleForm(ctx); err != nil {
			return err
		}
		logger.Info("toggled form", zap.String("form", string(combined.CurrentForm())))
	}

	email := fmt.Sprintf("learner+%d@example.com", time.Now().UnixNano())
	creds := pages.NewCredentials(email, "HorseBatteryStaple1")
	creds.Username = "learner"
	creds.FullName = "Learner Example"
	creds.Country = "US"
	creds.TermsOfService = true
	if err := combined.Register(ctx, creds); err != nil {
		return err
	}
	message, err := combined.WaitForSuccess()
	if err != nil {
		return err
	}
	logger.Info("registration succeeded", zap.String("message", message))

	// A wrong password on the login form surfaces submission errors.
	if err := combined.ToggleForm(ctx); err != nil {
		return err
	}
	logger.Info("toggled form", zap.String("form", string(combined.CurrentForm())))

	if err := combined.Login(ctx, pages.NewCredentials(email, "not-the-password")); err != nil {
		return err
	}
	submissionErrors, err := combined.WaitForErrors()
	if err != nil {
		return err
	}
	logger.Info("login rejected as expected", zap.Strings("errors", submissionErrors))

	// Password reset confirmation from the login form.
	login, err := pages.NewCombinedAuthPage(session, settings.BaseURL, pages.FormLogin, "")
	if err != nil {
		return err
	}
	login.SetWait(waitCfg)
	if err := pages.Visit(ctx, session, login); err != nil {
		return err
	}
	if err := login.PasswordReset(ctx, email); err != nil {
		return err
	}
	if err := wait.Until("Password reset confirmation is visible", func() bool {
		return session.Visible(".js-reset-success")
	}, waitCfg); err != nil {
		return err
	}
	logger.Info("password reset confirmed", zap.String("form", string(login.CurrentForm())))

	// The legacy course registration lands on the dashboard.
	registration := pages.NewRegistrationPage(session, settings.BaseURL, settings.CourseID)
	registration.SetWait(waitCfg)
	if err := pages.Visit(ctx, session, registration); err != nil {
		return err
	}
	legacyEmail := fmt.Sprintf("pioneer+%d@example.com", time.Now().UnixNano())
	if err := registration.FillRegistrationInfo(ctx, legacyEmail, "HorseBatteryStaple1", "pioneer", "Pioneer Example"); err != nil {
		return err
	}
	dashboard, err := registration.Submit(ctx)
	if err != nil {
		return err
	}
	logger.Info("landed on dashboard",
		zap.String("url", dashboard.URL()),
		zap.String("current_url", session.CurrentURL()))

	return nil
}
