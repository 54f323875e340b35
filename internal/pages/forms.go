package pages

// FormState identifies which of the combined page's forms is active.
type FormState string

const (
	FormLogin         FormState = "login"
	FormRegister      FormState = "register"
	FormPasswordReset FormState = "password-reset"

	// FormNone means no form is currently detectable, e.g. while the
	// page is still rendering.
	FormNone FormState = "none"
)

// Credentials carries the values poured into the login and
// registration forms. Text inputs always receive their value, empty
// or not; Country, TermsOfService, and RememberMe touch the page only
// when set. Nothing retains the record after the fill.
type Credentials struct {
	Email          string
	Password       string
	Username       string
	FullName       string
	Country        string
	TermsOfService bool
	RememberMe     bool
}

// NewCredentials returns Credentials carrying the login default of
// keeping the session remembered.
func NewCredentials(email, password string) Credentials {
	return Credentials{
		Email:      email,
		Password:   password,
		RememberMe: true,
	}
}
