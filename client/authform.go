package client

import (
	"context"
	"errors"
	"sync"

	"github.com/rpupo63/portfolio-showcase-backend/api"
	"github.com/rpupo63/portfolio-showcase-backend/auth"
)

type FormState string

const (
	StateCheckingSession FormState = "checking-session"
	StateLoginForm       FormState = "login-form"
	StateSignupForm      FormState = "signup-form"
	StateSubmitting      FormState = "submitting"
	StateAuthenticated   FormState = "authenticated"
)

var ErrNotEditable = errors.New("auth form is not accepting input")

// AuthForm drives the sign-in page. It starts by checking for an existing session, shows
// the login or signup form, and ends authenticated with the page to go to next.
type AuthForm struct {
	client *Client

	mu       sync.Mutex
	state    FormState
	returnTo FormState // the form a submission came from

	Email           string
	Password        string
	ConfirmPassword string
	FullName        string

	errors   []string
	notice   string
	redirect string
}

func NewAuthForm(client *Client) *AuthForm {
	return &AuthForm{client: client, state: StateCheckingSession}
}

func (f *AuthForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *AuthForm) Errors() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.errors...)
}

// Notice is an informational line, e.g. the "check your email" message after sign-up.
func (f *AuthForm) Notice() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.notice
}

// Redirect is where to go once authenticated: "/admin" for admins, "/" otherwise.
func (f *AuthForm) Redirect() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.redirect
}

// CheckSession resolves the stored token. A valid session skips the form entirely; an
// invalid one is dropped and the login form is shown.
func (f *AuthForm) CheckSession(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateCheckingSession {
		f.mu.Unlock()
		return ErrNotEditable
	}
	f.mu.Unlock()

	var (
		resp api.SessionResponse
		err  error
	)
	if f.client.Token() != "" {
		resp, err = f.client.Session(ctx)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil && resp.Identity != nil {
		f.authenticate(resp.IsAdmin)
		return nil
	}
	if resp.Cleared {
		f.client.SetToken("")
	}
	f.state = StateLoginForm
	return err
}

func (f *AuthForm) authenticate(isAdmin bool) {
	f.state = StateAuthenticated
	f.errors = nil
	f.Password, f.ConfirmPassword = "", ""
	f.redirect = "/"
	if isAdmin {
		f.redirect = "/admin"
	}
}

// Toggle switches between the login and signup forms. Passwords and errors are cleared;
// email and name are kept.
func (f *AuthForm) Toggle() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case StateLoginForm:
		f.state = StateSignupForm
	case StateSignupForm:
		f.state = StateLoginForm
	default:
		return ErrNotEditable
	}
	f.Password, f.ConfirmPassword = "", ""
	f.errors = nil
	f.notice = ""
	return nil
}

// Submit validates the visible form and, when it passes, sends it. Validation failures
// and server errors return the form to where it was with the messages to show.
func (f *AuthForm) Submit(ctx context.Context) error {
	f.mu.Lock()
	from := f.state
	if from != StateLoginForm && from != StateSignupForm {
		f.mu.Unlock()
		return ErrNotEditable
	}

	signIn := auth.SignInForm{Email: f.Email, Password: f.Password}
	signUp := auth.SignUpForm{Email: f.Email, Password: f.Password, ConfirmPassword: f.ConfirmPassword, FullName: f.FullName}
	var messages []string
	if from == StateLoginForm {
		messages = signIn.Validate()
	} else {
		messages = signUp.Validate()
	}
	if len(messages) > 0 {
		f.errors = messages
		f.mu.Unlock()
		return nil
	}

	f.state = StateSubmitting
	f.returnTo = from
	f.errors = nil
	f.notice = ""
	f.mu.Unlock()

	if from == StateLoginForm {
		result, err := f.client.SignIn(ctx, signIn)
		f.mu.Lock()
		defer f.mu.Unlock()
		if err != nil {
			f.fail(err)
			return err
		}
		f.authenticate(result.IsAdmin)
		f.redirect = result.Redirect
		return nil
	}

	result, err := f.client.SignUp(ctx, signUp)
	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		f.fail(err)
		return err
	}
	// sign-up never signs in; the user confirms by email and then logs in
	f.state = StateLoginForm
	f.Password, f.ConfirmPassword = "", ""
	f.notice = result.Message
	return nil
}

func (f *AuthForm) fail(err error) {
	f.state = f.returnTo
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		f.errors = apiErr.UserMessages()
		return
	}
	f.errors = []string{"Something went wrong. Please try again."}
}
