package userforms

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/tinywasm/form"
)

// Mode selects which field set AuthForm renders.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

const (
	DefaultNavigationDelay = 100 * time.Millisecond
	DefaultDashboardPath   = "/dashboard"

	genericAuthError = "An error occurred"
	signupAdvice     = "Password must be at least 8 characters long and contain both letters and numbers"
)

// SubmitHandler receives the raw fields of an AuthForm submit.
type SubmitHandler func(ctx context.Context, sub *FormSubmission) (AuthResult, error)

type AuthFormDeps struct {
	OnSubmit        SubmitHandler
	Session         SessionManager
	Router          Router
	Clock           Clock
	Logger          logrus.FieldLogger
	Metrics         *Metrics
	NavigationDelay time.Duration
	DashboardPath   string
}

// AuthForm is the login / signup form.
type AuthForm struct {
	mode    Mode
	deps    AuthFormDeps
	tracker statusTracker
}

func NewAuthForm(mode Mode, deps AuthFormDeps) *AuthForm {
	if mode != ModeSignup {
		mode = ModeLogin
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	if deps.NavigationDelay <= 0 {
		deps.NavigationDelay = DefaultNavigationDelay
	}
	if deps.DashboardPath == "" {
		deps.DashboardPath = DefaultDashboardPath
	}
	deps.Logger = deps.Logger.WithField("form", string(mode))
	return &AuthForm{mode: mode, deps: deps}
}

func (f *AuthForm) Mode() Mode { return f.mode }

func (f *AuthForm) Title() string {
	if f.mode == ModeSignup {
		return "Sign Up"
	}
	return "Login"
}

// Advice is the helper text under the password input. It is not enforced.
func (f *AuthForm) Advice() string {
	if f.mode == ModeSignup {
		return signupAdvice
	}
	return ""
}

func (f *AuthForm) Fields() []Field {
	email := Field{
		Name: FieldEmail, Label: "Email", Type: "email", Required: true,
		Placeholder: "Enter your email address", Autocomplete: "email",
		AutoFocus: f.mode == ModeLogin,
	}
	password := Field{
		Name: FieldPassword, Label: "Password", Type: "password", Required: true,
		MinLength: MinPasswordLength, Placeholder: "Enter your password",
		Autocomplete: "current-password",
	}
	if f.mode == ModeLogin {
		return []Field{email, password}
	}
	password.Autocomplete = "new-password"
	return []Field{
		{
			Name: FieldFirstName, Label: "First Name", Type: "text", Required: true,
			Placeholder: "Enter your first name", Autocomplete: "given-name", AutoFocus: true,
		},
		{
			Name: FieldLastName, Label: "Last Name", Type: "text", Required: true,
			Placeholder: "Enter your last name", Autocomplete: "family-name",
		},
		email,
		password,
	}
}

func (f *AuthForm) schemaForm() *form.Form {
	if f.mode == ModeSignup {
		return signupForm
	}
	return loginForm
}

func (f *AuthForm) validate(sub *FormSubmission) error {
	if f.mode == ModeSignup {
		return ValidateSignup(signupData(sub))
	}
	return ValidateLogin(loginData(sub))
}

func (f *AuthForm) Status() Status { return f.tracker.get() }

func (f *AuthForm) IsLoading() bool { return f.tracker.get().Loading() }

// Submit runs one submit. The only error it returns is ErrSubmitInFlight;
// every other outcome is reported through the Status.
func (f *AuthForm) Submit(ctx context.Context, sub *FormSubmission) (Status, error) {
	return f.run(func() Status {
		if err := f.validate(sub); err != nil {
			return Status{Phase: PhaseFailed, Message: validationMessage(err), Err: err}
		}
		if f.deps.OnSubmit == nil {
			return Status{Phase: PhaseIdle}
		}
		result, err := f.deps.OnSubmit(ctx, sub)
		return f.settle(ctx, result, err)
	})
}

// Resolve settles a result obtained outside the form, such as a provider
// callback, exactly as if OnSubmit had returned it.
func (f *AuthForm) Resolve(ctx context.Context, result AuthResult, err error) (Status, error) {
	return f.run(func() Status {
		return f.settle(ctx, result, err)
	})
}

func (f *AuthForm) run(fn func() Status) (status Status, err error) {
	if err := f.tracker.begin(); err != nil {
		return f.tracker.get(), err
	}
	status = Status{Phase: PhaseFailed, Message: genericAuthError}
	defer func() {
		f.tracker.finish(status)
		f.deps.Metrics.observeSubmit(string(f.mode), status.Phase)
	}()
	status = fn()
	return status, nil
}

func (f *AuthForm) settle(ctx context.Context, result AuthResult, err error) Status {
	message := genericAuthError
	if err == nil && result.Error != "" {
		err = errors.New(result.Error)
		message = result.Error
	}
	if err != nil {
		f.deps.Logger.WithError(err).Error("submit failed")
		return Status{Phase: PhaseFailed, Message: message, Err: err}
	}

	if f.mode == ModeSignup {
		return Status{Phase: PhaseSucceeded, Message: "Account created. You can now log in."}
	}
	if result.Token == "" || result.User == nil {
		return Status{Phase: PhaseIdle}
	}

	if f.deps.Session != nil {
		if err := f.deps.Session.Login(ctx, result.Token, *result.User); err != nil {
			f.deps.Logger.WithError(err).Error("session login failed")
			return Status{Phase: PhaseFailed, Message: genericAuthError, Err: err}
		}
	}
	if err := f.deps.Clock.Sleep(ctx, f.deps.NavigationDelay); err != nil {
		f.deps.Logger.WithError(err).Warn("navigation cancelled")
		return Status{Phase: PhaseFailed, Message: genericAuthError, Err: err}
	}
	if f.deps.Router != nil {
		f.deps.Router.Push(f.deps.DashboardPath)
		f.deps.Router.Refresh()
	}
	f.deps.Logger.WithField("user_id", result.User.ID).Info("logged in")
	return Status{Phase: PhaseSucceeded}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, ErrInvalidEmail):
		return "Enter a valid email address"
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 8 characters long"
	case errors.Is(err, ErrInvalidName):
		return "Enter a valid name"
	default:
		return "Please fill in all required fields"
	}
}
