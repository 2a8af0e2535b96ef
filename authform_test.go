package userforms_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinywasm/userforms"
)

func loginSubmission() *userforms.FormSubmission {
	return userforms.NewSubmission(map[string]string{"email": "a@b.com", "password": "longenough1"})
}

func TestAuthFormLoginUpdatesSessionAndNavigates(t *testing.T) {
	session := &fakeSession{}
	clock := &fakeClock{}
	router := &fakeRouter{clock: clock}
	var seen *userforms.FormSubmission

	f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
		OnSubmit: func(_ context.Context, sub *userforms.FormSubmission) (userforms.AuthResult, error) {
			seen = sub
			return userforms.AuthResult{Token: "t1", User: &userforms.UserRecord{ID: "u1", Name: "A"}}, nil
		},
		Session: session,
		Router:  router,
		Clock:   clock,
		Logger:  quietLogger(),
	})

	status, err := f.Submit(context.Background(), loginSubmission())
	require.NoError(t, err)
	assert.Equal(t, userforms.PhaseSucceeded, status.Phase)
	assert.False(t, f.IsLoading())

	require.NotNil(t, seen)
	assert.Equal(t, "a@b.com", seen.Get("email"))
	assert.Equal(t, "longenough1", seen.Raw("password"))

	calls := session.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "t1", calls[0].token)
	assert.Equal(t, userforms.UserRecord{ID: "u1", Name: "A"}, calls[0].user)

	assert.Equal(t, []string{"/dashboard"}, router.pushes)
	assert.Equal(t, 1, router.refreshes)
	assert.Equal(t, 1, router.sleptBeforePush)
	assert.Equal(t, userforms.DefaultNavigationDelay, clock.Slept()[0])
}

func TestAuthFormResultErrorDoesNotNavigate(t *testing.T) {
	session := &fakeSession{}
	router := &fakeRouter{}

	f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
		OnSubmit: func(context.Context, *userforms.FormSubmission) (userforms.AuthResult, error) {
			return userforms.AuthResult{Token: "t1", User: &userforms.UserRecord{ID: "u1"}, Error: "Invalid email or password"}, nil
		},
		Session: session,
		Router:  router,
		Clock:   &fakeClock{},
		Logger:  quietLogger(),
	})

	status, err := f.Submit(context.Background(), loginSubmission())
	require.NoError(t, err)
	assert.Equal(t, userforms.PhaseFailed, status.Phase)
	assert.Equal(t, "Invalid email or password", status.Message)
	assert.False(t, f.IsLoading())
	assert.Empty(t, session.Calls())
	assert.Empty(t, router.pushes)
}

func TestAuthFormHandlerErrorIsContained(t *testing.T) {
	router := &fakeRouter{}
	f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
		OnSubmit: func(context.Context, *userforms.FormSubmission) (userforms.AuthResult, error) {
			return userforms.AuthResult{}, errors.New("network down")
		},
		Router: router,
		Clock:  &fakeClock{},
		Logger: quietLogger(),
	})

	status, err := f.Submit(context.Background(), loginSubmission())
	require.NoError(t, err)
	assert.True(t, status.Failed())
	assert.EqualError(t, status.Err, "network down")
	assert.Equal(t, "An error occurred", status.Message)
	assert.False(t, f.IsLoading())
	assert.Empty(t, router.pushes)
}

func TestAuthFormLoadingDuringSubmit(t *testing.T) {
	var f *userforms.AuthForm
	var loading bool
	f = userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
		OnSubmit: func(context.Context, *userforms.FormSubmission) (userforms.AuthResult, error) {
			loading = f.IsLoading()
			return userforms.AuthResult{}, nil
		},
		Clock:  &fakeClock{},
		Logger: quietLogger(),
	})

	status, err := f.Submit(context.Background(), loginSubmission())
	require.NoError(t, err)
	assert.True(t, loading)
	assert.False(t, f.IsLoading())
	assert.Equal(t, userforms.PhaseIdle, status.Phase)
}

func TestAuthFormRejectsSubmitInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
		OnSubmit: func(context.Context, *userforms.FormSubmission) (userforms.AuthResult, error) {
			close(entered)
			<-release
			return userforms.AuthResult{}, nil
		},
		Clock:  &fakeClock{},
		Logger: quietLogger(),
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = f.Submit(context.Background(), loginSubmission())
	}()
	<-entered

	status, err := f.Submit(context.Background(), loginSubmission())
	assert.ErrorIs(t, err, userforms.ErrSubmitInFlight)
	assert.True(t, status.Loading())

	close(release)
	<-done
	assert.False(t, f.IsLoading())
}

func TestAuthFormSignupDoesNotLogin(t *testing.T) {
	session := &fakeSession{}
	router := &fakeRouter{}
	f := userforms.NewAuthForm(userforms.ModeSignup, userforms.AuthFormDeps{
		OnSubmit: func(context.Context, *userforms.FormSubmission) (userforms.AuthResult, error) {
			return userforms.AuthResult{Token: "t1", User: &userforms.UserRecord{ID: "u1"}}, nil
		},
		Session: session,
		Router:  router,
		Clock:   &fakeClock{},
		Logger:  quietLogger(),
	})

	sub := userforms.NewSubmission(map[string]string{
		"first_name": "Ada", "last_name": "Lovelace", "email": "ada@example.com", "password": "password123",
	})
	status, err := f.Submit(context.Background(), sub)
	require.NoError(t, err)
	assert.Equal(t, userforms.PhaseSucceeded, status.Phase)
	assert.Empty(t, session.Calls())
	assert.Empty(t, router.pushes)
}

func TestAuthFormValidatesBeforeHandler(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   error
	}{
		{"missing email", map[string]string{"password": "longenough1"}, userforms.ErrRequired},
		{"bad email", map[string]string{"email": "not-an-email", "password": "longenough1"}, userforms.ErrInvalidEmail},
		{"short password", map[string]string{"email": "a@b.com", "password": "short"}, userforms.ErrWeakPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
				OnSubmit: func(context.Context, *userforms.FormSubmission) (userforms.AuthResult, error) {
					called = true
					return userforms.AuthResult{}, nil
				},
				Logger: quietLogger(),
			})
			status, err := f.Submit(context.Background(), userforms.NewSubmission(tt.values))
			require.NoError(t, err)
			assert.True(t, status.Failed())
			assert.ErrorIs(t, status.Err, tt.want)
			assert.False(t, called)
		})
	}
}

func TestAuthFormWithoutHandlerStaysIdle(t *testing.T) {
	f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{Logger: quietLogger()})
	status, err := f.Submit(context.Background(), loginSubmission())
	require.NoError(t, err)
	assert.Equal(t, userforms.PhaseIdle, status.Phase)
	assert.Empty(t, status.Message)
}

func TestAuthFormCancelledNavigation(t *testing.T) {
	router := &fakeRouter{}
	session := &fakeSession{}
	f := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{
		Session: session,
		Router:  router,
		Clock:   &fakeClock{err: context.Canceled},
		Logger:  quietLogger(),
	})

	status, err := f.Resolve(context.Background(), userforms.AuthResult{Token: "t1", User: &userforms.UserRecord{ID: "u1"}}, nil)
	require.NoError(t, err)
	assert.True(t, status.Failed())
	assert.Len(t, session.Calls(), 1)
	assert.Empty(t, router.pushes)
}

func TestAuthFormFieldSets(t *testing.T) {
	login := userforms.NewAuthForm(userforms.ModeLogin, userforms.AuthFormDeps{})
	signup := userforms.NewAuthForm(userforms.ModeSignup, userforms.AuthFormDeps{})

	names := func(fields []userforms.Field) []string {
		var out []string
		for _, f := range fields {
			assert.True(t, f.Required, f.Name)
			out = append(out, f.Name)
		}
		return out
	}
	assert.Equal(t, []string{"email", "password"}, names(login.Fields()))
	assert.Equal(t, []string{"first_name", "last_name", "email", "password"}, names(signup.Fields()))
	assert.Empty(t, login.Advice())
	assert.Contains(t, signup.Advice(), "letters and numbers")
}

func TestAuthFormViewRendersRequiredInputs(t *testing.T) {
	render := func(mode userforms.Mode) string {
		var b strings.Builder
		f := userforms.NewAuthForm(mode, userforms.AuthFormDeps{})
		require.NoError(t, userforms.AuthFormView(f, []string{"google"}).Render(context.Background(), &b))
		return b.String()
	}

	login := render(userforms.ModeLogin)
	assert.Equal(t, 2, strings.Count(login, "<input"))
	assert.Equal(t, 2, strings.Count(login, " required"))
	assert.Contains(t, login, `href="/forgot-password"`)
	assert.Contains(t, login, `href="/oauth/google"`)
	assert.Contains(t, login, `href="/signup"`)
	assert.Contains(t, login, `<label for="login.login_data.email">Email</label><input type="email" id="login.login_data.email" name="email"`)
	assert.Contains(t, login, `<input type="password" id="login.login_data.password" name="password"`)

	signup := render(userforms.ModeSignup)
	assert.Equal(t, 4, strings.Count(signup, "<input"))
	assert.Equal(t, 4, strings.Count(signup, " required"))
	assert.Contains(t, signup, `minlength="8"`)
	assert.NotContains(t, signup, "/oauth/")
	assert.Contains(t, signup, `href="/login"`)
	assert.Contains(t, signup, `<input type="text" id="signup.signup_data.first_name" name="first_name"`)
	assert.Contains(t, signup, `autocomplete="new-password"`)
}
