package userforms

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const invalidLoginMessage = "Invalid email or password"

// Authenticator provides the submit handlers behind the login and signup forms.
type Authenticator struct {
	store  *Store
	tokens *TokenIssuer
	logger logrus.FieldLogger
}

func NewAuthenticator(store *Store, tokens *TokenIssuer, logger logrus.FieldLogger) *Authenticator {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Authenticator{store: store, tokens: tokens, logger: logger.WithField("component", "auth")}
}

func (a *Authenticator) LoginHandler() SubmitHandler {
	return a.login
}

func (a *Authenticator) SignupHandler() SubmitHandler {
	return a.signup
}

func (a *Authenticator) login(ctx context.Context, sub *FormSubmission) (AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}
	d := loginData(sub)
	if err := ValidateLogin(d); err != nil {
		return AuthResult{Error: invalidLoginMessage}, nil
	}

	acct, err := a.store.Login(d.Email, d.Password)
	switch {
	case errors.Is(err, ErrSuspended):
		return AuthResult{Error: "Account suspended"}, nil
	case errors.Is(err, ErrInvalidCredentials):
		return AuthResult{Error: invalidLoginMessage}, nil
	case err != nil:
		return AuthResult{}, err
	}
	return a.issue(acct)
}

func (a *Authenticator) signup(ctx context.Context, sub *FormSubmission) (AuthResult, error) {
	if err := ctx.Err(); err != nil {
		return AuthResult{}, err
	}
	d := signupData(sub)
	if err := ValidateSignup(d); err != nil {
		return AuthResult{Error: validationMessage(err)}, nil
	}

	acct, err := a.store.CreateUser(d.Email, d.FirstName, d.LastName)
	if errors.Is(err, ErrEmailTaken) {
		return AuthResult{Error: "Email is already registered"}, nil
	}
	if err != nil {
		return AuthResult{}, err
	}
	if err := a.store.SetPassword(acct.ID, d.Password); err != nil {
		if derr := a.store.DeleteUser(acct.ID); derr != nil {
			a.logger.WithError(derr).WithField("user_id", acct.ID).Error("rollback of incomplete signup failed")
		}
		return AuthResult{}, errors.Wrap(err, "set password")
	}
	a.logger.WithField("user_id", acct.ID).Info("account created")
	return a.issue(acct)
}

func (a *Authenticator) issue(acct Account) (AuthResult, error) {
	rec := acct.Record()
	token, err := a.tokens.Issue(rec)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token, User: &rec}, nil
}
