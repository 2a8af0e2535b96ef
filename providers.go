package userforms

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/oauth2/microsoft"
)

// oauthClient is the code-exchange half shared by the built-in providers.
type oauthClient struct {
	config      *oauth2.Config
	userInfoURL string
}

func (c *oauthClient) AuthCodeURL(state string) string {
	return c.config.AuthCodeURL(state)
}

func (c *oauthClient) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	return c.config.Exchange(ctx, code)
}

func (c *oauthClient) fetch(ctx context.Context, token *oauth2.Token, into any) error {
	resp, err := c.config.Client(ctx, token).Get(c.userInfoURL)
	if err != nil {
		return errors.Wrap(err, "fetch user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ErrInvalidCredentials
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

type GoogleProvider struct {
	oauthClient
}

func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{oauthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
		userInfoURL: "https://www.googleapis.com/oauth2/v2/userinfo",
	}}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (OAuthUserInfo, error) {
	var data struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		VerifiedEmail bool   `json:"verified_email"`
		Name          string `json:"name"`
	}
	if err := p.fetch(ctx, token, &data); err != nil {
		return OAuthUserInfo{}, err
	}
	return OAuthUserInfo{ID: data.ID, Email: data.Email, Name: data.Name, EmailVerified: data.VerifiedEmail}, nil
}

type MicrosoftProvider struct {
	oauthClient
}

func NewMicrosoftProvider(clientID, clientSecret, redirectURL string) *MicrosoftProvider {
	return &MicrosoftProvider{oauthClient{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"User.Read"},
			Endpoint:     microsoft.AzureADEndpoint("common"),
		},
		userInfoURL: "https://graph.microsoft.com/v1.0/me",
	}}
}

func (p *MicrosoftProvider) Name() string { return "microsoft" }

func (p *MicrosoftProvider) GetUserInfo(ctx context.Context, token *oauth2.Token) (OAuthUserInfo, error) {
	var data struct {
		ID                string `json:"id"`
		Email             string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
		Name              string `json:"displayName"`
	}
	if err := p.fetch(ctx, token, &data); err != nil {
		return OAuthUserInfo{}, err
	}
	// userPrincipalName is a sign-in name, not a mailbox anyone confirmed.
	info := OAuthUserInfo{ID: data.ID, Email: data.Email, Name: data.Name, EmailVerified: data.Email != ""}
	if info.Email == "" {
		info.Email = data.UserPrincipalName
	}
	return info, nil
}
