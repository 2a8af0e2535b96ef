package userforms

import (
	"github.com/tinywasm/fmt"
)

var (
	ErrInvalidCredentials = fmt.Err("access", "denied")             // EN: Access Denied                  / ES: Acceso Denegado
	ErrSuspended          = fmt.Err("user", "suspended")            // EN: User Suspended                 / ES: Usuario Suspendido
	ErrEmailTaken         = fmt.Err("email", "registered")          // EN: Email Registered               / ES: Correo electrónico Registrado
	ErrInvalidEmail       = fmt.Err("email", "invalid")             // EN: Email Invalid                  / ES: Correo electrónico Inválido
	ErrWeakPassword       = fmt.Err("password", "weak")             // EN: Password Weak                  / ES: Contraseña Débil
	ErrRequired           = fmt.Err("field", "required")            // EN: Field Required                 / ES: Campo Requerido
	ErrInvalidName        = fmt.Err("name", "invalid")              // EN: Name Invalid                   / ES: Nombre Inválido
	ErrSessionExpired     = fmt.Err("token", "expired")             // EN: Token Expired                  / ES: Token Expirado
	ErrNotFound           = fmt.Err("user", "not", "found")         // EN: User Not Found                 / ES: Usuario No Encontrado
	ErrProviderNotFound   = fmt.Err("provider", "not", "found")     // EN: Provider Not Found             / ES: Proveedor No Encontrado
	ErrInvalidOAuthState  = fmt.Err("state", "invalid")             // EN: State Invalid                  / ES: Estado Inválido
	ErrNotImage           = fmt.Err("image", "invalid")             // EN: Image Invalid                  / ES: Imagen Inválida
	ErrPreviewNotFound    = fmt.Err("preview", "not", "found")      // EN: Preview Not Found              / ES: Vista previa No Encontrado
	ErrSubmitInFlight     = fmt.Err("submit", "in", "progress")     // EN: Submit In Progress             / ES: Envío En Progreso
)

// UserRecord is the display projection held by the authentication context.
type UserRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

// AuthResult is what a login or signup handler reports back to AuthForm.
type AuthResult struct {
	Token string      `json:"token,omitempty"`
	User  *UserRecord `json:"user,omitempty"`
	Error string      `json:"error,omitempty"`
}

type Avatar struct {
	ImgixURL string `json:"imgix_url"`
}

type ProfileMetadata struct {
	FirstName     string  `json:"first_name"`
	LastName      string  `json:"last_name"`
	Email         string  `json:"email"`
	EmailVerified bool    `json:"email_verified"`
	Avatar        *Avatar `json:"avatar,omitempty"`
}

// ProfileUser seeds UserProfileForm. It is never mutated by the form.
type ProfileUser struct {
	ID       string          `json:"id"`
	Metadata ProfileMetadata `json:"metadata"`
}

// ProfileRecord is the server-confirmed record returned by a profile update.
type ProfileRecord struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Metadata ProfileMetadata `json:"metadata"`
}

type ProfileResult struct {
	Success bool           `json:"success"`
	Data    *ProfileRecord `json:"data,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Account is a stored user row.
type Account struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	EmailVerified bool   `json:"email_verified"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	Status        string `json:"status"` // "active", "suspended"
	CreatedAt     int64  `json:"created_at"`
}

func (a Account) DisplayName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

// Record projects an account into what the authentication context stores.
func (a Account) Record() UserRecord {
	return UserRecord{ID: a.ID, Name: a.DisplayName(), Email: a.Email, Image: a.AvatarURL}
}

// ProfileUser builds the form seed for an account.
func (a Account) ProfileUser() ProfileUser {
	p := ProfileUser{
		ID: a.ID,
		Metadata: ProfileMetadata{
			FirstName:     a.FirstName,
			LastName:      a.LastName,
			Email:         a.Email,
			EmailVerified: a.EmailVerified,
		},
	}
	if a.AvatarURL != "" {
		p.Metadata.Avatar = &Avatar{ImgixURL: a.AvatarURL}
	}
	return p
}

type Session struct {
	Token     string     `json:"token"`
	User      UserRecord `json:"user"`
	ExpiresAt int64      `json:"expires_at"`
	IP        string     `json:"ip,omitempty"`
	UserAgent string     `json:"user_agent,omitempty"`
	CreatedAt int64      `json:"created_at"`
}

type Identity struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Provider   string `json:"provider"`
	ProviderID string `json:"provider_id"`
	Email      string `json:"email,omitempty"`
	CreatedAt  int64  `json:"created_at"`
}
