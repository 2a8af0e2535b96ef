package userforms

import (
	"context"
	"net"
	"net/http"
	"strings"
)

type cookiePolicy struct {
	name   string
	maxAge int
	secure bool
}

func (p cookiePolicy) read(r *http.Request) string {
	c, err := r.Cookie(p.name)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(c.Value)
}

func (p cookiePolicy) write(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.name,
		Value:    token,
		Path:     "/",
		MaxAge:   p.maxAge,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (p cookiePolicy) clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     p.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   p.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// cookieSession stores the session and hands the token back to the browser.
type cookieSession struct {
	sessions *Sessions
	policy   cookiePolicy
	w        http.ResponseWriter
	ip       string
	agent    string
}

func (c *cookieSession) Login(ctx context.Context, token string, user UserRecord) error {
	if err := c.sessions.LoginFrom(ctx, token, user, c.ip, c.agent); err != nil {
		return err
	}
	c.policy.write(c.w, token)
	return nil
}

func extractClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			parts := strings.Split(xff, ",")
			return strings.TrimSpace(parts[0])
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
