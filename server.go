package userforms

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

type sessionKey struct{}

// SessionFrom returns the session attached by the auth middleware.
func SessionFrom(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok
}

// Server wires the forms to HTTP.
type Server struct {
	cfg      Config
	store    *Store
	sessions *Sessions
	tokens   *TokenIssuer
	auth     *Authenticator
	profiles ProfileUpdater
	previews *PreviewStore
	media    *MediaStore
	oauth    *OAuth
	mounted  *cache.Cache
	registry *prometheus.Registry
	metrics  *Metrics
	clock    Clock
	logger   logrus.FieldLogger
	cookies  cookiePolicy
}

type ServerOption func(*Server)

// WithClock replaces the clock used for the post-login navigation delay.
func WithClock(c Clock) ServerOption {
	return func(s *Server) { s.clock = c }
}

// WithProviders registers extra OAuth providers.
func WithProviders(providers ...OAuthProvider) ServerOption {
	return func(s *Server) {
		for _, p := range providers {
			s.oauth.Register(p)
		}
	}
}

// WithProfileUpdater replaces the default ProfileService.
func WithProfileUpdater(u ProfileUpdater) ServerOption {
	return func(s *Server) { s.profiles = u }
}

func NewServer(cfg Config, exec Executor, logger logrus.FieldLogger, opts ...ServerOption) (*Server, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	store, err := NewStore(exec)
	if err != nil {
		return nil, err
	}
	sessions, err := NewSessions(store, cfg.SessionTTL)
	if err != nil {
		return nil, err
	}
	tokens, err := NewTokenIssuer(cfg.TokenSecret, cfg.TokenIssuer, sessions.TTL())
	if err != nil {
		return nil, err
	}
	media, err := NewMediaStore(cfg.MediaDir)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	metrics := NewMetrics(registry)
	s := &Server{
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		tokens:   tokens,
		auth:     NewAuthenticator(store, tokens, logger),
		profiles: NewProfileService(store, media, logger),
		previews: NewPreviewStore(cfg.PreviewTTL, metrics),
		media:    media,
		oauth:    NewOAuth(store, cfg.OAuthProviders()...),
		mounted:  cache.New(sessions.TTL(), sessions.TTL()/4),
		registry: registry,
		metrics:  metrics,
		clock:    SystemClock,
		logger:   logger,
		cookies: cookiePolicy{
			name:   cfg.CookieName,
			maxAge: int(sessions.TTL().Seconds()),
			secure: cfg.SecureCookies,
		},
	}
	if s.cookies.name == "" {
		s.cookies.name = "session"
	}
	s.mounted.OnEvicted(func(_ string, v any) {
		if f, ok := v.(*UserProfileForm); ok {
			f.Close()
		}
	})
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Server) Sessions() *Sessions { return s.sessions }

func (s *Server) Store() *Store { return s.store }

func (s *Server) Previews() *PreviewStore { return s.previews }

// Purge drops expired sessions and oauth states.
func (s *Server) Purge() error {
	if err := s.sessions.PurgeExpired(); err != nil {
		return errors.Wrap(err, "purge sessions")
	}
	return errors.Wrap(s.oauth.PurgeExpiredStates(), "purge oauth states")
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DefaultDashboardPath, http.StatusSeeOther)
	})
	r.Get("/login", s.showAuth(ModeLogin))
	r.Post("/login", s.submitAuth(ModeLogin, s.auth.LoginHandler()))
	r.Get("/signup", s.showAuth(ModeSignup))
	r.Post("/signup", s.submitAuth(ModeSignup, s.auth.SignupHandler()))
	r.Get("/oauth/{provider}", s.beginOAuth)
	r.Get("/oauth/{provider}/callback", s.completeOAuth)
	r.Get(PreviewPathPrefix+"{id}", s.servePreview)
	r.Handle(MediaPathPrefix+"*", http.StripPrefix(MediaPathPrefix, http.FileServer(s.media.FileSystem())))
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.requireSession)
		r.Get(DefaultDashboardPath, s.showDashboard)
		r.Get("/profile", s.showProfile)
		r.Post("/profile", s.submitProfile)
		r.Post("/profile/avatar", s.selectAvatar)
		r.Post("/logout", s.logout)
	})
	return r
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, title string, body templ.Component) {
	c := body
	if !isHTMX(r) {
		c = Page(title, body)
	}
	templ.Handler(c, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.cookies.read(r)
		sess, err := s.currentSession(token)
		if err != nil {
			if token != "" {
				s.cookies.clear(w)
			}
			router := &responseRouter{target: "/login"}
			router.apply(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

func (s *Server) currentSession(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrNotFound
	}
	if _, err := s.tokens.Verify(token); err != nil {
		return Session{}, err
	}
	return s.sessions.Current(token)
}

func (s *Server) authForm(w http.ResponseWriter, r *http.Request, mode Mode, handler SubmitHandler, router Router) *AuthForm {
	return NewAuthForm(mode, AuthFormDeps{
		OnSubmit: handler,
		Session: &cookieSession{
			sessions: s.sessions,
			policy:   s.cookies,
			w:        w,
			ip:       extractClientIP(r, s.cfg.TrustProxy),
			agent:    r.UserAgent(),
		},
		Router:          router,
		Clock:           s.clock,
		Logger:          s.logger,
		Metrics:         s.metrics,
		NavigationDelay: s.cfg.NavigationDelay,
	})
}

func (s *Server) showAuth(mode Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f := s.authForm(w, r, mode, nil, nil)
		s.render(w, r, http.StatusOK, f.Title(), AuthFormView(f, s.oauth.Providers()))
	}
}

func (s *Server) submitAuth(mode Mode, handler SubmitHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := NewSubmissionFromRequest(r, s.cfg.MaxUploadBytes)
		if err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		router := &responseRouter{}
		f := s.authForm(w, r, mode, handler, router)
		status, _ := f.Submit(r.Context(), sub)
		if router.apply(w, r) {
			return
		}
		s.render(w, r, statusCode(r, status), f.Title(), AuthFormView(f, s.oauth.Providers()))
	}
}

func statusCode(r *http.Request, status Status) int {
	if status.Failed() && !isHTMX(r) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func (s *Server) beginOAuth(w http.ResponseWriter, r *http.Request) {
	url, err := s.oauth.Begin(chi.URLParam(r, "provider"))
	if errors.Is(err, ErrProviderNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.WithError(err).Error("begin oauth")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (s *Server) completeOAuth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	acct, _, err := s.oauth.Complete(r.Context(), chi.URLParam(r, "provider"), q.Get("state"), q.Get("code"))

	var result AuthResult
	switch {
	case errors.Is(err, ErrInvalidOAuthState):
		result = AuthResult{Error: "Login link expired, please try again"}
		err = nil
	case err == nil && acct.Status == "suspended":
		result = AuthResult{Error: "Account suspended"}
	case err == nil:
		result, err = s.auth.issue(acct)
	}

	router := &responseRouter{}
	f := s.authForm(w, r, ModeLogin, nil, router)
	status, _ := f.Resolve(r.Context(), result, err)
	if router.apply(w, r) {
		return
	}
	s.render(w, r, statusCode(r, status), f.Title(), AuthFormView(f, s.oauth.Providers()))
}

func (s *Server) servePreview(w http.ResponseWriter, r *http.Request) {
	p, ok := s.previews.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(p.Data)
}

func (s *Server) showDashboard(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	s.render(w, r, http.StatusOK, "Dashboard", DashboardView(sess.User))
}

// profileForm returns the form mounted for this session, mounting a fresh
// one from the stored account when needed.
func (s *Server) profileForm(r *http.Request, fresh bool) (*UserProfileForm, error) {
	sess, _ := SessionFrom(r.Context())
	if v, ok := s.mounted.Get(sess.Token); ok {
		if f, ok := v.(*UserProfileForm); ok && !fresh {
			return f, nil
		}
		s.mounted.Delete(sess.Token)
	}

	acct, err := s.store.GetUser(sess.User.ID)
	if err != nil {
		return nil, err
	}
	token := sess.Token
	f := NewUserProfileForm(acct.ProfileUser(), ProfileFormDeps{
		Update:   s.profiles,
		Session:  s.sessions,
		Previews: s.previews,
		Token:    func() string { return token },
		Logger:   s.logger,
		Metrics:  s.metrics,
	})
	s.mounted.Set(sess.Token, f, cache.DefaultExpiration)
	return f, nil
}

func (s *Server) showProfile(w http.ResponseWriter, r *http.Request) {
	f, err := s.profileForm(r, false)
	if err == nil && f.Status().Phase == PhaseSucceeded {
		// A reload after a saved update starts from the stored record.
		f, err = s.profileForm(r, true)
	}
	if err != nil {
		s.logger.WithError(err).Error("load profile")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, http.StatusOK, "Profile", ProfileFormView(f))
}

func (s *Server) submitProfile(w http.ResponseWriter, r *http.Request) {
	f, err := s.profileForm(r, false)
	if err != nil {
		s.logger.WithError(err).Error("load profile")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	sub, err := NewSubmissionFromRequest(r, s.cfg.MaxUploadBytes)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if _, err := f.Submit(r.Context(), sub); errors.Is(err, ErrSubmitInFlight) {
		w.WriteHeader(http.StatusConflict)
		return
	}
	s.render(w, r, statusCode(r, f.Status()), "Profile", ProfileFormView(f))
}

func (s *Server) selectAvatar(w http.ResponseWriter, r *http.Request) {
	f, err := s.profileForm(r, false)
	if err != nil {
		s.logger.WithError(err).Error("load profile")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	sub, err := NewSubmissionFromRequest(r, s.cfg.MaxUploadBytes)
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	url, err := f.SelectAvatar(sub.File(FieldAvatar))
	code := http.StatusOK
	if err != nil {
		code = http.StatusUnprocessableEntity
	}
	templ.Handler(AvatarPreview(url, false), templ.WithStatus(code)).ServeHTTP(w, r)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	sess, _ := SessionFrom(r.Context())
	if err := s.sessions.Logout(sess.Token); err != nil {
		s.logger.WithError(err).Error("logout")
	}
	s.mounted.Delete(sess.Token)
	s.cookies.clear(w)
	router := &responseRouter{target: "/login"}
	router.apply(w, r)
}
