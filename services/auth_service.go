package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"stay-booking/auth"
	"stay-booking/kvstore"
	"stay-booking/logger"
	"stay-booking/models"
	"stay-booking/repositories"
	"stay-booking/utils"
)

const minPasswordLength = 6

var (
	ErrInvalidCredentials = errors.New("invalid login credentials")
	ErrSessionInvalid     = errors.New("session is invalid or has been signed out")
)

var KnownProviders = []string{models.ProviderGoogle, models.ProviderApple, models.ProviderFacebook}

type Session struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	AuthID      string    `json:"auth_id"`
	Email       string    `json:"email"`
	IsNewUser   bool      `json:"is_new_user"`
}

type AuthService struct {
	Accounts  repositories.AuthAccountRepository
	Tokens    *auth.TokenManager
	Store     kvstore.Store
	Providers map[string]auth.Provider
	Events    EventPublisher
	// Users, when set, provisions the users row before a session is handed out.
	// The auth event still fans out to other instances.
	Users     *UserService
	StateTTL  time.Duration
	Now       func() time.Time
}

func NewAuthService(accounts repositories.AuthAccountRepository, tokens *auth.TokenManager, store kvstore.Store, providers map[string]auth.Provider, events EventPublisher, stateTTL time.Duration) *AuthService {
	if providers == nil {
		providers = map[string]auth.Provider{}
	}
	return &AuthService{
		Accounts:  accounts,
		Tokens:    tokens,
		Store:     store,
		Providers: providers,
		Events:    publisherOrNoop(events),
		StateTTL:  stateTTL,
		Now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) SignUp(ctx context.Context, email, password string) (Session, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return Session{}, ValidationError{Field: "email", Msg: "invalid email"}
	}
	if len(password) < minPasswordLength {
		return Session{}, ValidationError{Field: "password", Msg: "must be at least 6 characters"}
	}

	existing, err := s.Accounts.FindByEmail(ctx, email)
	if err != nil {
		return Session{}, FetchError{Op: "auth account", Err: err}
	}
	if existing != nil {
		return Session{}, ConflictError{Resource: "account", Msg: "user already registered"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, err
	}
	account := &models.AuthAccount{Email: email, PasswordHash: string(hash), Provider: models.ProviderEmail}
	if err := s.Accounts.Create(ctx, account); err != nil {
		if repositories.IsDuplicate(err) {
			return Session{}, ConflictError{Resource: "account", Msg: "user already registered"}
		}
		return Session{}, FetchError{Op: "auth account", Err: err}
	}
	return s.startSession(ctx, account, AuthSignedUp)
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (Session, error) {
	account, err := s.Accounts.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return Session{}, FetchError{Op: "auth account", Err: err}
	}
	if account == nil || account.PasswordHash == "" {
		return Session{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return Session{}, ErrInvalidCredentials
	}
	return s.startSession(ctx, account, AuthSignedIn)
}

func (s *AuthService) startSession(ctx context.Context, account *models.AuthAccount, event string) (Session, error) {
	if s.Users != nil {
		if _, err := s.Users.EnsureUser(ctx, account.ID, account.Email); err != nil {
			logger.L().Error("user provisioning failed", zap.String("auth_id", account.ID), zap.Error(err))
			return Session{}, FetchError{Op: "user", Err: err}
		}
	}
	raw, id, err := s.Tokens.Issue(account.ID, account.Email)
	if err != nil {
		return Session{}, err
	}
	if err := s.Accounts.TouchSignIn(ctx, account.ID, s.Now()); err != nil {
		logger.L().Warn("could not record sign in", zap.String("auth_id", account.ID), zap.Error(err))
	}
	if err := s.Events.AuthStateChanged(ctx, event, account.ID, account.Email); err != nil {
		logger.L().Warn("auth event not published", zap.String("event", event), zap.Error(err))
	}
	return Session{
		AccessToken: raw,
		ExpiresAt:   id.ExpiresAt,
		AuthID:      account.ID,
		Email:       account.Email,
		IsNewUser:   event == AuthSignedUp,
	}, nil
}

// Authenticate verifies a bearer token and rejects signed-out sessions.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (auth.Identity, error) {
	id, err := s.Tokens.Parse(raw)
	if err != nil {
		return auth.Identity{}, ErrSessionInvalid
	}
	if id.TokenID != "" {
		if _, err := s.Store.Get(ctx, revokedKey(id.TokenID)); err == nil {
			return auth.Identity{}, ErrSessionInvalid
		} else if !errors.Is(err, kvstore.ErrNotFound) {
			return auth.Identity{}, FetchError{Op: "session", Err: err}
		}
	}
	return id, nil
}

func (s *AuthService) SignOut(ctx context.Context, id auth.Identity) error {
	if !id.Authenticated() {
		return ErrAuthRequired
	}
	ttl := id.ExpiresAt.Sub(s.Now())
	if id.TokenID != "" && ttl > 0 {
		if err := s.Store.Set(ctx, revokedKey(id.TokenID), []byte("1"), ttl); err != nil {
			return FetchError{Op: "session", Err: err}
		}
	}
	if err := s.Events.AuthStateChanged(ctx, AuthSignedOut, id.AuthID, id.Email); err != nil {
		logger.L().Warn("auth event not published", zap.String("event", AuthSignedOut), zap.Error(err))
	}
	return nil
}

func revokedKey(jti string) string { return "revoked:" + jti }
func stateKey(state string) string { return "oauth_state:" + state }

func (s *AuthService) provider(name string) (auth.Provider, error) {
	if p, ok := s.Providers[name]; ok {
		return p, nil
	}
	for _, known := range KnownProviders {
		if known == name {
			return nil, UnavailableError{Service: name + " sign-in", Err: auth.ErrProviderNotConfigured}
		}
	}
	return nil, ValidationError{Field: "provider", Msg: "unsupported provider"}
}

// OAuthURL starts the redirect flow: the returned URL sends the user to the provider.
func (s *AuthService) OAuthURL(ctx context.Context, providerName string) (string, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return "", err
	}
	state, err := utils.GenerateSecureToken(24)
	if err != nil {
		return "", err
	}
	if _, err := s.Store.SetNX(ctx, stateKey(state), []byte(providerName), s.StateTTL); err != nil {
		return "", FetchError{Op: "oauth state", Err: err}
	}
	return p.AuthCodeURL(state), nil
}

// OAuthCallback finishes the redirect flow and links or creates the account.
func (s *AuthService) OAuthCallback(ctx context.Context, providerName, code, state string) (Session, error) {
	p, err := s.provider(providerName)
	if err != nil {
		return Session{}, err
	}
	if code == "" || state == "" {
		return Session{}, ValidationError{Field: "code", Msg: "missing code or state"}
	}
	saved, err := s.Store.Take(ctx, stateKey(state))
	if err != nil || string(saved) != providerName {
		return Session{}, ValidationError{Field: "state", Msg: "invalid or expired oauth state"}
	}

	profile, err := p.Exchange(ctx, code)
	if err != nil {
		return Session{}, FetchError{Op: providerName + " exchange", Err: err}
	}

	account, err := s.Accounts.FindByProvider(ctx, profile.Provider, profile.Subject)
	if err != nil {
		return Session{}, FetchError{Op: "auth account", Err: err}
	}
	if account != nil {
		return s.startSession(ctx, account, AuthSignedIn)
	}

	if profile.Email == "" {
		return Session{}, ValidationError{Field: "email", Msg: "provider did not share an email address"}
	}
	account, err = s.Accounts.FindByEmail(ctx, profile.Email)
	if err != nil {
		return Session{}, FetchError{Op: "auth account", Err: err}
	}
	if account != nil {
		if err := s.Accounts.LinkProvider(ctx, account.ID, profile.Provider, profile.Subject); err != nil {
			return Session{}, FetchError{Op: "auth account", Err: err}
		}
		return s.startSession(ctx, account, AuthSignedIn)
	}

	subject := profile.Subject
	account = &models.AuthAccount{Email: profile.Email, Provider: profile.Provider, ProviderSubject: &subject}
	if err := s.Accounts.Create(ctx, account); err != nil {
		return Session{}, FetchError{Op: "auth account", Err: err}
	}
	return s.startSession(ctx, account, AuthSignedUp)
}
