package controllers

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"stay-booking/auth"
	"stay-booking/kvstore"
	"stay-booking/models"
	"stay-booking/repositories/mocks"
	"stay-booking/services"
)

type fakeProvider struct{}

func (fakeProvider) Name() string { return models.ProviderGoogle }

func (fakeProvider) AuthCodeURL(state string) string {
	return "https://provider.test/authorize?state=" + url.QueryEscape(state)
}

func (fakeProvider) Exchange(context.Context, string) (auth.Profile, error) {
	return auth.Profile{Provider: models.ProviderGoogle, Subject: "g-1", Email: "alice@example.com"}, nil
}

func newAuthEngine(accounts *mocks.AuthAccountRepository, users *mocks.UserRepository, appRedirect string) http.Handler {
	accounts.On("TouchSignIn", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	tokens := auth.NewTokenManager("test-secret", time.Hour, "stay-booking")
	svc := services.NewAuthService(accounts, tokens, kvstore.NewMemoryStore(),
		map[string]auth.Provider{models.ProviderGoogle: fakeProvider{}}, nil, 10*time.Minute)
	ctl := NewAuthController(svc, services.NewUserService(users, nil), appRedirect)

	r, api, requireAuth := newEngine()
	api.POST("/auth/signup", ctl.SignUp)
	api.POST("/auth/signin", ctl.SignIn)
	api.GET("/auth/session", requireAuth, ctl.Session)
	api.GET("/auth/oauth/:provider", ctl.OAuthURL)
	api.GET("/auth/callback/:provider", ctl.OAuthCallback)
	api.GET("/users/exists", requireAuth, ctl.UserExists)
	return r
}

func oauthState(t *testing.T, r http.Handler) string {
	t.Helper()
	w := doJSON(t, r, http.MethodGet, "/api/auth/oauth/google", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	u, err := url.Parse(body.Data.URL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestAuthController(t *testing.T) {
	t.Run("signup rejects malformed email", func(t *testing.T) {
		r := newAuthEngine(new(mocks.AuthAccountRepository), new(mocks.UserRepository), "")
		w := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{"email": "nope", "password": "secret1"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("signup short password", func(t *testing.T) {
		accounts := new(mocks.AuthAccountRepository)
		r := newAuthEngine(accounts, new(mocks.UserRepository), "")
		w := doJSON(t, r, http.MethodPost, "/api/auth/signup", map[string]string{"email": "a@example.com", "password": "123"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "error.validation", decodeError(t, w).Error.Code)
	})

	t.Run("signin unknown account", func(t *testing.T) {
		accounts := new(mocks.AuthAccountRepository)
		accounts.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, nil)
		r := newAuthEngine(accounts, new(mocks.UserRepository), "")
		w := doJSON(t, r, http.MethodPost, "/api/auth/signin", map[string]string{"email": "ghost@example.com", "password": "whatever"}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "error.invalidCredentials", decodeError(t, w).Error.Code)
	})

	t.Run("unknown provider", func(t *testing.T) {
		r := newAuthEngine(new(mocks.AuthAccountRepository), new(mocks.UserRepository), "")
		w := doJSON(t, r, http.MethodGet, "/api/auth/oauth/myspace", nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("known but unconfigured provider", func(t *testing.T) {
		r := newAuthEngine(new(mocks.AuthAccountRepository), new(mocks.UserRepository), "")
		w := doJSON(t, r, http.MethodGet, "/api/auth/oauth/apple", nil, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("callback redirects to the app", func(t *testing.T) {
		accounts := new(mocks.AuthAccountRepository)
		accounts.On("FindByProvider", mock.Anything, models.ProviderGoogle, "g-1").
			Return(&models.AuthAccount{ID: "auth-alice", Email: "alice@example.com"}, nil)
		r := newAuthEngine(accounts, new(mocks.UserRepository), "stay://auth/callback")

		state := oauthState(t, r)
		w := doJSON(t, r, http.MethodGet, "/api/auth/callback/google?code=abc&state="+url.QueryEscape(state), nil, "")
		require.Equal(t, http.StatusFound, w.Code, w.Body.String())
		loc, err := url.Parse(w.Header().Get("Location"))
		require.NoError(t, err)
		assert.Equal(t, "stay", loc.Scheme)
		assert.NotEmpty(t, loc.Query().Get("access_token"))
		assert.Equal(t, "false", loc.Query().Get("is_new_user"))

		// the state is single use
		w = doJSON(t, r, http.MethodGet, "/api/auth/callback/google?code=abc&state="+url.QueryEscape(state), nil, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("session includes the profile when provisioned", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", mock.Anything, alice.AuthID).Return(&models.User{ID: "u1", AuthID: alice.AuthID}, nil)
		r := newAuthEngine(new(mocks.AuthAccountRepository), users, "")
		w := doJSON(t, r, http.MethodGet, "/api/auth/session", nil, "alice-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"auth_id":"auth-alice"`)
		assert.Contains(t, w.Body.String(), `"id":"u1"`)
	})

	t.Run("users exists answers for the caller only", func(t *testing.T) {
		users := new(mocks.UserRepository)
		users.On("FindByAuthID", mock.Anything, alice.AuthID).Return(&models.User{ID: "u1", AuthID: alice.AuthID}, nil)
		r := newAuthEngine(new(mocks.AuthAccountRepository), users, "")
		w := doJSON(t, r, http.MethodGet, "/api/users/exists?email=bob@example.com", nil, "alice-token")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"exists":true}}`, w.Body.String())

		w = doJSON(t, r, http.MethodGet, "/api/users/exists?email=bob@example.com", nil, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
