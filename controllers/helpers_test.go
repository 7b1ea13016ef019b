package controllers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"stay-booking/auth"
	"stay-booking/middleware"
)

var alice = auth.Identity{AuthID: "auth-alice", Email: "alice@example.com"}

// stubAuthenticator accepts the single token "alice-token".
type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(_ context.Context, raw string) (auth.Identity, error) {
	if raw == "alice-token" {
		return alice, nil
	}
	return auth.Identity{}, errors.New("session is invalid or has been signed out")
}

func newEngine() (*gin.Engine, *gin.RouterGroup, gin.HandlerFunc) {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
	r := gin.New()
	r.Use(middleware.RequestID())
	authn := stubAuthenticator{}
	api := r.Group("/api", middleware.OptionalAuth(authn))
	return r, api, middleware.RequireAuth(authn)
}

func doJSON(t *testing.T, r http.Handler, method, target string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var out errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
