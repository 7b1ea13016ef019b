package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"stay-booking/auth"
)

type rejectAll struct{}

func (rejectAll) Authenticate(context.Context, string) (auth.Identity, error) {
	return auth.Identity{}, errors.New("no tokens in this test")
}

func dashboard() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("dashboard"))
	})
}

func get(r http.Handler, path string, user, pass string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if user != "" {
		req.SetBasicAuth(user, pass)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMonitorRequiresBasicAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(Controllers{}, rejectAll{}, Options{
		Monitor:         dashboard(),
		MonitorPath:     "/monitoring",
		MonitorAccounts: gin.Accounts{"admin": "s3cret"},
	})

	assert.Equal(t, http.StatusUnauthorized, get(r, "/monitoring/", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/monitoring/", "admin", "guess").Code)

	w := get(r, "/monitoring/queues", "admin", "s3cret")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "dashboard", w.Body.String())
}

func TestMonitorNotMountedWithoutAccounts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := SetupRouter(Controllers{}, rejectAll{}, Options{Monitor: dashboard(), MonitorPath: "/monitoring"})

	assert.Equal(t, http.StatusNotFound, get(r, "/monitoring/", "", "").Code)
	assert.Equal(t, http.StatusOK, get(r, "/health", "", "").Code)
}
