package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medpal/medpal-api/internal/middleware"
	"github.com/medpal/medpal-api/internal/model"
	"github.com/medpal/medpal-api/internal/repository/memory"
	authservice "github.com/medpal/medpal-api/internal/service/auth"
	pkgauth "github.com/medpal/medpal-api/pkg/auth"
	"github.com/medpal/medpal-api/pkg/httputil"
	"github.com/medpal/medpal-api/pkg/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwt := pkgauth.NewJWTService("test-secret", time.Hour)
	svc := authservice.NewService(memory.NewUserRepository(), jwt, time.Hour, "UTC", logger.NewLogger(nil))
	h := NewHandler(svc)

	engine := gin.New()
	public := engine.Group("/api/v1")
	h.RegisterPublicRoutes(public)

	protected := engine.Group("/api/v1")
	protected.Use(middleware.NewAuthMiddleware(jwt).Authenticate())
	h.RegisterRoutes(protected)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func registerBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":    email,
		"password": "correct-horse-battery",
		"timezone": "America/New_York",
	}
}

func decodeToken(t *testing.T, w *httptest.ResponseRecorder) *model.TokenResponse {
	t.Helper()

	var resp struct {
		Success bool                 `json:"success"`
		Data    *model.TokenResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	return resp.Data
}

func TestRegisterEndpoint(t *testing.T) {
	engine := setupRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", registerBody("new@example.com"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	tok := decodeToken(t, w)
	assert.NotEmpty(t, tok.AccessToken)
	require.NotNil(t, tok.User)
	assert.Equal(t, "new@example.com", tok.User.Email)
	assert.Empty(t, tok.User.PasswordHash)
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	engine := setupRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", registerBody("dup@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", registerBody("dup@example.com"))
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	engine := setupRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "not-an-email",
		"password": "correct-horse-battery",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", map[string]interface{}{
		"email":    "short@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	engine := setupRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", registerBody("login@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "login@example.com",
		"password": "correct-horse-battery",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok := decodeToken(t, w)
	assert.NotEmpty(t, tok.AccessToken)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	engine := setupRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", registerBody("victim@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	// Wrong password and unknown account look identical to the caller.
	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "victim@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var wrongPass httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wrongPass))

	w = doJSON(t, engine, http.MethodPost, "/api/v1/auth/login", "", map[string]interface{}{
		"email":    "nobody@example.com",
		"password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	var unknown httputil.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &unknown))

	assert.Equal(t, wrongPass.Error, unknown.Error)
}

func TestGetUserEndpoint(t *testing.T) {
	engine := setupRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/auth/register", "", registerBody("me@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	tok := decodeToken(t, w)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/auth/user", tok.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data *model.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "me@example.com", resp.Data.Email)
	assert.Equal(t, "America/New_York", resp.Data.Timezone)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/auth/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
