package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter(m *AuthManager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/me", m.AuthRequired(), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(200, gin.H{"user_id": id, "role": c.GetString(ContextRole)})
	})
	router.GET("/admin", m.AuthRequired(), RoleRequired("Admin"), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	return router
}

func TestIssueAndParseToken(t *testing.T) {
	m := NewAuthManager("test-secret", time.Hour)

	token, err := m.IssueToken(7, "Learner")
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "Learner", claims.Role)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := NewAuthManager("secret-a", time.Hour).IssueToken(1, "Learner")
	require.NoError(t, err)

	_, err = NewAuthManager("secret-b", time.Hour).ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	m := NewAuthManager("test-secret", -time.Minute)

	token, err := m.IssueToken(1, "Learner")
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func TestAuthRequired_MissingHeader(t *testing.T) {
	router := newAuthTestRouter(NewAuthManager("test-secret", time.Hour))

	req := httptest.NewRequest("GET", "/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_MalformedHeader(t *testing.T) {
	m := NewAuthManager("test-secret", time.Hour)
	router := newAuthTestRouter(m)

	token, err := m.IssueToken(1, "Learner")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", token) // no Bearer prefix
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthRequired_ValidToken(t *testing.T) {
	m := NewAuthManager("test-secret", time.Hour)
	router := newAuthTestRouter(m)

	token, err := m.IssueToken(7, "Learner")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestRoleRequired(t *testing.T) {
	m := NewAuthManager("test-secret", time.Hour)
	router := newAuthTestRouter(m)

	learnerToken, err := m.IssueToken(1, "Learner")
	require.NoError(t, err)
	adminToken, err := m.IssueToken(2, "Admin")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+learnerToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
