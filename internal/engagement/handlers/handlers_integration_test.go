package handlers

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
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/architect/classroom-backend/internal/common/middleware"
	"github.com/architect/classroom-backend/internal/engagement/models"
	"github.com/architect/classroom-backend/internal/engagement/repository"
	"github.com/architect/classroom-backend/internal/engagement/services"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
	userrepo "github.com/architect/classroom-backend/internal/users/repository"
)

func setupEngagementRouter(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&usermodels.User{},
		&models.XpTransaction{},
		&models.Badge{},
		&models.UserBadge{},
	))

	user := &usermodels.User{Username: "ada", Email: "ada@example.com", Role: usermodels.RoleLearner, Level: usermodels.LevelBeginner}
	require.NoError(t, db.Create(user).Error)

	users := userrepo.NewUserRepository(db)
	tx := repository.NewTxRunner(db)
	streaks := services.NewStreakService(users, zap.NewNop())
	xp := services.NewXPService(tx, repository.NewLedgerRepository(db), services.NewBadgeService(tx), zap.NewNop())
	handler := NewEngagementHandler(streaks, xp)

	auth := middleware.NewAuthManager("test-secret", time.Hour)
	token, err := auth.IssueToken(user.ID, usermodels.RoleLearner)
	require.NoError(t, err)

	router := gin.New()
	group := router.Group("/api/v1/learner", auth.AuthRequired())
	group.POST("/activity", handler.RecordActivity)
	group.GET("/streak", handler.GetStreak)
	group.POST("/xp", handler.GrantXP)
	group.GET("/xp", handler.GetXP)
	group.GET("/xp/ledger", handler.GetLedger)

	return router, db, token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecordActivity_RespondsImmediately(t *testing.T) {
	router, db, token := setupEngagementRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/learner/activity", token, nil)
	assert.Equal(t, http.StatusAccepted, w.Code)

	// The detached update lands shortly after the response.
	require.Eventually(t, func() bool {
		var user usermodels.User
		if err := db.First(&user, 1).Error; err != nil {
			return false
		}
		return user.CurrentStreak == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestGrantAndReadXP(t *testing.T) {
	router, _, token := setupEngagementRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/learner/xp", token, gin.H{
		"amount":        120,
		"reason":        "quiz completed",
		"activity_type": "quiz",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var granted struct {
		CurrentXP int    `json:"current_xp"`
		Level     string `json:"level"`
		LevelUp   bool   `json:"level_up"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &granted))
	assert.Equal(t, 120, granted.CurrentXP)
	assert.Equal(t, usermodels.LevelBeginner, granted.Level)

	w = doJSON(t, router, "GET", "/api/v1/learner/xp", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"xp":120`)

	w = doJSON(t, router, "GET", "/api/v1/learner/xp/ledger", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ledger struct {
		Transactions []models.XpTransaction `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ledger))
	require.Len(t, ledger.Transactions, 1)
	assert.Equal(t, 120, ledger.Transactions[0].Amount)
}

func TestGrantXP_RejectsMissingFields(t *testing.T) {
	router, _, token := setupEngagementRouter(t)

	w := doJSON(t, router, "POST", "/api/v1/learner/xp", token, gin.H{"amount": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStreakEndpointRequiresAuth(t *testing.T) {
	router, _, _ := setupEngagementRouter(t)

	req := httptest.NewRequest("GET", "/api/v1/learner/streak", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
