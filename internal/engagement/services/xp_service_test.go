package services

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/architect/classroom-backend/internal/engagement/models"
	"github.com/architect/classroom-backend/internal/engagement/repository"
	usermodels "github.com/architect/classroom-backend/internal/users/models"
)

func newXPTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func newXPService(t *testing.T, db *gorm.DB) *XPService {
	t.Helper()
	tx := repository.NewTxRunner(db)
	return NewXPService(tx, repository.NewLedgerRepository(db), NewBadgeService(tx), zap.NewNop())
}

func TestLevelForXP_Boundaries(t *testing.T) {
	cases := []struct {
		xp    int
		level string
	}{
		{0, usermodels.LevelBeginner},
		{999, usermodels.LevelBeginner},
		{1000, usermodels.LevelIntermediate},
		{4999, usermodels.LevelIntermediate},
		{5000, usermodels.LevelAdvanced},
		{12000, usermodels.LevelAdvanced},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelForXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestGrantXP_UpdatesUserAndLedger(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	result, err := svc.GrantXP(context.Background(), user.ID, 50, "quiz completed", "quiz")
	require.NoError(t, err)

	assert.Equal(t, 50, result.XP)
	assert.Equal(t, usermodels.LevelBeginner, result.Level)
	assert.False(t, result.LeveledUp)

	var stored usermodels.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, 50, stored.XP)

	var entries []models.XpTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, 50, entries[0].Amount)
	assert.Equal(t, "quiz completed", entries[0].Reason)
	assert.Equal(t, "quiz", entries[0].ActivityType)
}

func TestGrantXP_CumulativeEqualsLedgerSum(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	ctx := context.Background()
	amounts := []int{120, 75, -20, 300, 5}
	for _, amount := range amounts {
		_, err := svc.GrantXP(ctx, user.ID, amount, "adjustment", "test")
		require.NoError(t, err)
	}

	xp, err := svc.GetXP(ctx, user.ID)
	require.NoError(t, err)
	sum, err := svc.LedgerSum(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, 480, xp)
	assert.Equal(t, xp, sum)
}

func TestGrantXP_NegativeCorrection(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	ctx := context.Background()
	_, err := svc.GrantXP(ctx, user.ID, 100, "quiz completed", "quiz")
	require.NoError(t, err)

	result, err := svc.GrantXP(ctx, user.ID, -20, "scoring correction", "correction")
	require.NoError(t, err)
	assert.Equal(t, 80, result.XP)

	var entries []models.XpTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Order("transaction_id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)
	assert.Equal(t, -20, entries[1].Amount)
}

func TestGrantXP_ConcurrentGrantsSumConsistent(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	const workers = 8
	const amount = 25

	ctx := context.Background()
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GrantXP(ctx, user.ID, amount, "quiz completed", "quiz")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	xp, err := svc.GetXP(ctx, user.ID)
	require.NoError(t, err)
	sum, err := svc.LedgerSum(ctx, user.ID)
	require.NoError(t, err)

	assert.Equal(t, workers*amount, xp)
	assert.Equal(t, xp, sum)
}

func TestGrantXP_LevelUpAtThreshold(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	ctx := context.Background()
	_, err := svc.GrantXP(ctx, user.ID, 999, "warmup", "quiz")
	require.NoError(t, err)

	result, err := svc.GrantXP(ctx, user.ID, 1, "threshold", "quiz")
	require.NoError(t, err)

	assert.Equal(t, 1000, result.XP)
	assert.Equal(t, usermodels.LevelIntermediate, result.Level)
	assert.True(t, result.LeveledUp)

	var stored usermodels.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, usermodels.LevelIntermediate, stored.Level)
}

func TestGrantXP_AwardsEligibleBadgesOnce(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	require.NoError(t, db.Create(&models.Badge{
		Name:        "Century",
		Description: "Earn 100 XP",
		XPThreshold: 100,
	}).Error)

	ctx := context.Background()
	result, err := svc.GrantXP(ctx, user.ID, 150, "quiz completed", "quiz")
	require.NoError(t, err)
	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "Century", result.NewBadges[0].Name)

	// Already held, not re-awarded.
	result, err = svc.GrantXP(ctx, user.ID, 10, "quiz completed", "quiz")
	require.NoError(t, err)
	assert.Empty(t, result.NewBadges)

	var held []models.UserBadge
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&held).Error)
	assert.Len(t, held, 1)
}

func TestLedgerHistory_ClampsLimit(t *testing.T) {
	db := newXPTestDB(t)
	user := seedLearner(t, db)
	svc := newXPService(t, db)

	ctx := context.Background()
	ledger := repository.NewLedgerRepository(db)
	for i := 0; i < 120; i++ {
		require.NoError(t, ledger.Append(ctx, &models.XpTransaction{
			UserID:       user.ID,
			Amount:       1,
			Reason:       "quiz completed",
			ActivityType: "quiz",
		}))
	}

	// Oversized limits clamp to the cap instead of resetting to the default.
	entries, err := svc.LedgerHistory(ctx, user.ID, 150)
	require.NoError(t, err)
	assert.Len(t, entries, 100)

	entries, err = svc.LedgerHistory(ctx, user.ID, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 20)
}

func TestGrantXP_UnknownUserRollsBack(t *testing.T) {
	db := newXPTestDB(t)
	svc := newXPService(t, db)

	_, err := svc.GrantXP(context.Background(), 42, 100, "quiz completed", "quiz")
	assert.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.XpTransaction{}).Count(&count).Error)
	assert.Zero(t, count)
}
