package points

import (
	"fmt"
	"testing"

	"pawsitivity/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Profile{}, &domain.Token{}))
	return db
}

func seedProfile(t *testing.T, db *gorm.DB, username string, sendable int) domain.Profile {
	t.Helper()
	user := domain.NewUser(username, "x", username, "Test", username+"@example.com")
	require.NoError(t, db.Create(&user).Error)
	profile := domain.NewProfile(user.ID, "", false, false)
	profile.Points = sendable
	require.NoError(t, db.Create(&profile).Error)
	return profile
}

func reload(t *testing.T, db *gorm.DB, userID uint) domain.Profile {
	t.Helper()
	var p domain.Profile
	require.NoError(t, db.Where("user_id = ?", userID).First(&p).Error)
	return p
}

func TestDistributeEvenSplit(t *testing.T) {
	db := newTestDB(t)
	sender := seedProfile(t, db, "sender", 30)
	r1 := seedProfile(t, db, "rone", 0)
	r2 := seedProfile(t, db, "rtwo", 0)

	share, err := Distribute(db, 10, sender.UserID, []uint{r1.UserID, r2.UserID})
	require.NoError(t, err)
	assert.Equal(t, 10, share)

	assert.Equal(t, 10, reload(t, db, sender.UserID).Points)
	for _, rec := range []domain.Profile{r1, r2} {
		got := reload(t, db, rec.UserID)
		assert.Equal(t, 10, got.Wallet)
		assert.Equal(t, 10, got.AllTimePoints)
	}
}

func TestDistributeClampsAtZero(t *testing.T) {
	db := newTestDB(t)
	sender := seedProfile(t, db, "sender", 5)
	recipient := seedProfile(t, db, "rec", 0)

	share, err := Distribute(db, 10, sender.UserID, []uint{recipient.UserID})
	require.NoError(t, err)
	assert.Equal(t, 5, share)

	// Sender drains to exactly zero, never negative
	assert.Equal(t, 0, reload(t, db, sender.UserID).Points)
	assert.Equal(t, 5, reload(t, db, recipient.UserID).Wallet)
}

func TestDistributeDropsRemainder(t *testing.T) {
	db := newTestDB(t)
	sender := seedProfile(t, db, "sender", 10)
	r1 := seedProfile(t, db, "rone", 0)
	r2 := seedProfile(t, db, "rtwo", 0)
	r3 := seedProfile(t, db, "rthree", 0)

	// Requested total 30 exceeds the budget of 10; 10/3 = 3 with 1 dropped
	share, err := Distribute(db, 10, sender.UserID, []uint{r1.UserID, r2.UserID, r3.UserID})
	require.NoError(t, err)
	assert.Equal(t, 3, share)

	assert.Equal(t, 0, reload(t, db, sender.UserID).Points)
	granted := 0
	for _, rec := range []domain.Profile{r1, r2, r3} {
		granted += reload(t, db, rec.UserID).Wallet
	}
	// Recipients never gain more than the sender lost
	assert.Equal(t, 9, granted)
}

func TestDistributeConservesPointsAcrossSends(t *testing.T) {
	db := newTestDB(t)
	sender := seedProfile(t, db, "sender", 25)
	r1 := seedProfile(t, db, "rone", 0)
	r2 := seedProfile(t, db, "rtwo", 0)

	// Three sends requesting 20 each against a budget of 25: the first debits
	// in full, the second drains the remaining 5, the third finds nothing.
	deducted := 0
	before := 25
	for i := 0; i < 3; i++ {
		_, err := Distribute(db, 10, sender.UserID, []uint{r1.UserID, r2.UserID})
		require.NoError(t, err)
		after := reload(t, db, sender.UserID).Points
		deducted += before - after
		before = after
	}

	assert.Equal(t, 0, reload(t, db, sender.UserID).Points)
	granted := reload(t, db, r1.UserID).Wallet + reload(t, db, r2.UserID).Wallet
	// Recipients collectively never gain more than the sender lost
	assert.LessOrEqual(t, granted, deducted)
	assert.Equal(t, 25, deducted)
	assert.Equal(t, 24, granted)
}

func TestDistributeNoRecipientsIsNoOp(t *testing.T) {
	db := newTestDB(t)
	sender := seedProfile(t, db, "sender", 30)

	share, err := Distribute(db, 10, sender.UserID, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, share)
	assert.Equal(t, 30, reload(t, db, sender.UserID).Points)
}

func TestDistributeZeroPointMessage(t *testing.T) {
	db := newTestDB(t)
	sender := seedProfile(t, db, "sender", 30)
	recipient := seedProfile(t, db, "rec", 0)

	share, err := Distribute(db, 0, sender.UserID, []uint{recipient.UserID})
	require.NoError(t, err)
	assert.Equal(t, 0, share)
	assert.Equal(t, 30, reload(t, db, sender.UserID).Points)
	assert.Equal(t, 0, reload(t, db, recipient.UserID).Wallet)
}

func TestLoadTableFallsBackToDefaults(t *testing.T) {
	db := newTestDB(t)

	table, err := LoadTable(db)
	require.NoError(t, err)
	assert.Equal(t, DefaultTable(), table)

	require.NoError(t, db.Create(&domain.Token{Tag: "🐙", Points: 25}).Error)
	table, err = LoadTable(db)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"🐙": 25}, table)
}
