package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lac-hong-legacy/codequest_api/model"
)

func newShopService(t *testing.T, db DatabaseProvider, metrics RewardMetrics) *ShopService {
	t.Helper()
	svc := NewShopService()
	svc.wire(db, metrics)
	return svc
}

func TestBuyDebitsAndOwns(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 300)
	item := addItem(t, db, "theme-dark", 120, true)
	metrics := &recordingMetrics{}
	svc := newShopService(t, db, metrics)

	resp, err := svc.Buy(user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, resp.Owned)
	assert.False(t, resp.AlreadyOwned)
	assert.Equal(t, 120, resp.CoinsSpent)
	assert.Equal(t, 180, resp.CoinsLeft)
	assert.Equal(t, 180, loadUser(t, db, user.ID).Coins)
	assert.Equal(t, []int{120}, metrics.purchases)

	again, err := svc.Buy(user.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, again.AlreadyOwned)
	assert.Equal(t, 0, again.CoinsSpent)
	assert.Equal(t, 180, again.CoinsLeft)
	assert.Equal(t, 180, loadUser(t, db, user.ID).Coins)
	assert.Len(t, metrics.purchases, 1)

	var rows int64
	require.NoError(t, db.Db().Model(&model.UserInventory{}).Where("user_id = ?", user.ID).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestBuyNotEnoughCoinsWritesNothing(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 50)
	item := addItem(t, db, "theme-gold", 100, true)
	svc := newShopService(t, db, nil)

	_, err := svc.Buy(user.ID, item.ID)
	appErr := requireStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, "Not enough coins", appErr.Message)
	assert.Equal(t, 50, loadUser(t, db, user.ID).Coins)

	var rows int64
	require.NoError(t, db.Db().Model(&model.UserInventory{}).Count(&rows).Error)
	assert.Equal(t, int64(0), rows)
}

func TestBuyExactBalance(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 100)
	item := addItem(t, db, "avatar-cat", 100, true)
	svc := newShopService(t, db, nil)

	resp, err := svc.Buy(user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, resp.CoinsLeft)
}

func TestBuyMissingOrUnavailable(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 500)
	hidden := addItem(t, db, "retired", 10, false)
	svc := newShopService(t, db, nil)

	_, err := svc.Buy(user.ID, "nope")
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Buy(user.ID, hidden.ID)
	requireStatus(t, err, http.StatusNotFound)

	_, err = svc.Buy("ghost", addItem(t, db, "free", 0, true).ID)
	requireStatus(t, err, http.StatusNotFound)

	assert.Equal(t, 500, loadUser(t, db, user.ID).Coins)
}

func TestListItemsMarksOwned(t *testing.T) {
	db := newTestDB(t)
	user := addUser(t, db, "a@x.io", 0, 500)
	owned := addItem(t, db, "a-owned", 100, true)
	addItem(t, db, "b-other", 200, true)
	addItem(t, db, "c-hidden", 50, false)
	svc := newShopService(t, db, nil)

	_, err := svc.Buy(user.ID, owned.ID)
	require.NoError(t, err)

	anonymous, err := svc.ListItems("")
	require.NoError(t, err)
	for _, item := range anonymous {
		assert.False(t, item.Owned, item.ID)
		assert.True(t, item.IsAvailable, item.ID)
	}

	mine, err := svc.ListItems(user.ID)
	require.NoError(t, err)
	require.Len(t, mine, len(anonymous))
	flags := map[string]bool{}
	for _, item := range mine {
		flags[item.ID] = item.Owned
	}
	assert.True(t, flags[owned.ID])
	assert.False(t, flags["b-other"])
}
