package repositories

import (
	"time"

	"github.com/lac-hong-legacy/codequest_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ShopRepository struct {
	BaseRepository
}

func NewShopRepository(db *gorm.DB) *ShopRepository {
	return &ShopRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (ds *ShopRepository) GetItems() ([]model.ShopItem, error) {
	var items []model.ShopItem
	err := ds.db.Where("is_available = ?", true).
		Order("price ASC").Order("name ASC").
		Find(&items).Error
	return items, err
}

func (ds *ShopRepository) GetItem(tx *gorm.DB, itemID string) (*model.ShopItem, error) {
	var item model.ShopItem
	if err := ds.conn(tx).Where("id = ?", itemID).First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (ds *ShopRepository) OwnedItemIDs(userID string) (map[string]bool, error) {
	owned := make(map[string]bool)
	var ids []string
	err := ds.db.Model(&model.UserInventory{}).Where("user_id = ?", userID).Pluck("item_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		owned[id] = true
	}
	return owned, nil
}

func (ds *ShopRepository) IsOwned(tx *gorm.DB, userID, itemID string) (bool, error) {
	var count int64
	err := ds.conn(tx).Model(&model.UserInventory{}).
		Where("user_id = ? AND item_id = ?", userID, itemID).
		Count(&count).Error
	return count > 0, err
}

// AddToInventory returns false when the row already existed.
func (ds *ShopRepository) AddToInventory(tx *gorm.DB, userID, itemID string, at time.Time) (bool, error) {
	row := model.UserInventory{
		ID:          NewID(),
		UserID:      userID,
		ItemID:      itemID,
		PurchasedAt: at,
	}
	res := ds.conn(tx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
