package model

import "time"

const (
	ItemTypeAvatar = "avatar"
	ItemTypeTheme  = "theme"
)

type ShopItem struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ItemType    string    `json:"item_type" gorm:"not null"`
	Price       int       `json:"price_coins" gorm:"not null;check:price >= 0"`
	AssetURL    string    `json:"asset_url"`
	IsAvailable bool      `json:"is_available" gorm:"not null;default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserInventory holds at most one row per (user, item).
type UserInventory struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_item"`
	ItemID      string    `json:"item_id" gorm:"not null;uniqueIndex:idx_user_item"`
	PurchasedAt time.Time `json:"purchased_at" gorm:"not null"`
}
