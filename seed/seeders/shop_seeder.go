package seeders

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/lac-hong-legacy/codequest_api/model"
)

// ShopSeeder seeds the cosmetic items sold for coins
type ShopSeeder struct {
	db *gorm.DB
}

func NewShopSeeder(db *gorm.DB) *ShopSeeder {
	return &ShopSeeder{db: db}
}

func (s *ShopSeeder) SeedItems() error {
	for _, item := range shopCatalog() {
		item := item
		if err := insertMissing(s.db, &item, "item", item.Name); err != nil {
			return err
		}
	}

	log.Info("Shop seeding completed")
	return nil
}

func shopCatalog() []model.ShopItem {
	return []model.ShopItem{
		{ID: "item_theme_dark", Name: "Midnight Theme", Description: "A dark editor theme.", ItemType: model.ItemTypeTheme, Price: 100, AssetURL: "/themes/midnight.css", IsAvailable: true},
		{ID: "item_theme_forest", Name: "Forest Theme", Description: "Calm greens for long sessions.", ItemType: model.ItemTypeTheme, Price: 150, AssetURL: "/themes/forest.css", IsAvailable: true},
		{ID: "item_theme_retro", Name: "Retro Terminal", Description: "Green on black, like it's 1983.", ItemType: model.ItemTypeTheme, Price: 250, AssetURL: "/themes/retro.css", IsAvailable: true},
		{ID: "item_avatar_robot", Name: "Robot Avatar", Description: "Beep boop.", ItemType: model.ItemTypeAvatar, Price: 80, AssetURL: "/img/avatars/robot.png", IsAvailable: true},
		{ID: "item_avatar_cat", Name: "Coder Cat", Description: "Sits on your keyboard.", ItemType: model.ItemTypeAvatar, Price: 120, AssetURL: "/img/avatars/cat.png", IsAvailable: true},
		{ID: "item_avatar_wizard", Name: "Code Wizard", Description: "For those who reached the top.", ItemType: model.ItemTypeAvatar, Price: 500, AssetURL: "/img/avatars/wizard.png", IsAvailable: true},
	}
}
