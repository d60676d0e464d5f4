package model

// All lists every table AutoMigrate manages.
func All() []interface{} {
	return []interface{}{
		&User{},

		&Language{},
		&Module{},
		&Lesson{},
		&Exercise{},

		&Game{},
		&GameTask{},
		&GameResult{},

		&LessonProgress{},
		&DailyChallengeStatus{},

		&ShopItem{},
		&UserInventory{},
	}
}
