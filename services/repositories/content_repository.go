package repositories

import (
	"github.com/lac-hong-legacy/codequest_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ContentRepository struct {
	BaseRepository
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

var byOrder = clause.OrderByColumn{Column: clause.Column{Name: "order"}}

func (ds *ContentRepository) GetLanguages() ([]model.Language, error) {
	var languages []model.Language
	err := ds.db.Order("name ASC").Find(&languages).Error
	return languages, err
}

func (ds *ContentRepository) GetLanguage(id string) (*model.Language, error) {
	var language model.Language
	if err := ds.db.Where("id = ?", id).First(&language).Error; err != nil {
		return nil, err
	}
	return &language, nil
}

func (ds *ContentRepository) GetModulesByLanguage(languageID string) ([]model.Module, error) {
	var modules []model.Module
	err := ds.db.Where("language_id = ?", languageID).Order(byOrder).Find(&modules).Error
	return modules, err
}

func (ds *ContentRepository) GetModule(id string) (*model.Module, error) {
	var module model.Module
	if err := ds.db.Where("id = ?", id).First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

// CountLessonsByModule returns module id -> lesson count.
func (ds *ContentRepository) CountLessonsByModule(moduleIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(moduleIDs))
	if len(moduleIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ModuleID string
		Total    int
	}
	err := ds.db.Model(&model.Lesson{}).
		Select("module_id, COUNT(*) AS total").
		Where("module_id IN ?", moduleIDs).
		Group("module_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.ModuleID] = row.Total
	}
	return counts, nil
}

func (ds *ContentRepository) GetLessonsByModule(moduleID string) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := ds.db.Where("module_id = ?", moduleID).Order(byOrder).Find(&lessons).Error
	return lessons, err
}

func (ds *ContentRepository) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *ContentRepository) GetLessonWithExercises(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := ds.db.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).Where("id = ?", id).First(&lesson).Error
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetAllExercises feeds the daily challenge pool; the order must be stable.
func (ds *ContentRepository) GetAllExercises() ([]model.Exercise, error) {
	var exercises []model.Exercise
	err := ds.db.Order("id ASC").Find(&exercises).Error
	return exercises, err
}
