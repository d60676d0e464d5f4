package repositories

import (
	"errors"
	"time"

	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	BaseRepository
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

// RecordLessonCompletion inserts the (user, lesson) row or, if it already
// exists, moves its completed_at. firstTime reports which happened; the
// unique index decides, so two racing first completions cannot both win.
func (ds *ProgressRepository) RecordLessonCompletion(tx *gorm.DB, userID, lessonID string, at time.Time) (firstTime bool, err error) {
	db := ds.conn(tx)
	row := model.LessonProgress{
		ID:          NewID(),
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: at,
	}
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 1 {
		return true, nil
	}

	err = db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Update("completed_at", at).Error
	return false, err
}

func (ds *ProgressRepository) CountLessonProgress(userID, lessonID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Count(&count).Error
	return count, err
}

func (ds *ProgressRepository) CountCompletedLessons(userID string) (int64, error) {
	var count int64
	err := ds.db.Model(&model.LessonProgress{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// CompletedLessonIDs returns the subset of lessonIDs the user has completed.
func (ds *ProgressRepository) CompletedLessonIDs(userID string, lessonIDs []string) (map[string]bool, error) {
	done := make(map[string]bool)
	if len(lessonIDs) == 0 {
		return done, nil
	}
	var ids []string
	err := ds.db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		done[id] = true
	}
	return done, nil
}

// GetLessonsHistory lists completed lessons, newest first.
func (ds *ProgressRepository) GetLessonsHistory(userID string) ([]dto.LessonHistoryItem, error) {
	var items []dto.LessonHistoryItem
	err := ds.db.Table("lesson_progresses AS lp").
		Select(`lp.lesson_id AS lesson_id,
			l.title AS lesson_title,
			m.title AS module_title,
			lang.name AS language_name,
			lp.completed_at AS completed_at`).
		Joins("JOIN lessons l ON l.id = lp.lesson_id").
		Joins("JOIN modules m ON m.id = l.module_id").
		Joins("JOIN languages lang ON lang.id = m.language_id").
		Where("lp.user_id = ?", userID).
		Order("lp.completed_at DESC").
		Scan(&items).Error
	return items, err
}

// GetDailyStatus returns nil, nil when no row exists for the day.
func (ds *ProgressRepository) GetDailyStatus(tx *gorm.DB, userID, day string) (*model.DailyChallengeStatus, error) {
	var status model.DailyChallengeStatus
	err := ds.conn(tx).Where("user_id = ? AND day = ?", userID, day).First(&status).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// ensureDailyStatus creates an open row for the day if none exists.
func (ds *ProgressRepository) ensureDailyStatus(db *gorm.DB, userID, day string, at time.Time) error {
	row := model.DailyChallengeStatus{
		ID:        NewID(),
		UserID:    userID,
		Day:       day,
		CreatedAt: at,
		UpdatedAt: at,
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "day"}},
		DoNothing: true,
	}).Create(&row).Error
}

// MarkDailyCompleted sets completed for the day. Calling it again keeps the
// first completed_at.
func (ds *ProgressRepository) MarkDailyCompleted(tx *gorm.DB, userID, day string, at time.Time) (*model.DailyChallengeStatus, error) {
	db := ds.conn(tx)
	if err := ds.ensureDailyStatus(db, userID, day, at); err != nil {
		return nil, err
	}
	err := db.Model(&model.DailyChallengeStatus{}).
		Where("user_id = ? AND day = ? AND completed = ?", userID, day, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": at,
			"updated_at":   at,
		}).Error
	if err != nil {
		return nil, err
	}
	return ds.GetDailyStatus(tx, userID, day)
}

// IncrementDailyTasks counts one solved task for the day while the day is
// open and under limit. ok is false when nothing was counted.
func (ds *ProgressRepository) IncrementDailyTasks(tx *gorm.DB, userID, day string, limit int, at time.Time) (count int, ok bool, err error) {
	db := ds.conn(tx)
	if err := ds.ensureDailyStatus(db, userID, day, at); err != nil {
		return 0, false, err
	}
	res := db.Model(&model.DailyChallengeStatus{}).
		Where("user_id = ? AND day = ? AND completed = ? AND tasks_completed < ?", userID, day, false, limit).
		Updates(map[string]interface{}{
			"tasks_completed": gorm.Expr("tasks_completed + 1"),
			"updated_at":      at,
		})
	if res.Error != nil {
		return 0, false, res.Error
	}

	status, err := ds.GetDailyStatus(tx, userID, day)
	if err != nil {
		return 0, false, err
	}
	if status == nil {
		return 0, false, gorm.ErrRecordNotFound
	}
	return status.TasksCompleted, res.RowsAffected == 1, nil
}
