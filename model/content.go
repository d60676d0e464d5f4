package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	LessonTypeTheory   = "theory"
	LessonTypePractice = "practice"

	ExerciseTypeMultipleChoice = "multiple_choice"
	ExerciseTypeFillBlank      = "fill_blank"
	ExerciseTypeCode           = "code"
)

// Language is the root of the course tree (Python, JavaScript...).
type Language struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	ImageURL    string    `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:LanguageID;constraint:OnDelete:CASCADE"`
}

type Module struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	LanguageID  string    `json:"language_id" gorm:"not null;index"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	Order       int       `json:"order" gorm:"not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Language Language `json:"-" gorm:"foreignKey:LanguageID"`
	Lessons  []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

type Lesson struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	ModuleID   string    `json:"module_id" gorm:"not null;index"`
	Title      string    `json:"title" gorm:"not null"`
	LessonType string    `json:"lesson_type" gorm:"not null;default:theory"`
	Order      int       `json:"order" gorm:"not null"`
	Content    string    `json:"content" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Module    Module     `json:"-" gorm:"foreignKey:ModuleID"`
	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

// Exercise options are stored as raw JSON; use Choices to read them.
type Exercise struct {
	ID           string         `json:"id" gorm:"primaryKey"`
	LessonID     string         `json:"lesson_id" gorm:"not null;index"`
	ExerciseType string         `json:"exercise_type" gorm:"not null"`
	Question     string         `json:"question" gorm:"type:text;not null"`
	Options      datatypes.JSON `json:"options"`
	Answer       string         `json:"answer" gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Choices decodes the stored options once into a ChoiceSet.
func (e Exercise) Choices() ChoiceSet {
	return DecodeChoices(e.Options)
}
