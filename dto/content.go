package dto

import "github.com/lac-hong-legacy/codequest_api/model"

type LanguageResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

type ModuleResponse struct {
	ID           string `json:"id"`
	LanguageID   string `json:"language_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Order        int    `json:"order"`
	LessonsCount int    `json:"lessons_count"`
}

type LessonSummaryResponse struct {
	ID         string `json:"id"`
	ModuleID   string `json:"module_id"`
	Title      string `json:"title"`
	LessonType string `json:"lesson_type"`
	Order      int    `json:"order"`
	Completed  bool   `json:"completed"`
}

type ExerciseResponse struct {
	ID           string          `json:"id"`
	ExerciseType string          `json:"exercise_type"`
	Question     string          `json:"question"`
	Options      model.ChoiceSet `json:"options"`
	Answer       string          `json:"answer"`
}

type LessonDetailResponse struct {
	LessonSummaryResponse
	Content   string             `json:"content"`
	Exercises []ExerciseResponse `json:"exercises"`
}
