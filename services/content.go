package services

import (
	"errors"

	"github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/model"
	"github.com/lac-hong-legacy/codequest_api/services/repositories"
	"github.com/lac-hong-legacy/codequest_api/shared"
	"gorm.io/gorm"
)

const CONTENT_SVC = "content_svc"

// ContentService serves the read-only course tree.
type ContentService struct {
	context.DefaultService

	dbSvc    DatabaseProvider
	content  *repositories.ContentRepository
	progress *repositories.ProgressRepository
}

func NewContentService() *ContentService {
	return &ContentService{}
}

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	svc.wire(svc.Service(DATABASE_SVC).(DatabaseProvider))
	return nil
}

func (svc *ContentService) wire(db DatabaseProvider) {
	svc.dbSvc = db
	svc.content = repositories.NewContentRepository(db.Db())
	svc.progress = repositories.NewProgressRepository(db.Db())
}

func (svc *ContentService) GetLanguages() ([]dto.LanguageResponse, error) {
	languages, err := svc.content.GetLanguages()
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get languages")
	}

	resp := make([]dto.LanguageResponse, 0, len(languages))
	for _, l := range languages {
		resp = append(resp, dto.LanguageResponse{
			ID:          l.ID,
			Name:        l.Name,
			Description: l.Description,
			ImageURL:    l.ImageURL,
		})
	}
	return resp, nil
}

func (svc *ContentService) GetModules(languageID string) ([]dto.ModuleResponse, error) {
	if _, err := svc.content.GetLanguage(languageID); err != nil {
		return nil, svc.lookupError(err, "Language not found")
	}

	modules, err := svc.content.GetModulesByLanguage(languageID)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get modules")
	}

	ids := make([]string, 0, len(modules))
	for _, m := range modules {
		ids = append(ids, m.ID)
	}
	counts, err := svc.content.CountLessonsByModule(ids)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to count lessons")
	}

	resp := make([]dto.ModuleResponse, 0, len(modules))
	for _, m := range modules {
		resp = append(resp, dto.ModuleResponse{
			ID:           m.ID,
			LanguageID:   m.LanguageID,
			Title:        m.Title,
			Description:  m.Description,
			Order:        m.Order,
			LessonsCount: counts[m.ID],
		})
	}
	return resp, nil
}

// GetLessons lists a module's lessons, flagging the ones userID has completed.
func (svc *ContentService) GetLessons(moduleID, userID string) ([]dto.LessonSummaryResponse, error) {
	if _, err := svc.content.GetModule(moduleID); err != nil {
		return nil, svc.lookupError(err, "Module not found")
	}

	lessons, err := svc.content.GetLessonsByModule(moduleID)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get lessons")
	}

	ids := make([]string, 0, len(lessons))
	for _, l := range lessons {
		ids = append(ids, l.ID)
	}
	completed, err := svc.progress.CompletedLessonIDs(userID, ids)
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get lesson progress")
	}

	resp := make([]dto.LessonSummaryResponse, 0, len(lessons))
	for _, l := range lessons {
		resp = append(resp, lessonSummary(l, completed[l.ID]))
	}
	return resp, nil
}

func (svc *ContentService) GetLesson(lessonID, userID string) (*dto.LessonDetailResponse, error) {
	lesson, err := svc.content.GetLessonWithExercises(lessonID)
	if err != nil {
		return nil, svc.lookupError(err, "Lesson not found")
	}

	completed, err := svc.progress.CompletedLessonIDs(userID, []string{lesson.ID})
	if err != nil {
		return nil, shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to get lesson progress")
	}

	exercises := make([]dto.ExerciseResponse, 0, len(lesson.Exercises))
	for _, ex := range lesson.Exercises {
		exercises = append(exercises, dto.ExerciseResponse{
			ID:           ex.ID,
			ExerciseType: ex.ExerciseType,
			Question:     ex.Question,
			Options:      ex.Choices(),
			Answer:       ex.Answer,
		})
	}

	return &dto.LessonDetailResponse{
		LessonSummaryResponse: lessonSummary(*lesson, completed[lesson.ID]),
		Content:               lesson.Content,
		Exercises:             exercises,
	}, nil
}

func (svc *ContentService) lookupError(err error, notFound string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NewNotFoundError(err, notFound)
	}
	return shared.NewInternalError(svc.dbSvc.HandleError(err), "Failed to load content")
}

func lessonSummary(l model.Lesson, completed bool) dto.LessonSummaryResponse {
	return dto.LessonSummaryResponse{
		ID:         l.ID,
		ModuleID:   l.ModuleID,
		Title:      l.Title,
		LessonType: l.LessonType,
		Order:      l.Order,
		Completed:  completed,
	}
}
