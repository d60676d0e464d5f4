package handlers

import (
	"context"
	"mime/multipart"

	"github.com/lac-hong-legacy/codequest_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.RegisterResponse, error)
	Login(req dto.LoginRequest) (*dto.LoginResponse, error)
}

type UserServiceInterface interface {
	GetProfile(userID string) (*dto.UserProfileResponse, error)
	UpdateProfile(userID string, req dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
	GetLessonsHistory(userID string) ([]dto.LessonHistoryItem, error)
	GetLeaderboard(limit int, currentUserID string) (*dto.LeaderboardResponse, error)
}

type ContentServiceInterface interface {
	GetLanguages() ([]dto.LanguageResponse, error)
	GetModules(languageID string) ([]dto.ModuleResponse, error)
	GetLessons(moduleID, userID string) ([]dto.LessonSummaryResponse, error)
	GetLesson(lessonID, userID string) (*dto.LessonDetailResponse, error)
}

type GameServiceInterface interface {
	ListGames() ([]dto.GameResponse, error)
	GetTasks(slug, language string) ([]dto.GameTaskResponse, error)
	RandomTask(slug, language string) (*dto.GameTaskResponse, error)
}

type ProgressServiceInterface interface {
	CompleteLesson(userID, lessonID string, livesRemaining int) (*dto.CompleteLessonResponse, error)
	CompleteGame(userID, slug string, claimedXP int, language string) (*dto.CompleteGameResponse, error)
}

type DailyServiceInterface interface {
	GetChallenge(userID string) (*dto.DailyChallengeResponse, error)
	Finish(userID string) (*dto.DailyFinishResponse, error)
	CompleteTask(userID string) (*dto.DailyTaskCompleteResponse, error)
}

type ShopServiceInterface interface {
	ListItems(userID string) ([]dto.ShopItemResponse, error)
	Buy(userID, itemID string) (*dto.BuyItemResponse, error)
}

type MediaServiceInterface interface {
	UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error)
}
