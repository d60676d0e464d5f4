package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	appContext "github.com/alphabatem/common/context"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/lac-hong-legacy/codequest_api/dto"
	"github.com/lac-hong-legacy/codequest_api/shared"
	log "github.com/sirupsen/logrus"
)

const (
	MEDIA_SVC = "media_svc"

	MaxAvatarSize = 2 * 1024 * 1024
)

var avatarTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AvatarSetter persists the avatar URL on the user.
type AvatarSetter interface {
	SetAvatar(userID, url string) error
}

type MediaService struct {
	appContext.DefaultService

	store   ObjectStore
	avatars AvatarSetter
	enabled bool
}

func NewMediaService(enabled bool) *MediaService {
	return &MediaService{enabled: enabled}
}

func (svc MediaService) Id() string {
	return MEDIA_SVC
}

func (svc *MediaService) Configure(ctx *appContext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MediaService) Start() error {
	svc.wire(svc.Service(MINIO_SVC).(*MinIOService), svc.Service(USER_SVC).(*UserService))
	return nil
}

func (svc *MediaService) wire(store ObjectStore, avatars AvatarSetter) {
	svc.store = store
	svc.avatars = avatars
}

// UploadAvatar stores an image under avatars/{userID}/ and points the
// user's avatar at it.
func (svc *MediaService) UploadAvatar(ctx context.Context, userID string, file *multipart.FileHeader) (*dto.AvatarUploadResponse, error) {
	if !svc.enabled {
		return nil, shared.NewAppError(503, nil, "Avatar uploads are disabled")
	}
	if file == nil {
		return nil, shared.NewBadRequestError(nil, "Avatar file is required")
	}
	if file.Size <= 0 {
		return nil, shared.NewBadRequestError(nil, "Avatar file is empty")
	}
	if file.Size > MaxAvatarSize {
		return nil, shared.NewBadRequestError(nil, "Avatar file too large. Maximum size: 2MB")
	}

	contentType, err := svc.detectType(file)
	if err != nil {
		return nil, err
	}
	ext := avatarTypes[contentType]
	if given := strings.ToLower(filepath.Ext(file.Filename)); given == ".jpeg" && ext == ".jpg" {
		ext = given
	}

	objectName := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)

	src, err := file.Open()
	if err != nil {
		return nil, shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	if _, err := svc.store.UploadFile(ctx, objectName, src, file.Size, contentType); err != nil {
		return nil, shared.NewInternalError(err, "Failed to upload file to storage")
	}

	url := svc.store.PublicURL(objectName)
	if err := svc.avatars.SetAvatar(userID, url); err != nil {
		if delErr := svc.store.DeleteFile(ctx, objectName); delErr != nil {
			log.WithError(delErr).WithField("object", objectName).Warn("Failed to remove orphaned avatar")
		}
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": userID, "object": objectName}).Info("Avatar uploaded")

	return &dto.AvatarUploadResponse{
		AvatarURL:   url,
		ObjectName:  objectName,
		ContentType: contentType,
		Size:        file.Size,
	}, nil
}

// detectType sniffs the content; the client-supplied header is not trusted.
func (svc *MediaService) detectType(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", shared.NewInternalError(err, "Failed to open uploaded file")
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", shared.NewBadRequestError(err, "Unreadable avatar file")
	}
	for supported := range avatarTypes {
		if mtype.Is(supported) {
			return supported, nil
		}
	}
	return "", shared.NewBadRequestError(nil, "Invalid image file format. Supported: JPG, PNG, GIF, WEBP")
}
