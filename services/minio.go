package services

import (
	"context"
	"fmt"
	"io"
	"strings"

	appcontext "github.com/alphabatem/common/context"
	"github.com/lac-hong-legacy/codequest_api/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// ObjectStore is what MediaService needs from object storage.
type ObjectStore interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error)
	DeleteFile(ctx context.Context, objectName string) error
	PublicURL(objectName string) string
}

type MinIOService struct {
	appcontext.DefaultService
	client *minio.Client

	cfg     config.MinIO
	enabled bool
}

const MINIO_SVC = "minio_svc"

func NewMinIOService(cfg config.MinIO, enabled bool) *MinIOService {
	return &MinIOService{cfg: cfg, enabled: enabled}
}

func (svc MinIOService) Id() string {
	return MINIO_SVC
}

func (svc *MinIOService) Configure(ctx *appcontext.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *MinIOService) Start() error {
	if !svc.enabled {
		log.Warn("MinIO disabled, avatar uploads are unavailable")
		return nil
	}

	client, err := minio.New(svc.cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(svc.cfg.AccessKey, svc.cfg.SecretKey, ""),
		Secure: svc.cfg.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %v", err)
	}

	svc.client = client

	if err := svc.ensureBucket(); err != nil {
		return fmt.Errorf("failed to ensure bucket exists: %v", err)
	}

	log.Printf("MinIO service started successfully with endpoint: %s", svc.cfg.Endpoint)
	return nil
}

func (svc *MinIOService) ensureBucket() error {
	ctx := context.Background()

	exists, err := svc.client.BucketExists(ctx, svc.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %v", err)
	}

	if !exists {
		err = svc.client.MakeBucket(ctx, svc.cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %v", err)
		}
		log.Printf("Created MinIO bucket: %s", svc.cfg.Bucket)
	}

	return nil
}

func (svc *MinIOService) UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) (*minio.UploadInfo, error) {
	if svc.client == nil {
		return nil, fmt.Errorf("minio client not initialized")
	}

	uploadInfo, err := svc.client.PutObject(ctx, svc.cfg.Bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to MinIO: %v", err)
	}

	return &uploadInfo, nil
}

func (svc *MinIOService) DeleteFile(ctx context.Context, objectName string) error {
	if svc.client == nil {
		return fmt.Errorf("minio client not initialized")
	}

	err := svc.client.RemoveObject(ctx, svc.cfg.Bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file from MinIO: %v", err)
	}

	return nil
}

// PublicURL builds a stable URL for objectName. The bucket is expected to
// allow anonymous reads on avatars/.
func (svc *MinIOService) PublicURL(objectName string) string {
	return publicObjectURL(svc.cfg, objectName)
}

func publicObjectURL(cfg config.MinIO, objectName string) string {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", base, cfg.Bucket, strings.TrimLeft(objectName, "/"))
}

func (svc *MinIOService) GetBucketName() string {
	return svc.cfg.Bucket
}
