package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/asuarezburgos804-png/IdeasG-Sac-ModuloSATGIZ/backend/config"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

// stagingPrefix holds every staged attachment
const stagingPrefix = "expedientes/"

// MinioService stages uploaded attachments before they are forwarded to the
// backend. The forward reads the staged copy back, and copies of failed
// forwards stay listed for a retry until the bucket lifecycle expires them.
type MinioService struct {
	client *minio.Client
	bucket string
	config *config.MinioConfig
}

func NewMinioService(cfg *config.MinioConfig) (*MinioService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinioService{
		client: client,
		bucket: cfg.Bucket,
		config: cfg,
	}, nil
}

// EnsureBucket creates the bucket if needed and expires staged copies
// after the configured number of days
func (s *MinioService) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	if s.config.ExpireDays > 0 {
		if err := s.client.SetBucketLifecycle(ctx, s.bucket, stagingLifecycle(s.config.ExpireDays)); err != nil {
			return fmt.Errorf("failed to set bucket lifecycle: %w", err)
		}
	}
	return nil
}

func stagingLifecycle(days int) *lifecycle.Configuration {
	cfg := lifecycle.NewConfiguration()
	cfg.Rules = []lifecycle.Rule{{
		ID:         "expire-staged-documentos",
		Status:     "Enabled",
		RuleFilter: lifecycle.Filter{Prefix: stagingPrefix},
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(days)},
	}}
	return cfg
}

// StagedDocumento describes a staged attachment
type StagedDocumento struct {
	ObjectName  string
	Filename    string
	ContentType string
	Size        int64
	StagedAt    time.Time
}

func stagedPrefix(idExpediente string) string {
	return stagingPrefix + strings.ReplaceAll(idExpediente, "/", "_") + "/"
}

// StagedObjectName is where an attachment of an expediente is staged
func StagedObjectName(idExpediente, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "documento"
	}
	return stagedPrefix(idExpediente) + uuid.NewString() + "-" + name
}

// StagedFilename recovers the uploaded file name from an object name
func StagedFilename(objectName string) string {
	base := path.Base(objectName)
	if len(base) > 37 && base[36] == '-' {
		if _, err := uuid.Parse(base[:36]); err == nil {
			return base[37:]
		}
	}
	return base
}

// StageDocumento stores one attachment and returns its object name
func (s *MinioService) StageDocumento(ctx context.Context, idExpediente, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	objectName := StagedObjectName(idExpediente, filename)
	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"id-expediente": idExpediente},
	})
	if err != nil {
		return "", fmt.Errorf("failed to stage %s: %w", filename, err)
	}
	return objectName, nil
}

// ListStaged returns the attachments of an expediente still waiting for the
// backend, oldest first
func (s *MinioService) ListStaged(ctx context.Context, idExpediente string) ([]StagedDocumento, error) {
	var out []StagedDocumento
	objects := s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    stagedPrefix(idExpediente),
		Recursive: true,
	})
	for obj := range objects {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list staged documentos: %w", obj.Err)
		}
		out = append(out, StagedDocumento{
			ObjectName:  obj.Key,
			Filename:    StagedFilename(obj.Key),
			ContentType: obj.ContentType,
			Size:        obj.Size,
			StagedAt:    obj.LastModified,
		})
	}
	slices.SortFunc(out, func(a, b StagedDocumento) int {
		return a.StagedAt.Compare(b.StagedAt)
	})
	return out, nil
}

// OpenStaged streams a staged attachment. The caller closes the reader.
func (s *MinioService) OpenStaged(ctx context.Context, objectName string) (io.ReadCloser, StagedDocumento, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, StagedDocumento{}, fmt.Errorf("failed to open %s: %w", objectName, err)
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, StagedDocumento{}, fmt.Errorf("failed to stat %s: %w", objectName, err)
	}
	return obj, StagedDocumento{
		ObjectName:  objectName,
		Filename:    StagedFilename(objectName),
		ContentType: info.ContentType,
		Size:        info.Size,
		StagedAt:    info.LastModified,
	}, nil
}

// DiscardStaged removes staged copies once the backend holds the files
func (s *MinioService) DiscardStaged(ctx context.Context, objectNames ...string) error {
	for _, name := range objectNames {
		if err := s.client.RemoveObject(ctx, s.bucket, name, minio.RemoveObjectOptions{}); err != nil {
			return fmt.Errorf("failed to remove %s: %w", name, err)
		}
	}
	return nil
}
