package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"campusresponse/internal/config"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const incidentImagePrefix = "incidents"

// ImageStore keeps incident photos out of the database; only the returned
// public path is stored on the incident.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// LocalImageStore 保存到本地磁盘，由 /media 静态路由提供访问
type LocalImageStore struct {
	Dir     string
	BaseURL string
}

func NewLocalImageStore(dir, baseURL string) *LocalImageStore {
	return &LocalImageStore{Dir: dir, BaseURL: strings.TrimSuffix(baseURL, "/")}
}

func (s *LocalImageStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	dir := filepath.Join(s.Dir, incidentImagePrefix)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("创建目录失败: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(r, size)); err != nil {
		return "", fmt.Errorf("写入文件失败: %w", err)
	}
	return path.Join(s.BaseURL, incidentImagePrefix, name), nil
}

// MinioImageStore uploads to an S3-compatible bucket.
type MinioImageStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewMinioImageStore(ctx context.Context, cfg config.StorageConfig) (*MinioImageStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.MinioBucket, err)
		}
		log.Printf("Created bucket %s", cfg.MinioBucket)
	}

	return &MinioImageStore{
		client:  client,
		bucket:  cfg.MinioBucket,
		baseURL: strings.TrimSuffix(cfg.MediaURL, "/"),
	}, nil
}

func (s *MinioImageStore) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := path.Join(incidentImagePrefix, name)
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return path.Join(s.baseURL, key), nil
}

// Open streams an object back for the media route.
func (s *MinioImageStore) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", err
	}
	info, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, "", err
	}
	return obj, info.ContentType, nil
}

// NewImageStore picks the backend named in the storage config.
func NewImageStore(ctx context.Context, cfg config.StorageConfig) (ImageStore, error) {
	if cfg.Backend == config.StorageMinio {
		return NewMinioImageStore(ctx, cfg)
	}
	return NewLocalImageStore(cfg.MediaDir, cfg.MediaURL), nil
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// SaveIncidentImage validates an uploaded photo and hands it to the store.
// The type is sniffed from the file content; the client's filename and
// Content-Type are ignored. Returns the public path to keep on the incident.
func SaveIncidentImage(ctx context.Context, store ImageStore, header *multipart.FileHeader, maxBytes int64) (string, error) {
	if header.Size > maxBytes {
		return "", fieldError("image", fmt.Sprintf("Image must be at most %d MB.", maxBytes/(1024*1024)))
	}

	file, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	defer file.Close()

	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("识别文件类型失败: %w", err)
	}
	contentType, _, _ := strings.Cut(mtype.String(), ";")
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fieldError("image", "Upload a valid image.")
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("读取文件失败: %w", err)
	}
	return store.Save(ctx, uuid.NewString()+ext, file, header.Size, contentType)
}
