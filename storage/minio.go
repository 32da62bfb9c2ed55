package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"LyricRec/config"
	"LyricRec/logger"
	"LyricRec/model"
)

// NewMinioClient 创建 MinIO 客户端
func NewMinioClient(cfg *config.Config) (*minio.Client, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("创建 MinIO 客户端失败: %w", err)
	}
	return client, nil
}

// MinioSink uploads each document as <prefix><runID>.json.
type MinioSink struct {
	client *minio.Client
	bucket string
	region string
	prefix string
}

// NewMinioSink 创建 MinIO 输出
func NewMinioSink(client *minio.Client, bucket, region, prefix string) *MinioSink {
	return &MinioSink{client: client, bucket: bucket, region: region, prefix: prefix}
}

func (s *MinioSink) Name() string { return "minio" }

// ObjectName returns the key a run is stored under.
func ObjectName(prefix, runID string) string {
	return prefix + runID + ".json"
}

// EnsureBucket creates the bucket when it does not exist yet.
func (s *MinioSink) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// 检查存储桶是否存在
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("检查存储桶失败: %w", err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{Region: s.region}); err != nil {
		return fmt.Errorf("创建存储桶失败: %w", err)
	}
	logger.Info("[MinioSink] 成功创建存储桶", logger.String("bucket", s.bucket))
	return nil
}

func (s *MinioSink) Write(ctx context.Context, runID string, doc *model.RecommendationDocument) error {
	if err := s.EnsureBucket(ctx); err != nil {
		return err
	}
	data, err := EncodeDocument(doc, DefaultIndent)
	if err != nil {
		return err
	}

	objectName := ObjectName(s.prefix, runID)
	_, err = s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
		UserMetadata: map[string]string{
			"run-id": runID,
		},
	})
	if err != nil {
		return fmt.Errorf("上传文件失败: %w", err)
	}

	logger.Info("[MinioSink] uploaded document",
		logger.String("bucket", s.bucket),
		logger.String("object", objectName),
		logger.String("size", FormatSize(int64(len(data)))))
	return nil
}

// BucketStats summarises the exported documents.
type BucketStats struct {
	Objects   int
	TotalSize int64
}

// Stats walks the export prefix and counts objects.
func (s *MinioSink) Stats(ctx context.Context) (*BucketStats, error) {
	stats := &BucketStats{}
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("列出对象失败: %w", object.Err)
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}
		stats.Objects++
		stats.TotalSize += object.Size
	}
	return stats, nil
}

// FormatSize 格式化文件大小
func FormatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
