// Package storage uploads blog media to the external object store. Blogs
// reference uploads by URL (the imageLink field); nothing here touches the
// document database.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MediaStorage is a thin wrapper around the minio client.
type MediaStorage struct {
	client *minio.Client
	bucket string
}

// NewMediaStorage creates the storage client and ensures the bucket exists.
func NewMediaStorage(cfg *MinIOConfig) (*MediaStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MediaStorage{client: mc, bucket: cfg.Bucket}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		// tolerate "already exists" style errors
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// ImageKey builds the object key for a blog cover image. The timestamp
// prefix keeps re-uploads from clobbering the image a published post still
// links to.
func ImageKey(filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("blog-images/%d-%s", time.Now().UnixNano(), base)
}

// AvatarKey builds the object key for a team member's avatar. One object
// per member, keyed by email, so a re-upload replaces the old avatar.
func AvatarKey(email, filename string) string {
	ext := strings.TrimPrefix(path.Ext(filename), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("team_avatars/%s.%s", strings.ToLower(strings.TrimSpace(email)), ext)
}

// Upload stores data under key and returns the key.
func (s *MediaStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, reader, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return key, nil
}

// Download returns a ReadCloser for the stored object.
func (s *MediaStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	// stat to ensure the object exists before handing it out
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, err
	}
	return obj, nil
}

// PresignedURL returns a presigned GET URL valid for the given duration.
// The result is what gets stored as a blog's imageLink.
func (s *MediaStorage) PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	reqParams := make(url.Values)
	presigned, err := s.client.PresignedGetObject(ctx, s.bucket, key, expires, reqParams)
	if err != nil {
		return "", err
	}
	return presigned.String(), nil
}
