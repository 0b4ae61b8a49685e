package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Store uploads image blobs to S3 and serves them through a CDN base URL.
type S3Store struct {
	client  *s3.Client
	bucket  string
	region  string
	baseURL string
}

// NewS3Store creates an S3-backed blob store.
func NewS3Store(region, bucket, baseURL string) (*S3Store, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		region:  region,
		baseURL: baseURL,
	}, nil
}

// UploadImage stores the blob under images/{year}/{month}/{userID}/{uuid}
// and returns its public URL.
func (u *S3Store) UploadImage(ctx context.Context, data []byte, originalFilename string, userID uint) (string, error) {
	extension := strings.ToLower(filepath.Ext(originalFilename))
	if extension == "" {
		extension = ".jpg"
	}

	now := time.Now()
	key := fmt.Sprintf("images/%d/%02d/%d/%s%s",
		now.Year(), now.Month(), userID, uuid.New().String(), extension)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(u.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentTypeFor(extension)),
		CacheControl: aws.String("max-age=31536000"),
		Metadata: map[string]string{
			"user-id":           fmt.Sprintf("%d", userID),
			"original-filename": originalFilename,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return u.publicURL(key), nil
}

// CheckBucketAccess verifies the configured bucket is reachable.
func (u *S3Store) CheckBucketAccess(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(u.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", u.bucket, err)
	}
	return nil
}

func (u *S3Store) publicURL(key string) string {
	if u.baseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(u.baseURL, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}

func contentTypeFor(extension string) string {
	switch extension {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	default:
		return "application/octet-stream"
	}
}
