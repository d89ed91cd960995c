// Package storage provides object storage implementations for file operations.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appexport "github.com/cartloom/exporter/internal/application/export"
	infraconfig "github.com/cartloom/exporter/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure S3Uploader implements the application uploader port
var _ appexport.Uploader = (*S3Uploader)(nil)

const (
	// uploadAttempts bounds retries per file; failures never block other files
	uploadAttempts = 3
	// retryBackoffUnit grows linearly per attempt: 2s after the first
	// failure, 4s after the second
	retryBackoffUnit = 2 * time.Second
)

// s3API is the subset of the S3 client the uploader needs
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// S3Uploader uploads export files to S3-compatible object storage
// (AWS S3, MinIO, RustFS, etc.)
type S3Uploader struct {
	client s3API
	sleep  func(time.Duration)
	logger *zap.Logger
	// uploadTimeout bounds each PutObject attempt; zero means no ceiling
	uploadTimeout time.Duration
}

// S3UploaderOption is a functional option for configuring S3Uploader
type S3UploaderOption func(*S3Uploader)

// WithLogger sets a custom logger for S3Uploader
func WithLogger(logger *zap.Logger) S3UploaderOption {
	return func(u *S3Uploader) {
		u.logger = logger
	}
}

// NewS3Uploader creates a new S3Uploader from configuration
func NewS3Uploader(cfg *infraconfig.StorageConfig, opts ...S3UploaderOption) (*S3Uploader, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	uploadTimeout := cfg.UploadTimeout
	if uploadTimeout <= 0 {
		uploadTimeout = 2 * time.Minute
	}

	uploader := &S3Uploader{
		client:        client,
		sleep:         time.Sleep,
		logger:        zap.NewNop(),
		uploadTimeout: uploadTimeout,
	}
	for _, opt := range opts {
		opt(uploader)
	}
	return uploader, nil
}

// Upload sends a local file to "[folder/]directory/filename" in the bucket.
// Preconditions are checked before the first attempt: missing arguments or an
// absent, unreadable, or empty local file fail without consuming any attempt.
// Transient failures are retried up to uploadAttempts times with linear
// backoff. The bool result reports whether the object landed in the bucket.
func (u *S3Uploader) Upload(ctx context.Context, bucket, filename, localPath, directory, folder string) (bool, error) {
	if bucket == "" || filename == "" || localPath == "" || directory == "" {
		return false, errors.New("bucket, filename, local path and directory are required")
	}

	info, err := os.Stat(localPath)
	if err != nil {
		return false, fmt.Errorf("local file not accessible: %w", err)
	}
	if info.Size() == 0 {
		return false, fmt.Errorf("local file %s is empty", localPath)
	}

	key := directory + "/" + filename
	if folder != "" {
		key = folder + "/" + key
	}

	var lastErr error
	for attempt := 1; attempt <= uploadAttempts; attempt++ {
		lastErr = u.putObjectBounded(ctx, bucket, key, localPath)
		if lastErr == nil {
			u.logger.Info("Upload succeeded",
				zap.String("bucket", bucket),
				zap.String("key", key),
				zap.Int64("size", info.Size()),
				zap.Int("attempt", attempt),
			)
			return true, nil
		}

		u.logger.Warn("Upload attempt failed",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Int("attempt", attempt),
			zap.Error(lastErr),
		)
		if attempt < uploadAttempts {
			u.sleep(time.Duration(attempt) * retryBackoffUnit)
		}
	}

	return false, fmt.Errorf("upload failed after %d attempts: %w", uploadAttempts, lastErr)
}

// putObjectBounded runs one attempt under the configured upload timeout, so
// a stalled transfer burns one attempt instead of the whole run budget
func (u *S3Uploader) putObjectBounded(ctx context.Context, bucket, key, localPath string) error {
	if u.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.uploadTimeout)
		defer cancel()
	}
	return u.putObject(ctx, bucket, key, localPath)
}

// putObject streams one file to the bucket; the file is re-opened per attempt
// so retries always read from the start
func (u *S3Uploader) putObject(ctx context.Context, bucket, key, localPath string) error {
	file, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open local file: %w", err)
	}
	defer file.Close()

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String("text/csv"),
	})
	return err
}

// TestConnection verifies the storage credentials and endpoint by listing
// buckets. It never returns an error: the outcome is always a status.
func (u *S3Uploader) TestConnection(ctx context.Context) appexport.ConnectionStatus {
	if _, err := u.client.ListBuckets(ctx, &s3.ListBucketsInput{}); err != nil {
		return appexport.ConnectionStatus{OK: false, Reason: err.Error()}
	}
	return appexport.ConnectionStatus{OK: true}
}
