package filestorage

import (
	"context"
	"fmt"
	"io"

	"alumninet/backend/pkg/config"
	applog "alumninet/backend/pkg/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// S3StorageProvider implements FileStorageProvider on Amazon S3.
type S3StorageProvider struct {
	client     *s3.Client
	uploader   *manager.Uploader
	bucketName string
	region     string
}

// InitializeS3Provider initializes the S3 client. Returns nil, nil when S3 is
// not configured, so a missing bucket does not block application startup.
func InitializeS3Provider() (*S3StorageProvider, error) {
	bucket := config.Cfg.AWSS3Bucket
	region := config.Cfg.AWSRegion

	if bucket == "" || region == "" {
		applog.L.Warn("AWS_S3_BUCKET or AWS_REGION not set. S3 avatar storage disabled.")
		return nil, nil
	}

	sdkConfig, err := awsconfig.LoadDefaultConfig(context.TODO(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config for S3: %w", err)
	}

	s3Client := s3.NewFromConfig(sdkConfig)
	uploader := manager.NewUploader(s3Client)

	applog.L.Info("Amazon S3 storage provider initialized",
		zap.String("bucket", bucket), zap.String("region", region))

	return &S3StorageProvider{
		client:     s3Client,
		uploader:   uploader,
		bucketName: bucket,
		region:     region,
	}, nil
}

// UploadFile uploads a file to S3 and returns its public URL. The uploader
// handles multipart uploads transparently for larger files.
func (s *S3StorageProvider) UploadFile(ctx context.Context, objectName string, fileContent io.Reader, contentType string) (string, error) {
	if s.client == nil || s.uploader == nil || s.bucketName == "" {
		return "", fmt.Errorf("S3 provider not initialized")
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectName),
		Body:   fileContent,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	uploadOutput, err := s.uploader.Upload(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3 (bucket: %s, key: %s): %w", s.bucketName, objectName, err)
	}

	publicURL := uploadOutput.Location
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucketName, s.region, objectName)
	}

	return publicURL, nil
}

// DeleteFile removes an object from the bucket.
func (s *S3StorageProvider) DeleteFile(ctx context.Context, objectName string) error {
	if s.client == nil || s.bucketName == "" {
		return fmt.Errorf("S3 provider not initialized")
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectName),
	})
	if err != nil {
		return fmt.Errorf("failed to delete file from S3 (bucket: %s, key: %s): %w", s.bucketName, objectName, err)
	}
	return nil
}
