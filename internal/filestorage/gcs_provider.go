package filestorage

import (
	"context"
	"fmt"
	"io"
	"time"

	"alumninet/backend/pkg/config"
	applog "alumninet/backend/pkg/log"

	"cloud.google.com/go/storage"
	"go.uber.org/zap"
)

// GCSStorageProvider implements FileStorageProvider on Google Cloud Storage.
type GCSStorageProvider struct {
	client     *storage.Client
	bucketName string
}

const gcsWriteTimeout = 60 * time.Second

// InitializeGCSProvider initializes the Google Cloud Storage client.
// GOOGLE_APPLICATION_CREDENTIALS is picked up from the environment by the
// client library; in GCP the attached service account is used.
func InitializeGCSProvider() (*GCSStorageProvider, error) {
	ctx := context.Background()

	projectID := config.Cfg.GCSProjectID
	bucketName := config.Cfg.GCSBucketName

	if projectID == "" || bucketName == "" {
		applog.L.Warn("GCS_PROJECT_ID or GCS_BUCKET_NAME not set. GCS avatar storage disabled.")
		return nil, nil
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Cloud Storage client: %w", err)
	}

	applog.L.Info("Google Cloud Storage provider initialized",
		zap.String("projectID", projectID), zap.String("bucketName", bucketName))

	return &GCSStorageProvider{
		client:     client,
		bucketName: bucketName,
	}, nil
}

// UploadFile uploads a file to GCS and returns its public URL.
func (g *GCSStorageProvider) UploadFile(ctx context.Context, objectName string, fileContent io.Reader, contentType string) (string, error) {
	if g.client == nil || g.bucketName == "" {
		return "", fmt.Errorf("GCS provider not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, gcsWriteTimeout)
	defer cancel()

	wc := g.client.Bucket(g.bucketName).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		wc.ContentType = contentType
	}

	if _, err := io.Copy(wc, fileContent); err != nil {
		return "", fmt.Errorf("failed to write object to GCS (bucket: %s, object: %s): %w", g.bucketName, objectName, err)
	}
	if err := wc.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize GCS object (bucket: %s, object: %s): %w", g.bucketName, objectName, err)
	}

	publicURL := fmt.Sprintf("https://storage.googleapis.com/%s/%s", g.bucketName, objectName)
	return publicURL, nil
}

// DeleteFile removes an object from the bucket.
func (g *GCSStorageProvider) DeleteFile(ctx context.Context, objectName string) error {
	if g.client == nil || g.bucketName == "" {
		return fmt.Errorf("GCS provider not initialized")
	}
	if err := g.client.Bucket(g.bucketName).Object(objectName).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete object from GCS (bucket: %s, object: %s): %w", g.bucketName, objectName, err)
	}
	return nil
}
