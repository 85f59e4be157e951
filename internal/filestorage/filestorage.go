package filestorage

import (
	"context"
	"io"

	"alumninet/backend/pkg/config"
	applog "alumninet/backend/pkg/log"

	"go.uber.org/zap"
)

// FileStorageProvider abstracts the object store that holds avatar images.
type FileStorageProvider interface {
	// UploadFile stores the content under objectName and returns the public
	// URL of the stored object.
	UploadFile(ctx context.Context, objectName string, fileContent io.Reader, contentType string) (publicURL string, err error)
	DeleteFile(ctx context.Context, objectName string) error
}

// DefaultFileStorageProvider holds the initialized default provider. Nil when
// no provider is configured; avatar uploads are then rejected.
var DefaultFileStorageProvider FileStorageProvider

// InitFileStorage initializes the default file storage provider based on
// configuration. A missing provider is not fatal: the rest of the application
// works without avatar uploads.
func InitFileStorage() error {
	providerType := config.Cfg.FileStorageProvider
	applog.L.Info("Initializing file storage", zap.String("provider_type", providerType))
	DefaultFileStorageProvider = nil

	switch providerType {
	case "s3":
		provider, err := InitializeS3Provider()
		if err != nil {
			applog.L.Error("Failed to initialize S3 storage provider. Avatar uploads disabled.", zap.Error(err))
			return err
		}
		// A nil provider (unconfigured) must not be wrapped in the interface,
		// or the != nil checks downstream would pass on a typed nil.
		if provider != nil {
			DefaultFileStorageProvider = provider
		}
	case "gcs":
		provider, err := InitializeGCSProvider()
		if err != nil {
			applog.L.Error("Failed to initialize GCS storage provider. Avatar uploads disabled.", zap.Error(err))
			return err
		}
		if provider != nil {
			DefaultFileStorageProvider = provider
		}
	default:
		applog.L.Warn("Unsupported FILE_STORAGE_PROVIDER. Avatar uploads disabled.", zap.String("provider_type", providerType))
	}

	if DefaultFileStorageProvider != nil {
		applog.L.Info("File storage provider initialized.", zap.String("provider_type", providerType))
	} else {
		applog.L.Warn("No file storage provider initialized. Avatar uploads disabled.")
	}
	return nil
}
