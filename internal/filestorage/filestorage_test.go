package filestorage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"alumninet/backend/pkg/config"
)

func TestInitFileStorage_UnconfiguredS3LeavesProviderNil(t *testing.T) {
	config.Cfg.FileStorageProvider = "s3"
	config.Cfg.AWSS3Bucket = ""
	config.Cfg.AWSRegion = ""

	err := InitFileStorage()
	assert.NoError(t, err)

	// The interface itself must be nil, not a typed-nil concrete provider:
	// handlers gate avatar uploads on this check.
	assert.Nil(t, DefaultFileStorageProvider)
}

func TestInitFileStorage_UnconfiguredGCSLeavesProviderNil(t *testing.T) {
	config.Cfg.FileStorageProvider = "gcs"
	config.Cfg.GCSProjectID = ""
	config.Cfg.GCSBucketName = ""

	err := InitFileStorage()
	assert.NoError(t, err)
	assert.Nil(t, DefaultFileStorageProvider)
}

func TestInitFileStorage_UnsupportedProvider(t *testing.T) {
	config.Cfg.FileStorageProvider = "ftp"

	err := InitFileStorage()
	assert.NoError(t, err)
	assert.Nil(t, DefaultFileStorageProvider)
}

func TestS3UploadFile_UninitializedProvider(t *testing.T) {
	var p S3StorageProvider
	_, err := p.UploadFile(context.Background(), "avatars/x.png", strings.NewReader("img"), "image/png")
	assert.Error(t, err)
}
