package storage

import (
	"context"
	"fmt"
	"io"

	"wheelstrust/models"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"go.uber.org/zap"
)

// StorageServiceImpl stores assets on Cloudinary.
type StorageServiceImpl struct {
	cld          *cloudinary.Cloudinary
	baseFolder   string
	maxDimension int
	logger       *zap.Logger
}

// NewStorageService creates a new StorageServiceImpl instance.
func NewStorageService(cld *cloudinary.Cloudinary, baseFolder string, maxDimension int, logger *zap.Logger) *StorageServiceImpl {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StorageServiceImpl{cld: cld, baseFolder: baseFolder, maxDimension: maxDimension, logger: logger}
}

func (s *StorageServiceImpl) Folder(parts ...string) string {
	return joinFolder(s.baseFolder, parts...)
}

// UploadFile normalizes images, then uploads into folder and returns the secure URL and public id.
func (s *StorageServiceImpl) UploadFile(ctx context.Context, r io.Reader, filename, folder string) (*models.Image, error) {
	body, err := NormalizeImage(r, filename, s.maxDimension)
	if err != nil {
		return nil, err
	}

	result, err := s.cld.Upload.Upload(ctx, body, uploader.UploadParams{Folder: folder})
	if err != nil {
		return nil, fmt.Errorf("StorageServiceImpl: failed to upload file: %w", err)
	}
	if result.Error.Message != "" {
		return nil, fmt.Errorf("StorageServiceImpl: upload rejected: %s", result.Error.Message)
	}
	if result.PublicID == "" {
		return nil, fmt.Errorf("StorageServiceImpl: no public ID returned")
	}
	s.logger.Debug("Asset uploaded", zap.String("publicId", result.PublicID), zap.Int("bytes", result.Bytes))
	return &models.Image{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// DeleteFile deletes a file from Cloudinary given its public ID.
func (s *StorageServiceImpl) DeleteFile(ctx context.Context, publicID string) error {
	result, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("StorageServiceImpl: failed to delete file: %w", err)
	}
	if result.Error.Message != "" {
		return fmt.Errorf("StorageServiceImpl: delete rejected: %s", result.Error.Message)
	}
	return nil
}
