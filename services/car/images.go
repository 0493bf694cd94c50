package car

import (
	"context"
	"errors"
	"fmt"

	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"go.uber.org/zap"
)

var errStorageDisabled = errors.New("image storage is not configured")

// AddImages uploads files into the listing's CDN folder and appends them to the car.
func (s *DefaultCarService) AddImages(ctx context.Context, actor access.Actor, id string, uploads []ImageUpload) (*models.Car, error) {
	car, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if len(uploads) == 0 {
		return nil, utils.MissingField("images")
	}
	if len(car.Images)+len(uploads) > MaxImagesPerCar {
		return nil, utils.InvalidField("images", fmt.Sprintf("a listing can hold at most %d images", MaxImagesPerCar))
	}
	if s.Storage == nil {
		return nil, utils.ServerError(errStorageDisabled)
	}

	folder := s.Storage.Folder("cars", car.ID)
	images := make([]models.Image, 0, len(uploads))
	for _, u := range uploads {
		img, err := s.Storage.UploadFile(ctx, u.Content, u.Filename, folder)
		if err != nil {
			s.destroyImages(ctx, images)
			return nil, fmt.Errorf("upload %s: %w", u.Filename, err)
		}
		images = append(images, *img)
	}

	updated, err := s.Repo.PushImages(ctx, car.ID, images)
	if err != nil {
		s.destroyImages(ctx, images)
		return nil, fmt.Errorf("attach images: %w", err)
	}
	return updated, nil
}

// RemoveImage detaches an image from the listing and deletes it from the CDN.
func (s *DefaultCarService) RemoveImage(ctx context.Context, actor access.Actor, id, publicID string) (*models.Car, error) {
	car, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	found := false
	for _, img := range car.Images {
		if img.PublicID == publicID {
			found = true
			break
		}
	}
	if !found {
		return nil, utils.NotFound("Image")
	}

	updated, err := s.Repo.PullImage(ctx, car.ID, publicID)
	if err != nil {
		return nil, fmt.Errorf("detach image: %w", err)
	}
	s.destroyImages(ctx, []models.Image{{PublicID: publicID}})
	return updated, nil
}

func (s *DefaultCarService) destroyImages(ctx context.Context, images []models.Image) {
	if s.Storage == nil {
		return
	}
	for _, img := range images {
		if err := s.Storage.DeleteFile(ctx, img.PublicID); err != nil {
			s.Logger.Warn("Failed to delete car image", zap.String("publicId", img.PublicID), zap.Error(err))
		}
	}
}
