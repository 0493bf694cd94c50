// Package car manages marketplace listings and their photos.
package car

import (
	"context"
	"io"

	"wheelstrust/database/repository"
	carRepo "wheelstrust/database/repository/car"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/services/storage"

	"go.uber.org/zap"
)

// MaxImagesPerCar caps the photos attached to one listing.
const MaxImagesPerCar = 20

type CarService interface {
	CreateCar(ctx context.Context, actor access.Actor, input models.CarInput) (*models.Car, error)
	GetCar(ctx context.Context, id string) (*models.Car, error)
	// ListCars pages listings; search matches make or model case-insensitively.
	ListCars(ctx context.Context, q repository.ListQuery, search string) ([]models.Car, models.Pagination, error)
	ListMine(ctx context.Context, actor access.Actor, q repository.ListQuery) ([]models.Car, models.Pagination, error)
	UpdateCar(ctx context.Context, actor access.Actor, id string, input models.CarInput) (*models.Car, error)
	UpdateStatus(ctx context.Context, actor access.Actor, id, status string) (*models.Car, error)
	DeleteCar(ctx context.Context, actor access.Actor, id string) error
	AddImages(ctx context.Context, actor access.Actor, id string, uploads []ImageUpload) (*models.Car, error)
	RemoveImage(ctx context.Context, actor access.Actor, id, publicID string) (*models.Car, error)
}

// ImageUpload is one file from a multipart request.
type ImageUpload struct {
	Filename string
	Content  io.Reader
}

type DefaultCarService struct {
	Repo    carRepo.CarRepository
	Storage storage.StorageService
	Logger  *zap.Logger
}

// NewDefaultCarService wires the service. Image operations fail when store is nil.
func NewDefaultCarService(repo carRepo.CarRepository, store storage.StorageService, logger *zap.Logger) *DefaultCarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultCarService{Repo: repo, Storage: store, Logger: logger}
}
