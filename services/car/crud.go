package car

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"wheelstrust/database/repository"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func (s *DefaultCarService) CreateCar(ctx context.Context, actor access.Actor, input models.CarInput) (*models.Car, error) {
	status := input.Status
	if status == "" {
		status = models.CarActive
	}
	now := time.Now().UTC()
	car := &models.Car{
		ID:           uuid.New().String(),
		Seller:       actor.ID,
		Title:        strings.TrimSpace(input.Title),
		Make:         strings.TrimSpace(input.Make),
		Model:        strings.TrimSpace(input.Model),
		Year:         input.Year,
		Price:        input.Price,
		Mileage:      input.Mileage,
		FuelType:     input.FuelType,
		Transmission: input.Transmission,
		Color:        input.Color,
		Description:  input.Description,
		Location:     input.Location,
		Features:     input.Features,
		Images:       []models.Image{},
		Status:       status,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Repo.Create(ctx, car); err != nil {
		return nil, fmt.Errorf("create car: %w", err)
	}
	return car, nil
}

func (s *DefaultCarService) GetCar(ctx context.Context, id string) (*models.Car, error) {
	car, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Car")
		}
		return nil, fmt.Errorf("get car: %w", err)
	}
	return car, nil
}

// SearchFilter matches search against make or model, ignoring case.
func SearchFilter(search string) bson.M {
	search = strings.TrimSpace(search)
	if search == "" {
		return nil
	}
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
	return bson.M{"$or": bson.A{
		bson.M{"make": pattern},
		bson.M{"model": pattern},
	}}
}

func (s *DefaultCarService) ListCars(ctx context.Context, q repository.ListQuery, search string) ([]models.Car, models.Pagination, error) {
	q = q.Normalize()
	if f := SearchFilter(search); f != nil {
		q.Filter = bson.M{"$and": bson.A{q.Filter, f}}
	}
	items, total, q, err := s.Repo.List(ctx, q)
	if err != nil {
		return nil, models.Pagination{}, fmt.Errorf("list cars: %w", err)
	}
	return items, models.NewPagination(total, q.Page, q.Limit), nil
}

func (s *DefaultCarService) ListMine(ctx context.Context, actor access.Actor, q repository.ListQuery) ([]models.Car, models.Pagination, error) {
	q = q.Normalize()
	q.Filter["seller"] = actor.ID
	return s.ListCars(ctx, q, "")
}

func (s *DefaultCarService) loadOwned(ctx context.Context, actor access.Actor, id string) (*models.Car, error) {
	car, err := s.GetCar(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Authorize(actor, car.Seller); err != nil {
		return nil, err
	}
	return car, nil
}

// UpdateCar replaces the editable fields. Seller and images are untouched.
func (s *DefaultCarService) UpdateCar(ctx context.Context, actor access.Actor, id string, input models.CarInput) (*models.Car, error) {
	current, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	status := input.Status
	if status == "" {
		status = current.Status
	}
	fields := bson.M{
		"title":        strings.TrimSpace(input.Title),
		"make":         strings.TrimSpace(input.Make),
		"model":        strings.TrimSpace(input.Model),
		"year":         input.Year,
		"price":        input.Price,
		"mileage":      input.Mileage,
		"fuelType":     input.FuelType,
		"transmission": input.Transmission,
		"color":        input.Color,
		"description":  input.Description,
		"location":     input.Location,
		"features":     input.Features,
		"status":       status,
		"updatedAt":    time.Now().UTC(),
	}
	return s.update(ctx, id, fields)
}

// UpdateStatus sets any listing status; there is no transition graph for cars.
func (s *DefaultCarService) UpdateStatus(ctx context.Context, actor access.Actor, id, status string) (*models.Car, error) {
	if !models.IsCarStatus(status) {
		return nil, utils.InvalidField("status", "status must be one of active, sold, pending, draft")
	}
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.update(ctx, id, bson.M{"status": status, "updatedAt": time.Now().UTC()})
}

func (s *DefaultCarService) update(ctx context.Context, id string, fields bson.M) (*models.Car, error) {
	car, err := s.Repo.UpdateSet(ctx, id, fields)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, utils.NotFound("Car")
		}
		return nil, fmt.Errorf("update car: %w", err)
	}
	return car, nil
}

// DeleteCar removes the listing, then its CDN images. Image cleanup failures are logged.
func (s *DefaultCarService) DeleteCar(ctx context.Context, actor access.Actor, id string) error {
	car, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.NotFound("Car")
		}
		return fmt.Errorf("delete car: %w", err)
	}
	s.destroyImages(ctx, car.Images)
	return nil
}
