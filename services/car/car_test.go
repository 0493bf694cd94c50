package car

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"

	"wheelstrust/database/repository"
	"wheelstrust/database/repository/memory"
	"wheelstrust/models"
	"wheelstrust/services/access"
	"wheelstrust/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeStorage struct {
	mu       sync.Mutex
	uploaded []string
	deleted  []string
	failOn   string
}

func (f *fakeStorage) UploadFile(_ context.Context, r io.Reader, filename, folder string) (*models.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if filename == f.failOn {
		return nil, errors.New("cdn rejected file")
	}
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("%s/%d", folder, len(f.uploaded)+1)
	f.uploaded = append(f.uploaded, id)
	return &models.Image{URL: "https://cdn.example.com/" + id, PublicID: id}, nil
}

func (f *fakeStorage) DeleteFile(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeStorage) Folder(parts ...string) string {
	return "test/" + strings.Join(parts, "/")
}

var (
	seller   = access.Actor{ID: "seller", Role: models.RoleUser}
	stranger = access.Actor{ID: "stranger", Role: models.RoleUser}
	admin    = access.Actor{ID: "admin", Role: models.RoleAdmin}
)

func input(brand, model string, year int) models.CarInput {
	return models.CarInput{Title: brand + " " + model, Make: brand, Model: model, Year: year, Price: 10000}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	return appErr.Status
}

func newService() (*DefaultCarService, *fakeStorage) {
	store := &fakeStorage{}
	return NewDefaultCarService(memory.NewCarRepo(), store, nil), store
}

func TestCreateCarDefaults(t *testing.T) {
	svc, _ := newService()
	car, err := svc.CreateCar(context.Background(), seller, input("Toyota", "Corolla", 2018))
	require.NoError(t, err)
	assert.Equal(t, "seller", car.Seller)
	assert.Equal(t, models.CarActive, car.Status)
	assert.NotEmpty(t, car.ID)
	assert.Empty(t, car.Images)
}

func TestOwnershipGate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	car, err := svc.CreateCar(ctx, seller, input("Honda", "Civic", 2020))
	require.NoError(t, err)

	_, err = svc.UpdateCar(ctx, stranger, car.ID, input("Honda", "Accord", 2020))
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	assert.Equal(t, http.StatusForbidden, statusOf(t, svc.DeleteCar(ctx, stranger, car.ID)))

	updated, err := svc.UpdateCar(ctx, seller, car.ID, input("Honda", "Accord", 2021))
	require.NoError(t, err)
	assert.Equal(t, "Accord", updated.Model)
	assert.Equal(t, "seller", updated.Seller)

	sold, err := svc.UpdateStatus(ctx, admin, car.ID, models.CarSold)
	require.NoError(t, err)
	assert.Equal(t, models.CarSold, sold.Status)

	back, err := svc.UpdateStatus(ctx, seller, car.ID, models.CarActive)
	require.NoError(t, err)
	assert.Equal(t, models.CarActive, back.Status)

	_, err = svc.UpdateStatus(ctx, seller, car.ID, "scrapped")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = svc.GetCar(ctx, "missing")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestListCarsSearchAndMine(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService()
	_, err := svc.CreateCar(ctx, seller, input("Toyota", "Corolla", 2018))
	require.NoError(t, err)
	_, err = svc.CreateCar(ctx, seller, input("Toyota", "Hilux", 2015))
	require.NoError(t, err)
	_, err = svc.CreateCar(ctx, stranger, input("Mazda", "CX-5", 2019))
	require.NoError(t, err)

	items, page, err := svc.ListCars(ctx, repository.ListQuery{}, "toyota")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.EqualValues(t, 2, page.Total)

	items, _, err = svc.ListCars(ctx, repository.ListQuery{}, "cx-5")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Mazda", items[0].Make)

	items, _, err = svc.ListCars(ctx, repository.ListQuery{Filter: bson.M{"year": bson.M{"$gte": 2018}}}, "toyota")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Corolla", items[0].Model)

	items, _, err = svc.ListMine(ctx, stranger, repository.ListQuery{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "stranger", items[0].Seller)
}

func TestSearchFilterEscapesPattern(t *testing.T) {
	assert.Nil(t, SearchFilter("  "))
	f := SearchFilter("a.b")
	require.NotNil(t, f)
	assert.Contains(t, fmt.Sprint(f), `a\.b`)
}

func TestImagesLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	car, err := svc.CreateCar(ctx, seller, input("Ford", "Ranger", 2017))
	require.NoError(t, err)

	_, err = svc.AddImages(ctx, stranger, car.ID, []ImageUpload{{Filename: "a.jpg", Content: strings.NewReader("x")}})
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	_, err = svc.AddImages(ctx, seller, car.ID, nil)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	updated, err := svc.AddImages(ctx, seller, car.ID, []ImageUpload{
		{Filename: "front.jpg", Content: strings.NewReader("front")},
		{Filename: "back.jpg", Content: strings.NewReader("back")},
	})
	require.NoError(t, err)
	require.Len(t, updated.Images, 2)
	assert.True(t, strings.HasPrefix(updated.Images[0].PublicID, "test/cars/"+car.ID))

	removed := updated.Images[0].PublicID
	updated, err = svc.RemoveImage(ctx, seller, car.ID, removed)
	require.NoError(t, err)
	assert.Len(t, updated.Images, 1)
	assert.Contains(t, store.deleted, removed)

	_, err = svc.RemoveImage(ctx, seller, car.ID, "unknown")
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	require.NoError(t, svc.DeleteCar(ctx, seller, car.ID))
	assert.Contains(t, store.deleted, updated.Images[0].PublicID)
}

func TestAddImagesRollsBackOnUploadFailure(t *testing.T) {
	ctx := context.Background()
	svc, store := newService()
	store.failOn = "bad.jpg"
	car, err := svc.CreateCar(ctx, seller, input("Kia", "Rio", 2016))
	require.NoError(t, err)

	_, err = svc.AddImages(ctx, seller, car.ID, []ImageUpload{
		{Filename: "good.jpg", Content: strings.NewReader("ok")},
		{Filename: "bad.jpg", Content: strings.NewReader("no")},
	})
	require.Error(t, err)
	assert.Equal(t, store.uploaded, store.deleted)

	reloaded, err := svc.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Images)
}

func TestAddImagesWithoutStorage(t *testing.T) {
	ctx := context.Background()
	svc := NewDefaultCarService(memory.NewCarRepo(), nil, nil)
	car, err := svc.CreateCar(ctx, seller, input("Audi", "A4", 2019))
	require.NoError(t, err)

	_, err = svc.AddImages(ctx, seller, car.ID, []ImageUpload{{Filename: "a.jpg", Content: strings.NewReader("x")}})
	assert.Equal(t, http.StatusInternalServerError, statusOf(t, err))
}
