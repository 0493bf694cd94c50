package handlers

import (
	"mime/multipart"
	"net/http"

	"wheelstrust/models"
	"wheelstrust/services/car"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var carFilters = utils.Filterable{
	"make":         utils.StringField,
	"model":        utils.StringField,
	"year":         utils.NumberField,
	"price":        utils.NumberField,
	"mileage":      utils.NumberField,
	"status":       utils.StringField,
	"fuelType":     utils.StringField,
	"transmission": utils.StringField,
	"seller":       utils.StringField,
	"location":     utils.StringField,
}

// CarHandler serves marketplace listings.
type CarHandler struct {
	CarService car.CarService
}

func NewCarHandler(cs car.CarService) *CarHandler {
	return &CarHandler{CarService: cs}
}

// ListCarsHandler handles GET /cars. ?q= searches make and model.
func (h *CarHandler) ListCarsHandler(c *gin.Context) {
	q, ok := listQuery(c, carFilters)
	if !ok {
		return
	}
	cars, page, err := h.CarService.ListCars(c.Request.Context(), q, c.Query("q"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Page(c, "cars", cars, page)
}

// ListMyCarsHandler handles GET /cars/mine.
func (h *CarHandler) ListMyCarsHandler(c *gin.Context) {
	q, ok := listQuery(c, carFilters)
	if !ok {
		return
	}
	cars, page, err := h.CarService.ListMine(c.Request.Context(), actor(c), q)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Page(c, "cars", cars, page)
}

// GetCarHandler handles GET /cars/:id.
func (h *CarHandler) GetCarHandler(c *gin.Context) {
	listing, err := h.CarService.GetCar(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.OK(c, listing)
}

// CreateCarHandler handles POST /cars.
func (h *CarHandler) CreateCarHandler(c *gin.Context) {
	var input models.CarInput
	if !bindJSON(c, &input) {
		return
	}
	listing, err := h.CarService.CreateCar(c.Request.Context(), actor(c), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("Car listed", zap.String("carId", listing.ID), zap.String("seller", listing.Seller))
	utils.Message(c, http.StatusCreated, "Car created successfully", listing)
}

// UpdateCarHandler handles PUT /cars/:id.
func (h *CarHandler) UpdateCarHandler(c *gin.Context) {
	var input models.CarInput
	if !bindJSON(c, &input) {
		return
	}
	listing, err := h.CarService.UpdateCar(c.Request.Context(), actor(c), c.Param("id"), input)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Car updated successfully", listing)
}

// UpdateCarStatusHandler handles PATCH /cars/:id/status.
func (h *CarHandler) UpdateCarStatusHandler(c *gin.Context) {
	var req models.CarStatusUpdate
	if !bindJSON(c, &req) {
		return
	}
	listing, err := h.CarService.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Car status updated", listing)
}

// DeleteCarHandler handles DELETE /cars/:id.
func (h *CarHandler) DeleteCarHandler(c *gin.Context) {
	if err := h.CarService.DeleteCar(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Car deleted successfully", nil)
}

// UploadCarImagesHandler handles POST /cars/:id/images with one or more "images" files.
func (h *CarHandler) UploadCarImagesHandler(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(utils.InvalidField("images", "multipart form with images is required"))
		return
	}
	headers := form.File["images"]
	if len(headers) == 0 {
		headers = form.File["image"]
	}

	uploads := make([]car.ImageUpload, 0, len(headers))
	files := make([]multipart.File, 0, len(headers))
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			_ = c.Error(utils.InvalidField("images", "could not read "+fh.Filename))
			return
		}
		files = append(files, f)
		uploads = append(uploads, car.ImageUpload{Filename: fh.Filename, Content: f})
	}

	listing, err := h.CarService.AddImages(c.Request.Context(), actor(c), c.Param("id"), uploads)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Images uploaded", listing)
}

// DeleteCarImageHandler handles DELETE /cars/:id/images/*publicId.
func (h *CarHandler) DeleteCarImageHandler(c *gin.Context) {
	publicID := trimWildcard(c.Param("publicId"))
	listing, err := h.CarService.RemoveImage(c.Request.Context(), actor(c), c.Param("id"), publicID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "Image removed", listing)
}
