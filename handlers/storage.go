package handlers

import (
	"errors"
	"net/http"
	"strings"

	"wheelstrust/services/storage"
	"wheelstrust/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StorageHandler serves generic CDN uploads. Each account uploads into its own folder.
type StorageHandler struct {
	StorageSvc storage.StorageService
}

func NewStorageHandler(svc storage.StorageService) *StorageHandler {
	return &StorageHandler{StorageSvc: svc}
}

// trimWildcard strips the leading slash gin keeps on catch-all parameters.
func trimWildcard(param string) string {
	return strings.TrimPrefix(param, "/")
}

func (h *StorageHandler) available(c *gin.Context) bool {
	if h.StorageSvc == nil {
		_ = c.Error(utils.ServerError(errors.New("uploads are not configured")))
		return false
	}
	return true
}

// UploadFileHandler handles POST /uploads with a multipart "file".
func (h *StorageHandler) UploadFileHandler(c *gin.Context) {
	if !h.available(c) {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = c.Error(utils.MissingField("file"))
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		_ = c.Error(utils.InvalidField("file", "could not read uploaded file"))
		return
	}
	defer f.Close()

	a := actor(c)
	img, err := h.StorageSvc.UploadFile(c.Request.Context(), f, fileHeader.Filename, storage.UserFolder(h.StorageSvc, a.ID))
	if err != nil {
		_ = c.Error(err)
		return
	}
	getLogger(c).Info("File uploaded", zap.String("publicId", img.PublicID), zap.Int64("size", fileHeader.Size))
	utils.Message(c, http.StatusCreated, "File uploaded successfully", img)
}

// DeleteFileHandler handles DELETE /uploads/*publicId. Non-admins may only delete their own uploads.
func (h *StorageHandler) DeleteFileHandler(c *gin.Context) {
	if !h.available(c) {
		return
	}
	publicID := trimWildcard(c.Param("publicId"))
	if publicID == "" {
		_ = c.Error(utils.MissingField("publicId"))
		return
	}
	a := actor(c)
	if !a.IsAdmin() && !storage.OwnsAsset(h.StorageSvc, a.ID, publicID) {
		_ = c.Error(utils.Forbidden(""))
		return
	}
	if err := h.StorageSvc.DeleteFile(c.Request.Context(), publicID); err != nil {
		_ = c.Error(err)
		return
	}
	utils.Message(c, http.StatusOK, "File deleted successfully", nil)
}
