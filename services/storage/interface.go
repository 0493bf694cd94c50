package storage

import (
	"context"
	"io"
	"strings"

	"wheelstrust/models"
)

// StorageService defines the CDN operations the API needs.
type StorageService interface {
	// UploadFile stores the content under folder and returns its public URL and id.
	UploadFile(ctx context.Context, r io.Reader, filename, folder string) (*models.Image, error)
	// DeleteFile removes an asset by public id.
	DeleteFile(ctx context.Context, publicID string) error
	// Folder returns the base folder joined with the given segments.
	Folder(parts ...string) string
}

func joinFolder(base string, parts ...string) string {
	segments := make([]string, 0, len(parts)+1)
	if base = strings.Trim(base, "/"); base != "" {
		segments = append(segments, base)
	}
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segments = append(segments, p)
		}
	}
	return strings.Join(segments, "/")
}

// UserFolder is where an account's generic uploads live.
func UserFolder(s StorageService, userID string) string {
	return s.Folder("users", userID)
}

// OwnsAsset reports whether publicID lives under the user's upload folder.
func OwnsAsset(s StorageService, userID, publicID string) bool {
	return userID != "" && strings.HasPrefix(strings.TrimPrefix(publicID, "/"), UserFolder(s, userID)+"/")
}
