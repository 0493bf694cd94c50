package storage

import (
	"bytes"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
)

// NormalizeImage downsizes images whose longest side exceeds maxDimension and fixes EXIF
// orientation. Content that is not a decodable image, or that has no recognised image
// extension, is passed through unchanged.
func NormalizeImage(r io.Reader, filename string, maxDimension int) (io.Reader, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("upload is empty")
	}

	format, err := imaging.FormatFromFilename(filename)
	if err != nil || maxDimension <= 0 {
		return bytes.NewReader(raw), nil
	}
	img, err := imaging.Decode(bytes.NewReader(raw), imaging.AutoOrientation(true))
	if err != nil {
		return bytes.NewReader(raw), nil
	}

	bounds := img.Bounds()
	if bounds.Dx() <= maxDimension && bounds.Dy() <= maxDimension {
		return bytes.NewReader(raw), nil
	}

	resized := imaging.Fit(img, maxDimension, maxDimension, imaging.Lanczos)
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, format, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode resized image: %w", err)
	}
	return &buf, nil
}
