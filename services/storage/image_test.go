package storage

import (
	"bytes"
	"image"
	"image/color"
	"io"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func decodeSize(t *testing.T, r io.Reader) image.Point {
	t.Helper()
	img, err := imaging.Decode(r)
	require.NoError(t, err)
	return img.Bounds().Size()
}

func TestNormalizeImage_DownsizesLargeImages(t *testing.T) {
	out, err := NormalizeImage(bytes.NewReader(pngOf(t, 400, 200)), "car.png", 100)
	require.NoError(t, err)
	assert.Equal(t, image.Pt(100, 50), decodeSize(t, out))
}

func TestNormalizeImage_KeepsSmallImagesAndNonImages(t *testing.T) {
	small := pngOf(t, 50, 40)
	out, err := NormalizeImage(bytes.NewReader(small), "car.png", 100)
	require.NoError(t, err)
	got, _ := io.ReadAll(out)
	assert.Equal(t, small, got)

	doc := []byte("%PDF-1.4 not an image")
	out, err = NormalizeImage(bytes.NewReader(doc), "papers.pdf", 100)
	require.NoError(t, err)
	got, _ = io.ReadAll(out)
	assert.Equal(t, doc, got)

	_, err = NormalizeImage(bytes.NewReader(nil), "empty.png", 100)
	assert.Error(t, err)
}

func TestOwnsAsset(t *testing.T) {
	s := NewStorageService(nil, "wheelstrust", 0, nil)
	assert.Equal(t, "wheelstrust/users/u1", UserFolder(s, "u1"))
	assert.True(t, OwnsAsset(s, "u1", "wheelstrust/users/u1/abc"))
	assert.False(t, OwnsAsset(s, "u1", "wheelstrust/users/u12/abc"))
	assert.False(t, OwnsAsset(s, "", "wheelstrust/users//abc"))
}
