package media

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		for y := 0; y < 3; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: 120, B: uint8(y * 80), A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, testImage()))
	return buf.Bytes()
}

func TestInspectAcceptsPNG(t *testing.T) {
	got, err := Inspect("kids.png", "image/png", pngBytes(t), GalleryLimits)
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, 4, got.Width)
	assert.Equal(t, 3, got.Height)
}

func TestInspectAcceptsWebP(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, testImage(), &webp.Options{Lossless: true}))

	got, err := Inspect("kids.webp", "image/webp", buf.Bytes(), GalleryLimits)
	require.NoError(t, err)
	assert.Equal(t, "image/webp", got.MimeType)
	assert.Equal(t, 4, got.Width)
}

func TestInspectRejections(t *testing.T) {
	data := pngBytes(t)

	_, err := Inspect("empty.png", "image/png", nil, GalleryLimits)
	assert.ErrorIs(t, err, ErrNoFile)

	_, err = Inspect("doc.pdf", "application/pdf", data, GalleryLimits)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// declared jpeg, actually png
	_, err = Inspect("kids.jpg", "image/jpeg", data, GalleryLimits)
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = Inspect("big.png", "image/png", data, Limits{MaxBytes: 10, TooLargeText: "too big"})
	var tooLarge *TooLargeError
	require.True(t, errors.As(err, &tooLarge))
	assert.Equal(t, "too big", err.Error())

	truncated := data[:len(data)/2]
	_, err = Inspect("broken.png", "image/png", truncated, GalleryLimits)
	assert.ErrorIs(t, err, ErrUndecodable)
}

func TestProfileLimitIsTwoMegabytes(t *testing.T) {
	big := make([]byte, 2<<20+1)
	copy(big, pngBytes(t))
	_, err := Inspect("me.png", "image/png", big, ProfileLimits)
	assert.EqualError(t, err, "Profile image must be less than 2MB")
}

func TestAltTextFromFilename(t *testing.T) {
	assert.Equal(t, "summer-camp_2024", AltTextFromFilename("summer-camp_2024.jpg"))
	assert.Equal(t, "archive.tar", AltTextFromFilename("archive.tar.gz"))
	assert.Equal(t, "photo", AltTextFromFilename(`C:\fakepath\photo.png`))
	assert.Equal(t, ".hidden", AltTextFromFilename(".hidden"))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 Bytes", FormatSize(0))
	assert.Equal(t, "512 Bytes", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2 MB", FormatSize(2<<20))
}

func TestNormalizeType(t *testing.T) {
	assert.Equal(t, "image/jpeg", NormalizeType("Image/JPG"))
	assert.Equal(t, "image/png", NormalizeType("image/png; charset=binary"))
	assert.True(t, IsAllowedType("image/gif"))
	assert.False(t, IsAllowedType("image/svg+xml"))
}
