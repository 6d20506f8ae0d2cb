// Package media checks uploaded images before they are forwarded to the API.
// Nothing is stored locally; the API owns the files.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"net/http"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// AllowedTypes are the only MIME types accepted for any upload
var AllowedTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Limits bound one kind of upload
type Limits struct {
	MaxBytes     int64
	TooLargeText string
}

var (
	// GalleryLimits apply to gallery uploads
	GalleryLimits = Limits{MaxBytes: 10 << 20, TooLargeText: "File size must be less than 10MB"}
	// ProfileLimits apply to administrator profile pictures
	ProfileLimits = Limits{MaxBytes: 2 << 20, TooLargeText: "Profile image must be less than 2MB"}
)

var (
	ErrNoFile          = errors.New("Please select an image to upload")
	ErrUnsupportedType = errors.New("Please select a valid image file (JPEG, PNG, GIF, WebP)")
	ErrUndecodable     = errors.New("The selected file could not be read as an image")
)

// TooLargeError reports an upload over its limit
type TooLargeError struct {
	Size   int64
	Limits Limits
}

func (e *TooLargeError) Error() string { return e.Limits.TooLargeText }

// Inspection describes an accepted upload
type Inspection struct {
	Filename string
	MimeType string
	Size     int64
	Width    int
	Height   int
}

// Inspect accepts data only when the declared type is allowed, the size is
// within limits, the sniffed content agrees with the declared type and the
// bytes decode as an image.
func Inspect(filename, declaredType string, data []byte, limits Limits) (Inspection, error) {
	if len(data) == 0 {
		return Inspection{}, ErrNoFile
	}

	declared := NormalizeType(declaredType)
	if !IsAllowedType(declared) {
		return Inspection{}, ErrUnsupportedType
	}

	size := int64(len(data))
	if size > limits.MaxBytes {
		return Inspection{}, &TooLargeError{Size: size, Limits: limits}
	}

	sniffed := NormalizeType(http.DetectContentType(data))
	if sniffed != declared {
		return Inspection{}, ErrUnsupportedType
	}

	img, err := decode(declared, data)
	if err != nil {
		return Inspection{}, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	bounds := img.Bounds()
	return Inspection{
		Filename: filename,
		MimeType: declared,
		Size:     size,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
	}, nil
}

func decode(mimeType string, data []byte) (image.Image, error) {
	if mimeType == "image/webp" {
		return webp.Decode(bytes.NewReader(data))
	}
	return imaging.Decode(bytes.NewReader(data))
}

// NormalizeType lowercases t, drops parameters and folds image/jpg into image/jpeg
func NormalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if i := strings.IndexByte(t, ';'); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	if t == "image/jpg" || t == "image/pjpeg" {
		return "image/jpeg"
	}
	return t
}

// IsAllowedType reports whether t is one of AllowedTypes
func IsAllowedType(t string) bool {
	t = NormalizeType(t)
	for _, allowed := range AllowedTypes {
		if t == allowed {
			return true
		}
	}
	return false
}

// AltTextFromFilename is the default alt text: the base filename without its extension
func AltTextFromFilename(filename string) string {
	name := filename
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}

// FormatSize renders a byte count the way the gallery shows it
func FormatSize(size int64) string {
	switch {
	case size <= 0:
		return "0 Bytes"
	case size < 1024:
		return fmt.Sprintf("%d Bytes", size)
	case size < 1024*1024:
		return trimZeros(fmt.Sprintf("%.2f", float64(size)/1024)) + " KB"
	case size < 1024*1024*1024:
		return trimZeros(fmt.Sprintf("%.2f", float64(size)/(1024*1024))) + " MB"
	}
	return trimZeros(fmt.Sprintf("%.2f", float64(size)/(1024*1024*1024))) + " GB"
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
