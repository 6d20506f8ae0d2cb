package forms

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
)

// Upload is a file that passed inspection and is ready to forward
type Upload struct {
	media.Inspection
	Data []byte
}

// Part converts the upload to a multipart file for the API client
func (u Upload) Part() api.FilePart {
	return api.FilePart{Filename: u.Filename, ContentType: u.MimeType, Data: u.Data}
}

// ReadUpload checks fh against limits before anything is sent upstream.
// A nil header means no file was chosen.
func ReadUpload(fh *multipart.FileHeader, limits media.Limits) (Upload, error) {
	if fh == nil || fh.Size == 0 {
		return Upload{}, media.ErrNoFile
	}
	if !media.IsAllowedType(fh.Header.Get("Content-Type")) {
		return Upload{}, media.ErrUnsupportedType
	}
	if fh.Size > limits.MaxBytes {
		return Upload{}, &media.TooLargeError{Size: fh.Size, Limits: limits}
	}

	f, err := fh.Open()
	if err != nil {
		return Upload{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limits.MaxBytes+1))
	if err != nil {
		return Upload{}, fmt.Errorf("read upload: %w", err)
	}

	inspection, err := media.Inspect(fh.Filename, fh.Header.Get("Content-Type"), data, limits)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Inspection: inspection, Data: data}, nil
}
