package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
)

// ImageUpload is the multipart body of POST /images/upload
type ImageUpload struct {
	File        FilePart
	Description string
	AltText     string
	Category    string
}

func (c *Client) ListImages(ctx context.Context) ([]content.GalleryImage, error) {
	var images []content.GalleryImage
	_, err := c.do(ctx, call{
		op: "list images", method: http.MethodGet, endpoint: "/images", path: "/images",
		payload: PayloadData,
	}, &images)
	return images, err
}

func (c *Client) UploadImage(ctx context.Context, w Write, up ImageUpload) (Ack, error) {
	file := up.File
	file.Field = "image"
	env, err := c.do(ctx, call{
		op: "upload image", method: http.MethodPost, endpoint: "/images/upload", path: "/images/upload",
		fields: map[string]string{
			"description": up.Description,
			"altText":     up.AltText,
			"category":    up.Category,
		},
		file: &file, token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}

func (c *Client) DeleteImage(ctx context.Context, w Write, id content.ID) (Ack, error) {
	env, err := c.do(ctx, call{
		op: "delete image", method: http.MethodDelete, endpoint: "/images/:id", path: "/images/" + url.PathEscape(id.String()),
		token: w.Token, idempotencyKey: w.IdempotencyKey,
	}, nil)
	return ack(env), err
}
