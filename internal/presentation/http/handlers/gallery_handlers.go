package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
)

// formFile returns the posted file for field, or nil when none was chosen
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

// uploadMessage is the field error shown for a file that failed inspection
func uploadMessage(err error) string {
	var tooLarge *media.TooLargeError
	switch {
	case errors.As(err, &tooLarge):
		return tooLarge.Error()
	case errors.Is(err, media.ErrNoFile), errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrUndecodable):
		return err.Error()
	}
	return media.ErrUndecodable.Error()
}

// Gallery renders the image grid with its category filter
func (h *AdminHandlers) Gallery(c *gin.Context) {
	h.gallery(c, false)
}

// GalleryList is the grid swapped in when a category is chosen
func (h *AdminHandlers) GalleryList(c *gin.Context) {
	h.gallery(c, true)
}

func (h *AdminHandlers) gallery(c *gin.Context, fragment bool) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_gallery_page")
	defer marker.Complete()

	category := c.DefaultQuery("category", listing.All)
	data := h.contentService.Gallery(c.Request.Context(), adminViewer(c, "admin_gallery"), category)
	if h.pages.stale(c, data.Images.Status) || h.loadExpired(c, data.Images.Err) {
		return
	}

	if fragment {
		h.pages.fragment(c, http.StatusOK, "admin_gallery_grid", data)
	} else {
		h.pages.render(c, http.StatusOK, "admin_gallery", "Gallery", data)
	}
	marker.SetSuccess(true)
	h.logger.Media().Info("Admin gallery completed", "category", category, "visible", len(data.Visible), "duration", time.Since(start))
}

func uploadFormView(draft forms.ImageDraft) UploadFormView {
	return UploadFormView{
		FormView:   newFormView(draft),
		Categories: content.ImageCategories,
		MaxSize:    media.FormatSize(media.GalleryLimits.MaxBytes),
	}
}

func (h *AdminHandlers) UploadPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "admin_gallery_upload", "Upload Image", uploadFormView(forms.NewImageDraft()))
}

// Upload checks the file locally before anything is sent upstream
func (h *AdminHandlers) Upload(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_image_upload")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "image_upload", "/admin/gallery/upload")
	if !ok {
		return
	}

	var draft forms.ImageDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	upload, err := forms.ReadUpload(formFile(c, "image"), media.GalleryLimits)
	if err != nil {
		if errs == nil {
			errs = forms.Errors{}
		}
		errs["image"] = uploadMessage(err)
		h.logger.WithContext(logging.ChannelMedia, c.Request.Context()).Info("Upload refused before sending", "reason", errs["image"])
	}

	view := uploadFormView(draft)
	view.Errors, view.Message, view.SubmissionID = errs, errs.Get("form"), ticket.ID()
	if errs != nil {
		ticket.Fail()
		h.pages.count("image_upload", outcomeInvalid)
		h.pages.render(c, http.StatusUnprocessableEntity, "admin_gallery_upload", "Upload Image", view)
		return
	}

	if err := h.adminService.UploadImage(c.Request.Context(), adminWrite(c, ticket), draft, upload); err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count("image_upload", outcomeFailed)
		view.Message = api.UserMessage(err, "Failed to upload image. Please try again.")
		h.pages.render(c, failureStatus(err), "admin_gallery_upload", "Upload Image", view)
		return
	}

	ticket.Succeed()
	h.pages.count("image_upload", outcomeAccepted)
	h.pages.flash(c, "Image uploaded successfully!")
	middleware.Redirect(c, "/admin/gallery")
	marker.SetSuccess(true)
	h.logger.Media().Info("Image upload completed", "size", upload.Size, "duration", time.Since(start))
}

func (h *AdminHandlers) ConfirmDeleteImage(c *gin.Context) {
	h.confirmDelete(c, h.imageDelete())
}

func (h *AdminHandlers) DeleteImage(c *gin.Context) {
	h.performDelete(c, h.imageDelete())
}
