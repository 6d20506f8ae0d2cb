package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

// FragmentHandlers serves the public list bodies htmx swaps in when a
// visitor picks a category
type FragmentHandlers struct {
	pages          *Pages
	contentService *services.ContentService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewFragmentHandlers creates fragment handlers with injected dependencies
func NewFragmentHandlers(pages *Pages, contentService *services.ContentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *FragmentHandlers {
	return &FragmentHandlers{
		pages:          pages,
		contentService: contentService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// Services renders the active services filtered by ?category=
func (h *FragmentHandlers) Services(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("services_fragment")
	defer marker.Complete()

	category := c.DefaultQuery("category", listing.All)
	data := h.contentService.PublicServices(c.Request.Context(), publicViewer(c, "services"), category)
	if h.pages.stale(c, data.Services.Status) {
		return
	}

	h.pages.fragment(c, http.StatusOK, "services_list", data)
	marker.SetSuccess(true)
	h.logger.Content().Debug("Services fragment completed", "category", category, "visible", len(data.Visible), "duration", time.Since(start))
}

// Gallery renders the gallery grid filtered by ?category=. A newer filter
// swap supersedes an older one still loading.
func (h *FragmentHandlers) Gallery(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("gallery_fragment")
	defer marker.Complete()

	category := c.DefaultQuery("category", listing.All)
	data := h.contentService.Gallery(c.Request.Context(), publicViewer(c, "gallery"), category)
	if h.pages.stale(c, data.Images.Status) {
		return
	}

	h.pages.fragment(c, http.StatusOK, "gallery_grid", data)
	marker.SetSuccess(true)
	h.logger.Content().Debug("Gallery fragment completed", "category", category, "visible", len(data.Visible), "duration", time.Since(start))
}
