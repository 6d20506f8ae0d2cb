package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
)

const statsIncomplete = "Please fill in all fields"

// Stats renders the four statistics with a preview of how each is shown
func (h *AdminHandlers) Stats(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_stats_page")
	defer marker.Complete()

	res := h.contentService.Stats(c.Request.Context(), adminViewer(c, "admin_stats"))
	if h.pages.stale(c, res.Status) || h.loadExpired(c, res.Err) {
		return
	}

	var draft forms.StatsDraft
	if res.IsReady() {
		draft = forms.StatsDraftFrom(res.Data)
	}
	h.pages.render(c, http.StatusOK, "admin_stats", "Statistics", StatsFormView{
		FormView: newFormView(draft),
		Load:     res,
		Preview:  draft.Stats(),
	})
	marker.SetSuccess(true)
	h.logger.Content().Info("Admin stats completed", "duration", time.Since(start))
}

// UpdateStats saves all four values at once
func (h *AdminHandlers) UpdateStats(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_stats_save")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "stats", "/admin/stats")
	if !ok {
		return
	}

	var draft forms.StatsDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	view := StatsFormView{
		FormView: FormView[forms.StatsDraft]{Draft: draft, Errors: errs, Message: errs.Get("form"), SubmissionID: ticket.ID()},
		Preview:  draft.Stats(),
	}
	if errs != nil {
		ticket.Fail()
		h.pages.count("stats", outcomeInvalid)
		for _, key := range content.StatOrder {
			if draft.Value(key) == "" {
				view.Message = statsIncomplete
				break
			}
		}
		h.pages.render(c, http.StatusUnprocessableEntity, "admin_stats", "Statistics", view)
		return
	}

	if err := h.adminService.UpdateStats(c.Request.Context(), adminWrite(c, ticket), draft); err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count("stats", outcomeFailed)
		view.Message = api.UserMessage(err, "Failed to update statistics. Please try again.")
		h.pages.render(c, failureStatus(err), "admin_stats", "Statistics", view)
		return
	}

	ticket.Succeed()
	h.pages.count("stats", outcomeAccepted)
	h.pages.flash(c, "Statistics updated successfully!")
	middleware.Redirect(c, "/admin/stats")
	marker.SetSuccess(true)
	h.logger.Content().Info("Stats update completed", "duration", time.Since(start))
}
