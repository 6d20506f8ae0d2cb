package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
)

const confirmTokenField = "confirm_token"

// AdminHandlers serves the gated console. Every route behind it has
// already passed the admin gate.
type AdminHandlers struct {
	pages          *Pages
	contentService *services.ContentService
	adminService   *services.AdminService
	confirmations  *listing.Confirmations
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewAdminHandlers creates admin handlers with injected dependencies
func NewAdminHandlers(pages *Pages, contentService *services.ContentService, adminService *services.AdminService, confirmations *listing.Confirmations, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AdminHandlers {
	return &AdminHandlers{
		pages:          pages,
		contentService: contentService,
		adminService:   adminService,
		confirmations:  confirmations,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

func (h *AdminHandlers) Dashboard(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_dashboard_page")
	defer marker.Complete()

	data := h.adminService.Dashboard(c.Request.Context(), adminViewer(c, "admin_dashboard"))
	if h.pages.stale(c, data.Stats.Status, data.Programs.Status, data.Services.Status, data.Images.Status) {
		return
	}
	if h.loadExpired(c, data.Stats.Err, data.Programs.Err, data.Services.Err, data.Images.Err) {
		return
	}

	h.pages.render(c, http.StatusOK, "admin_dashboard", "Dashboard", data)
	marker.SetSuccess(true)
	h.logger.Content().Info("Admin dashboard completed", "duration", time.Since(start))
}

// loadExpired sends the administrator to sign in when any load was refused
// for the session token
func (h *AdminHandlers) loadExpired(c *gin.Context, errs ...error) bool {
	for _, err := range errs {
		if err != nil && h.pages.expired(c, err) {
			return true
		}
	}
	return false
}

// loadFailed renders the error page for a record the edit form needs
func (h *AdminHandlers) loadFailed(c *gin.Context, err error, noun string) {
	if h.pages.expired(c, err) {
		return
	}
	var apiErr *api.Error
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		h.pages.fail(c, http.StatusNotFound, noun+" not found", "The "+noun+" you are looking for does not exist or was deleted.")
		return
	}
	h.pages.fail(c, http.StatusBadGateway, "Unable to load "+noun, genericLoadError)
}

// currentUser is the administrator the gate let through
func currentUser(c *gin.Context) content.AdminUser {
	if sess, ok := middleware.GetSession(c); ok {
		return sess.User
	}
	return content.AdminUser{}
}

// confirmScope binds confirmation tokens to this browser and administrator
func confirmScope(c *gin.Context) string {
	return middleware.GetVisitorID(c) + "/" + currentUser(c).ID.String()
}

// deleteTarget describes one kind of record the console deletes
type deleteTarget struct {
	action string
	noun   string
	title  string
	list   string
	remove func(ctx context.Context, w api.Write, id content.ID) error
}

func (h *AdminHandlers) programDelete() deleteTarget {
	return deleteTarget{action: "delete_program", noun: "program", title: "Program", list: "/admin/programs", remove: h.adminService.DeleteProgram}
}

func (h *AdminHandlers) serviceDelete() deleteTarget {
	return deleteTarget{action: "delete_service", noun: "service", title: "Service", list: "/admin/services", remove: h.adminService.DeleteService}
}

func (h *AdminHandlers) imageDelete() deleteTarget {
	return deleteTarget{action: "delete_image", noun: "image", title: "Image", list: "/admin/gallery", remove: h.adminService.DeleteImage}
}

func (h *AdminHandlers) userDelete() deleteTarget {
	return deleteTarget{action: "delete_user", noun: "administrator", title: "Administrator", list: "/admin/users", remove: h.adminService.DeleteUser}
}

// confirmDelete renders the confirmation view with a fresh single-use token
func (h *AdminHandlers) confirmDelete(c *gin.Context, t deleteTarget) {
	id := c.Param("id")
	token, err := h.confirmations.Issue(confirmScope(c), t.action, id)
	if err != nil {
		h.logger.LogError(logging.ChannelForms, "issue_confirmation", err, map[string]any{"action": t.action})
		h.pages.fail(c, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return
	}

	h.pages.render(c, http.StatusOK, "admin_confirm", "Delete "+t.title, ConfirmView{
		Heading:      "Delete " + t.title,
		Message:      "Are you sure you want to delete this " + t.noun + "? This cannot be undone.",
		Action:       t.list + "/" + id + "/delete",
		Cancel:       t.list,
		Token:        token,
		SubmissionID: forms.NewSubmissionID(),
	})
}

// performDelete calls the destructive endpoint only with a valid,
// unconsumed confirmation token for this record
func (h *AdminHandlers) performDelete(c *gin.Context, t deleteTarget) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_" + t.action)
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, t.action, t.list)
	if !ok {
		return
	}

	id := c.Param("id")
	if err := h.confirmations.Consume(c.PostForm(confirmTokenField), confirmScope(c), t.action, id); err != nil {
		ticket.Fail()
		h.pages.count(t.action, outcomeInvalid)
		h.logger.WithContext(logging.ChannelForms, c.Request.Context()).Warn("Unconfirmed delete refused", "action", t.action, "id", id)
		h.pages.flash(c, "The delete was not confirmed or the confirmation expired. Please try again.")
		middleware.Redirect(c, t.list)
		return
	}

	if err := t.remove(c.Request.Context(), adminWrite(c, ticket), content.ID(id)); err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count(t.action, outcomeFailed)
		h.pages.flash(c, api.UserMessage(err, "Failed to delete "+t.noun+". Please try again."))
		middleware.Redirect(c, t.list)
		return
	}

	ticket.Succeed()
	h.pages.count(t.action, outcomeAccepted)
	h.pages.flash(c, t.title+" deleted successfully!")
	middleware.Redirect(c, t.list)
	marker.SetSuccess(true)
	h.logger.Content().Info("Delete completed", "action", t.action, "id", id, "duration", time.Since(start))
}
