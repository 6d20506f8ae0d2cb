package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/media"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
)

const selfDeleteRefused = "You cannot delete your own account."

// Users lists the administrator accounts
func (h *AdminHandlers) Users(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_users_page")
	defer marker.Complete()

	res := h.contentService.Users(c.Request.Context(), adminViewer(c, "admin_users"))
	if h.pages.stale(c, res.Status) || h.loadExpired(c, res.Err) {
		return
	}

	h.pages.render(c, http.StatusOK, "admin_users", "Administrators", UsersView{Users: res})
	marker.SetSuccess(true)
	h.logger.Content().Info("Admin users completed", "duration", time.Since(start))
}

func userFormView(user content.AdminUser, draft forms.AdminUserDraft) UserFormView {
	return UserFormView{
		FormView: newFormView(draft),
		User:     user,
		MaxSize:  media.FormatSize(media.ProfileLimits.MaxBytes),
	}
}

func (h *AdminHandlers) EditUserPage(c *gin.Context) {
	id := content.ID(c.Param("id"))
	res := h.contentService.User(c.Request.Context(), adminViewer(c, "admin_user_edit"), id)
	if h.pages.stale(c, res.Status) {
		return
	}
	if res.IsError() {
		h.loadFailed(c, res.Err, "administrator")
		return
	}

	h.pages.render(c, http.StatusOK, "admin_user_form", "Edit Administrator", userFormView(res.Data, forms.AdminUserDraftFrom(res.Data)))
}

// UpdateUser saves name and email. A chosen profile image is checked
// locally, uploaded first, and its new path sent with the update.
func (h *AdminHandlers) UpdateUser(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_user_save")
	defer marker.Complete()

	id := content.ID(c.Param("id"))
	ticket, ok := h.pages.begin(c, "user", "/admin/users/"+id.String()+"/edit")
	if !ok {
		return
	}

	current := h.contentService.User(c.Request.Context(), adminViewer(c, "admin_user_save"), id)
	if current.IsStale() {
		ticket.Fail()
		c.Status(http.StatusNoContent)
		return
	}
	if current.IsError() {
		ticket.Fail()
		h.loadFailed(c, current.Err, "administrator")
		return
	}

	var draft forms.AdminUserDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	var upload *forms.Upload
	if fh := formFile(c, "profileImage"); fh != nil {
		u, err := forms.ReadUpload(fh, media.ProfileLimits)
		if err != nil {
			if errs == nil {
				errs = forms.Errors{}
			}
			errs["profileImage"] = uploadMessage(err)
		} else {
			upload = &u
		}
	}

	view := userFormView(current.Data, draft)
	view.Errors, view.Message, view.SubmissionID = errs, errs.Get("form"), ticket.ID()
	if errs != nil {
		ticket.Fail()
		h.pages.count("user", outcomeInvalid)
		h.pages.render(c, http.StatusUnprocessableEntity, "admin_user_form", "Edit Administrator", view)
		return
	}

	if err := h.adminService.UpdateUser(c.Request.Context(), adminWrite(c, ticket), current.Data, draft, upload); err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count("user", outcomeFailed)
		view.Message = api.UserMessage(err, "Failed to update administrator. Please try again.")
		h.pages.render(c, failureStatus(err), "admin_user_form", "Edit Administrator", view)
		return
	}

	ticket.Succeed()
	h.pages.count("user", outcomeAccepted)
	h.refreshOwnSession(c, id, draft)
	h.pages.flash(c, "Administrator updated successfully!")
	middleware.Redirect(c, "/admin/users")
	marker.SetSuccess(true)
	h.logger.Content().Info("Administrator update completed", "id", logging.MaskID(id.String()), "image", upload != nil, "duration", time.Since(start))
}

// refreshOwnSession keeps the sidebar in step when administrators edit themselves
func (h *AdminHandlers) refreshOwnSession(c *gin.Context, id content.ID, draft forms.AdminUserDraft) {
	sess, ok := middleware.GetSession(c)
	if !ok || sess.User.ID != id {
		return
	}
	updated := *sess
	updated.User.Name, updated.User.Email = draft.Name, draft.Email
	if err := h.pages.sessions.Save(c, updated); err != nil {
		h.logger.LogError(logging.ChannelAuth, "refresh_session", err, map[string]any{"userId": logging.MaskID(id.String())})
	}
}

func (h *AdminHandlers) ConfirmDeleteUser(c *gin.Context) {
	if content.ID(c.Param("id")) == currentUser(c).ID {
		h.pages.flash(c, selfDeleteRefused)
		middleware.Redirect(c, "/admin/users")
		return
	}
	h.confirmDelete(c, h.userDelete())
}

func (h *AdminHandlers) DeleteUser(c *gin.Context) {
	if content.ID(c.Param("id")) == currentUser(c).ID {
		h.pages.flash(c, selfDeleteRefused)
		middleware.Redirect(c, "/admin/users")
		return
	}
	h.performDelete(c, h.userDelete())
}
