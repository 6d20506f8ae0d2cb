package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/domain/entities/content"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
)

func serviceListView(res fetch.Result[[]content.Service], status string) ServiceListView {
	view := ServiceListView{Services: res, Status: status}
	if res.IsReady() {
		for _, s := range listing.ByStatus(res.Data, status, listing.ServiceActive) {
			view.Rows = append(view.Rows, ServiceRowView{Service: s, SubmissionID: forms.NewSubmissionID()})
		}
		view.Counts = listing.CountStatus(res.Data, listing.ServiceActive)
	}
	return view
}

// Services renders the service table with its status tabs
func (h *AdminHandlers) Services(c *gin.Context) {
	h.services(c, false)
}

// ServiceList is the table body swapped in when a tab is chosen
func (h *AdminHandlers) ServiceList(c *gin.Context) {
	h.services(c, true)
}

func (h *AdminHandlers) services(c *gin.Context, fragment bool) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_services_page")
	defer marker.Complete()

	status := statusFilter(c)
	res := h.contentService.Services(c.Request.Context(), adminViewer(c, "admin_services"))
	if h.pages.stale(c, res.Status) || h.loadExpired(c, res.Err) {
		return
	}

	view := serviceListView(res, status)
	if fragment {
		h.pages.fragment(c, http.StatusOK, "admin_service_list", view)
	} else {
		h.pages.render(c, http.StatusOK, "admin_services", "Services", view)
	}
	marker.SetSuccess(true)
	h.logger.Content().Info("Admin services completed", "filter", status, "rows", len(view.Rows), "duration", time.Since(start))
}

func (h *AdminHandlers) NewServicePage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "admin_service_form", "Add Service", ServiceFormView{
		FormView:   newFormView(forms.NewServiceDraft()),
		Categories: content.ServiceCategories,
	})
}

func (h *AdminHandlers) EditServicePage(c *gin.Context) {
	id := content.ID(c.Param("id"))
	res := h.contentService.Service(c.Request.Context(), adminViewer(c, "admin_service_edit"), id)
	if h.pages.stale(c, res.Status) {
		return
	}
	if res.IsError() {
		h.loadFailed(c, res.Err, "service")
		return
	}

	h.pages.render(c, http.StatusOK, "admin_service_form", "Edit Service", ServiceFormView{
		FormView:   newFormView(forms.ServiceDraftFrom(res.Data)),
		ID:         id,
		Categories: content.ServiceCategories,
	})
}

func (h *AdminHandlers) CreateService(c *gin.Context) {
	h.saveService(c, "")
}

func (h *AdminHandlers) UpdateService(c *gin.Context) {
	h.saveService(c, content.ID(c.Param("id")))
}

func (h *AdminHandlers) saveService(c *gin.Context, id content.ID) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_service_save")
	defer marker.Complete()

	back, title := "/admin/services/new", "Add Service"
	if id != "" {
		back, title = "/admin/services/"+id.String()+"/edit", "Edit Service"
	}
	ticket, ok := h.pages.begin(c, "service", back)
	if !ok {
		return
	}

	var draft forms.ServiceDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	view := ServiceFormView{
		FormView:   FormView[forms.ServiceDraft]{Draft: draft, Errors: errs, Message: errs.Get("form"), SubmissionID: ticket.ID()},
		ID:         id,
		Categories: content.ServiceCategories,
	}
	if errs != nil {
		ticket.Fail()
		h.pages.count("service", outcomeInvalid)
		h.pages.render(c, http.StatusUnprocessableEntity, "admin_service_form", title, view)
		return
	}

	var err error
	if id == "" {
		err = h.adminService.CreateService(c.Request.Context(), adminWrite(c, ticket), draft.Input())
	} else {
		err = h.adminService.UpdateService(c.Request.Context(), adminWrite(c, ticket), id, draft.Input())
	}
	if err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count("service", outcomeFailed)
		view.Message = api.UserMessage(err, "Failed to save service. Please try again.")
		h.pages.render(c, failureStatus(err), "admin_service_form", title, view)
		return
	}

	ticket.Succeed()
	h.pages.count("service", outcomeAccepted)
	if id == "" {
		h.pages.flash(c, "Service created successfully!")
	} else {
		h.pages.flash(c, "Service updated successfully!")
	}
	middleware.Redirect(c, "/admin/services")
	marker.SetSuccess(true)
	h.logger.Content().Info("Service save completed", "id", id, "duration", time.Since(start))
}

// ToggleService flips a service's status. htmx requests get the row back
// as the API now has it; plain posts return to the list.
func (h *AdminHandlers) ToggleService(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_service_toggle")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "service_toggle", "/admin/services")
	if !ok {
		return
	}

	id := content.ID(c.Param("id"))
	row, err := h.adminService.ToggleService(c.Request.Context(), adminWrite(c, ticket), id)
	if err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count("service_toggle", outcomeFailed)
		h.pages.flash(c, api.UserMessage(err, "Failed to update service status. Please try again."))
		middleware.Redirect(c, "/admin/services")
		return
	}

	ticket.Succeed()
	h.pages.count("service_toggle", outcomeAccepted)
	if middleware.IsHTMX(c) {
		h.pages.fragment(c, http.StatusOK, "admin_service_row", ServiceRowView{Service: row, SubmissionID: forms.NewSubmissionID()})
	} else {
		h.pages.flash(c, "Service status updated successfully!")
		middleware.Redirect(c, "/admin/services")
	}
	marker.SetSuccess(true)
	h.logger.Content().Info("Service toggle completed", "id", id, "active", row.IsActive, "duration", time.Since(start))
}

func (h *AdminHandlers) ConfirmDeleteService(c *gin.Context) {
	h.confirmDelete(c, h.serviceDelete())
}

func (h *AdminHandlers) DeleteService(c *gin.Context) {
	h.performDelete(c, h.serviceDelete())
}
