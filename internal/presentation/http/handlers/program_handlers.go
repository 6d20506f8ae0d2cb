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

// statusFilter normalises the ?filter= tab value
func statusFilter(c *gin.Context) string {
	switch s := c.Query("filter"); s {
	case listing.StatusActive, listing.StatusInactive:
		return s
	}
	return listing.All
}

func programListView(res fetch.Result[[]content.Program], status string) ProgramListView {
	view := ProgramListView{Programs: res, Status: status}
	if res.IsReady() {
		view.Visible = listing.ByStatus(res.Data, status, listing.ProgramActive)
		view.Counts = listing.CountStatus(res.Data, listing.ProgramActive)
	}
	return view
}

// Programs renders the program list with its status tabs
func (h *AdminHandlers) Programs(c *gin.Context) {
	h.programs(c, false)
}

// ProgramList is the list body swapped in when a tab is chosen
func (h *AdminHandlers) ProgramList(c *gin.Context) {
	h.programs(c, true)
}

func (h *AdminHandlers) programs(c *gin.Context, fragment bool) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_programs_page")
	defer marker.Complete()

	status := statusFilter(c)
	res := h.contentService.AdminPrograms(c.Request.Context(), adminViewer(c, "admin_programs"))
	if h.pages.stale(c, res.Status) || h.loadExpired(c, res.Err) {
		return
	}

	view := programListView(res, status)
	if fragment {
		h.pages.fragment(c, http.StatusOK, "admin_program_list", view)
	} else {
		h.pages.render(c, http.StatusOK, "admin_programs", "Programs", view)
	}
	marker.SetSuccess(true)
	h.logger.Content().Info("Admin programs completed", "filter", status, "visible", len(view.Visible), "duration", time.Since(start))
}

func (h *AdminHandlers) NewProgramPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "admin_program_form", "Add Program", ProgramFormView{
		FormView: newFormView(forms.NewProgramDraft()),
		Icons:    content.ProgramIcons,
	})
}

func (h *AdminHandlers) EditProgramPage(c *gin.Context) {
	id := content.ID(c.Param("id"))
	res := h.contentService.Program(c.Request.Context(), adminViewer(c, "admin_program_edit"), id)
	if h.pages.stale(c, res.Status) {
		return
	}
	if res.IsError() {
		h.loadFailed(c, res.Err, "program")
		return
	}

	h.pages.render(c, http.StatusOK, "admin_program_form", "Edit Program", ProgramFormView{
		FormView: newFormView(forms.ProgramDraftFrom(res.Data)),
		ID:       id,
		Icons:    content.ProgramIcons,
	})
}

func (h *AdminHandlers) CreateProgram(c *gin.Context) {
	h.saveProgram(c, "")
}

func (h *AdminHandlers) UpdateProgram(c *gin.Context) {
	h.saveProgram(c, content.ID(c.Param("id")))
}

// saveProgram creates when id is empty and updates otherwise
func (h *AdminHandlers) saveProgram(c *gin.Context, id content.ID) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("admin_program_save")
	defer marker.Complete()

	back, title := "/admin/programs/new", "Add Program"
	if id != "" {
		back, title = "/admin/programs/"+id.String()+"/edit", "Edit Program"
	}
	ticket, ok := h.pages.begin(c, "program", back)
	if !ok {
		return
	}

	var draft forms.ProgramDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	view := ProgramFormView{
		FormView: FormView[forms.ProgramDraft]{Draft: draft, Errors: errs, Message: errs.Get("form"), SubmissionID: ticket.ID()},
		ID:       id,
		Icons:    content.ProgramIcons,
	}
	if errs != nil {
		ticket.Fail()
		h.pages.count("program", outcomeInvalid)
		h.pages.render(c, http.StatusUnprocessableEntity, "admin_program_form", title, view)
		return
	}

	var err error
	if id == "" {
		err = h.adminService.CreateProgram(c.Request.Context(), adminWrite(c, ticket), draft.Input())
	} else {
		err = h.adminService.UpdateProgram(c.Request.Context(), adminWrite(c, ticket), id, draft.Input())
	}
	if err != nil {
		ticket.Fail()
		marker.SetError(err)
		if h.pages.expired(c, err) {
			return
		}
		h.pages.count("program", outcomeFailed)
		view.Message = api.UserMessage(err, "Failed to save program. Please try again.")
		h.pages.render(c, failureStatus(err), "admin_program_form", title, view)
		return
	}

	ticket.Succeed()
	h.pages.count("program", outcomeAccepted)
	if id == "" {
		h.pages.flash(c, "Program created successfully!")
	} else {
		h.pages.flash(c, "Program updated successfully!")
	}
	middleware.Redirect(c, "/admin/programs")
	marker.SetSuccess(true)
	h.logger.Content().Info("Program save completed", "id", id, "duration", time.Since(start))
}

func (h *AdminHandlers) ConfirmDeleteProgram(c *gin.Context) {
	h.confirmDelete(c, h.programDelete())
}

func (h *AdminHandlers) DeleteProgram(c *gin.Context) {
	h.performDelete(c, h.programDelete())
}
