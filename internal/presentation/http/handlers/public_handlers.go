package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/listing"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
)

const defaultContactThanks = "Thank you for your message! We will get back to you soon."

// PublicHandlers serves the visitor-facing pages
type PublicHandlers struct {
	pages          *Pages
	contentService *services.ContentService
	leadService    *services.LeadService
	logger         *logging.ChanneledLogger
	perfTracker    *performance.Tracker
}

// NewPublicHandlers creates public page handlers with injected dependencies
func NewPublicHandlers(pages *Pages, contentService *services.ContentService, leadService *services.LeadService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PublicHandlers {
	return &PublicHandlers{
		pages:          pages,
		contentService: contentService,
		leadService:    leadService,
		logger:         logger,
		perfTracker:    perfTracker,
	}
}

// Home renders the landing page; each section loads and fails on its own
func (h *PublicHandlers) Home(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("home_page")
	defer marker.Complete()

	data := h.contentService.Home(c.Request.Context(), publicViewer(c, "home"))
	if h.pages.stale(c, data.Services.Status, data.Images.Status, data.Stats.Status, data.Programs.Status) {
		return
	}

	h.pages.render(c, http.StatusOK, "home", "", data)
	marker.SetSuccess(true)
	h.logger.Content().Info("Home page completed", "duration", time.Since(start))
}

func (h *PublicHandlers) About(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("about_page")
	defer marker.Complete()

	data := h.contentService.About(c.Request.Context(), publicViewer(c, "about"))
	if h.pages.stale(c, data.Stats.Status, data.Programs.Status) {
		return
	}

	h.pages.render(c, http.StatusOK, "about", "About Us", data)
	marker.SetSuccess(true)
	h.logger.Content().Info("About page completed", "duration", time.Since(start))
}

func (h *PublicHandlers) Gallery(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("gallery_page")
	defer marker.Complete()

	category := c.DefaultQuery("category", listing.All)
	data := h.contentService.Gallery(c.Request.Context(), publicViewer(c, "gallery"), category)
	if h.pages.stale(c, data.Images.Status) {
		return
	}

	h.pages.render(c, http.StatusOK, "gallery", "Gallery", data)
	marker.SetSuccess(true)
	h.logger.Content().Info("Gallery page completed", "category", category, "visible", len(data.Visible), "duration", time.Since(start))
}

// Children is static copy from the embedded site file
func (h *PublicHandlers) Children(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "children", "Our Children", nil)
}

func (h *PublicHandlers) ContactPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "contact", "Contact Us", ContactView{FormView: newFormView(forms.ContactDraft{})})
}

// Contact sends the message upstream. On success the draft is reset and the
// API's confirmation is shown in place of a redirect.
func (h *PublicHandlers) Contact(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("contact_submit")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "contact", "/contact")
	if !ok {
		return
	}

	var draft forms.ContactDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	view := ContactView{FormView: FormView[forms.ContactDraft]{Draft: draft, SubmissionID: ticket.ID()}}
	if errs != nil {
		ticket.Fail()
		h.pages.count("contact", outcomeInvalid)
		view.Errors = errs
		view.Message = errs.Get("form")
		h.pages.render(c, http.StatusUnprocessableEntity, "contact", "Contact Us", view)
		return
	}

	message, err := h.leadService.SubmitContact(c.Request.Context(), api.Write{IdempotencyKey: ticket.ID()}, draft)
	if err != nil {
		ticket.Fail()
		h.pages.count("contact", outcomeFailed)
		marker.SetError(err)
		view.Message = api.UserMessage(err, "Failed to send message. Please try again.")
		h.pages.render(c, failureStatus(err), "contact", "Contact Us", view)
		return
	}

	ticket.Succeed()
	h.pages.count("contact", outcomeAccepted)
	if message == "" {
		message = defaultContactThanks
	}
	h.pages.render(c, http.StatusOK, "contact", "Contact Us", ContactView{
		FormView: newFormView(forms.ContactDraft{}),
		Success:  message,
	})
	marker.SetSuccess(true)
	h.logger.Forms().Info("Contact submission completed", "duration", time.Since(start))
}

func (h *PublicHandlers) DonatePage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "donate", "Donate", DonateView{FormView: newFormView(forms.DonationDraft{})})
}

// Donate records a pledge. A chosen preset fills an empty amount.
func (h *PublicHandlers) Donate(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("donation_submit")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "donation", "/donate")
	if !ok {
		return
	}

	var draft forms.DonationDraft
	errs := bindForm(c, &draft)
	if draft.Amount == "" {
		draft.Amount = c.PostForm("preset")
	}
	if errs == nil {
		errs = forms.Check(&draft)
	}
	if errs != nil {
		ticket.Fail()
		h.pages.count("donation", outcomeInvalid)
		h.pages.render(c, http.StatusUnprocessableEntity, "donate", "Donate", DonateView{
			FormView: FormView[forms.DonationDraft]{Draft: draft, Errors: errs, Message: errs.Get("form"), SubmissionID: ticket.ID()},
		})
		return
	}

	h.leadService.RecordDonation(c.Request.Context(), draft)
	ticket.Succeed()
	h.pages.count("donation", outcomeAccepted)

	h.pages.render(c, http.StatusOK, "donate", "Donate", DonateView{
		FormView:     newFormView(forms.DonationDraft{}),
		ThanksName:   draft.Name,
		ThanksAmount: draft.DisplayAmount(),
	})
	marker.SetSuccess(true)
	h.logger.Forms().Info("Donation submission completed", "duration", time.Since(start))
}
