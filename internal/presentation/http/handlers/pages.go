// Package handlers provides the HTTP handlers for the public site and the
// admin console. Every handler renders server-side HTML; list bodies are
// also served as fragments for htmx swaps.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/fetch"
	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/session"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
	"github.com/Faseeh100/orphancare-web/internal/presentation/site"
	"github.com/Faseeh100/orphancare-web/internal/presentation/templates"
)

const (
	submissionField = "submission_id"

	outcomeAccepted  = "accepted"
	outcomeInvalid   = "invalid"
	outcomeFailed    = "failed"
	outcomeDuplicate = "duplicate"
	outcomeMissingID = "missing_id"

	genericLoadError = "Something went wrong while loading this page."
)

// Pages renders pages inside the site or admin chrome and holds the state
// every form handler shares
type Pages struct {
	renderer    *templates.Renderer
	site        *site.Site
	sessions    session.Provider
	cookies     session.CookieOptions
	guard       *forms.Guard
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewPages creates the shared page renderer
func NewPages(renderer *templates.Renderer, siteCopy *site.Site, sessions session.Provider, cookies session.CookieOptions, guard *forms.Guard, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Pages {
	return &Pages{
		renderer:    renderer,
		site:        siteCopy,
		sessions:    sessions,
		cookies:     cookies,
		guard:       guard,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// navPath is the path the navigation highlights; admin subpages light up their section
func navPath(path string) string {
	if !strings.HasPrefix(path, "/admin/") {
		return path
	}
	parts := strings.SplitN(strings.TrimPrefix(path, "/admin/"), "/", 2)
	return "/admin/" + parts[0]
}

func (p *Pages) page(c *gin.Context, title string, data any) templates.Page {
	pg := templates.Page{
		Title: title,
		Path:  navPath(c.Request.URL.Path),
		Site:  p.site,
		Flash: session.PopFlash(c, p.cookies),
		Data:  data,
	}
	if sess, ok := middleware.GetSession(c); ok {
		user := sess.User
		pg.Admin = &user
	}
	return pg
}

// render writes a full page. A template failure becomes a plain 500.
func (p *Pages) render(c *gin.Context, status int, name, title string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(status)
	if err := p.renderer.Page(c.Writer, name, p.page(c, title, data)); err != nil {
		p.logger.LogError(logging.ChannelSystem, "render_page", err, map[string]any{"page": name})
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// fragment writes one partial for an htmx swap
func (p *Pages) fragment(c *gin.Context, status int, name string, data any) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Header("Cache-Control", "no-store")
	c.Status(status)
	if err := p.renderer.Fragment(c.Writer, name, data); err != nil {
		p.logger.LogError(logging.ChannelSystem, "render_fragment", err, map[string]any{"fragment": name})
		c.String(http.StatusInternalServerError, "Something went wrong. Please try again.")
	}
}

// fail renders an error page in the chrome that matches the request
func (p *Pages) fail(c *gin.Context, status int, heading, message string) {
	view := ErrorView{Status: status, Heading: heading, Message: message, Retry: c.Request.URL.RequestURI()}
	if c.Request.Method != http.MethodGet {
		view.Retry = ""
	}
	name := "error"
	if strings.HasPrefix(c.Request.URL.Path, "/admin") {
		name = "admin_error"
	}
	p.render(c, status, name, heading, view)
}

// NotFound is the router's fallback
func (p *Pages) NotFound(c *gin.Context) {
	p.fail(c, http.StatusNotFound, "Page not found", "The page you are looking for does not exist.")
}

// Unavailable is shown when the API could not confirm an admin session.
// The session is kept so trying again can succeed.
func (p *Pages) Unavailable(c *gin.Context) {
	p.fail(c, http.StatusServiceUnavailable, "We couldn't verify your session", "We couldn't verify your session right now. Please try again.")
}

// TooManyRequests is shown when a visitor posts forms too quickly
func (p *Pages) TooManyRequests(c *gin.Context) {
	p.fail(c, http.StatusTooManyRequests, "Too many submissions", "Please wait a minute before submitting again.")
}

// stale drops an htmx swap whose load was superseded by a newer one for the
// same view. The newer request renders instead. Full pages load untracked
// and always render.
func (p *Pages) stale(c *gin.Context, statuses ...fetch.Status) bool {
	if !middleware.IsHTMX(c) {
		return false
	}
	for _, s := range statuses {
		if s == fetch.StatusStale {
			p.logger.WithContext(logging.ChannelContent, c.Request.Context()).Debug("Dropping superseded response", "path", c.Request.URL.Path)
			c.Status(http.StatusNoContent)
			return true
		}
	}
	return false
}

// flash sets the message shown on the next page
func (p *Pages) flash(c *gin.Context, message string) {
	session.SetFlash(c, p.cookies, message)
}

// begin claims the posted submission ID for form. A refused ID sends the
// visitor back with a flash and returns false.
func (p *Pages) begin(c *gin.Context, form, back string) (*forms.Ticket, bool) {
	ticket, err := p.guard.Begin(c.PostForm(submissionField))
	if err == nil {
		return ticket, true
	}

	outcome, message := outcomeDuplicate, "This form was already submitted."
	if errors.Is(err, forms.ErrMissingSubmissionID) {
		outcome, message = outcomeMissingID, "The form expired. Please try again."
	}
	p.perfTracker.CountSubmission(form, outcome)
	p.logger.WithContext(logging.ChannelForms, c.Request.Context()).Warn("Submission refused", "form", form, "reason", outcome)
	p.flash(c, message)
	middleware.Redirect(c, back)
	return nil, false
}

func (p *Pages) count(form, outcome string) {
	p.perfTracker.CountSubmission(form, outcome)
}

// expired handles a write the API refused for the session token. It clears
// the session and sends the administrator to sign in again.
func (p *Pages) expired(c *gin.Context, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	p.sessions.Clear(c)
	p.flash(c, "Your session has expired. Please sign in again.")
	middleware.Redirect(c, "/login")
	return true
}

// failureStatus is the status a form is re-rendered with after an API failure
func failureStatus(err error) int {
	switch api.KindOf(err) {
	case api.KindRejected, api.KindValidation:
		return http.StatusUnprocessableEntity
	}
	if api.IsCanceled(err) {
		return http.StatusRequestTimeout
	}
	return http.StatusBadGateway
}

// publicViewer tracks only htmx swaps, which replace the same view's data.
// A full-page navigation (another tab, a reload) is never superseded.
func publicViewer(c *gin.Context, page string) services.Viewer {
	v := services.Viewer{Page: page}
	if middleware.IsHTMX(c) {
		v.Scope = middleware.GetVisitorID(c)
	}
	return v
}

func adminViewer(c *gin.Context, page string) services.Viewer {
	v := publicViewer(c, page)
	if sess, ok := middleware.GetSession(c); ok {
		v.Token = sess.Token
	}
	return v
}

// adminWrite carries the session token and the submission's idempotency key
func adminWrite(c *gin.Context, ticket *forms.Ticket) api.Write {
	w := api.Write{IdempotencyKey: ticket.ID()}
	if sess, ok := middleware.GetSession(c); ok {
		w.Token = sess.Token
	}
	return w
}

// bindForm fills draft from the posted form. A draft that cannot be bound
// is reported as a form-level error.
func bindForm(c *gin.Context, draft any) forms.Errors {
	if err := c.ShouldBind(draft); err != nil {
		return forms.Errors{"form": "Please check the form and try again."}
	}
	return nil
}
