package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/forms"
	"github.com/Faseeh100/orphancare-web/internal/application/services"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/api"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/logging"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/observability/performance"
	"github.com/Faseeh100/orphancare-web/internal/infrastructure/session"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
)

// AuthHandlers serves sign-in, registration, password reset and logout
type AuthHandlers struct {
	pages       *Pages
	authService *services.AuthService
	sessions    session.Provider
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(pages *Pages, authService *services.AuthService, sessions session.Provider, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		pages:       pages,
		authService: authService,
		sessions:    sessions,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

func (h *AuthHandlers) LoginPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "login", "Admin Login", newFormView(forms.LoginDraft{}))
}

// Login exchanges credentials for a session and opens the dashboard
func (h *AuthHandlers) Login(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("login_submit")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "login", "/login")
	if !ok {
		return
	}

	var draft forms.LoginDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	// the password is never echoed back
	view := FormView[forms.LoginDraft]{Draft: forms.LoginDraft{Email: draft.Email}, SubmissionID: ticket.ID()}
	if errs != nil {
		ticket.Fail()
		h.pages.count("login", outcomeInvalid)
		view.Errors = errs
		view.Message = errs.Get("form")
		h.pages.render(c, http.StatusUnprocessableEntity, "login", "Admin Login", view)
		return
	}

	sess, err := h.authService.Login(c.Request.Context(), api.Write{IdempotencyKey: ticket.ID()}, draft.Input())
	if err != nil {
		ticket.Fail()
		h.pages.count("login", outcomeFailed)
		marker.SetError(err)
		view.Message = api.UserMessage(err, "Login failed. Please try again.")
		status := failureStatus(err)
		if api.KindOf(err) == api.KindRejected {
			status = http.StatusUnauthorized
		}
		h.pages.render(c, status, "login", "Admin Login", view)
		return
	}

	if err := h.sessions.Save(c, sess); err != nil {
		ticket.Fail()
		h.logger.LogError(logging.ChannelAuth, "save_session", err, map[string]any{"userId": logging.MaskID(sess.User.ID.String())})
		view.Message = "We couldn't sign you in. Please try again."
		h.pages.render(c, http.StatusInternalServerError, "login", "Admin Login", view)
		return
	}

	ticket.Succeed()
	h.pages.count("login", outcomeAccepted)
	h.pages.flash(c, "Welcome back, "+sess.User.Name+"!")
	middleware.Redirect(c, "/admin")
	marker.SetSuccess(true)
	h.logger.Auth().Info("Login completed", "userId", logging.MaskID(sess.User.ID.String()), "duration", time.Since(start))
}

func (h *AuthHandlers) RegisterPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "register", "Create Account", newFormView(forms.RegisterDraft{}))
}

// Register creates an administrator account and sends the user to sign in
func (h *AuthHandlers) Register(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("register_submit")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "register", "/register")
	if !ok {
		return
	}

	var draft forms.RegisterDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	view := FormView[forms.RegisterDraft]{Draft: forms.RegisterDraft{Name: draft.Name, Email: draft.Email}, SubmissionID: ticket.ID()}
	if errs != nil {
		ticket.Fail()
		h.pages.count("register", outcomeInvalid)
		view.Errors = errs
		view.Message = errs.Get("form")
		h.pages.render(c, http.StatusUnprocessableEntity, "register", "Create Account", view)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), api.Write{IdempotencyKey: ticket.ID()}, draft.Input())
	if err != nil {
		ticket.Fail()
		h.pages.count("register", outcomeFailed)
		marker.SetError(err)
		view.Message = api.UserMessage(err, "Registration failed. Please try again.")
		h.pages.render(c, failureStatus(err), "register", "Create Account", view)
		return
	}

	ticket.Succeed()
	h.pages.count("register", outcomeAccepted)
	message := result.Message
	if message == "" {
		message = "Registration successful! Please log in."
	}
	h.pages.flash(c, message)
	middleware.Redirect(c, "/login")
	marker.SetSuccess(true)
	h.logger.Auth().Info("Registration completed", "duration", time.Since(start))
}

func (h *AuthHandlers) ForgotPasswordPage(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "forgot_password", "Reset Password", newFormView(forms.ResetPasswordDraft{}))
}

// ForgotPassword sets a new password for the account's email
func (h *AuthHandlers) ForgotPassword(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("reset_password_submit")
	defer marker.Complete()

	ticket, ok := h.pages.begin(c, "reset_password", "/forgot-password")
	if !ok {
		return
	}

	var draft forms.ResetPasswordDraft
	errs := bindForm(c, &draft)
	if errs == nil {
		errs = forms.Check(&draft)
	}
	view := FormView[forms.ResetPasswordDraft]{Draft: forms.ResetPasswordDraft{Email: draft.Email}, SubmissionID: ticket.ID()}
	if errs != nil {
		ticket.Fail()
		h.pages.count("reset_password", outcomeInvalid)
		view.Errors = errs
		view.Message = errs.Get("form")
		h.pages.render(c, http.StatusUnprocessableEntity, "forgot_password", "Reset Password", view)
		return
	}

	result, err := h.authService.ResetPassword(c.Request.Context(), api.Write{IdempotencyKey: ticket.ID()}, draft.Input())
	if err != nil {
		ticket.Fail()
		h.pages.count("reset_password", outcomeFailed)
		marker.SetError(err)
		view.Message = api.UserMessage(err, "Password reset failed. Please try again.")
		h.pages.render(c, failureStatus(err), "forgot_password", "Reset Password", view)
		return
	}

	ticket.Succeed()
	h.pages.count("reset_password", outcomeAccepted)
	message := result.Message
	if message == "" {
		message = "Password reset successful! Please log in with your new password."
	}
	h.pages.flash(c, message)
	middleware.Redirect(c, "/login")
	marker.SetSuccess(true)
	h.logger.Auth().Info("Password reset completed", "duration", time.Since(start))
}

// Logout clears the session. Other tabs see it on their next request.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if sess, err := h.sessions.Load(c); err == nil && sess != nil {
		h.logger.LogAuthOperation("logout", sess.User.ID.String(), true, nil)
	}
	h.sessions.Clear(c)
	h.pages.flash(c, "You have been logged out.")
	middleware.Redirect(c, "/login")
}
