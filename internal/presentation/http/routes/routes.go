// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Faseeh100/orphancare-web/internal/application/container"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/handlers"
	"github.com/Faseeh100/orphancare-web/internal/presentation/http/middleware"
	"github.com/Faseeh100/orphancare-web/internal/presentation/templates"
)

// maxUploadMemory bounds the multipart form held in memory; the gallery
// limit is 10 MB and the rest spills to temp files
const maxUploadMemory = 12 << 20

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
// The returned limiter is swept by the cleanup worker.
func SetupRoutes(container *container.Container) (*gin.Engine, *middleware.FormLimiter) {
	r := gin.Default()
	r.MaxMultipartMemory = maxUploadMemory

	r.Use(middleware.RequestID())
	r.Use(middleware.CORSMiddleware(container.Options.CORSOrigins))
	r.Use(middleware.Visitor(container.Options.Cookies))

	r.StaticFS("/static", http.FS(templates.Static()))

	// Initialize handlers
	pages := handlers.NewPages(container.Renderer, container.Site, container.Sessions, container.Options.Cookies, container.Guard, container.Logger, container.PerfTracker)
	publicHandlers := handlers.NewPublicHandlers(pages, container.ContentService, container.LeadService, container.Logger, container.PerfTracker)
	authHandlers := handlers.NewAuthHandlers(pages, container.AuthService, container.Sessions, container.Logger, container.PerfTracker)
	fragmentHandlers := handlers.NewFragmentHandlers(pages, container.ContentService, container.Logger, container.PerfTracker)
	adminHandlers := handlers.NewAdminHandlers(pages, container.ContentService, container.AdminService, container.Confirmations, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(container.Fetcher, container.Guard, container.Confirmations, container.PerfTracker)

	limiter := middleware.NewFormLimiter(container.Options.FormRatePerMinute, container.Logger)
	throttled := limiter.Middleware(pages.TooManyRequests)

	r.GET("/healthz", healthHandlers.Health)
	r.GET("/metrics", healthHandlers.Metrics)

	// Public site
	r.GET("/", publicHandlers.Home)
	r.GET("/about", publicHandlers.About)
	r.GET("/gallery", publicHandlers.Gallery)
	r.GET("/children", publicHandlers.Children)
	r.GET("/contact", publicHandlers.ContactPage)
	r.POST("/contact", throttled, publicHandlers.Contact)
	r.GET("/donate", publicHandlers.DonatePage)
	r.POST("/donate", throttled, publicHandlers.Donate)

	fragments := r.Group("/fragments")
	{
		fragments.GET("/services", fragmentHandlers.Services)
		fragments.GET("/gallery", fragmentHandlers.Gallery)
	}

	// Authentication
	r.GET("/login", authHandlers.LoginPage)
	r.POST("/login", throttled, authHandlers.Login)
	r.GET("/register", authHandlers.RegisterPage)
	r.POST("/register", throttled, authHandlers.Register)
	r.GET("/forgot-password", authHandlers.ForgotPasswordPage)
	r.POST("/forgot-password", throttled, authHandlers.ForgotPassword)
	r.POST("/logout", authHandlers.Logout)

	// Admin console, every route behind the gate
	admin := r.Group("/admin")
	admin.Use(middleware.AdminGate(middleware.GateConfig{
		Provider:    container.Sessions,
		Gate:        container.AuthGate,
		Cookies:     container.Options.Cookies,
		Unavailable: pages.Unavailable,
	}, container.Logger, container.PerfTracker))
	{
		admin.GET("", adminHandlers.Dashboard)

		admin.GET("/programs", adminHandlers.Programs)
		admin.GET("/programs/list", adminHandlers.ProgramList)
		admin.GET("/programs/new", adminHandlers.NewProgramPage)
		admin.POST("/programs/new", adminHandlers.CreateProgram)
		admin.GET("/programs/:id/edit", adminHandlers.EditProgramPage)
		admin.POST("/programs/:id/edit", adminHandlers.UpdateProgram)
		admin.GET("/programs/:id/delete", adminHandlers.ConfirmDeleteProgram)
		admin.POST("/programs/:id/delete", adminHandlers.DeleteProgram)

		admin.GET("/services", adminHandlers.Services)
		admin.GET("/services/list", adminHandlers.ServiceList)
		admin.GET("/services/new", adminHandlers.NewServicePage)
		admin.POST("/services/new", adminHandlers.CreateService)
		admin.GET("/services/:id/edit", adminHandlers.EditServicePage)
		admin.POST("/services/:id/edit", adminHandlers.UpdateService)
		admin.POST("/services/:id/toggle", adminHandlers.ToggleService)
		admin.GET("/services/:id/delete", adminHandlers.ConfirmDeleteService)
		admin.POST("/services/:id/delete", adminHandlers.DeleteService)

		admin.GET("/gallery", adminHandlers.Gallery)
		admin.GET("/gallery/list", adminHandlers.GalleryList)
		admin.GET("/gallery/upload", adminHandlers.UploadPage)
		admin.POST("/gallery/upload", adminHandlers.Upload)
		admin.GET("/gallery/:id/delete", adminHandlers.ConfirmDeleteImage)
		admin.POST("/gallery/:id/delete", adminHandlers.DeleteImage)

		admin.GET("/stats", adminHandlers.Stats)
		admin.POST("/stats", adminHandlers.UpdateStats)

		admin.GET("/users", adminHandlers.Users)
		admin.GET("/users/:id/edit", adminHandlers.EditUserPage)
		admin.POST("/users/:id/edit", adminHandlers.UpdateUser)
		admin.GET("/users/:id/delete", adminHandlers.ConfirmDeleteUser)
		admin.POST("/users/:id/delete", adminHandlers.DeleteUser)
	}

	r.NoRoute(pages.NotFound)

	return r, limiter
}
