package routes

import (
	"net/http"
	"time"

	"github.com/vaibhavguptahere/smacad-test/internal/app"
	"github.com/vaibhavguptahere/smacad-test/internal/handler"
	"github.com/vaibhavguptahere/smacad-test/internal/middleware"
	"github.com/vaibhavguptahere/smacad-test/internal/service"
)

// Rate limits for unauthenticated writes, per client IP.
const (
	authRateLimit    = 10
	contactRateLimit = 5
	rateLimitWindow  = time.Minute
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	pages := handler.NewPageHandler(app.Templates, app.AuthService)
	seo := handler.NewSEOHandler(app.SitemapService, app.Cfg.AppURL)
	health := handler.NewHealthHandler(app.DB)
	admin := handler.NewAdminHandler(app.AuthService)
	notes := handler.NewNoteHandler(app.NoteService, app.Cfg.MaxUploadSize)
	contacts := handler.NewContactHandler(app.ContactService)
	analytics := handler.NewAnalyticsHandler(app.AnalyticsService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Health
	mux.HandleFunc("GET /healthz", health.Health)

	// SEO
	mux.HandleFunc("GET /robots.txt", seo.Robots)
	mux.HandleFunc("GET /sitemap.xml", seo.Sitemap)

	// Pages
	mux.HandleFunc("GET /{$}", pages.HomePage)
	mux.HandleFunc("GET /notes", pages.NotesPage)
	mux.HandleFunc("GET /notes/class/{class}", pages.NotesPage)
	mux.HandleFunc("GET /notes/class/{class}/subject/{subject}", pages.NotesPage)
	mux.HandleFunc("GET /contact", pages.ContactPage)

	// Notes
	mux.HandleFunc("GET /api/notes", notes.List)
	mux.HandleFunc("GET /api/notes/{id}", notes.Get)
	mux.HandleFunc("GET /api/notes/download/{id}", notes.Download)

	// Browse
	mux.HandleFunc("GET /api/subjects", analytics.Subjects)
	mux.HandleFunc("GET /api/classes", analytics.Classes)
	mux.HandleFunc("GET /api/classes/{class}/subjects", analytics.ClassSubjects)
	mux.HandleFunc("GET /api/classes/{class}/subjects/{subject}/topics", analytics.Topics)

	// Contact (rate limited)
	contactLimiter := middleware.RateLimit(contactRateLimit, rateLimitWindow, app.Cfg.TrustProxy)
	mux.HandleFunc("POST /api/contact", contactLimiter(contacts.Submit))

	// ============================================================================
	// ADMIN AUTH (public, rate limited)
	// ============================================================================

	authLimiter := middleware.RateLimit(authRateLimit, rateLimitWindow, app.Cfg.TrustProxy)

	mux.HandleFunc("GET /admin/login", pages.LoginPage)
	mux.HandleFunc("GET /admin/setup", pages.SetupPage)

	mux.HandleFunc("POST /api/admin/login", authLimiter(admin.Login))
	mux.HandleFunc("POST /api/admin/logout", admin.Logout)
	mux.HandleFunc("GET /api/admin/setup", admin.SetupStatus)
	mux.HandleFunc("POST /api/admin/setup", authLimiter(admin.Setup))

	// ============================================================================
	// PROTECTED ROUTES (/admin/*, /api/admin/*), guarded by AdminGate
	// ============================================================================

	// Pages
	mux.HandleFunc("GET /admin", pages.AdminPage)
	mux.HandleFunc("GET /admin/{$}", pages.AdminPage)

	// Session
	mux.HandleFunc("GET /api/admin/session", admin.Session)

	// Notes
	mux.HandleFunc("GET /api/admin/notes", notes.List)
	mux.HandleFunc("POST /api/admin/notes", notes.Create)
	mux.HandleFunc("DELETE /api/admin/notes/{id}", notes.Delete)

	// Contacts
	mux.HandleFunc("GET /api/admin/contacts", contacts.List)
	mux.HandleFunc("PATCH /api/admin/contacts/{id}", contacts.UpdateStatus)
	mux.HandleFunc("DELETE /api/admin/contacts/{id}", contacts.Delete)

	// Aggregations
	mux.HandleFunc("GET /api/admin/aggregations/downloads", analytics.Downloads)
	mux.HandleFunc("GET /api/admin/aggregations/dashboard", analytics.Dashboard)
	mux.HandleFunc("GET /api/admin/aggregations/subjects", analytics.Subjects)
	mux.HandleFunc("GET /api/admin/aggregations/classes", analytics.Classes)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", pages.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestLogging,
		middleware.SecurityHeaders,
		middleware.Config(app.Cfg),
		middleware.AdminGate(app.AuthService, service.TokenCookie), // Every /admin and /api/admin path except login and setup
	)

	return handler
}
