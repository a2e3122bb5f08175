package routes

import (
	"net/http"

	"github.com/futurenote/futurenote/internal/app"
	"github.com/futurenote/futurenote/internal/handler"
	"github.com/futurenote/futurenote/internal/middleware"
	"github.com/futurenote/futurenote/internal/ratelimit"
	"github.com/futurenote/futurenote/internal/ui/pages"
)

func SetupRoutes(app *app.App) http.Handler {
	site := pages.Site{AppName: app.Cfg.AppName, AppURL: app.Cfg.AppURL}

	// Handlers
	home := handler.NewHomeHandler(site)
	goal := handler.NewGoalHandler(app.GoalService, app.ModerationService, site)
	achievers := handler.NewAchieversHandler(app.BadgeService)
	admin := handler.NewAdminHandler(app.AdminAuthService, app.ModerationService, app.ExportService)
	cron := handler.NewCronHandler(app.ReminderService, app.Cfg.CronSecret)
	health := handler.NewHealthHandler(app.DB)

	submitLimit := middleware.RateLimit(app.Limiter, "goal-submit", ratelimit.GoalSubmission)
	reportLimit := middleware.RateLimit(app.Limiter, "goal-report", ratelimit.GoalReport)
	loginLimit := middleware.RateLimit(app.Limiter, "admin-login", ratelimit.AdminLogin)
	requireAdmin := middleware.RequireAdmin(app.AdminAuthService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Health)

	// Goals
	mux.HandleFunc("POST /api/goals/submit", submitLimit(goal.Submit))
	mux.HandleFunc("GET /api/goals", goal.List)
	mux.HandleFunc("POST /api/goals/report", reportLimit(goal.Report))

	// Email links (token authorized)
	mux.HandleFunc("GET /api/goals/respond", goal.Respond)
	mux.HandleFunc("GET /api/goals/delete", goal.Delete)
	mux.HandleFunc("GET /api/goals/unsubscribe", goal.Unsubscribe)

	// Community
	mux.HandleFunc("GET /api/achievers", achievers.Leaderboard)
	mux.HandleFunc("GET /api/categories", handler.Categories)

	// Scheduler trigger (Bearer CRON_SECRET)
	mux.HandleFunc("GET /api/cron/check-reminders", cron.CheckReminders)

	// ============================================================================
	// ADMIN ROUTES (/api/admin/*)
	// ============================================================================

	mux.HandleFunc("POST /api/admin/login", loginLimit(admin.Login))
	mux.HandleFunc("POST /api/admin/logout", requireAdmin(admin.Logout))
	mux.HandleFunc("GET /api/admin/me", requireAdmin(admin.Me))

	mux.HandleFunc("GET /api/admin/goals", requireAdmin(admin.Goals))
	mux.HandleFunc("DELETE /api/admin/goals", requireAdmin(admin.DeleteGoal))
	mux.HandleFunc("PATCH /api/admin/goals", requireAdmin(admin.UpdateGoal))

	mux.HandleFunc("GET /api/admin/reports", requireAdmin(admin.Reports))
	mux.HandleFunc("PATCH /api/admin/reports", requireAdmin(admin.UpdateReport))

	mux.HandleFunc("GET /api/admin/stats", requireAdmin(admin.Stats))
	mux.HandleFunc("POST /api/admin/export", requireAdmin(admin.Export))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/", home.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.Config(app.Cfg), // Config must come before SecurityHeaders (HSTS in production)
		middleware.NonceMiddleware, // CSP nonce for the inline style of email-link pages
		middleware.SecurityHeaders,
		middleware.ClientIP(app.Cfg.TrustedProxyHops), // Submitter identifier for rate limits, reports and badges
		middleware.RequestLogging,
		middleware.CSRFProtection, // Admin API only
	)

	return handler
}
