package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mohadmohamed/depi-interview/api/http/handlers"
)

// Register wires all HTTP routes onto given Fiber app.
// protect is the JWT middleware guarding resume and interview routes.
func Register(app *fiber.App, protect fiber.Handler, auth *handlers.AuthHandler, health *handlers.HealthHandler, resume *handlers.ResumeHandler, interview *handlers.InterviewHandler) {
	api := app.Group("/api")
	v1 := api.Group("/v1")

	// Health and readiness endpoints for probes/monitoring
	v1.Get("/health", health.Health)
	v1.Get("/ready", health.Ready)

	u := api.Group("/user")
	u.Post("/register", auth.Register)
	u.Post("/login", auth.Login)
	u.Get("/me", protect, auth.Me)

	rg := api.Group("/resume", protect)
	rg.Post("/upload", resume.Upload)
	rg.Post("/analyze", resume.Analyze)
	rg.Delete("/remove", resume.Remove)
	rg.Get("/id", resume.List)
	rg.Get("/analysis", resume.GetAnalysis)
	rg.Get("/latestAnalysis", resume.LatestAnalysis)

	ig := api.Group("/interview", protect)
	ig.Post("/generate", interview.Generate)
	ig.Patch("/evaluate", interview.Evaluate)
	ig.Get("/questions", interview.Questions)
	ig.Get("/id", interview.Latest)
	ig.Get("/all", interview.All)
}
