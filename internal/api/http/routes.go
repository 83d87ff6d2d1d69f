package http

import (
	"github.com/go-chi/chi/v5"

	auth "github.com/mind-engage/culturetest/internal/auth/middleware"
	"github.com/mind-engage/culturetest/internal/lifecycle"
	"github.com/mind-engage/culturetest/internal/rbac"
)

type Deps struct {
	Service   *lifecycle.Service
	Auth      *auth.AuthService
	Editor    auth.Credentials
	Generator QuestionGenerator // nil disables /questions/generate
	Events    EventLister       // nil disables /events
	ShareURL  func(testID string) string
}

// Mount registers the API on r. Respondent routes are public; editor routes
// need a bearer token whose role carries the route's permission.
func Mount(r chi.Router, d Deps) {
	shareURL := d.ShareURL
	if shareURL == nil {
		shareURL = func(id string) string { return "/tests/" + id }
	}

	r.Post("/auth/login", auth.LoginHandler(d.Auth, d.Editor))

	// Respondent flow
	r.Get("/tests/{testID}", GetTestHandler(d.Service))
	r.Post("/tests/{testID}/start", StartSubmissionHandler(d.Service))
	r.Post("/tests/{testID}/complete", CompleteSubmissionHandler(d.Service))
	r.Post("/preview/score", PreviewScoreHandler(d.Service))

	// Editor (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(d.Auth))

		pr.With(rbac.Require(rbac.PermTestCreate)).
			Post("/tests", PublishTestHandler(d.Service, shareURL))
		pr.With(rbac.Require(rbac.PermTestList)).
			Get("/tests", ListTestsHandler(d.Service))
		pr.With(rbac.Require(rbac.PermTestAnalytics)).
			Get("/tests/{testID}/analytics", AnalyticsHandler(d.Service))
		pr.With(rbac.Require(rbac.PermTestResults)).
			Get("/tests/{testID}/results", ResultsHandler(d.Service))

		if d.Generator != nil {
			pr.With(rbac.Require(rbac.PermQuestionsGenerate)).
				Post("/questions/generate", GenerateQuestionsHandler(d.Generator))
		}
		if d.Events != nil {
			pr.With(rbac.Require(rbac.PermEventsView)).
				Get("/events", ListEventsHandler(d.Events))
		}
	})
}
