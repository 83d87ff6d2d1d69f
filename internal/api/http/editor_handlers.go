package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mind-engage/culturetest/internal/assessment"
	"github.com/mind-engage/culturetest/internal/generator"
	"github.com/mind-engage/culturetest/internal/lifecycle"
	"github.com/mind-engage/culturetest/internal/log"
	syncx "github.com/mind-engage/culturetest/internal/sync"
)

// QuestionGenerator drafts questions for the editor. *generator.Client satisfies it.
type QuestionGenerator interface {
	Generate(ctx context.Context, r generator.Request) ([]assessment.Question, error)
}

// EventLister reads the lifecycle event log. *syncx.EventRepo satisfies it.
type EventLister interface {
	Since(ctx context.Context, after int64, limit int) ([]syncx.Event, error)
}

type publishResponse struct {
	assessment.Test
	ShareURL string `json:"share_url"`
}

// POST /tests
func PublishTestHandler(svc *lifecycle.Service, shareURL func(id string) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var draft assessment.DraftTest
		if err := render.DecodeJSON(r.Body, &draft); err != nil {
			badRequest(w, r, "request.parse_body", "bad json")
			return
		}
		t, err := draft.Build()
		if err != nil {
			writeError(w, r, "request.validate", err)
			return
		}
		t, err = svc.Publish(r.Context(), t)
		if err != nil {
			writeError(w, r, "lifecycle.publish", err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, publishResponse{Test: t, ShareURL: shareURL(t.ID)})
	}
}

// GET /tests
func ListTestsHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Tests(r.Context())
		if err != nil {
			writeError(w, r, "store.list_tests", err)
			return
		}
		render.JSON(w, r, list)
	}
}

// GET /tests/{testID}/analytics
func AnalyticsHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Analytics(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeError(w, r, "lifecycle.analytics", err)
			return
		}
		render.JSON(w, r, a)
	}
}

// GET /tests/{testID}/results
func ResultsHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := svc.Results(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeError(w, r, "lifecycle.results", err)
			return
		}
		render.JSON(w, r, subs)
	}
}

// POST /questions/generate  { "test_name": "...", "behaviors": "...", "question_count": 10 }
func GenerateQuestionsHandler(gen QuestionGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generator.Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, "request.parse_body", "bad json")
			return
		}
		if req.TestName == "" || req.Behaviors == "" {
			badRequest(w, r, "request.validate", "test_name and behaviors required")
			return
		}
		req.Count = generator.ClampCount(req.Count)
		qs, err := gen.Generate(r.Context(), req)
		if err != nil {
			writeError(w, r, "generator.generate", err)
			return
		}
		if len(qs) < req.Count {
			log.WithFields(log.Fields{"requested": req.Count, "received": len(qs)}).Warnf("generator returned fewer questions than requested")
		}
		render.JSON(w, r, map[string]any{
			"questions": qs,
			"requested": req.Count,
		})
	}
}

// GET /events?after=0&limit=100
func ListEventsHandler(events EventLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		after := int64(parseIntDefault(r.URL.Query().Get("after"), 0))
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		list, err := events.Since(r.Context(), after, limit)
		if err != nil {
			writeError(w, r, "eventlog.since", err)
			return
		}
		render.JSON(w, r, list)
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
