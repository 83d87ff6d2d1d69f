package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/mind-engage/culturetest/internal/assessment"
	"github.com/mind-engage/culturetest/internal/lifecycle"
)

// GET /tests/{testID}
func GetTestHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := svc.Test(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeError(w, r, "store.get_test", err)
			return
		}
		render.JSON(w, r, t)
	}
}

// POST /tests/{testID}/start
func StartSubmissionHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sub, err := svc.Start(r.Context(), chi.URLParam(r, "testID"))
		if err != nil {
			writeError(w, r, "store.record_start", err)
			return
		}
		render.Status(r, http.StatusCreated)
		render.JSON(w, r, sub)
	}
}

// POST /tests/{testID}/complete  { "submission_id": "...", "answers": {"q1": 10} }
func CompleteSubmissionHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			SubmissionID string             `json:"submission_id"`
			Answers      assessment.Answers `json:"answers"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, "request.parse_body", "bad json")
			return
		}
		out, err := svc.Complete(r.Context(), lifecycle.CompleteInput{
			TestID:       chi.URLParam(r, "testID"),
			SubmissionID: req.SubmissionID,
			Answers:      req.Answers,
		})
		if err != nil {
			writeError(w, r, "lifecycle.complete", err)
			return
		}
		render.JSON(w, r, out)
	}
}

// POST /preview/score  { "test": {...}, "answers": {...} }
func PreviewScoreHandler(svc *lifecycle.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Test    assessment.DraftTest `json:"test"`
			Answers assessment.Answers   `json:"answers"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			badRequest(w, r, "request.parse_body", "bad json")
			return
		}
		t, err := req.Test.Build()
		if err != nil {
			writeError(w, r, "request.validate", err)
			return
		}
		out, err := svc.Preview(r.Context(), t, req.Answers)
		if err != nil {
			writeError(w, r, "lifecycle.preview", err)
			return
		}
		render.JSON(w, r, out)
	}
}
