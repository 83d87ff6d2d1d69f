package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/mind-engage/culturetest/internal/assessment"
	"github.com/mind-engage/culturetest/internal/generator"
	"github.com/mind-engage/culturetest/internal/log"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, assessment.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, assessment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assessment.ErrNoInProgress), errors.Is(err, assessment.ErrAlreadyCompleted):
		return http.StatusConflict
	case errors.Is(err, generator.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err to a status and JSON body. code names the failing
// operation in logs, e.g. "store.record_completion".
func writeError(w http.ResponseWriter, r *http.Request, code string, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error(), Code: code}
	switch {
	case status == http.StatusInternalServerError:
		log.WithFields(log.Fields{"code": code, "path": r.URL.Path}).Errorf("%v", err)
		body.Error = http.StatusText(status)
	case status == http.StatusBadGateway:
		log.WithFields(log.Fields{"code": code}).Warnf("%v", err)
		body.Error = generator.ErrGeneration.Error()
	default:
		log.Debugf("%s: %v", code, err)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

func badRequest(w http.ResponseWriter, r *http.Request, code, msg string) {
	log.Debugf("%s: %s", code, msg)
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, errorBody{Error: msg, Code: code})
}
