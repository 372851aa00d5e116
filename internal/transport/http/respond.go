package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/go-playground/validator/v10"
	"github.com/golang/glog"
)

var validate = validator.New()

type errorBody struct {
	Error string `json:"error"`
	// FallbackDay is set when no campaign is configured and the engine runs on day 1.
	FallbackDay int `json:"fallbackDay,omitempty"`
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoActiveCampaign),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrClassNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuestionNotAssigned),
		errors.Is(err, domain.ErrQuestionNotYetUnlocked),
		errors.Is(err, domain.ErrCampaignNotStarted):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrAlreadyAnswered):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidDay),
		errors.Is(err, domain.ErrInvalidSchedule),
		errors.Is(err, domain.ErrInvalidChoice):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		glog.V(2).Infof("write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorBody{Error: err.Error()}
	if status == http.StatusInternalServerError {
		glog.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
		body.Error = "internal error"
	}
	if errors.Is(err, domain.ErrNoActiveCampaign) {
		body.FallbackDay = 1
	}
	writeJSON(w, status, body)
}

// decode reads a JSON body into dst and validates its struct tags.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "malformed request body"})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return false
	}
	return true
}
