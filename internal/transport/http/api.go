package http

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/domain"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
)

const (
	defaultTopLimit       = 3
	defaultViolationLimit = 50
	maxViolationLimit     = 500
)

// API holds the REST handlers.
type API struct {
	svc Services
}

type answerRequest struct {
	QuestionID int64 `json:"questionId" validate:"required,gt=0"`
	Answer     *int  `json:"answer" validate:"required,min=0,max=4"`
}

type scheduleRequest struct {
	StartDate    string `json:"startDate" validate:"required,datetime=2006-01-02"`
	DurationDays int    `json:"durationDays" validate:"required,min=1,max=365"`
}

type resetDayRequest struct {
	Day *int `json:"day" validate:"required,min=0"`
}

type tickResponse struct {
	CurrentDay int `json:"currentDay"`
}

func (a *API) CampaignStatus(w http.ResponseWriter, r *http.Request) {
	status, err := a.svc.Campaign.Status(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (a *API) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if !decode(w, r, &req) {
		return
	}
	start, _ := time.Parse(time.DateOnly, req.StartDate)
	cfg, err := a.svc.Campaign.UpdateSchedule(r.Context(), start, req.DurationDays)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (a *API) ResetDay(w http.ResponseWriter, r *http.Request) {
	var req resetDayRequest
	if !decode(w, r, &req) {
		return
	}
	cfg, err := a.svc.Campaign.ResetDay(r.Context(), *req.Day)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (a *API) Tick(w http.ResponseWriter, r *http.Request) {
	day, err := a.svc.Campaign.Tick(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tickResponse{CurrentDay: day})
}

func (a *API) Available(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.Questions.Available(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if !decode(w, r, &req) {
		return
	}
	userID := principal(r).ID
	glog.V(2).Infof("answer from user %d for question %d", userID, req.QuestionID)
	result, err := a.svc.Answers.SubmitAnswer(r.Context(), domain.AnswerSubmission{
		UserID:      userID,
		QuestionID:  req.QuestionID,
		ChoiceIndex: *req.Answer,
		Meta:        requestMeta(r),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) Progress(w http.ResponseWriter, r *http.Request) {
	out, err := a.svc.Questions.Progress(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (a *API) Classes(w http.ResponseWriter, r *http.Request) {
	snap, err := a.svc.Ranking.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (a *API) Top(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, defaultTopLimit)
	if !ok {
		return
	}
	top, err := a.svc.Ranking.Top(r.Context(), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, top)
}

func (a *API) ClassPosition(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pos, err := a.svc.Ranking.ClassPosition(r.Context(), vars["class"], vars["school"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

func (a *API) Roster(w http.ResponseWriter, r *http.Request) {
	roster, err := a.svc.Ranking.Roster(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roster)
}

func (a *API) UserPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := a.svc.Ranking.UserPosition(r.Context(), principal(r).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pos)
}

// Violations lists the latest security violations for operators.
func (a *API) Violations(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryLimit(w, r, defaultViolationLimit)
	if !ok {
		return
	}
	if a.svc.Audit == nil {
		writeJSON(w, http.StatusOK, []domain.SecurityViolation{})
		return
	}
	violations, err := a.svc.Audit.Recent(r.Context(), int64(min(limit, maxViolationLimit)))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if violations == nil {
		violations = []domain.SecurityViolation{}
	}
	writeJSON(w, http.StatusOK, violations)
}

// queryLimit reads the optional ?limit= parameter, answering 400 when it is not a positive integer.
func queryLimit(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "limit must be a positive integer"})
		return 0, false
	}
	return n, true
}

// requestMeta extracts audit metadata. X-Forwarded-For wins over the socket address.
func requestMeta(r *http.Request) domain.RequestMeta {
	ip, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	ip = strings.TrimSpace(ip)
	if ip == "" {
		ip = r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
	}
	return domain.RequestMeta{IPAddress: ip, UserAgent: r.UserAgent()}
}
