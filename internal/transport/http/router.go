package http

import (
	"net/http"

	"github.com/BlockSyncLab/FGVGAMEBA/internal/app"
	"github.com/golang/glog"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// Services groups the use cases exposed over HTTP.
type Services struct {
	Answers   *app.AnswerService
	Questions *app.QuestionService
	Ranking   *app.RankingService
	Campaign  *app.CampaignService
	Feed      *app.RankingFeed
	Audit     app.AuditReader
}

// NewRouter wires the REST and websocket routes. An empty origins list allows any origin.
func NewRouter(svc Services, auth *Authenticator, origins []string) http.Handler {
	api := &API{svc: svc}
	ws := NewWSHandler(svc.Feed)

	r := mux.NewRouter()
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/api/campaign/status", api.CampaignStatus).Methods(http.MethodGet)
	r.Handle("/api/campaign/config", auth.RequireAdmin(http.HandlerFunc(api.UpdateSchedule))).Methods(http.MethodPut)
	r.Handle("/api/campaign/reset-day", auth.RequireAdmin(http.HandlerFunc(api.ResetDay))).Methods(http.MethodPost)
	r.Handle("/api/campaign/tick", auth.RequireAdmin(http.HandlerFunc(api.Tick))).Methods(http.MethodPost)

	r.Handle("/api/questions/available", auth.RequireUser(http.HandlerFunc(api.Available))).Methods(http.MethodGet)
	r.Handle("/api/questions/answer", auth.RequireUser(http.HandlerFunc(api.SubmitAnswer))).Methods(http.MethodPost)
	r.Handle("/api/questions/progress", auth.RequireUser(http.HandlerFunc(api.Progress))).Methods(http.MethodGet)

	r.HandleFunc("/api/ranking/classes", api.Classes).Methods(http.MethodGet)
	r.HandleFunc("/api/ranking/top", api.Top).Methods(http.MethodGet)
	r.HandleFunc("/api/ranking/classes/{school}/{class}", api.ClassPosition).Methods(http.MethodGet)
	r.Handle("/api/ranking/roster", auth.RequireUser(http.HandlerFunc(api.Roster))).Methods(http.MethodGet)
	r.Handle("/api/ranking/user-position", auth.RequireUser(http.HandlerFunc(api.UserPosition))).Methods(http.MethodGet)

	r.Handle("/api/audit/violations", auth.RequireAdmin(http.HandlerFunc(api.Violations))).Methods(http.MethodGet)

	r.HandleFunc("/ws/ranking", ws.ServeWS)

	if len(origins) == 0 {
		origins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "OPTIONS"}),
	)
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{}))(cors(r))
}

type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	glog.Error(v...)
}
