package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"quiz-session-engine/internal/app"
	"quiz-session-engine/internal/domain"
	"quiz-session-engine/internal/logging"
	"quiz-session-engine/internal/metrics"
)

const requestIDHeader = "X-Request-ID"

// QuizLister lists catalog intro cards for the browsing screen.
type QuizLister interface {
	Summaries(ctx context.Context) ([]domain.QuizSummary, error)
}

// RouterDeps are the collaborators mounted by NewRouter. Catalog and Metrics are optional.
type RouterDeps struct {
	Service *app.QuizService
	Catalog QuizLister
	Metrics *metrics.Recorder
	Logger  zerolog.Logger
}

// NewRouter mounts the websocket endpoint, the catalog API, health and metrics.
func NewRouter(deps RouterDeps) *mux.Router {
	logger := deps.Logger.With().Str("component", "http").Logger()
	api := &catalogAPI{service: deps.Service, catalog: deps.Catalog}

	r := mux.NewRouter()
	r.Use(accessLog(logger))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", NewWSHandler(deps.Service).ServeWS)
	r.HandleFunc("/v1/quizzes", api.list).Methods(http.MethodGet)
	r.HandleFunc("/v1/quizzes/{quizId}", api.get).Methods(http.MethodGet)
	return r
}

type catalogAPI struct {
	service *app.QuizService
	catalog QuizLister
}

func (a *catalogAPI) list(w http.ResponseWriter, r *http.Request) {
	if a.catalog == nil {
		writeJSON(w, http.StatusOK, []domain.QuizSummary{})
		return
	}
	summaries, err := a.catalog.Summaries(r.Context())
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (a *catalogAPI) get(w http.ResponseWriter, r *http.Request) {
	summary, err := a.service.Summary(r.Context(), mux.Vars(r)["quizId"])
	if err != nil {
		a.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (a *catalogAPI) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logging.FromContext(r.Context())
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrQuizNotFound) {
		status = http.StatusNotFound
		logger.Debug().Err(err).Msg("quiz not found")
	} else {
		logger.Error().Err(err).Msg("catalog request failed")
	}
	writeJSON(w, status, errorPayload{Code: domain.Code(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func accessLog(logger zerolog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := r.Header.Get(requestIDHeader)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(requestIDHeader, requestID)

			reqLogger := logger.With().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			next.ServeHTTP(w, r.WithContext(logging.IntoContext(r.Context(), reqLogger)))
			reqLogger.Debug().
				Dur("duration", time.Since(start)).
				Msg("http request")
		})
	}
}
