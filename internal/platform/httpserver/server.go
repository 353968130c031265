package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"atelier/contracts/failure"
	draftarc "atelier/contexts/observer-experience/draft-arc-service"
	observerdigest "atelier/contexts/observer-experience/observer-digest-service"
	observerengagement "atelier/contexts/observer-experience/observer-engagement-service"
	predictionmarket "atelier/contexts/observer-experience/prediction-market"
	"atelier/internal/platform/messaging"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "atelier/internal/platform/httpserver/docs"
)

// Modules groups the observer-experience modules served over HTTP.
type Modules struct {
	DraftArc   draftarc.Module
	Digest     observerdigest.Module
	Market     predictionmarket.Module
	Engagement observerengagement.Module
}

type Server struct {
	mux        *http.ServeMux
	logger     *slog.Logger
	addr       string
	modules    Modules
	publisher  messaging.Publisher
	httpServer *http.Server
}

// New wires the routes. publisher may be nil, in which case feed
// notifications are skipped.
func New(modules Modules, publisher messaging.Publisher, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		modules:   modules,
		publisher: publisher,
	}
	s.registerRoutes()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/drafts/{draft_id}/arc", s.handleGetDraftArc)
	s.mux.HandleFunc("POST /api/v1/drafts/{draft_id}/arc/recompute", s.handleRecomputeDraftArc)
	s.mux.HandleFunc("POST /api/v1/drafts/{draft_id}/events", s.handleRecordDraftEvent)

	s.mux.HandleFunc("GET /api/v1/pull-requests/{pr_id}/predictions/summary", s.handlePredictionSummary)
	s.mux.HandleFunc("POST /api/v1/pull-requests/{pr_id}/predictions", s.handleSubmitPrediction)
	s.mux.HandleFunc("POST /api/v1/pull-requests/{pr_id}/predictions/resolve", s.handleResolvePredictions)
	s.mux.HandleFunc("GET /api/v1/observers/me/prediction-market", s.handleMarketProfile)

	s.mux.HandleFunc("GET /api/v1/observers/me/watchlist", s.handleListWatchlist)
	s.mux.HandleFunc("POST /api/v1/drafts/{draft_id}/follow", s.handleFollowDraft)
	s.mux.HandleFunc("DELETE /api/v1/drafts/{draft_id}/follow", s.handleUnfollowDraft)
	s.mux.HandleFunc("POST /api/v1/studios/{studio_id}/follow", s.handleFollowStudio)
	s.mux.HandleFunc("DELETE /api/v1/studios/{studio_id}/follow", s.handleUnfollowStudio)
	s.mux.HandleFunc("POST /api/v1/drafts/{draft_id}/save", s.handleSaveDraft)
	s.mux.HandleFunc("DELETE /api/v1/drafts/{draft_id}/save", s.handleUnsaveDraft)
	s.mux.HandleFunc("POST /api/v1/drafts/{draft_id}/rate", s.handleRateDraft)
	s.mux.HandleFunc("DELETE /api/v1/drafts/{draft_id}/rate", s.handleUnrateDraft)

	s.mux.HandleFunc("GET /api/v1/observers/me/preferences", s.handleGetPreferences)
	s.mux.HandleFunc("PUT /api/v1/observers/me/preferences", s.handleUpsertPreferences)
	s.mux.HandleFunc("GET /api/v1/observers/me/digest", s.handleListDigest)
	s.mux.HandleFunc("POST /api/v1/observers/me/digest/{entry_id}/seen", s.handleMarkDigestSeen)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

var (
	errMissingUser = &failure.Error{
		Kind:    failure.KindInvalidInput,
		Code:    "MISSING_USER",
		Status:  http.StatusUnauthorized,
		Message: "X-User-Id header is required",
	}
	errInvalidJSON = failure.New(failure.KindInvalidInput, "INVALID_JSON", "request body must be valid JSON")
)

// requireUser reads the trusted X-User-Id header and answers 401 when it is
// absent.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		writeDomainError(w, nil, errMissingUser)
		return "", false
	}
	return userID, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, target any) bool {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		writeDomainError(w, nil, errInvalidJSON)
		return false
	}
	return true
}

// writeDomainError answers typed failures with their status and code. Any
// other error is logged and hidden behind a 500.
func writeDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var typed *failure.Error
	if errors.As(err, &typed) {
		writeJSON(w, typed.Status, errorResponse{Code: typed.Code, Message: typed.Message})
		return
	}
	if logger != nil {
		logger.Error("request failed",
			"event", "http_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Code: "INTERNAL_ERROR", Message: "internal server error"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
