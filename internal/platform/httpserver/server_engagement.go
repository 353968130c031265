package httpserver

import (
	"context"
	"net/http"
)

func (s *Server) handleListWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.modules.Engagement.Handler.ListWatchlistHandler(r.Context(), userID)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFollowDraft(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "draft_id", s.modules.Engagement.Handler.FollowDraftHandler)
}

func (s *Server) handleUnfollowDraft(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "draft_id", s.modules.Engagement.Handler.UnfollowDraftHandler)
}

func (s *Server) handleFollowStudio(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "studio_id", s.modules.Engagement.Handler.FollowStudioHandler)
}

func (s *Server) handleUnfollowStudio(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "studio_id", s.modules.Engagement.Handler.UnfollowStudioHandler)
}

func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "draft_id", s.modules.Engagement.Handler.SaveDraftHandler)
}

func (s *Server) handleUnsaveDraft(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "draft_id", s.modules.Engagement.Handler.UnsaveDraftHandler)
}

func (s *Server) handleRateDraft(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "draft_id", s.modules.Engagement.Handler.RateDraftHandler)
}

func (s *Server) handleUnrateDraft(w http.ResponseWriter, r *http.Request) {
	serveObserverAction(s, w, r, "draft_id", s.modules.Engagement.Handler.UnrateDraftHandler)
}

// serveObserverAction runs a body-less observer action against one path
// target.
func serveObserverAction[T any](
	s *Server,
	w http.ResponseWriter,
	r *http.Request,
	pathKey string,
	action func(ctx context.Context, observerID string, targetID string) (T, error),
) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := action(r.Context(), userID, r.PathValue(pathKey))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
