package httpserver

import (
	"net/http"

	digesthttp "atelier/contexts/observer-experience/observer-digest-service/transport/http"
)

// handleGetDraftArc godoc
// @Summary Draft arc and 24h recap
// @Tags draft-arc
// @Produce json
// @Param draft_id path string true "Draft ID"
// @Success 200 {object} object
// @Failure 404 {object} errorResponse
// @Router /api/v1/drafts/{draft_id}/arc [get]
func (s *Server) handleGetDraftArc(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.DraftArc.Handler.GetDraftArcHandler(r.Context(), r.PathValue("draft_id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRecomputeDraftArc(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.DraftArc.Handler.RecomputeDraftArcHandler(r.Context(), r.PathValue("draft_id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRecordDraftEvent recomputes the arc, fans the event out to digests
// and then announces it on the observer feed.
func (s *Server) handleRecordDraftEvent(w http.ResponseWriter, r *http.Request) {
	var req digesthttp.RecordDraftEventRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	draftID := r.PathValue("draft_id")
	resp, err := s.modules.Digest.Handler.RecordDraftEventHandler(r.Context(), draftID, req)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	s.publishFeed(r.Context(), "draft_event_recorded", "draft_id", resp.DraftID, resp)
	writeJSON(w, http.StatusOK, resp)
}
