package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"atelier/contracts/failure"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	digesthttp "atelier/contexts/observer-experience/observer-digest-service/transport/http"
)

var errInvalidQuery = failure.New(failure.KindInvalidInput, "INVALID_QUERY", "query parameters must be booleans or non-negative integers")

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.modules.Digest.Handler.GetPreferencesHandler(r.Context(), userID)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpsertPreferences(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req digesthttp.PreferencesRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Digest.Handler.UpsertPreferencesHandler(r.Context(), userID, req)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListDigest godoc
// @Summary List the observer's digest
// @Tags observer-digest
// @Produce json
// @Param X-User-Id header string true "Observer ID"
// @Param unseen_only query bool false "Only unseen entries"
// @Param from_following_studio_only query bool false "Only entries from followed studios"
// @Param limit query int false "Page size (1-100, default 20)"
// @Param offset query int false "Offset (max 10000)"
// @Success 200 {object} digesthttp.DigestListResponse
// @Failure 400 {object} errorResponse
// @Router /api/v1/observers/me/digest [get]
func (s *Server) handleListDigest(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	filter, err := parseDigestFilter(r)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	resp, err := s.modules.Digest.Handler.ListDigestHandler(r.Context(), userID, filter)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarkDigestSeen(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.modules.Digest.Handler.MarkDigestSeenHandler(r.Context(), userID, r.PathValue("entry_id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseDigestFilter(r *http.Request) (entities.DigestFilter, error) {
	query := r.URL.Query()
	var filter entities.DigestFilter
	var err error
	if filter.UnseenOnly, err = optionalBool(query.Get("unseen_only")); err != nil {
		return entities.DigestFilter{}, err
	}
	if filter.FromFollowingStudioOnly, err = optionalBool(query.Get("from_following_studio_only")); err != nil {
		return entities.DigestFilter{}, err
	}
	if filter.Limit, err = optionalInt(query.Get("limit")); err != nil {
		return entities.DigestFilter{}, err
	}
	if filter.Offset, err = optionalInt(query.Get("offset")); err != nil {
		return entities.DigestFilter{}, err
	}
	return filter, nil
}

func optionalBool(raw string) (*bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, errInvalidQuery
	}
	return &value, nil
}

func optionalInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, errInvalidQuery
	}
	return value, nil
}
