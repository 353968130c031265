package httpserver

import (
	"net/http"

	markethttp "atelier/contexts/observer-experience/prediction-market/transport/http"
)

func (s *Server) handlePredictionSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.modules.Market.Handler.PredictionSummaryHandler(r.Context(), userID, r.PathValue("pr_id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleSubmitPrediction godoc
// @Summary Submit or edit a prediction
// @Tags prediction-market
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Observer ID"
// @Param pr_id path string true "Pull request ID"
// @Param request body markethttp.SubmitPredictionRequest true "Prediction"
// @Success 200 {object} markethttp.SubmitPredictionResponse
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 429 {object} errorResponse
// @Router /api/v1/pull-requests/{pr_id}/predictions [post]
func (s *Server) handleSubmitPrediction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req markethttp.SubmitPredictionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	resp, err := s.modules.Market.Handler.SubmitPredictionHandler(r.Context(), userID, r.PathValue("pr_id"), req)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	status := http.StatusOK
	if resp.Created {
		status = http.StatusCreated
	}
	s.publishFeed(r.Context(), "prediction_submitted", "pull_request_id", resp.Prediction.PullRequestID, resp.Prediction)
	writeJSON(w, status, resp)
}

func (s *Server) handleResolvePredictions(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUser(w, r); !ok {
		return
	}
	resp, err := s.modules.Market.Handler.ResolvePredictionsHandler(r.Context(), r.PathValue("pr_id"))
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMarketProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	resp, err := s.modules.Market.Handler.MarketProfileHandler(r.Context(), userID)
	if err != nil {
		writeDomainError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
