package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"atelier/contexts/observer-experience/prediction-market/domain/entities"
	domainerrors "atelier/contexts/observer-experience/prediction-market/domain/errors"
	"atelier/contexts/observer-experience/prediction-market/domain/services"
	"atelier/contexts/observer-experience/prediction-market/ports"

	"github.com/google/uuid"
)

type predictionKey struct {
	observerID    string
	pullRequestID string
}

type Store struct {
	mu sync.RWMutex

	pullRequests map[string]entities.PullRequestRef
	predictions  map[predictionKey]entities.Prediction
	now          func() time.Time
}

func NewStore() *Store {
	return &Store{
		pullRequests: make(map[string]entities.PullRequestRef),
		predictions:  make(map[predictionKey]entities.Prediction),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) SetPullRequest(pr entities.PullRequestRef) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pullRequests[strings.TrimSpace(pr.PullRequestID)] = pr
}

// SetPrediction seeds a row as-is, including resolved history.
func (s *Store) SetPrediction(prediction entities.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.predictions[predictionKey{observerID: prediction.ObserverID, pullRequestID: prediction.PullRequestID}] = prediction
}

func (s *Store) SetNow(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = func() time.Time { return now.UTC() }
}

func (s *Store) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// Count returns the number of stored predictions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.predictions)
}

func (s *Store) GetPullRequest(_ context.Context, pullRequestID string) (entities.PullRequestRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pr, ok := s.pullRequests[strings.TrimSpace(pullRequestID)]
	if !ok {
		return entities.PullRequestRef{}, domainerrors.ErrPullRequestNotFound
	}
	return pr, nil
}

func (s *Store) GetPrediction(_ context.Context, observerID string, pullRequestID string) (entities.Prediction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prediction, ok := s.predictions[predictionKey{observerID: observerID, pullRequestID: pullRequestID}]
	return prediction, ok, nil
}

func (s *Store) UpsertOpenPrediction(_ context.Context, prediction entities.Prediction) (entities.Prediction, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := predictionKey{observerID: prediction.ObserverID, pullRequestID: prediction.PullRequestID}
	existing, ok := s.predictions[key]
	if !ok {
		s.predictions[key] = prediction
		return prediction, true, nil
	}
	if existing.IsResolved() {
		return existing, false, nil
	}
	existing.PredictedOutcome = prediction.PredictedOutcome
	existing.StakePoints = prediction.StakePoints
	existing.UpdatedAt = prediction.UpdatedAt
	s.predictions[key] = existing
	return existing, true, nil
}

func (s *Store) GetConsensus(_ context.Context, pullRequestID string) (entities.Consensus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var consensus entities.Consensus
	for key, prediction := range s.predictions {
		if key.pullRequestID != pullRequestID {
			continue
		}
		switch prediction.PredictedOutcome {
		case entities.OutcomeMerge:
			consensus.MergeCount++
			consensus.MergeStakePoints += prediction.StakePoints
		case entities.OutcomeReject:
			consensus.RejectCount++
			consensus.RejectStakePoints += prediction.StakePoints
		}
	}
	consensus.TotalStakePoints = consensus.MergeStakePoints + consensus.RejectStakePoints
	return consensus, nil
}

func (s *Store) GetResolvedStats(_ context.Context, observerID string) (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resolved, correct := 0, 0
	for key, prediction := range s.predictions {
		if key.observerID != observerID || !prediction.IsResolved() {
			continue
		}
		resolved++
		if prediction.IsCorrect != nil && *prediction.IsCorrect {
			correct++
		}
	}
	return resolved, correct, nil
}

func (s *Store) GetDailyUsage(_ context.Context, observerID string, dayStart time.Time) (entities.DailyUsage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var usage entities.DailyUsage
	for key, prediction := range s.predictions {
		if key.observerID != observerID || prediction.CreatedAt.Before(dayStart) {
			continue
		}
		usage.Submissions++
		usage.StakePoints += prediction.StakePoints
	}
	return usage, nil
}

func (s *Store) ResolvePredictions(_ context.Context, cmd ports.ResolveCommand) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	resolved, correct := 0, 0
	for key, prediction := range s.predictions {
		if key.pullRequestID != cmd.PullRequestID || prediction.IsResolved() {
			continue
		}
		outcome := cmd.Outcome
		isCorrect := prediction.PredictedOutcome == outcome
		resolvedAt := cmd.ResolvedAt
		prediction.ResolvedOutcome = &outcome
		prediction.IsCorrect = &isCorrect
		prediction.ResolvedAt = &resolvedAt
		prediction.UpdatedAt = resolvedAt
		prediction.PayoutPoints = 0
		if isCorrect {
			prediction.PayoutPoints = services.Payout(prediction.StakePoints, cmd.TotalPool, cmd.WinningPool)
			correct++
		}
		s.predictions[key] = prediction
		resolved++
	}
	return resolved, correct, nil
}
