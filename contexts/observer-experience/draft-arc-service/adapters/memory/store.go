package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/draft-arc-service/domain/errors"
	"atelier/contexts/observer-experience/draft-arc-service/ports"
)

type Store struct {
	mu sync.RWMutex

	drafts       map[string]entities.Draft
	fixRequests  map[string]entities.FixRequest
	pullRequests map[string]entities.PullRequest
	summaries    map[string]entities.ArcSummary

	now func() time.Time
}

func NewStore(seed []entities.Draft) *Store {
	drafts := make(map[string]entities.Draft, len(seed))
	for _, draft := range seed {
		drafts[strings.TrimSpace(draft.DraftID)] = draft
	}
	return &Store{
		drafts:       drafts,
		fixRequests:  make(map[string]entities.FixRequest),
		pullRequests: make(map[string]entities.PullRequest),
		summaries:    make(map[string]entities.ArcSummary),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) SetDraft(draft entities.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[strings.TrimSpace(draft.DraftID)] = draft
}

func (s *Store) SetFixRequest(fix entities.FixRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fixRequests[strings.TrimSpace(fix.FixRequestID)] = fix
}

// SetPullRequest lowercases status and severity, matching the
// case-insensitive filters of the SQL repository.
func (s *Store) SetPullRequest(pr entities.PullRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pr.Status = entities.PullRequestStatus(strings.ToLower(strings.TrimSpace(string(pr.Status))))
	pr.Severity = entities.Severity(strings.ToLower(strings.TrimSpace(string(pr.Severity))))
	s.pullRequests[strings.TrimSpace(pr.PullRequestID)] = pr
}

// SetNow pins the store clock; tests use it to place activity inside or
// outside the recap window.
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

func (s *Store) GetDraft(_ context.Context, draftID string) (entities.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[strings.TrimSpace(draftID)]
	if !ok {
		return entities.Draft{}, domainerrors.ErrDraftNotFound
	}
	return draft, nil
}

func (s *Store) CountFixRequests(_ context.Context, draftID string, filter ports.FixRequestFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var allowed map[string]struct{}
	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return 0, nil
		}
		allowed = make(map[string]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			allowed[id] = struct{}{}
		}
	}

	count := 0
	for _, fix := range s.fixRequests {
		if fix.DraftID != draftID {
			continue
		}
		if filter.CreatedSince != nil && fix.CreatedAt.Before(*filter.CreatedSince) {
			continue
		}
		if allowed != nil {
			if _, ok := allowed[fix.FixRequestID]; !ok {
				continue
			}
		}
		count++
	}
	return count, nil
}

func (s *Store) CountPullRequests(_ context.Context, draftID string, filter ports.PullRequestFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, pr := range s.pullRequests {
		if pr.DraftID != draftID {
			continue
		}
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, pr.Status) {
			continue
		}
		if filter.Severity != "" && pr.Severity != filter.Severity {
			continue
		}
		if filter.CreatedSince != nil && pr.CreatedAt.Before(*filter.CreatedSince) {
			continue
		}
		if filter.DecidedSince != nil && (pr.DecidedAt == nil || pr.DecidedAt.Before(*filter.DecidedSince)) {
			continue
		}
		count++
	}
	return count, nil
}

func (s *Store) ListMergedAddressedFixRequests(_ context.Context, draftID string) ([]entities.AddressedFixRequests, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := make([]entities.AddressedFixRequests, 0)
	for _, pr := range s.pullRequests {
		if pr.DraftID != draftID || pr.Status != entities.PullRequestStatusMerged {
			continue
		}
		lists = append(lists, append(entities.AddressedFixRequests(nil), pr.AddressedFixRequests...))
	}
	return lists, nil
}

func (s *Store) GetActivityTimes(_ context.Context, draftID string) (ports.ActivityTimes, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var activity ports.ActivityTimes
	for _, fix := range s.fixRequests {
		if fix.DraftID == draftID {
			activity.LastFixRequestAt = latest(activity.LastFixRequestAt, fix.CreatedAt)
		}
	}
	for _, pr := range s.pullRequests {
		if pr.DraftID != draftID {
			continue
		}
		activity.LastSubmittedAt = latest(activity.LastSubmittedAt, pr.CreatedAt)
		if pr.DecidedAt == nil {
			continue
		}
		switch pr.Status {
		case entities.PullRequestStatusMerged:
			activity.LastMergedAt = latest(activity.LastMergedAt, *pr.DecidedAt)
		case entities.PullRequestStatusRejected:
			activity.LastRejectedAt = latest(activity.LastRejectedAt, *pr.DecidedAt)
		}
	}
	return activity, nil
}

func (s *Store) UpsertArcSummary(_ context.Context, summary entities.ArcSummary) (entities.ArcSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries[summary.DraftID] = summary
	return summary, nil
}

func (s *Store) GetArcSummary(_ context.Context, draftID string) (entities.ArcSummary, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	summary, ok := s.summaries[strings.TrimSpace(draftID)]
	return summary, ok, nil
}

func containsStatus(statuses []entities.PullRequestStatus, status entities.PullRequestStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func latest(current *time.Time, candidate time.Time) *time.Time {
	if candidate.IsZero() {
		return current
	}
	if current == nil || candidate.After(*current) {
		value := candidate.UTC()
		return &value
	}
	return current
}
