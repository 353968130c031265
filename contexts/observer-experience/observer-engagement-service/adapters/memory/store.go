package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/contexts/observer-experience/observer-engagement-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-engagement-service/domain/errors"
	"atelier/contexts/observer-experience/observer-engagement-service/domain/services"
)

type pairKey struct {
	observerID string
	targetID   string
}

type arcSummary struct {
	state     string
	milestone string
	updatedAt time.Time
}

type Store struct {
	mu sync.RWMutex

	drafts        map[string]entities.DraftRef
	glowUps       map[string]float64
	arcs          map[string]arcSummary
	draftFollows  map[pairKey]time.Time
	studioFollows map[pairKey]time.Time
	engagements   map[pairKey]entities.Engagement
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		drafts:        make(map[string]entities.DraftRef),
		glowUps:       make(map[string]float64),
		arcs:          make(map[string]arcSummary),
		draftFollows:  make(map[pairKey]time.Time),
		studioFollows: make(map[pairKey]time.Time),
		engagements:   make(map[pairKey]entities.Engagement),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) SetDraft(draft entities.DraftRef, glowUp float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := strings.TrimSpace(draft.DraftID)
	s.drafts[id] = draft
	s.glowUps[id] = glowUp
}

// SetArcSummary seeds the cached arc summary joined into the watchlist.
func (s *Store) SetArcSummary(draftID string, state string, milestone string, updatedAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.arcs[draftID] = arcSummary{state: state, milestone: milestone, updatedAt: updatedAt.UTC()}
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

// StudioFollowers lists observers following the studio, sorted.
func (s *Store) StudioFollowers(studioID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	observers := make([]string, 0)
	for key := range s.studioFollows {
		if key.targetID == studioID {
			observers = append(observers, key.observerID)
		}
	}
	sort.Strings(observers)
	return observers
}

func (s *Store) GetDraft(_ context.Context, draftID string) (entities.DraftRef, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	draft, ok := s.drafts[strings.TrimSpace(draftID)]
	if !ok {
		return entities.DraftRef{}, domainerrors.ErrDraftNotFound
	}
	return draft, nil
}

func (s *Store) FollowDraft(_ context.Context, observerID string, draftID string, at time.Time) (bool, error) {
	return s.follow(s.draftFollows, pairKey{observerID: observerID, targetID: draftID}, at), nil
}

func (s *Store) UnfollowDraft(_ context.Context, observerID string, draftID string) (bool, error) {
	return s.unfollow(s.draftFollows, pairKey{observerID: observerID, targetID: draftID}), nil
}

func (s *Store) FollowStudio(_ context.Context, observerID string, studioID string, at time.Time) (bool, error) {
	return s.follow(s.studioFollows, pairKey{observerID: observerID, targetID: studioID}, at), nil
}

func (s *Store) UnfollowStudio(_ context.Context, observerID string, studioID string) (bool, error) {
	return s.unfollow(s.studioFollows, pairKey{observerID: observerID, targetID: studioID}), nil
}

func (s *Store) follow(follows map[pairKey]time.Time, key pairKey, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := follows[key]; ok {
		return false
	}
	follows[key] = at.UTC()
	return true
}

func (s *Store) unfollow(follows map[pairKey]time.Time, key pairKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := follows[key]; !ok {
		return false
	}
	delete(follows, key)
	return true
}

func (s *Store) ListWatchlist(_ context.Context, observerID string) ([]entities.WatchlistItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.WatchlistItem, 0)
	for key, followedAt := range s.draftFollows {
		if key.observerID != observerID {
			continue
		}
		draft, ok := s.drafts[key.targetID]
		if !ok {
			continue
		}
		item := entities.WatchlistItem{
			DraftID:     draft.DraftID,
			StudioID:    draft.StudioID,
			DraftStatus: draft.Status,
			GlowUpScore: s.glowUps[key.targetID],
			FollowedAt:  followedAt,
		}
		if arc, ok := s.arcs[key.targetID]; ok {
			updatedAt := arc.updatedAt
			item.ArcState = arc.state
			item.LatestMilestone = arc.milestone
			item.ArcUpdatedAt = &updatedAt
		}
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].FollowedAt.Equal(items[j].FollowedAt) {
			return items[i].FollowedAt.After(items[j].FollowedAt)
		}
		return items[i].DraftID < items[j].DraftID
	})
	return items, nil
}

func (s *Store) ApplyEngagement(_ context.Context, change entities.EngagementChange) (entities.Engagement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{observerID: change.ObserverID, targetID: change.DraftID}
	next := services.ApplyChange(s.engagements[key], change)
	s.engagements[key] = next
	return next, nil
}
