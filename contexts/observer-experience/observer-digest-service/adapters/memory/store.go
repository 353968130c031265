package memory

import (
	"context"
	"crypto/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"

	"github.com/oklog/ulid/v2"
)

type followKey struct {
	observerID string
	targetID   string
}

type Store struct {
	mu sync.RWMutex

	draftStudios  map[string]string
	draftFollows  map[followKey]time.Time
	studioFollows map[followKey]time.Time
	entries       map[string]entities.DigestEntry
	preferences   map[string]entities.Preferences
	entropy       *ulid.MonotonicEntropy
	now           func() time.Time
}

func NewStore() *Store {
	return &Store{
		draftStudios:  make(map[string]string),
		draftFollows:  make(map[followKey]time.Time),
		studioFollows: make(map[followKey]time.Time),
		entries:       make(map[string]entities.DigestEntry),
		preferences:   make(map[string]entities.Preferences),
		entropy:       ulid.Monotonic(rand.Reader, 0),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) SetDraft(draftID string, studioID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftStudios[strings.TrimSpace(draftID)] = strings.TrimSpace(studioID)
}

func (s *Store) FollowDraft(observerID string, draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.draftFollows[followKey{observerID: observerID, targetID: draftID}] = s.now()
}

func (s *Store) FollowStudio(observerID string, studioID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.studioFollows[followKey{observerID: observerID, targetID: studioID}] = s.now()
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
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(s.now()), s.entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Entries returns every stored entry; tests use it to assert dedup.
func (s *Store) Entries() []entities.DigestEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.DigestEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		items = append(items, entry)
	}
	return items
}

func (s *Store) GetDraftStudio(_ context.Context, draftID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	studioID, ok := s.draftStudios[strings.TrimSpace(draftID)]
	if !ok {
		return "", domainerrors.ErrDraftNotFound
	}
	return studioID, nil
}

func (s *Store) ListDraftFollowers(_ context.Context, draftID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return followersOf(s.draftFollows, draftID), nil
}

func (s *Store) ListStudioFollowers(_ context.Context, studioID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return followersOf(s.studioFollows, studioID), nil
}

// LockDraftDigest is a no-op: SaveRecentEntry runs under the store mutex.
func (s *Store) LockDraftDigest(_ context.Context, _ string) error {
	return nil
}

func (s *Store) SaveRecentEntry(_ context.Context, entry entities.DigestEntry, since time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	refreshed := false
	for id, existing := range s.entries {
		if existing.ObserverID != entry.ObserverID || existing.DraftID != entry.DraftID {
			continue
		}
		if existing.CreatedAt.Before(since) {
			continue
		}
		existing.Title = entry.Title
		existing.Summary = entry.Summary
		existing.LatestMilestone = entry.LatestMilestone
		existing.StudioID = entry.StudioID
		existing.IsFromFollowingStudio = entry.IsFromFollowingStudio
		existing.IsSeen = false
		existing.SeenAt = nil
		existing.UpdatedAt = entry.UpdatedAt
		s.entries[id] = existing
		refreshed = true
	}
	if !refreshed {
		s.entries[entry.EntryID] = entry
	}
	return refreshed, nil
}

func (s *Store) ListEntries(_ context.Context, observerID string, query entities.DigestQuery) ([]entities.DigestEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.DigestEntry, 0)
	for _, entry := range s.entries {
		if entry.ObserverID != observerID {
			continue
		}
		if query.UnseenOnly && entry.IsSeen {
			continue
		}
		if query.FromFollowingStudioOnly && !entry.IsFromFollowingStudio {
			continue
		}
		items = append(items, entry)
	}
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.IsSeen != b.IsSeen {
			return !a.IsSeen
		}
		if a.IsFromFollowingStudio != b.IsFromFollowingStudio {
			return a.IsFromFollowingStudio
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.EntryID > b.EntryID
	})

	if query.Offset >= len(items) {
		return []entities.DigestEntry{}, nil
	}
	end := query.Offset + query.Limit
	if end > len(items) {
		end = len(items)
	}
	return items[query.Offset:end], nil
}

func (s *Store) MarkSeen(_ context.Context, observerID string, entryID string, seenAt time.Time) (entities.DigestEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[entryID]
	if !ok || entry.ObserverID != observerID {
		return entities.DigestEntry{}, domainerrors.ErrDigestEntryNotFound
	}
	entry.IsSeen = true
	entry.SeenAt = &seenAt
	entry.UpdatedAt = seenAt
	s.entries[entryID] = entry
	return entry, nil
}

func (s *Store) GetPreferences(_ context.Context, observerID string) (entities.Preferences, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	prefs, ok := s.preferences[observerID]
	return prefs, ok, nil
}

func (s *Store) UpsertPreferences(
	_ context.Context,
	observerID string,
	update entities.PreferencesUpdate,
	now time.Time,
) (entities.Preferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prefs, ok := s.preferences[observerID]
	if !ok {
		prefs = entities.Preferences{ObserverID: observerID, CreatedAt: now}
	}
	if update.DigestUnseenOnly != nil {
		prefs.DigestUnseenOnly = *update.DigestUnseenOnly
	}
	if update.DigestFollowingOnly != nil {
		prefs.DigestFollowingOnly = *update.DigestFollowingOnly
	}
	prefs.UpdatedAt = now
	s.preferences[observerID] = prefs
	return prefs, nil
}

func followersOf(follows map[followKey]time.Time, targetID string) []string {
	ids := make([]string, 0)
	for key := range follows {
		if key.targetID == targetID {
			ids = append(ids, key.observerID)
		}
	}
	sort.Strings(ids)
	return ids
}
