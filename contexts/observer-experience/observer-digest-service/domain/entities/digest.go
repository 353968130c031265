package entities

import "time"

type DigestEntry struct {
	EntryID               string
	ObserverID            string
	DraftID               string
	StudioID              string
	Title                 string
	Summary               string
	LatestMilestone       string
	IsFromFollowingStudio bool
	IsSeen                bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
	SeenAt                *time.Time
}

// Follower is one member of a draft's fan-out set.
type Follower struct {
	ObserverID          string
	FromFollowingStudio bool
}

// ArcSnapshot is the recomputed arc state the digest text is built from.
type ArcSnapshot struct {
	DraftID   string
	State     string
	Milestone string
}

type RecordResult struct {
	Arc               ArcSnapshot
	NotifiedObservers int
}

type Preferences struct {
	ObserverID          string
	DigestUnseenOnly    bool
	DigestFollowingOnly bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// PreferencesUpdate is a partial update; nil fields keep their stored value.
type PreferencesUpdate struct {
	DigestUnseenOnly    *bool
	DigestFollowingOnly *bool
}

func (u PreferencesUpdate) IsEmpty() bool {
	return u.DigestUnseenOnly == nil && u.DigestFollowingOnly == nil
}

// DigestFilter carries caller-supplied list options. Nil flags fall back to
// the observer's stored preferences.
type DigestFilter struct {
	UnseenOnly              *bool
	FromFollowingStudioOnly *bool
	Limit                   int
	Offset                  int
}

// DigestQuery is a fully resolved list query.
type DigestQuery struct {
	UnseenOnly              bool
	FromFollowingStudioOnly bool
	Limit                   int
	Offset                  int
}
