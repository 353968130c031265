package entities

import "time"

type DraftRef struct {
	DraftID  string
	StudioID string
	Status   string
}

type FollowResult struct {
	ObserverID string
	TargetID   string
	Created    bool
}

type UnfollowResult struct {
	ObserverID string
	TargetID   string
	Removed    bool
}

// WatchlistItem is a followed draft with its cached arc summary. ArcState and
// LatestMilestone are empty until the draft's arc has been computed once.
type WatchlistItem struct {
	DraftID         string
	StudioID        string
	DraftStatus     string
	GlowUpScore     float64
	ArcState        string
	LatestMilestone string
	ArcUpdatedAt    *time.Time
	FollowedAt      time.Time
}

type EngagementFlag string

const (
	FlagSaved EngagementFlag = "saved"
	FlagRated EngagementFlag = "rated"
)

type Engagement struct {
	ObserverID string
	DraftID    string
	IsSaved    bool
	IsRated    bool
	SavedAt    *time.Time
	RatedAt    *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EngagementChange sets one flag on an (observer, draft) engagement.
type EngagementChange struct {
	ObserverID string
	DraftID    string
	Flag       EngagementFlag
	Value      bool
	At         time.Time
}
