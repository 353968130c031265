package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type FollowResponse struct {
	ObserverID string `json:"observer_id"`
	TargetID   string `json:"target_id"`
	Following  bool   `json:"following"`
	Created    bool   `json:"created"`
}

type UnfollowResponse struct {
	ObserverID string `json:"observer_id"`
	TargetID   string `json:"target_id"`
	Removed    bool   `json:"removed"`
}

type WatchlistItemResponse struct {
	DraftID         string  `json:"draft_id"`
	StudioID        string  `json:"studio_id"`
	DraftStatus     string  `json:"draft_status"`
	GlowUpScore     float64 `json:"glow_up_score"`
	ArcState        string  `json:"arc_state"`
	LatestMilestone string  `json:"latest_milestone"`
	ArcUpdatedAt    *string `json:"arc_updated_at"`
	FollowedAt      string  `json:"followed_at"`
}

type WatchlistResponse struct {
	Items []WatchlistItemResponse `json:"items"`
}

type EngagementResponse struct {
	ObserverID string  `json:"observer_id"`
	DraftID    string  `json:"draft_id"`
	IsSaved    bool    `json:"is_saved"`
	IsRated    bool    `json:"is_rated"`
	SavedAt    *string `json:"saved_at"`
	RatedAt    *string `json:"rated_at"`
	UpdatedAt  string  `json:"updated_at"`
}
