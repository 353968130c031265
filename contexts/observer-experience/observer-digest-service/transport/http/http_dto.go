package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RecordDraftEventRequest struct {
	EventType string `json:"event_type"`
}

type RecordDraftEventResponse struct {
	DraftID           string `json:"draft_id"`
	State             string `json:"state"`
	LatestMilestone   string `json:"latest_milestone"`
	NotifiedObservers int    `json:"notified_observers"`
}

type DigestEntryResponse struct {
	EntryID               string  `json:"entry_id"`
	DraftID               string  `json:"draft_id"`
	StudioID              string  `json:"studio_id,omitempty"`
	Title                 string  `json:"title"`
	Summary               string  `json:"summary"`
	LatestMilestone       string  `json:"latest_milestone"`
	IsFromFollowingStudio bool    `json:"is_from_following_studio"`
	IsSeen                bool    `json:"is_seen"`
	CreatedAt             string  `json:"created_at"`
	UpdatedAt             string  `json:"updated_at"`
	SeenAt                *string `json:"seen_at"`
}

type DigestListResponse struct {
	Items []DigestEntryResponse `json:"items"`
}

type PreferencesRequest struct {
	DigestUnseenOnly    *bool `json:"digest_unseen_only"`
	DigestFollowingOnly *bool `json:"digest_following_only"`
}

type PreferencesResponse struct {
	ObserverID          string `json:"observer_id"`
	DigestUnseenOnly    bool   `json:"digest_unseen_only"`
	DigestFollowingOnly bool   `json:"digest_following_only"`
}
