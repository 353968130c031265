package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ArcSummaryResponse struct {
	DraftID         string  `json:"draft_id"`
	State           string  `json:"state"`
	LatestMilestone string  `json:"latest_milestone"`
	FixOpenCount    int     `json:"fix_open_count"`
	PRPendingCount  int     `json:"pr_pending_count"`
	LastMergeAt     *string `json:"last_merge_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type Recap24hResponse struct {
	FixRequests   int      `json:"fix_requests"`
	PRSubmitted   int      `json:"pr_submitted"`
	PRMerged      int      `json:"pr_merged"`
	PRRejected    int      `json:"pr_rejected"`
	GlowUpDelta   *float64 `json:"glow_up_delta"`
	HasChanges    bool     `json:"has_changes"`
	WindowStartAt string   `json:"window_start_at"`
	WindowEndAt   string   `json:"window_end_at"`
}

type DraftArcResponse struct {
	Summary ArcSummaryResponse `json:"summary"`
	Recap   Recap24hResponse   `json:"recap_24h"`
}
