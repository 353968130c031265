package services

import (
	"strings"
	"time"

	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
)

const (
	// RefreshWindow bounds how far back an existing entry is reused instead
	// of inserting a new one.
	RefreshWindow = 10 * time.Minute

	DefaultLimit = 20
	MaxLimit     = 100
	MaxOffset    = 10000
)

var eventTitles = map[string]string{
	"draft_released":                 "Draft released",
	"fix_request":                    "New critique on watched draft",
	"pull_request":                   "New PR submitted",
	"pull_request_merged":            "PR merged",
	"pull_request_rejected":          "PR rejected",
	"pull_request_changes_requested": "Changes requested",
}

var stateLabels = map[string]string{
	"needs_help":       "Needs help",
	"in_progress":      "In progress",
	"ready_for_review": "Ready for review",
	"released":         "Released",
}

func TitleForEvent(eventType string) string {
	if title, ok := eventTitles[strings.ToLower(strings.TrimSpace(eventType))]; ok {
		return title
	}
	return "Draft activity update"
}

func StateLabel(state string) string {
	if label, ok := stateLabels[state]; ok {
		return label
	}
	return "Draft update"
}

// SummaryText renders "<state label>: <milestone>".
func SummaryText(arc entities.ArcSnapshot) string {
	label := StateLabel(arc.State)
	if strings.TrimSpace(arc.Milestone) == "" {
		return label
	}
	return label + ": " + arc.Milestone
}

// MergeFollowers unions direct and studio followers. An observer present in
// both sets keeps the studio flag.
func MergeFollowers(direct []string, studio []string) []entities.Follower {
	flags := make(map[string]bool, len(direct)+len(studio))
	order := make([]string, 0, len(direct)+len(studio))
	for _, id := range direct {
		if _, ok := flags[id]; !ok {
			order = append(order, id)
			flags[id] = false
		}
	}
	for _, id := range studio {
		if _, ok := flags[id]; !ok {
			order = append(order, id)
		}
		flags[id] = true
	}
	followers := make([]entities.Follower, 0, len(order))
	for _, id := range order {
		followers = append(followers, entities.Follower{ObserverID: id, FromFollowingStudio: flags[id]})
	}
	return followers
}

// ResolveQuery applies stored preferences to omitted flags and clamps paging.
func ResolveQuery(filter entities.DigestFilter, prefs entities.Preferences) entities.DigestQuery {
	query := entities.DigestQuery{
		UnseenOnly:              prefs.DigestUnseenOnly,
		FromFollowingStudioOnly: prefs.DigestFollowingOnly,
		Limit:                   filter.Limit,
		Offset:                  filter.Offset,
	}
	if filter.UnseenOnly != nil {
		query.UnseenOnly = *filter.UnseenOnly
	}
	if filter.FromFollowingStudioOnly != nil {
		query.FromFollowingStudioOnly = *filter.FromFollowingStudioOnly
	}
	switch {
	case query.Limit == 0:
		query.Limit = DefaultLimit
	case query.Limit < 1:
		query.Limit = 1
	case query.Limit > MaxLimit:
		query.Limit = MaxLimit
	}
	if query.Offset < 0 {
		query.Offset = 0
	}
	if query.Offset > MaxOffset {
		query.Offset = MaxOffset
	}
	return query
}
