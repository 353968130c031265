package services

import (
	"fmt"
	"time"

	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
)

// ArcInput is everything the calculator needs; it never touches storage.
type ArcInput struct {
	Released       bool
	OpenFixCount   int
	PendingPRCount int
	LatestEvent    *entities.ArcEvent
}

type ArcResult struct {
	State     entities.ArcState
	Milestone string
}

// eventPriority orders simultaneous events: later pipeline stages carry more
// information than earlier ones.
var eventPriority = map[entities.ArcEventKind]int{
	entities.ArcEventDraftReleased: 0,
	entities.ArcEventPRMerged:      1,
	entities.ArcEventPRRejected:    2,
	entities.ArcEventPRSubmitted:   3,
	entities.ArcEventFixRequest:    4,
}

// CalculateArc applies the state rules in priority order and derives the
// milestone from the most recent qualifying event.
func CalculateArc(input ArcInput) ArcResult {
	state := resolveState(input)
	milestone := ""
	if input.LatestEvent != nil {
		milestone = milestoneForEvent(input.LatestEvent.Kind, input)
	}
	if milestone == "" {
		milestone = milestoneForState(state, input)
	}
	return ArcResult{State: state, Milestone: milestone}
}

func resolveState(input ArcInput) entities.ArcState {
	switch {
	case input.Released:
		return entities.ArcStateReleased
	case input.PendingPRCount > 0:
		return entities.ArcStateReadyForReview
	case input.OpenFixCount > 0:
		return entities.ArcStateInProgress
	default:
		return entities.ArcStateNeedsHelp
	}
}

// milestoneForEvent returns "" when the event carries no count to report, in
// which case the state-driven fallback applies.
func milestoneForEvent(kind entities.ArcEventKind, input ArcInput) string {
	switch kind {
	case entities.ArcEventDraftReleased:
		return "Draft released"
	case entities.ArcEventPRMerged:
		return "Recent PR merged"
	case entities.ArcEventPRRejected:
		return "Recent PR rejected"
	case entities.ArcEventPRSubmitted:
		if input.PendingPRCount <= 0 {
			return ""
		}
		return pendingPhrase(input.PendingPRCount)
	case entities.ArcEventFixRequest:
		if input.OpenFixCount <= 0 {
			return ""
		}
		return openFixPhrase(input.OpenFixCount)
	default:
		return ""
	}
}

func milestoneForState(state entities.ArcState, input ArcInput) string {
	switch state {
	case entities.ArcStateReleased:
		return "Draft released"
	case entities.ArcStateReadyForReview:
		return pendingPhrase(input.PendingPRCount)
	case entities.ArcStateInProgress:
		return openFixPhrase(input.OpenFixCount)
	default:
		return "No activity yet"
	}
}

func pendingPhrase(count int) string {
	if count == 1 {
		return "PR pending review"
	}
	return fmt.Sprintf("%d PRs pending review", count)
}

func openFixPhrase(count int) string {
	if count == 1 {
		return "1 open fix request"
	}
	return fmt.Sprintf("%d open fix requests", count)
}

// LatestEvent picks the most recent event. Ties resolve by eventPriority, so
// the result is deterministic for any input order.
func LatestEvent(events []entities.ArcEvent) *entities.ArcEvent {
	var latest *entities.ArcEvent
	for i := range events {
		candidate := events[i]
		if candidate.OccurredAt.IsZero() {
			continue
		}
		if latest == nil || isLater(candidate, *latest) {
			picked := candidate
			latest = &picked
		}
	}
	return latest
}

func isLater(candidate entities.ArcEvent, current entities.ArcEvent) bool {
	if !candidate.OccurredAt.Equal(current.OccurredAt) {
		return candidate.OccurredAt.After(current.OccurredAt)
	}
	return eventPriority[candidate.Kind] < eventPriority[current.Kind]
}

// EventAt is a small helper for building event lists from nullable times.
func EventAt(kind entities.ArcEventKind, at *time.Time) entities.ArcEvent {
	if at == nil {
		return entities.ArcEvent{Kind: kind}
	}
	return entities.ArcEvent{Kind: kind, OccurredAt: at.UTC()}
}

// OpenFixCount subtracts the distinct addressed ids that belong to the draft
// from its fix request total. addressedOwned must already be filtered to the
// draft's own fix requests.
func OpenFixCount(fixRequestCount int, addressedOwned int) int {
	open := fixRequestCount - addressedOwned
	if open < 0 {
		return 0
	}
	return open
}

// DistinctAddressed flattens addressed lists from merged pull requests into a
// de-duplicated id list.
func DistinctAddressed(lists []entities.AddressedFixRequests) []string {
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	for _, list := range lists {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
