package services

import (
	"testing"

	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"

	"github.com/stretchr/testify/assert"
)

func TestTitleForEvent(t *testing.T) {
	assert.Equal(t, "Draft released", TitleForEvent("draft_released"))
	assert.Equal(t, "New critique on watched draft", TitleForEvent("fix_request"))
	assert.Equal(t, "PR merged", TitleForEvent(" PULL_REQUEST_MERGED "))
	assert.Equal(t, "Draft activity update", TitleForEvent("something_else"))
}

func TestSummaryText(t *testing.T) {
	assert.Equal(t, "In progress: 2 open fix requests", SummaryText(entities.ArcSnapshot{State: "in_progress", Milestone: "2 open fix requests"}))
	assert.Equal(t, "Released", SummaryText(entities.ArcSnapshot{State: "released"}))
}

func TestMergeFollowersFlagsStudioMembership(t *testing.T) {
	followers := MergeFollowers([]string{"obs-a", "obs-b"}, []string{"obs-b", "obs-c"})
	assert.Equal(t, []entities.Follower{
		{ObserverID: "obs-a", FromFollowingStudio: false},
		{ObserverID: "obs-b", FromFollowingStudio: true},
		{ObserverID: "obs-c", FromFollowingStudio: true},
	}, followers)
	assert.Empty(t, MergeFollowers(nil, nil))
}

func TestResolveQueryDefaultsAndClamps(t *testing.T) {
	yes := true
	no := false
	prefs := entities.Preferences{DigestUnseenOnly: true, DigestFollowingOnly: true}

	query := ResolveQuery(entities.DigestFilter{}, prefs)
	assert.True(t, query.UnseenOnly)
	assert.True(t, query.FromFollowingStudioOnly)
	assert.Equal(t, DefaultLimit, query.Limit)
	assert.Zero(t, query.Offset)

	query = ResolveQuery(entities.DigestFilter{UnseenOnly: &no, FromFollowingStudioOnly: &yes, Limit: 500, Offset: 20000}, prefs)
	assert.False(t, query.UnseenOnly)
	assert.True(t, query.FromFollowingStudioOnly)
	assert.Equal(t, MaxLimit, query.Limit)
	assert.Equal(t, MaxOffset, query.Offset)

	query = ResolveQuery(entities.DigestFilter{Limit: -4, Offset: -1}, entities.Preferences{})
	assert.Equal(t, 1, query.Limit)
	assert.Zero(t, query.Offset)
}
