package bootstrap

import (
	"context"
	"errors"

	draftcommands "atelier/contexts/observer-experience/draft-arc-service/application/commands"
	drafterrors "atelier/contexts/observer-experience/draft-arc-service/domain/errors"
	digestentities "atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	digesterrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"
)

// arcRecomputer serves the digest service's ArcRecomputer port with the draft
// arc service, translating the draft-not-found sentinel between modules.
type arcRecomputer struct {
	recompute draftcommands.RecomputeUseCase
}

func (a arcRecomputer) RecomputeDraftArc(ctx context.Context, draftID string) (digestentities.ArcSnapshot, error) {
	summary, err := a.recompute.RecomputeDraftArcSummary(ctx, draftID)
	if err != nil {
		if errors.Is(err, drafterrors.ErrDraftNotFound) {
			return digestentities.ArcSnapshot{}, digesterrors.ErrDraftNotFound
		}
		return digestentities.ArcSnapshot{}, err
	}
	return digestentities.ArcSnapshot{
		DraftID:   summary.DraftID,
		State:     string(summary.State),
		Milestone: summary.LatestMilestone,
	}, nil
}
