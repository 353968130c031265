package bootstrap

import (
	"context"
	"fmt"

	drafttransport "atelier/contexts/observer-experience/draft-arc-service/transport/http"
	digesttransport "atelier/contexts/observer-experience/observer-digest-service/transport/http"
	markettransport "atelier/contexts/observer-experience/prediction-market/transport/http"
	"atelier/internal/platform/db"
)

// Toolkit exposes one-shot operator actions over the same wiring the API uses.
// It never consumes events, so no bus subscriptions are opened.
type Toolkit struct {
	runtime *runtime
	modules modules
}

func BuildToolkit(ctx context.Context) (*Toolkit, error) {
	rt, err := openRuntime(ctx, "ctl")
	if err != nil {
		return nil, err
	}
	return &Toolkit{
		runtime: rt,
		modules: buildModules(rt.database, nil, rt.cfg, rt.logger),
	}, nil
}

func (t *Toolkit) Migrate(ctx context.Context) error {
	return t.runtime.database.Migrate(ctx, ModelSets()...)
}

func (t *Toolkit) RecomputeArc(ctx context.Context, draftID string) (drafttransport.ArcSummaryResponse, error) {
	resp, err := t.modules.draftArc.Handler.RecomputeDraftArcHandler(ctx, draftID)
	return resp, hintMigration(err)
}

func (t *Toolkit) RecordDraftEvent(ctx context.Context, draftID string, eventType string) (digesttransport.RecordDraftEventResponse, error) {
	resp, err := t.modules.digest.Handler.RecordDraftEventHandler(ctx, draftID, digesttransport.RecordDraftEventRequest{
		EventType: eventType,
	})
	return resp, hintMigration(err)
}

func (t *Toolkit) ResolvePredictions(ctx context.Context, pullRequestID string) (markettransport.ResolutionResponse, error) {
	resp, err := t.modules.market.Handler.ResolvePredictionsHandler(ctx, pullRequestID)
	return resp, hintMigration(err)
}

func (t *Toolkit) Close(ctx context.Context) error {
	return t.runtime.close(ctx)
}

func hintMigration(err error) error {
	if err != nil && db.IsUndefinedTable(err) {
		return fmt.Errorf("%w (run `atelierctl migrate` first)", err)
	}
	return err
}
