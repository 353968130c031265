package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	drafttransport "atelier/contexts/observer-experience/draft-arc-service/transport/http"
	digesttransport "atelier/contexts/observer-experience/observer-digest-service/transport/http"
	markettransport "atelier/contexts/observer-experience/prediction-market/transport/http"
	"atelier/internal/app/bootstrap"
)

const commandTimeout = 2 * time.Minute

// Toolkit is the operator surface the commands drive.
type Toolkit interface {
	Migrate(ctx context.Context) error
	RecomputeArc(ctx context.Context, draftID string) (drafttransport.ArcSummaryResponse, error)
	RecordDraftEvent(ctx context.Context, draftID string, eventType string) (digesttransport.RecordDraftEventResponse, error)
	ResolvePredictions(ctx context.Context, pullRequestID string) (markettransport.ResolutionResponse, error)
	Close(ctx context.Context) error
}

// openToolkit is swapped in tests.
var openToolkit = func(ctx context.Context) (Toolkit, error) {
	return bootstrap.BuildToolkit(ctx)
}

func withToolkit(parent context.Context, run func(ctx context.Context, kit Toolkit) error) (err error) {
	ctx, cancel := context.WithTimeout(parent, commandTimeout)
	defer cancel()

	kit, err := openToolkit(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer func() {
		if closeErr := kit.Close(context.WithoutCancel(ctx)); closeErr != nil && err == nil {
			err = fmt.Errorf("closing: %w", closeErr)
		}
	}()
	return run(ctx, kit)
}

func printJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
