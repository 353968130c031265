package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "atelier/contexts/observer-experience/observer-digest-service/application"
	"atelier/contexts/observer-experience/observer-digest-service/domain/entities"
	domainerrors "atelier/contexts/observer-experience/observer-digest-service/domain/errors"
	"atelier/contexts/observer-experience/observer-digest-service/domain/services"
	"atelier/contexts/observer-experience/observer-digest-service/ports"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "atelier/observer-experience/observer-digest-service"

var (
	tracer        = otel.Tracer(instrumentationName)
	fanoutEntries = newFanoutCounter()
)

func newFanoutCounter() metric.Int64Counter {
	counter, err := otel.Meter(instrumentationName).Int64Counter(
		"digest.fanout.entries",
		metric.WithDescription("Digest entries written by draft event fan-out."),
	)
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return counter
}

type RecordDraftEventCommand struct {
	DraftID   string
	EventType string
}

// RecordDraftEventUseCase recomputes the draft arc and fans the result out to
// every follower as a deduplicated digest entry.
type RecordDraftEventUseCase struct {
	Arcs      ports.ArcRecomputer
	Followers ports.FollowerRepository
	Digests   ports.DigestRepository
	// Tx is optional; without it each entry write commits on its own and the
	// draft lock only holds for adapters that lock outside a transaction.
	Tx     ports.Transactor
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc RecordDraftEventUseCase) RecordDraftEvent(ctx context.Context, cmd RecordDraftEventCommand) (entities.RecordResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	draftID := strings.TrimSpace(cmd.DraftID)
	eventType := strings.TrimSpace(cmd.EventType)
	if draftID == "" || eventType == "" {
		return entities.RecordResult{}, domainerrors.ErrInvalidEvent
	}

	ctx, span := tracer.Start(ctx, "digest.record_draft_event", trace.WithAttributes(
		attribute.String("draft.id", draftID),
		attribute.String("event.type", eventType),
	))
	defer span.End()

	result, err := uc.fanOut(ctx, draftID, eventType)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return entities.RecordResult{}, err
	}
	span.SetAttributes(attribute.Int("digest.notified", result.NotifiedObservers))
	fanoutEntries.Add(ctx, int64(result.NotifiedObservers), metric.WithAttributes(attribute.String("event.type", eventType)))

	logger.Info("draft event fanned out",
		"event", "digest_draft_event_recorded",
		"module", "observer-experience/observer-digest-service",
		"layer", "application",
		"draft_id", draftID,
		"event_type", eventType,
		"notified_observers", result.NotifiedObservers,
	)
	return result, nil
}

func (uc RecordDraftEventUseCase) fanOut(ctx context.Context, draftID string, eventType string) (entities.RecordResult, error) {
	arc, err := uc.Arcs.RecomputeDraftArc(ctx, draftID)
	if err != nil {
		return entities.RecordResult{}, err
	}

	studioID, err := uc.Followers.GetDraftStudio(ctx, draftID)
	if err != nil {
		return entities.RecordResult{}, err
	}
	direct, err := uc.Followers.ListDraftFollowers(ctx, draftID)
	if err != nil {
		return entities.RecordResult{}, err
	}
	var studioFollowers []string
	if studioID != "" {
		studioFollowers, err = uc.Followers.ListStudioFollowers(ctx, studioID)
		if err != nil {
			return entities.RecordResult{}, err
		}
	}

	followers := services.MergeFollowers(direct, studioFollowers)
	if len(followers) == 0 {
		return entities.RecordResult{Arc: arc}, nil
	}

	now := uc.now()
	since := now.Add(-services.RefreshWindow)
	title := services.TitleForEvent(eventType)
	summary := services.SummaryText(arc)

	write := func(ctx context.Context) error {
		if err := uc.Digests.LockDraftDigest(ctx, draftID); err != nil {
			return err
		}
		for _, follower := range followers {
			entryID, err := uc.IDGen.NewID(ctx)
			if err != nil {
				return err
			}
			entry := entities.DigestEntry{
				EntryID:               entryID,
				ObserverID:            follower.ObserverID,
				DraftID:               draftID,
				StudioID:              studioID,
				Title:                 title,
				Summary:               summary,
				LatestMilestone:       arc.Milestone,
				IsFromFollowingStudio: follower.FromFollowingStudio,
				CreatedAt:             now,
				UpdatedAt:             now,
			}
			if _, err := uc.Digests.SaveRecentEntry(ctx, entry, since); err != nil {
				return err
			}
		}
		return nil
	}
	if uc.Tx != nil {
		err = uc.Tx.WithTx(ctx, write)
	} else {
		err = write(ctx)
	}
	if err != nil {
		return entities.RecordResult{}, err
	}
	return entities.RecordResult{Arc: arc, NotifiedObservers: len(followers)}, nil
}

func (uc RecordDraftEventUseCase) now() time.Time {
	if uc.Clock != nil {
		return uc.Clock.Now().UTC()
	}
	return time.Now().UTC()
}
