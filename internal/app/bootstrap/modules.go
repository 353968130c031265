package bootstrap

import (
	"log/slog"
	"time"

	draftarc "atelier/contexts/observer-experience/draft-arc-service"
	draftpostgres "atelier/contexts/observer-experience/draft-arc-service/adapters/postgres"
	observerdigest "atelier/contexts/observer-experience/observer-digest-service"
	digestpostgres "atelier/contexts/observer-experience/observer-digest-service/adapters/postgres"
	observerengagement "atelier/contexts/observer-experience/observer-engagement-service"
	engagementpostgres "atelier/contexts/observer-experience/observer-engagement-service/adapters/postgres"
	predictionmarket "atelier/contexts/observer-experience/prediction-market"
	marketpostgres "atelier/contexts/observer-experience/prediction-market/adapters/postgres"
	"atelier/internal/platform/config"
	"atelier/internal/platform/db"
	"atelier/internal/platform/messaging"
)

const shutdownTimeout = 10 * time.Second

type modules struct {
	draftArc   draftarc.Module
	digest     observerdigest.Module
	market     predictionmarket.Module
	engagement observerengagement.Module
}

// ModelSets lists every table the observer-experience modules read or own,
// including the review-system projections the arc service reads.
func ModelSets() [][]any {
	return [][]any{
		draftpostgres.Models(),
		digestpostgres.Models(),
		marketpostgres.Models(),
		engagementpostgres.Models(),
	}
}

// buildModules wires the postgres adapters. subscriber may be nil for
// processes that never consume events.
func buildModules(database *db.Database, subscriber messaging.Subscriber, cfg config.Config, logger *slog.Logger) modules {
	draftRepo := draftpostgres.NewRepository(database.DB, logger)
	arc := draftarc.NewModule(draftarc.Dependencies{
		Source:    draftRepo,
		Summaries: draftRepo,
		Clock:     draftpostgres.SystemClock{},
		Logger:    logger,
	})

	digestRepo := digestpostgres.NewRepository(database.DB, logger)
	digest := observerdigest.NewModule(observerdigest.Dependencies{
		Arcs:        arcRecomputer{recompute: arc.Recompute},
		Followers:   digestRepo,
		Digests:     digestRepo,
		Preferences: digestRepo,
		Transactor:  db.NewUnitOfWork(database.DB),
		Subscriber:  subscriber,
		Clock:       digestpostgres.SystemClock{},
		IDGen:       digestpostgres.ULIDGenerator{},
		QueueGroup:  cfg.WorkerQueueGroup + "-digest",
		Logger:      logger,
	})

	marketRepo := marketpostgres.NewRepository(database.DB, logger)
	market := predictionmarket.NewModule(predictionmarket.Dependencies{
		PullRequests: marketRepo,
		Predictions:  marketRepo,
		Subscriber:   subscriber,
		Clock:        marketpostgres.SystemClock{},
		IDGen:        marketpostgres.UUIDGenerator{},
		QueueGroup:   cfg.WorkerQueueGroup + "-market",
		Logger:       logger,
	})

	engagementRepo := engagementpostgres.NewRepository(database.DB, logger)
	engagement := observerengagement.NewModule(observerengagement.Dependencies{
		Drafts:      engagementRepo,
		Follows:     engagementRepo,
		Engagements: engagementRepo,
		Clock:       engagementpostgres.SystemClock{},
		Logger:      logger,
	})

	return modules{draftArc: arc, digest: digest, market: market, engagement: engagement}
}
