package draftarc

import (
	"log/slog"

	httpadapter "atelier/contexts/observer-experience/draft-arc-service/adapters/http"
	"atelier/contexts/observer-experience/draft-arc-service/adapters/memory"
	"atelier/contexts/observer-experience/draft-arc-service/application/commands"
	"atelier/contexts/observer-experience/draft-arc-service/application/queries"
	"atelier/contexts/observer-experience/draft-arc-service/domain/entities"
	"atelier/contexts/observer-experience/draft-arc-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Recompute commands.RecomputeUseCase
	Store     *memory.Store
}

type Dependencies struct {
	Source    ports.ArcSourceRepository
	Summaries ports.ArcSummaryRepository
	Clock     ports.Clock
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	recompute := commands.RecomputeUseCase{
		Source:    deps.Source,
		Summaries: deps.Summaries,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	arcs := queries.DraftArcUseCase{
		Source:     deps.Source,
		Summaries:  deps.Summaries,
		Recomputer: recompute,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Recompute: recompute,
			Arcs:      arcs,
			Logger:    deps.Logger,
		},
		Recompute: recompute,
	}
}

func NewInMemoryModule(seed []entities.Draft, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Source:    store,
		Summaries: store,
		Clock:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
