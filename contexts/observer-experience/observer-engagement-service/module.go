package observerengagement

import (
	"log/slog"

	httpadapter "atelier/contexts/observer-experience/observer-engagement-service/adapters/http"
	"atelier/contexts/observer-experience/observer-engagement-service/adapters/memory"
	"atelier/contexts/observer-experience/observer-engagement-service/application/commands"
	"atelier/contexts/observer-experience/observer-engagement-service/application/queries"
	"atelier/contexts/observer-experience/observer-engagement-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Drafts      ports.DraftReader
	Follows     ports.FollowRepository
	Engagements ports.EngagementRepository
	Clock       ports.Clock
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	return Module{
		Handler: httpadapter.Handler{
			Follows: commands.FollowUseCase{
				Drafts:  deps.Drafts,
				Follows: deps.Follows,
				Clock:   deps.Clock,
				Logger:  deps.Logger,
			},
			Engagements: commands.EngagementUseCase{
				Drafts:      deps.Drafts,
				Engagements: deps.Engagements,
				Clock:       deps.Clock,
				Logger:      deps.Logger,
			},
			Watchlist: queries.WatchlistUseCase{Follows: deps.Follows},
			Logger:    deps.Logger,
		},
	}
}

func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Drafts:      store,
		Follows:     store,
		Engagements: store,
		Clock:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
