package observerdigest

import (
	"log/slog"

	httpadapter "atelier/contexts/observer-experience/observer-digest-service/adapters/http"
	"atelier/contexts/observer-experience/observer-digest-service/adapters/memory"
	"atelier/contexts/observer-experience/observer-digest-service/application/commands"
	"atelier/contexts/observer-experience/observer-digest-service/application/queries"
	"atelier/contexts/observer-experience/observer-digest-service/application/workers"
	"atelier/contexts/observer-experience/observer-digest-service/ports"
)

type Module struct {
	Handler             httpadapter.Handler
	ReviewEventConsumer workers.ReviewEventConsumer
	Store               *memory.Store
}

type Dependencies struct {
	Arcs        ports.ArcRecomputer
	Followers   ports.FollowerRepository
	Digests     ports.DigestRepository
	Preferences ports.PreferencesRepository
	Transactor  ports.Transactor
	Subscriber  ports.EventSubscriber
	Clock       ports.Clock
	IDGen       ports.IDGenerator
	QueueGroup  string
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	events := commands.RecordDraftEventUseCase{
		Arcs:      deps.Arcs,
		Followers: deps.Followers,
		Digests:   deps.Digests,
		Tx:        deps.Transactor,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Events: events,
			Seen: commands.MarkDigestSeenUseCase{
				Digests: deps.Digests,
				Clock:   deps.Clock,
				Logger:  deps.Logger,
			},
			Preferences: commands.UpsertPreferencesUseCase{
				Preferences: deps.Preferences,
				Clock:       deps.Clock,
				Logger:      deps.Logger,
			},
			Digests: queries.DigestUseCase{
				Digests:     deps.Digests,
				Preferences: deps.Preferences,
			},
			Logger: deps.Logger,
		},
		ReviewEventConsumer: workers.ReviewEventConsumer{
			Subscriber: deps.Subscriber,
			Events:     events,
			QueueGroup: deps.QueueGroup,
			Logger:     deps.Logger,
		},
	}
}

// NewInMemoryModule wires the memory store for every repository port. The
// arc recomputer and subscriber come from the caller.
func NewInMemoryModule(arcs ports.ArcRecomputer, subscriber ports.EventSubscriber, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Arcs:        arcs,
		Followers:   store,
		Digests:     store,
		Preferences: store,
		Subscriber:  subscriber,
		Clock:       store,
		IDGen:       store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
