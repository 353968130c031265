package predictionmarket

import (
	"log/slog"

	httpadapter "atelier/contexts/observer-experience/prediction-market/adapters/http"
	"atelier/contexts/observer-experience/prediction-market/adapters/memory"
	"atelier/contexts/observer-experience/prediction-market/application/commands"
	"atelier/contexts/observer-experience/prediction-market/application/queries"
	"atelier/contexts/observer-experience/prediction-market/application/workers"
	"atelier/contexts/observer-experience/prediction-market/ports"
)

type Module struct {
	Handler          httpadapter.Handler
	DecisionConsumer workers.PullRequestDecisionConsumer
	Store            *memory.Store
}

type Dependencies struct {
	PullRequests ports.PullRequestReader
	Predictions  ports.PredictionRepository
	Subscriber   ports.EventSubscriber
	Clock        ports.Clock
	IDGen        ports.IDGenerator
	QueueGroup   string
	Logger       *slog.Logger
}

func NewModule(deps Dependencies) Module {
	resolve := commands.ResolvePredictionsUseCase{
		PullRequests: deps.PullRequests,
		Predictions:  deps.Predictions,
		Clock:        deps.Clock,
		Logger:       deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Submit: commands.SubmitPredictionUseCase{
				PullRequests: deps.PullRequests,
				Predictions:  deps.Predictions,
				Clock:        deps.Clock,
				IDGen:        deps.IDGen,
				Logger:       deps.Logger,
			},
			Resolve: resolve,
			Market: queries.MarketUseCase{
				PullRequests: deps.PullRequests,
				Predictions:  deps.Predictions,
				Clock:        deps.Clock,
			},
			Logger: deps.Logger,
		},
		DecisionConsumer: workers.PullRequestDecisionConsumer{
			Subscriber: deps.Subscriber,
			Resolver:   resolve,
			QueueGroup: deps.QueueGroup,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(subscriber ports.EventSubscriber, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		PullRequests: store,
		Predictions:  store,
		Subscriber:   subscriber,
		Clock:        store,
		IDGen:        store,
		Logger:       logger,
	})
	module.Store = store
	return module
}
