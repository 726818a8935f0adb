//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/govindex/internal/adapters"
	"github.com/trebuchet-org/govindex/internal/config"
	"github.com/trebuchet-org/govindex/internal/logging"
	"github.com/trebuchet-org/govindex/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, func(), error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewIndexer,
		usecase.NewListProposals,
		usecase.NewShowProposal,
		usecase.NewListVotes,
		usecase.NewShowDelegate,
		usecase.NewShowGovernance,
		usecase.NewResetStore,

		// App
		NewApp,
	)
	return nil, nil, nil
}
