package app

import (
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-roti/internal/calculator"
	"github.com/noah-isme/backend-roti/internal/catalog"
	"github.com/noah-isme/backend-roti/internal/config"
)

// NewServices builds the catalog and calculator services over store.
func NewServices(cfg *config.Config, store catalog.Store, logger zerolog.Logger) (*catalog.Service, *calculator.Service, error) {
	catalogSvc, err := catalog.NewService(catalog.ServiceConfig{
		Store:     store,
		CostRatio: cfg.CostFallbackRatio,
	})
	if err != nil {
		return nil, nil, err
	}
	calcSvc := &calculator.Service{
		Catalog:  catalogSvc,
		Sessions: calculator.NewSessions(cfg.SessionTTL),
		Logger:   logger.With().Str("component", "calculator").Logger(),
	}
	return catalogSvc, calcSvc, nil
}
