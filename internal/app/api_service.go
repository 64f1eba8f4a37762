package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/milightd/internal/api"
	"github.com/luxbridge/milightd/internal/config"
	"github.com/luxbridge/milightd/internal/dispatch"
	"github.com/luxbridge/milightd/internal/ledger"
	"github.com/luxbridge/milightd/internal/scene"
)

// APIService wraps the HTTP control server.
type APIService struct {
	cfg    *config.Config
	server *api.Server
}

// NewAPIService creates a new APIService.
func NewAPIService(cfg *config.Config, queue *dispatch.Queue, l *ledger.Ledger, scenes *scene.Library, gateways int) *APIService {
	// A nil *Library must stay a nil interface, or the server would call
	// methods on it.
	var lister api.SceneLister
	if scenes != nil {
		lister = scenes
	}
	server := api.NewServer(cfg.API.Host, cfg.API.Port, queue, l, lister, gateways)
	return &APIService{
		cfg:    cfg,
		server: server,
	}
}

// Start begins the API server if enabled.
func (s *APIService) Start(ctx context.Context, onFatalError func(error)) {
	if !s.cfg.API.Enabled {
		log.Debug().Msg("API server disabled")
		return
	}

	go func() {
		if err := s.server.Run(ctx, s.cfg.ShutdownTimeout.Duration()); err != nil {
			log.Error().Err(err).Msg("API server error")
			onFatalError(err)
		}
	}()
}
