package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/milightd/internal/config"
	"github.com/luxbridge/milightd/internal/controller"
	"github.com/luxbridge/milightd/internal/db"
	"github.com/luxbridge/milightd/internal/dispatch"
	"github.com/luxbridge/milightd/internal/ledger"
	"github.com/luxbridge/milightd/internal/scene"
)

// Services is a container for all application services.
// It manages service initialization order and dependencies.
type Services struct {
	cfg *config.Config

	// Core infrastructure
	DB     *db.DB
	Ledger *ledger.Ledger

	// Gateway pool and dispatch
	Pool    *controller.Pool
	Counter *dispatch.FrameCounter
	Queue   *dispatch.Queue
	Scenes  *scene.Library

	// Control surfaces
	API  *APIService
	MQTT *MQTTService
}

// NewServices creates all services with proper dependency injection.
func NewServices(cfg *config.Config) (*Services, error) {
	s := &Services{cfg: cfg}

	// Initialize database
	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return nil, err
	}
	s.DB = database

	// Initialize command log
	s.Ledger = ledger.New(database.DB)

	// Build the gateway pool. All gateways share one pacing gate and a
	// frame-counting transport so the command log can record how many
	// datagrams each operation produced.
	ctrlCfgs := make([]controller.Config, 0, len(cfg.Gateways))
	names := make([]string, 0, len(cfg.Gateways))
	for _, g := range cfg.Gateways {
		ctrlCfg, err := g.ControllerConfig()
		if err != nil {
			s.Close()
			return nil, err
		}
		ctrlCfgs = append(ctrlCfgs, ctrlCfg)
		names = append(names, g.Label())
	}
	s.Counter = &dispatch.FrameCounter{}
	s.Pool, err = controller.NewPoolWithTransport(ctrlCfgs, nil, s.Counter.Wrap(controller.UDPSend))
	if err != nil {
		s.Close()
		return nil, err
	}

	// Load Lua scene definitions when configured
	var resolver dispatch.SceneResolver
	if cfg.Scenes.Path != "" {
		s.Scenes, err = scene.Load(cfg.Scenes.Path)
		if err != nil {
			s.Close()
			return nil, err
		}
		log.Info().Int("scenes", len(s.Scenes.Names())).Str("path", cfg.Scenes.Path).Msg("Loaded scene definitions")
		resolver = s.Scenes.Resolver()
	}

	// Initialize the dispatch queue; its single worker serializes all
	// control surfaces onto the pool.
	s.Queue = dispatch.NewQueue(s.Pool, s.Ledger, s.Counter, names, resolver, dispatch.DefaultQueueSize)

	// Initialize control surfaces
	s.API = NewAPIService(cfg, s.Queue, s.Ledger, s.Scenes, s.Pool.Size())
	s.MQTT = NewMQTTService(cfg, s.Queue, s.Pool.Size())

	return s, nil
}

// Start starts all services in the correct order.
// The onFatalError callback is called when a control surface fails fatally.
func (s *Services) Start(ctx context.Context, onFatalError func(error)) error {
	go s.runLedgerCleanup(ctx)
	s.API.Start(ctx, onFatalError)
	s.MQTT.Start(ctx, onFatalError)
	return nil
}

// runLedgerCleanup periodically removes command log entries older than the
// retention window.
func (s *Services) runLedgerCleanup(ctx context.Context) {
	retention := time.Duration(s.cfg.Database.RetentionDays) * 24 * time.Hour
	ticker := time.NewTicker(s.cfg.Database.CleanupInterval.Duration())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.Ledger.Cleanup(retention)
			if err != nil {
				log.Error().Err(err).Msg("Failed to clean up old command log entries")
			} else if deleted > 0 {
				log.Info().Int64("deleted", deleted).Dur("retention", retention).Msg("Cleaned up old command log entries")
			}
		}
	}
}

// Stop gracefully stops all services.
func (s *Services) Stop() error {
	s.Close()
	return nil
}

// Close releases all resources.
func (s *Services) Close() {
	if s.Queue != nil {
		s.Queue.Close()
	}
	if s.DB != nil {
		s.DB.Close()
	}
}
