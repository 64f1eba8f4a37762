package app

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/luxbridge/milightd/internal/config"
	"github.com/luxbridge/milightd/internal/dispatch"
	"github.com/luxbridge/milightd/internal/mqtt"
)

// MQTTService wraps the MQTT bridge.
type MQTTService struct {
	cfg    *config.Config
	bridge *mqtt.Bridge
}

// NewMQTTService creates a new MQTTService.
func NewMQTTService(cfg *config.Config, queue *dispatch.Queue, gateways int) *MQTTService {
	bridge := mqtt.NewBridge(mqtt.Options{
		Broker:      cfg.MQTT.Broker,
		ClientID:    cfg.MQTT.ClientID,
		Username:    cfg.MQTT.Username,
		Password:    cfg.MQTT.Password,
		TopicPrefix: cfg.MQTT.TopicPrefix,
		QoS:         cfg.MQTT.QoS,
		Gateways:    gateways,
	}, queue)
	return &MQTTService{
		cfg:    cfg,
		bridge: bridge,
	}
}

// Start begins the MQTT bridge if enabled.
func (s *MQTTService) Start(ctx context.Context, onFatalError func(error)) {
	if !s.cfg.MQTT.Enabled {
		log.Debug().Msg("MQTT bridge disabled")
		return
	}

	go func() {
		if err := s.bridge.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error().Err(err).Msg("MQTT bridge error")
			onFatalError(err)
		}
	}()
}
