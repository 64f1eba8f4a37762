package controller

import (
	"fmt"
	"time"

	"github.com/luxbridge/milightd/internal/protocol"
)

// Conventional gateway settings. Some hardware revisions listen on port
// 50000 instead; the port is configurable, not protocol-fixed.
const (
	DefaultPort   = 8899
	DefaultRepeat = 3
	DefaultPause  = 100 * time.Millisecond
)

// Config describes one gateway. The zero value is not usable; start from
// DefaultConfig or fill every field explicitly.
type Config struct {
	Host string
	Port int

	// RepeatCommands is how many times safe commands are retransmitted.
	// Zero is coerced to one, matching the historical behavior; negative
	// values are rejected.
	RepeatCommands int

	// PauseBetweenCommands is the minimum spacing between frames. The
	// hardware needs roughly 100ms to accept commands reliably.
	PauseBetweenCommands time.Duration

	// Groups assigns a bulb type to each of the four groups. The zero
	// value is RGBW for all groups.
	Groups [protocol.GroupCount]protocol.BulbType
}

// DefaultConfig returns the conventional settings for a gateway host:
// port 8899, three repeats, 100ms pause, all groups RGBW.
func DefaultConfig(host string) Config {
	return Config{
		Host:                 host,
		Port:                 DefaultPort,
		RepeatCommands:       DefaultRepeat,
		PauseBetweenCommands: DefaultPause,
	}
}

func (cfg *Config) validate() error {
	if cfg.Host == "" {
		return fmt.Errorf("%w: host is required", protocol.ErrInvalidConfig)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("%w: port %d outside [1,65535]", protocol.ErrInvalidConfig, cfg.Port)
	}
	if cfg.RepeatCommands < 0 {
		return fmt.Errorf("%w: negative repeat count %d", protocol.ErrInvalidConfig, cfg.RepeatCommands)
	}
	if cfg.PauseBetweenCommands < 0 {
		return fmt.Errorf("%w: negative pause %s", protocol.ErrInvalidConfig, cfg.PauseBetweenCommands)
	}
	return nil
}
