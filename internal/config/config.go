package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/luxbridge/milightd/internal/controller"
	"github.com/luxbridge/milightd/internal/protocol"
)

// Config represents the daemon configuration
type Config struct {
	Log      LogConfig       `yaml:"log"`
	Gateways []GatewayConfig `yaml:"gateways"`
	API      APIConfig       `yaml:"api"`
	MQTT     MQTTConfig      `yaml:"mqtt"`
	Database DatabaseConfig  `yaml:"database"`
	Scenes   ScenesConfig    `yaml:"scenes"`

	ShutdownTimeout Duration `yaml:"shutdown_timeout"` // Graceful stop timeout for the API server
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	UseJSON bool   `yaml:"json"`
	Colors  bool   `yaml:"colors"`
}

// GatewayConfig describes one Wi-Fi gateway. Repeat and pause are pointers so
// an explicit zero can be told apart from an omitted key: omitted keys take
// the conventional defaults, an explicit repeat of 0 is coerced to 1 by the
// controller.
type GatewayConfig struct {
	Name                 string    `yaml:"name"` // Label used in topics and the command log; defaults to host
	Host                 string    `yaml:"host"`
	Port                 int       `yaml:"port"`
	RepeatCommands       *int      `yaml:"repeat_commands"`
	PauseBetweenCommands *Duration `yaml:"pause_between_commands"`
	Group1               string    `yaml:"group_1"`
	Group2               string    `yaml:"group_2"`
	Group3               string    `yaml:"group_3"`
	Group4               string    `yaml:"group_4"`
}

// APIConfig contains HTTP control server settings
type APIConfig struct {
	Enabled bool   `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// MQTTConfig contains the optional MQTT control surface settings
type MQTTConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"` // e.g. tcp://127.0.0.1:1883
	ClientID    string `yaml:"client_id"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	QoS         byte   `yaml:"qos"`
}

// DatabaseConfig contains the command log database settings
type DatabaseConfig struct {
	Path            string   `yaml:"path"`
	CleanupInterval Duration `yaml:"cleanup_interval"`
	RetentionDays   int      `yaml:"retention_days"`
}

// ScenesConfig points at the Lua scene definitions
type ScenesConfig struct {
	Path string `yaml:"path"`
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// ControllerConfig converts the YAML gateway section into the controller's
// validated configuration, applying the conventional defaults for omitted
// keys.
func (g GatewayConfig) ControllerConfig() (controller.Config, error) {
	cfg := controller.DefaultConfig(g.Host)
	if g.Port != 0 {
		cfg.Port = g.Port
	}
	if g.RepeatCommands != nil {
		cfg.RepeatCommands = *g.RepeatCommands
	}
	if g.PauseBetweenCommands != nil {
		cfg.PauseBetweenCommands = g.PauseBetweenCommands.Duration()
	}
	for i, raw := range []string{g.Group1, g.Group2, g.Group3, g.Group4} {
		if raw == "" {
			continue
		}
		t, err := protocol.ParseBulbType(raw)
		if err != nil {
			return controller.Config{}, fmt.Errorf("gateway %q group %d: %w", g.Label(), i+1, err)
		}
		cfg.Groups[i] = t
	}
	return cfg, nil
}

// Label returns the gateway's display name, falling back to the host.
func (g GatewayConfig) Label() string {
	if g.Name != "" {
		return g.Name
	}
	return g.Host
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	if len(cfg.Gateways) == 0 {
		return nil, fmt.Errorf("at least one gateway must be configured")
	}
	for i, g := range cfg.Gateways {
		if g.Host == "" {
			return nil, fmt.Errorf("gateway %d: host is required", i)
		}
	}

	// Set defaults
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "./milightd.sqlite"
	}
	if cfg.Database.CleanupInterval == 0 {
		cfg.Database.CleanupInterval = Duration(24 * time.Hour)
	}
	if cfg.Database.RetentionDays == 0 {
		cfg.Database.RetentionDays = 30
	}

	// API defaults
	if cfg.API.Host == "" {
		cfg.API.Host = "0.0.0.0"
	}
	if cfg.API.Port == 0 {
		cfg.API.Port = 9090
	}

	// MQTT defaults
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "milightd"
	}
	if cfg.MQTT.TopicPrefix == "" {
		cfg.MQTT.TopicPrefix = "milight"
	}

	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = Duration(5 * time.Second)
	}

	return &cfg, nil
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}
