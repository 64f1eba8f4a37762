// Package mqtt bridges an MQTT broker onto the dispatch queue. Commands
// arrive as JSON on <prefix>/<gateway>/<group>/set and are translated into
// queued operations; delivery stays fire-and-forget like the rest of the
// protocol.
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"

	"github.com/luxbridge/milightd/internal/dispatch"
)

const connectTimeout = 10 * time.Second

// Options configures the bridge.
type Options struct {
	Broker      string // e.g. tcp://127.0.0.1:1883
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Gateways    int // pool size, for target validation
}

// message is the JSON payload accepted on set topics. Fields are optional;
// each present field becomes one queued operation, applied in a fixed order
// so "state + brightness + color" behaves predictably.
type message struct {
	State      string   `json:"state,omitempty"`   // "on" / "off"
	Color      string   `json:"color,omitempty"`   // name, "#rrggbb" or wire hue
	Brightness *float64 `json:"brightness,omitempty"`
	Command    string   `json:"command,omitempty"` // any queue operation name
}

// Bridge is the MQTT control surface.
type Bridge struct {
	opts   Options
	queue  *dispatch.Queue
	client paho.Client
}

// NewBridge creates the bridge without connecting.
func NewBridge(opts Options, queue *dispatch.Queue) *Bridge {
	return &Bridge{opts: opts, queue: queue}
}

// Run connects to the broker, subscribes to the command topics and blocks
// until the context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	clientOpts := paho.NewClientOptions().
		AddBroker(b.opts.Broker).
		SetClientID(b.opts.ClientID).
		SetUsername(b.opts.Username).
		SetPassword(b.opts.Password).
		SetOrderMatters(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(time.Minute).
		SetKeepAlive(30 * time.Second).
		SetOnConnectHandler(b.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Error().Err(err).Msg("MQTT connection lost")
		})

	b.client = paho.NewClient(clientOpts)

	token := b.client.Connect()
	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("connecting to MQTT broker: %w", err)
		}
	case <-time.After(connectTimeout):
		return fmt.Errorf("connecting to MQTT broker %s: timeout", b.opts.Broker)
	case <-ctx.Done():
		return ctx.Err()
	}

	log.Info().Str("broker", b.opts.Broker).Str("prefix", b.opts.TopicPrefix).Msg("MQTT bridge connected")

	<-ctx.Done()
	b.client.Disconnect(500)
	return nil
}

// onConnect re-subscribes after every (re)connect; subscriptions do not
// survive a clean-session reconnect.
func (b *Bridge) onConnect(client paho.Client) {
	topic := fmt.Sprintf("%s/+/+/set", b.opts.TopicPrefix)
	token := client.Subscribe(topic, b.opts.QoS, b.onMessage)
	go func() {
		<-token.Done()
		if err := token.Error(); err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("MQTT subscription failed")
			return
		}
		log.Debug().Str("topic", topic).Msg("MQTT topic subscribed")
	}()
}

func (b *Bridge) onMessage(_ paho.Client, msg paho.Message) {
	gateway, group, err := b.parseTopic(msg.Topic())
	if err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("Ignoring MQTT message")
		return
	}

	var m message
	if err := json.Unmarshal(msg.Payload(), &m); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("Ignoring malformed MQTT payload")
		return
	}

	for _, op := range b.expand(gateway, group, m) {
		if !b.queue.Enqueue(op) {
			log.Warn().Str("op", op.Name).Msg("Dropped MQTT operation, queue unavailable")
		}
	}
}

// parseTopic extracts gateway index and group from <prefix>/<gw>/<group>/set.
func (b *Bridge) parseTopic(topic string) (gateway, group int, err error) {
	rest, ok := strings.CutPrefix(topic, b.opts.TopicPrefix+"/")
	if !ok {
		return 0, 0, fmt.Errorf("topic %q outside prefix %q", topic, b.opts.TopicPrefix)
	}
	parts := strings.Split(rest, "/")
	if len(parts) != 3 || parts[2] != "set" {
		return 0, 0, fmt.Errorf("topic %q does not match <prefix>/<gateway>/<group>/set", topic)
	}
	gateway, err = strconv.Atoi(parts[0])
	if err != nil || gateway < 0 || gateway >= b.opts.Gateways {
		return 0, 0, fmt.Errorf("invalid gateway segment %q", parts[0])
	}
	group, err = strconv.Atoi(parts[1])
	if err != nil || group < 0 || group > 4 {
		return 0, 0, fmt.Errorf("invalid group segment %q", parts[1])
	}
	return gateway, group, nil
}

// expand turns one payload into its ordered operations: power state first,
// then color, then brightness, then any free-form command.
func (b *Bridge) expand(gateway, group int, m message) []dispatch.Op {
	var ops []dispatch.Op
	switch strings.ToLower(m.State) {
	case "on":
		ops = append(ops, dispatch.Op{Gateway: gateway, Group: group, Name: "on"})
	case "off":
		ops = append(ops, dispatch.Op{Gateway: gateway, Group: group, Name: "off"})
	case "":
	default:
		log.Warn().Str("state", m.State).Msg("Ignoring unknown MQTT state")
	}
	if m.Color != "" {
		ops = append(ops, dispatch.Op{Gateway: gateway, Group: group, Name: "set_color", Color: m.Color})
	}
	if m.Brightness != nil {
		ops = append(ops, dispatch.Op{Gateway: gateway, Group: group, Name: "set_brightness", Brightness: m.Brightness})
	}
	if m.Command != "" {
		ops = append(ops, dispatch.Op{Gateway: gateway, Group: group, Name: m.Command})
	}
	return ops
}
