package mqtt

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/amrops/fleetconsole/core/events"
	"github.com/amrops/fleetconsole/core/logger"
	"github.com/amrops/fleetconsole/internal/eventbus"
)

// Config defines the connection parameters for the Paho MQTT mirror.
type Config struct {
	Enabled     bool   `json:"enabled" koanf:"enabled"`
	Broker      string `json:"broker" koanf:"broker"`
	ClientID    string `json:"client_id" koanf:"client_id"`
	Username    string `json:"username" koanf:"username"`
	Password    string `json:"password" koanf:"password"`
	TopicPrefix string `json:"topic_prefix" koanf:"topic_prefix"`
	QoS         byte   `json:"qos" koanf:"qos"`
}

// SetDefaults fills zero values with sane defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "fleetconsole"
	}
	if c.TopicPrefix == "" {
		c.TopicPrefix = "fleet"
	}
}

type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// Mirror publishes engine events to an MQTT broker so external
// dashboards can follow the audit trail without polling the API.
type Mirror struct {
	cli    pahoClient
	prefix string
	qos    byte
	log    logger.Logger

	mu   sync.Mutex
	done chan struct{}
}

// NewMirror connects to the broker described by cfg.
func NewMirror(cfg Config, log logger.Logger) (*Mirror, error) {
	cfg.SetDefaults()
	if cfg.Broker == "" {
		return nil, fmt.Errorf("mqtt broker is required")
	}
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected")
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}
	c := newMQTTClient(opts)
	if token := c.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return &Mirror{cli: c, prefix: cfg.TopicPrefix, qos: cfg.QoS, log: log}, nil
}

// Run consumes bus events until the channel closes. It is meant to be
// started once as a goroutine with a subscription from the event bus.
func (m *Mirror) Run(ch <-chan eventbus.Event) {
	m.mu.Lock()
	m.done = make(chan struct{})
	m.mu.Unlock()
	for ev := range ch {
		switch e := ev.(type) {
		case events.AuditEvent:
			m.publish("audit", e.Event)
		case events.CommandEvent:
			m.publish("commands", e.Command)
		case events.TickEvent:
			m.publish("ticks", e)
		}
	}
	m.mu.Lock()
	close(m.done)
	m.mu.Unlock()
}

func (m *Mirror) publish(topic string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		m.log.Errorf("failed to encode %s event: %v", topic, err)
		return
	}
	token := m.cli.Publish(m.prefix+"/"+topic, m.qos, false, data)
	if token.Wait() && token.Error() != nil {
		m.log.Errorf("publish %s failed: %v", topic, token.Error())
	}
}

// Close waits briefly for the run loop to drain and disconnects.
func (m *Mirror) Close() {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done != nil {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
		}
	}
	if m.cli != nil && m.cli.IsConnected() {
		m.cli.Disconnect(250)
	}
}
