package notify

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/eclipse/paho.golang/autopaho"
	"github.com/eclipse/paho.golang/paho"

	"github.com/daybook-ai/daybook/internal/config"
)

// Dispatcher publishes per-contact event notifications to an MQTT
// topic. It satisfies the pipeline's Notifier interface.
type Dispatcher struct {
	cfg      config.MQTTConfig
	contacts []Contact
	logger   *slog.Logger
	cm       *autopaho.ConnectionManager
}

// NewDispatcher creates a Dispatcher but does not connect. Call
// [Dispatcher.Start] before dispatching.
func NewDispatcher(cfg config.MQTTConfig, contacts []Contact, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, contacts: contacts, logger: logger}
}

// Start connects to the broker and returns once the initial connection
// is up or the timeout passes. autopaho keeps retrying in the
// background either way.
func (d *Dispatcher) Start(ctx context.Context) error {
	brokerURL, err := url.Parse(d.cfg.Broker)
	if err != nil {
		return fmt.Errorf("parse mqtt broker URL: %w", err)
	}

	pahoCfg := autopaho.ClientConfig{
		ServerUrls:      []*url.URL{brokerURL},
		KeepAlive:       30,
		ConnectUsername: d.cfg.Username,
		ConnectPassword: []byte(d.cfg.Password),
		OnConnectionUp: func(_ *autopaho.ConnectionManager, _ *paho.Connack) {
			d.logger.Info("mqtt connected to broker", "broker", d.cfg.Broker)
		},
		OnConnectError: func(err error) {
			d.logger.Warn("mqtt connection error", "error", err)
		},
		ClientConfig: paho.ClientConfig{
			ClientID: "daybook-notify",
		},
	}
	if brokerURL.Scheme == "mqtts" || brokerURL.Scheme == "ssl" {
		pahoCfg.TlsCfg = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	cm, err := autopaho.NewConnection(ctx, pahoCfg)
	if err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	d.cm = cm

	connCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := cm.AwaitConnection(connCtx); err != nil {
		d.logger.Warn("mqtt initial connection timed out, will retry in background", "error", err)
	}
	return nil
}

// Close disconnects from the broker.
func (d *Dispatcher) Close(ctx context.Context) error {
	if d.cm == nil {
		return nil
	}
	return d.cm.Disconnect(ctx)
}

type eventMessage struct {
	To       string `json:"to"`
	Title    string `json:"title"`
	Start    string `json:"start,omitempty"`
	Location string `json:"location,omitempty"`
}

// NotifyEvent delivers the event to every contact whose mode matches
// the input and returns the names actually notified. Delivery failures
// are logged and skipped; notifications are best-effort.
func (d *Dispatcher) NotifyEvent(ctx context.Context, rawInput, title string, start *time.Time, location string, explicit bool) []string {
	if d.cm == nil {
		return nil
	}

	var notified []string
	for _, contact := range d.contacts {
		if !contact.ShouldNotify(rawInput, explicit) {
			continue
		}

		msg := eventMessage{To: contact.Name, Title: title, Location: location}
		if start != nil {
			msg.Start = start.Format(time.RFC3339)
		}
		payload, err := json.Marshal(msg)
		if err != nil {
			d.logger.Warn("marshal notification", "error", err)
			continue
		}

		_, err = d.cm.Publish(ctx, &paho.Publish{
			Topic:   d.cfg.Topic,
			QoS:     1,
			Payload: payload,
		})
		if err != nil {
			d.logger.Warn("publish notification failed", "contact", contact.Name, "error", err)
			continue
		}
		notified = append(notified, contact.Name)
	}
	return notified
}
