package mqtt

import (
	"fmt"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"
)

// Options configure the broker connection.
type Options struct {
	Broker   string
	ClientID string
	Username string
	Password string
	QoS      byte
}

// RealClient publishes to and subscribes on an actual MQTT broker.
// Subscriptions are replayed after every reconnect.
type RealClient struct {
	client paho.Client
	qos    byte

	mu   sync.Mutex
	subs map[string]Handler
}

// NewRealClient creates a client connected to the given broker.
func NewRealClient(o Options) (*RealClient, error) {
	c := &RealClient{
		qos:  o.QoS,
		subs: make(map[string]Handler),
	}

	opts := paho.NewClientOptions().
		AddBroker(o.Broker).
		SetClientID(o.ClientID).
		SetUsername(o.Username).
		SetPassword(o.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.WithError(err).Warn("mqtt connection lost")
		})

	c.client = paho.NewClient(opts)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	log.WithField("broker", o.Broker).Info("mqtt connected")
	return c, nil
}

func (c *RealClient) onConnect(client paho.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for topic, h := range c.subs {
		token := client.Subscribe(topic, c.qos, wrap(h))
		go func(topic string, token paho.Token) {
			if token.WaitTimeout(5*time.Second) && token.Error() == nil {
				log.WithField("topic", topic).Debug("mqtt resubscribed")
				return
			}
			log.WithField("topic", topic).WithError(token.Error()).Warn("mqtt resubscribe failed")
		}(topic, token)
	}
}

func wrap(h Handler) paho.MessageHandler {
	return func(_ paho.Client, m paho.Message) {
		h(m.Topic(), m.Payload())
	}
}

// Subscribe registers h for topic.
func (c *RealClient) Subscribe(topic string, h Handler) error {
	c.mu.Lock()
	c.subs[topic] = h
	c.mu.Unlock()

	token := c.client.Subscribe(topic, c.qos, wrap(h))
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe %s: timeout", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}
	return nil
}

// Publish sends payload to topic with the configured QoS, not retained.
func (c *RealClient) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, c.qos, false, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
