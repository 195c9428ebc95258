package mqtt

import "sync"

// Message is one published payload.
type Message struct {
	Topic   string
	Payload []byte
}

// FakeClient records publishes and lets tests inject inbound messages.
type FakeClient struct {
	mu sync.Mutex

	// Messages contains every published message, in order.
	Messages []Message

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	handlers map[string]Handler
}

// NewFakeClient creates a FakeClient for testing.
func NewFakeClient() *FakeClient {
	return &FakeClient{handlers: make(map[string]Handler)}
}

// Publish records the message.
func (f *FakeClient) Publish(topic string, payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.PublishError != nil {
		return f.PublishError
	}
	f.Messages = append(f.Messages, Message{Topic: topic, Payload: append([]byte(nil), payload...)})
	return nil
}

// Subscribe records the handler for Deliver.
func (f *FakeClient) Subscribe(topic string, h Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = h
	return nil
}

// Deliver invokes the handler subscribed on topic, if any.
// Reports whether a handler was found.
func (f *FakeClient) Deliver(topic string, payload []byte) bool {
	f.mu.Lock()
	h := f.handlers[topic]
	f.mu.Unlock()

	if h == nil {
		return false
	}
	h(topic, payload)
	return true
}

// Published returns a copy of the messages sent to topic.
func (f *FakeClient) Published(topic string) []Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Message
	for _, m := range f.Messages {
		if m.Topic == topic {
			out = append(out, m)
		}
	}
	return out
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake client is "connected".
func (f *FakeClient) IsConnected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Connected
}
