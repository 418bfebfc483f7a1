package messaging

import (
	"fmt"

	"github.com/pixil98/go-lobby/internal/platform"
)

// Publisher is the subject-level send the entity publisher needs.
type Publisher interface {
	Publish(subject string, data []byte) error
}

// NatsPublisher publishes messages to individual entity NATS channels.
type NatsPublisher struct {
	server Publisher
}

// NewNatsPublisher wraps a NatsServer for per-entity message delivery.
func NewNatsPublisher(server Publisher) *NatsPublisher {
	return &NatsPublisher{server: server}
}

// EntitySubject is the channel an entity's client listens on.
func EntitySubject(id platform.EntityId) string {
	return fmt.Sprintf("player-%s", id)
}

func (p *NatsPublisher) PublishToEntity(id platform.EntityId, data []byte) error {
	return p.server.Publish(EntitySubject(id), data)
}
