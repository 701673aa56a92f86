package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/trackwire/notification-tracker/internal/domain"
)

var _ Publisher = (*RabbitMQPublisher)(nil)

// RabbitMQPublisher publishes events inside an AMQP channel transaction:
// publish then commit, rollback on any failure, so a single attempt is never
// partially visible. The mutex keeps at most one publish in flight, which
// preserves per-key ordering across sequential publishes.
type RabbitMQPublisher struct {
	client *RabbitMQ

	mu sync.Mutex
	ch *amqp.Channel
}

func NewRabbitMQPublisher(client *RabbitMQ) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, topic string, event NotificationEvent, key string) error {
	if p == nil || p.client == nil {
		return fmt.Errorf("%w: publisher is not initialized", domain.ErrPublish)
	}
	if strings.TrimSpace(topic) == "" {
		return fmt.Errorf("%w: topic is required", domain.ErrPublish)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: partition key is required", domain.ErrPublish)
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: invalid event: %v", domain.ErrPublish, err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal event: %v", domain.ErrPublish, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.txChannel(ctx, topic)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrPublish, err)
	}

	publishing := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		MessageId:    key,
		Body:         payload,
	}

	if err := ch.PublishWithContext(ctx, topic, key, false, false, publishing); err != nil {
		p.abort()
		return fmt.Errorf("%w: failed to publish to %q: %v", domain.ErrPublish, topic, err)
	}

	if err := ch.TxCommit(); err != nil {
		p.abort()
		return fmt.Errorf("%w: failed to commit publish to %q: %v", domain.ErrPublish, topic, err)
	}

	return nil
}

// txChannel returns the long-lived transactional channel, opening and
// switching a fresh one into Tx mode when needed.
func (p *RabbitMQPublisher) txChannel(ctx context.Context, topic string) (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}

	ch, err := p.client.channel(ctx, topic)
	if err != nil {
		return nil, err
	}

	if err := ch.Tx(); err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("failed to enable transactional mode: %w", err)
	}

	p.ch = ch
	return ch, nil
}

// abort rolls back the open transaction and discards the channel; the next
// publish starts from a clean transactional channel.
func (p *RabbitMQPublisher) abort() {
	if p.ch == nil {
		return
	}
	_ = p.ch.TxRollback()
	_ = p.ch.Close()
	p.ch = nil
}

func (p *RabbitMQPublisher) Close() error {
	p.mu.Lock()
	if p.ch != nil && !p.ch.IsClosed() {
		_ = p.ch.Close()
	}
	p.ch = nil
	p.mu.Unlock()

	if p.client == nil {
		return nil
	}
	return p.client.Close()
}
