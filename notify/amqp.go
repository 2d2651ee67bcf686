// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const relayBuffer = 256

// publisher is the subset of *amqp.Channel the relay needs.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPRelay forwards broker events to a RabbitMQ topic exchange. Routing keys
// are "election.<kind>", e.g. "election.voted".
type AMQPRelay struct {
	exchange string
	pub      publisher
	conn     *amqp.Connection
	channel  *amqp.Channel
	logger   *slog.Logger
}

// DialAMQPRelay connects to url and declares a durable topic exchange.
func DialAMQPRelay(url, exchange string, logger *slog.Logger) (*AMQPRelay, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	relay := newRelay(exchange, ch, logger)
	relay.conn = conn
	relay.channel = ch
	return relay, nil
}

func newRelay(exchange string, pub publisher, logger *slog.Logger) *AMQPRelay {
	if logger == nil {
		logger = slog.Default()
	}
	return &AMQPRelay{exchange: exchange, pub: pub, logger: logger}
}

// RoutingKey returns the topic routing key for env.
func RoutingKey(env Envelope) string {
	return "election." + string(env.Event.Kind)
}

func buildPublishing(env Envelope) (amqp.Publishing, error) {
	body, err := json.Marshal(env)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("failed to encode event %d: %w", env.Event.Seq, err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    env.ID,
		Timestamp:    env.Timestamp,
		Type:         string(env.Event.Kind),
		Body:         body,
	}, nil
}

// Forward publishes one envelope.
func (r *AMQPRelay) Forward(ctx context.Context, env Envelope) error {
	msg, err := buildPublishing(env)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := r.pub.PublishWithContext(ctx, r.exchange, RoutingKey(env), false, false, msg); err != nil {
		return fmt.Errorf("failed to publish event %d: %w", env.Event.Seq, err)
	}
	return nil
}

// Run subscribes to b and forwards events until ctx is done or the broker
// shuts down. Publish failures are logged and the event is skipped.
func (r *AMQPRelay) Run(ctx context.Context, b *Broker) {
	id, events := b.Subscribe(relayBuffer)
	defer b.Unsubscribe(id)

	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			if err := r.Forward(ctx, env); err != nil {
				r.logger.Error("failed to relay event", "error", err, "seq", env.Event.Seq)
				continue
			}
			r.logger.Debug("relayed event", "seq", env.Event.Seq, "routing_key", RoutingKey(env))
		}
	}
}

// Close releases the AMQP channel and connection, if any.
func (r *AMQPRelay) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}
