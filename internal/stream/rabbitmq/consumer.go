// Package rabbitmq subscribes to content events published on a RabbitMQ topic exchange.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dtroode/admissions-server/internal/logger"
	"github.com/dtroode/admissions-server/internal/model"
)

var _ model.ContentStream = (*Consumer)(nil)

const defaultParallelism = 8

// Consumer delivers content events to a handler. Deliveries are acknowledged
// when taken for handling, so an event whose handling fails is not redelivered.
// The broker keeps at most parallelism unacknowledged deliveries in flight.
type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	queue       string
	parallelism int
	logger      *logger.Logger
}

// NewConsumer connects to the broker and declares the exchange, the queue and its bindings.
func NewConsumer(url, exchange, queue string, parallelism int, logger *logger.Logger) (*Consumer, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declareTopology(ch, exchange, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	if err := ch.Qos(parallelism, 0, false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to set prefetch: %w", err)
	}

	return &Consumer{
		conn:        conn,
		channel:     ch,
		queue:       queue,
		parallelism: parallelism,
		logger:      logger,
	}, nil
}

func declareTopology(ch *amqp.Channel, exchange, queue string) error {
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	for _, key := range []string{RoutingKeyContentCreated, RoutingKeyAnnouncementCreated} {
		if err := ch.QueueBind(queue, key, exchange, false, nil); err != nil {
			return fmt.Errorf("failed to bind queue to %s: %w", key, err)
		}
	}
	return nil
}

// Subscribe consumes until ctx is done or the broker closes the channel.
func (c *Consumer) Subscribe(ctx context.Context, handler model.ContentHandler) error {
	deliveries, err := c.channel.ConsumeWithContext(ctx, c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	c.logger.Info("RabbitMQ consumer: subscribed",
		"queue", c.queue)

	return c.consume(ctx, deliveries, handler)
}

// consume waits for a free handler slot before taking the next delivery, so
// ctx is observed even when every slot is busy.
func (c *Consumer) consume(ctx context.Context, deliveries <-chan amqp.Delivery, handler model.ContentHandler) error {
	sem := semaphore.NewWeighted(int64(c.parallelism))
	var g errgroup.Group
	defer func() { _ = g.Wait() }()

	for {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil
		}
		if ctx.Err() != nil {
			sem.Release(1)
			return nil
		}

		select {
		case <-ctx.Done():
			sem.Release(1)
			return nil
		case d, ok := <-deliveries:
			if !ok {
				sem.Release(1)
				if ctx.Err() != nil {
					return nil
				}
				return errors.New("delivery channel closed by broker")
			}
			if err := d.Ack(false); err != nil {
				c.logger.Error("RabbitMQ consumer: failed to ack delivery",
					"message_id", d.MessageId,
					"error", err.Error())
			}
			g.Go(func() error {
				defer sem.Release(1)
				dispatch(ctx, handler, d, c.logger)
				return nil
			})
		}
	}
}

// Close closes the channel and the connection.
func (c *Consumer) Close() error {
	return errors.Join(c.channel.Close(), c.conn.Close())
}

// Ping reports whether the broker connection is open.
func (c *Consumer) Ping(context.Context) error {
	if c.conn.IsClosed() {
		return errors.New("rabbitmq connection is closed")
	}
	return nil
}

func dispatch(ctx context.Context, handler model.ContentHandler, d amqp.Delivery, logger *logger.Logger) {
	switch d.RoutingKey {
	case RoutingKeyContentCreated:
		var msg ContentCreatedMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			logger.Error("RabbitMQ consumer: malformed content event",
				"message_id", d.MessageId,
				"error", err.Error())
			return
		}
		handler.HandleContentCreated(ctx, msg.toEvent())
	case RoutingKeyAnnouncementCreated:
		var msg AnnouncementMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			logger.Error("RabbitMQ consumer: malformed announcement event",
				"message_id", d.MessageId,
				"error", err.Error())
			return
		}
		handler.HandleAnnouncementCreated(ctx, msg.toAnnouncement())
	default:
		logger.Warn("RabbitMQ consumer: unexpected routing key",
			"routing_key", d.RoutingKey)
	}
}
