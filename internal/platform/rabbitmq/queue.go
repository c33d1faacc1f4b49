// Package rabbitmq provides the RabbitMQ job-queue transport, used
// when dispatcher and workers run in separate processes.
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/mtereshin/picpost-api/internal/task"
)

// Queue implements task.QueueWriter and task.QueueReader over a
// RabbitMQ queue. Jobs travel as JSON; the task ID rides both in the
// body and as the message ID so broker tooling can correlate messages
// with ledger entries.
type Queue struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	topic  string
	jobs   chan task.Job
	logger *slog.Logger
}

// New dials the broker, opens a channel and declares the durable job
// queue.
func New(url, topic string, bufferSize int, logger *slog.Logger) (*Queue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	if _, err := ch.QueueDeclare(topic, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", topic, err)
	}

	return &Queue{
		conn:   conn,
		ch:     ch,
		topic:  topic,
		jobs:   make(chan task.Job, bufferSize),
		logger: logger,
	}, nil
}

var (
	_ task.QueueWriter = (*Queue)(nil)
	_ task.QueueReader = (*Queue)(nil)
)

// Enqueue implements task.QueueWriter.Enqueue.
func (q *Queue) Enqueue(ctx context.Context, job task.Job) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}

	err = q.ch.PublishWithContext(ctx, "", q.topic, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    job.TaskID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish job: %w", err)
	}

	q.logger.Debug("job published",
		"task_id", job.TaskID,
		"owner_id", job.OwnerID,
		"queue", q.topic)
	return nil
}

// StartConsumer begins delivering broker messages onto the Jobs
// channel. It returns after the consumer goroutine is running; the
// goroutine exits when the broker channel closes or ctx is cancelled.
func (q *Queue) StartConsumer(ctx context.Context) error {
	deliveries, err := q.ch.Consume(q.topic, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consumer on %s: %w", q.topic, err)
	}

	go func() {
		defer close(q.jobs)

		for {
			select {
			case <-ctx.Done():
				return

			case delivery, ok := <-deliveries:
				if !ok {
					q.logger.Info("broker delivery channel closed")
					return
				}

				var job task.Job
				if err := json.Unmarshal(delivery.Body, &job); err != nil {
					q.logger.Error("discarding undecodable job message",
						"message_id", delivery.MessageId,
						"error", err)
					_ = delivery.Nack(false, false)
					continue
				}

				q.jobs <- job
				_ = delivery.Ack(false)
			}
		}
	}()

	return nil
}

// Jobs implements task.QueueReader.Jobs.
func (q *Queue) Jobs() <-chan task.Job {
	return q.jobs
}

// Close implements task.QueueWriter.Close.
func (q *Queue) Close() error {
	if err := q.ch.Close(); err != nil {
		_ = q.conn.Close()
		return fmt.Errorf("failed to close channel: %w", err)
	}
	if err := q.conn.Close(); err != nil {
		return fmt.Errorf("failed to close connection: %w", err)
	}
	return nil
}
