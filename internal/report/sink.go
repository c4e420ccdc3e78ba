package report

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/techvote/techvote/internal/config"
	"github.com/techvote/techvote/internal/models"
)

// Sink receives frozen reports. Send must not retain r after returning.
type Sink interface {
	Send(ctx context.Context, r *models.Report) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc func(ctx context.Context, r *models.Report) error

// Send calls fn(ctx, r).
func (fn SinkFunc) Send(ctx context.Context, r *models.Report) error {
	return fn(ctx, r)
}

// LogSink writes each report to the application log. It never fails.
type LogSink struct{}

// Send logs the report.
func (LogSink) Send(_ context.Context, r *models.Report) error {
	log.Info().
		Str("report_id", r.ID).
		Str("division", r.Division).
		Str("district", r.District).
		Str("seat", r.Seat).
		Str("role", r.ReporterRole).
		Str("category", r.Category).
		Bool("has_media", r.HasMedia).
		Msg("Incident report received")
	return nil
}

// AMQPSink publishes reports as persistent JSON messages on a durable queue.
type AMQPSink struct {
	url   string
	queue string

	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewAMQPSink connects to the broker and declares the queue.
func NewAMQPSink(url, queue string) (*AMQPSink, error) {
	s := &AMQPSink{url: url, queue: queue}
	if err := s.connect(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AMQPSink) connect() error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return fmt.Errorf("failed to connect to broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		s.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return fmt.Errorf("failed to declare queue %s: %w", s.queue, err)
	}

	s.conn = conn
	s.channel = ch
	log.Info().Str("queue", s.queue).Msg("Report sink connected to broker")
	return nil
}

// Send publishes r. A broken connection is re-established once per call.
func (s *AMQPSink) Send(ctx context.Context, r *models.Report) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conn == nil || s.conn.IsClosed() {
		if err := s.connect(); err != nil {
			return err
		}
	}

	err = s.channel.PublishWithContext(
		ctx,
		"",      // default exchange
		s.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			MessageId:    r.ID,
		},
	)
	if err != nil {
		s.closeLocked()
		return fmt.Errorf("failed to publish report: %w", err)
	}
	return nil
}

// Close shuts down the channel and connection.
func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closeLocked()
}

func (s *AMQPSink) closeLocked() error {
	var err error
	if s.channel != nil {
		s.channel.Close()
		s.channel = nil
	}
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	return err
}

// NewSink builds the sink selected by configuration.
func NewSink(cfg config.ReportsConfig) (Sink, error) {
	switch cfg.Sink {
	case "", "log":
		return LogSink{}, nil
	case "amqp":
		return NewAMQPSink(cfg.AMQPURL, cfg.AMQPQueue)
	default:
		return nil, fmt.Errorf("unsupported report sink: %s", cfg.Sink)
	}
}
