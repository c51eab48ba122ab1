package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// EventTypeHeader carries the event type so consumers can route without
// decoding the payload.
const EventTypeHeader = "event-type"

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Event is implemented by payloads that declare their own type.
type Event interface {
	EventType() string
}

func (e TicketEvent) EventType() string       { return e.Type }
func (e FlightStatusEvent) EventType() string { return e.Type }

type Producer struct {
	brokers []string
	writer  messageWriter
	backoff time.Duration
}

func NewProducer(brokers []string) *Producer {
	return &Producer{
		brokers: brokers,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           20 * time.Millisecond,
			WriteTimeout:           10 * time.Second,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		backoff: 250 * time.Millisecond,
	}
}

// Publish writes payload as JSON. Messages with the same key land on the same
// partition, so events of one flight stay ordered.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s message: %w", topic, err)
	}

	msg := kafka.Message{Topic: topic, Key: []byte(key), Value: data}
	if e, ok := payload.(Event); ok {
		msg.Headers = append(msg.Headers, kafka.Header{Key: EventTypeHeader, Value: []byte(e.EventType())})
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s message: %w", topic, err)
	}

	logger.FromContext(ctx).WithFields(logrus.Fields{"topic": topic, "key": key}).Debug("message published")
	return nil
}

// PublishWithRetry makes up to attempts tries, doubling the pause after each
// failure. It gives up early when ctx is done.
func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, attempts int) error {
	var errs []error
	wait := p.backoff
	for i := 1; i <= attempts; i++ {
		err := p.Publish(ctx, topic, key, payload)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
		logger.FromContext(ctx).WithFields(logrus.Fields{"topic": topic, "attempt": i}).WithError(err).Warn("publish failed")

		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return errors.Join(append(errs, ctx.Err())...)
		case <-time.After(wait):
		}
		wait *= 2
	}
	return fmt.Errorf("publish to %s failed after %d attempts: %w", topic, attempts, errors.Join(errs...))
}

func (p *Producer) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// CheckConnection succeeds when any configured broker answers with the
// cluster controller.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return errors.New("no kafka brokers configured")
	}
	var errs []error
	for _, broker := range p.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = conn.Controller()
		conn.Close()
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("kafka unreachable: %w", errors.Join(errs...))
}
