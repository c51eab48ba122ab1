package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/airline-booking/internal/email"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

const publishRetries = 3

type Sender interface {
	Send(ctx context.Context, n email.Notification) (email.Notification, error)
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, maxRetries int) error
}

// Notifier turns ticket and flight events into emails and records every
// delivered notification on the notifications topic.
type Notifier struct {
	sender   Sender
	producer Producer
	topic    string
}

func NewNotifier(sender Sender, producer Producer, topic string) *Notifier {
	return &Notifier{sender: sender, producer: producer, topic: topic}
}

func (n *Notifier) Handle(ctx context.Context, msg kafkago.Message) error {
	event, err := kafka.DecodeEvent(msg.Value)
	if err != nil {
		return err
	}

	var notifications []email.Notification
	switch e := event.(type) {
	case *kafka.TicketEvent:
		notifications = email.TicketNotifications(e)
	case *kafka.FlightStatusEvent:
		notifications = email.FlightStatusNotifications(e)
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{"topic": msg.Topic, "offset": msg.Offset})
	var errs []error
	for _, note := range notifications {
		sent, err := n.sender.Send(ctx, note)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := n.producer.PublishWithRetry(ctx, n.topic, sent.To, sent, publishRetries); err != nil {
			errs = append(errs, fmt.Errorf("record notification for %s: %w", sent.To, err))
		}
	}
	log.WithField("notifications", len(notifications)).Debug("event handled")
	return errors.Join(errs...)
}

// RunReconciler audits every flight's seat counter each interval until ctx
// is cancelled. Drift is logged, never corrected.
func RunReconciler(ctx context.Context, purchases purchase.PurchaseUseCase, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			Reconcile(ctx, purchases)
		}
	}
}

// Reconcile runs one sweep and returns the number of drifted flights.
func Reconcile(ctx context.Context, purchases purchase.PurchaseUseCase) int {
	drifted, err := purchases.ReconcileAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("reconcile seat counters")
		return 0
	}
	if len(drifted) > 0 {
		logrus.WithField("flights", len(drifted)).Warn("seat counters drifted")
	}
	return len(drifted)
}
