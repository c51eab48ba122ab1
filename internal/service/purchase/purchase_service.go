package purchase

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type PurchaseUseCase interface {
	CheckCapacity(ctx context.Context, key domain.FlightKey) (domain.Capacity, error)
	Purchase(ctx context.Context, input PurchaseInput) (*domain.Purchase, error)
	Audit(ctx context.Context, key domain.FlightKey) (*domain.Reconciliation, error)
	ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PurchaseInput is a request to sell one ticket. AgentEmail is empty for a
// customer buying for themselves.
type PurchaseInput struct {
	CustomerEmail string `json:"customer_email"`
	AgentEmail    string `json:"agent_email,omitempty"`
	AirlineName   string `json:"airline_name"`
	FlightNumber  string `json:"flight_number"`
}

type PurchaseService struct {
	purchases    repository.PurchaseRepository
	flights      repository.FlightRepository
	producer     Producer
	ticketsTopic string
	now          func() time.Time
	newTicketID  func() string
}

type PurchaseServiceOption func(*PurchaseService)

func WithClock(now func() time.Time) PurchaseServiceOption {
	return func(s *PurchaseService) {
		s.now = now
	}
}

func WithTicketIDs(next func() string) PurchaseServiceOption {
	return func(s *PurchaseService) {
		s.newTicketID = next
	}
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	flights repository.FlightRepository,
	producer Producer,
	ticketsTopic string,
	opts ...PurchaseServiceOption,
) *PurchaseService {
	service := &PurchaseService{
		purchases:    purchases,
		flights:      flights,
		producer:     producer,
		ticketsTopic: ticketsTopic,
		now:          time.Now,
		newTicketID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *PurchaseService) CheckCapacity(ctx context.Context, key domain.FlightKey) (domain.Capacity, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return domain.Capacity{}, err
	}
	return s.flights.Capacity(ctx, key)
}

// Purchase validates the input and hands it to the repository, which checks
// the remaining preconditions and writes the sale atomically.
func (s *PurchaseService) Purchase(ctx context.Context, input PurchaseInput) (*domain.Purchase, error) {
	input.CustomerEmail = strings.TrimSpace(input.CustomerEmail)
	input.AgentEmail = strings.TrimSpace(input.AgentEmail)
	if input.CustomerEmail == "" {
		return nil, domain.Invalid("customer email is required")
	}
	key, err := normalizeKey(domain.FlightKey{AirlineName: input.AirlineName, FlightNumber: input.FlightNumber})
	if err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx).WithFields(logrus.Fields{
		"airline":  key.AirlineName,
		"flight":   key.FlightNumber,
		"customer": input.CustomerEmail,
		"agent":    input.AgentEmail,
	})

	purchase, err := s.purchases.Purchase(ctx, repository.PurchaseOrder{
		TicketID:      s.newTicketID(),
		CustomerEmail: input.CustomerEmail,
		AgentEmail:    input.AgentEmail,
		Flight:        key,
		PurchasedAt:   s.now().UTC(),
	})
	if err != nil {
		log.WithError(err).Info("purchase rejected")
		return nil, err
	}

	log.WithFields(logrus.Fields{"ticket": purchase.Ticket.ID, "remaining_seats": purchase.RemainingSeats}).Info("ticket purchased")
	if err := s.publish(ctx, purchase); err != nil {
		log.WithError(err).Warn("failed to publish ticket_purchased event")
	}
	return purchase, nil
}

func (s *PurchaseService) Audit(ctx context.Context, key domain.FlightKey) (*domain.Reconciliation, error) {
	key, err := normalizeKey(key)
	if err != nil {
		return nil, err
	}
	return s.flights.Reconcile(ctx, key)
}

// ReconcileAll reports flights whose seat counter drifted from the ticket
// count. Nothing is corrected automatically.
func (s *PurchaseService) ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error) {
	drifted, err := s.flights.ReconcileAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range drifted {
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"airline":         rec.AirlineName,
			"flight":          rec.FlightNumber,
			"derived_seats":   rec.DerivedSeats,
			"remaining_seats": rec.RemainingSeats,
		}).Warn("seat counter drift")
	}
	return drifted, nil
}

func (s *PurchaseService) publish(ctx context.Context, p *domain.Purchase) error {
	if s.producer == nil || s.ticketsTopic == "" {
		return nil
	}
	event := kafka.TicketEvent{
		Type:           kafka.EventTicketPurchased,
		TicketID:       p.Ticket.ID,
		AirlineName:    p.Ticket.AirlineName,
		FlightNumber:   p.Ticket.FlightNumber,
		CustomerEmail:  p.CustomerEmail,
		AgentEmail:     p.AgentEmail,
		PriceCents:     p.Ticket.PriceCents,
		RemainingSeats: p.RemainingSeats,
		PurchasedAt:    p.PurchasedAt,
	}
	return s.producer.Publish(ctx, s.ticketsTopic, p.Ticket.AirlineName+"/"+p.Ticket.FlightNumber, event)
}

func normalizeKey(key domain.FlightKey) (domain.FlightKey, error) {
	key.AirlineName = strings.TrimSpace(key.AirlineName)
	key.FlightNumber = strings.TrimSpace(key.FlightNumber)
	if key.AirlineName == "" || key.FlightNumber == "" {
		return key, domain.Invalid("airline name and flight number are required")
	}
	return key, nil
}

var _ PurchaseUseCase = (*PurchaseService)(nil)
