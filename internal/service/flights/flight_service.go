package flights

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/sirupsen/logrus"
)

type FlightUseCase interface {
	AirportOptions(ctx context.Context) (domain.AirportOptions, error)
	LiveSearch(ctx context.Context, input LiveSearchInput) ([]domain.Flight, error)
	CheckStatus(ctx context.Context, input StatusInput) ([]domain.Flight, error)
	Search(ctx context.Context, input SearchInput) ([]domain.Flight, error)
	AgentSearch(ctx context.Context, agentEmail string, input SearchInput) ([]domain.Flight, error)
	StaffFlights(ctx context.Context, airlineName string, input RangeInput) ([]domain.Flight, error)

	CreateAirport(ctx context.Context, airport domain.Airport) error
	CreateAirplane(ctx context.Context, airlineName string, input AirplaneInput) (*domain.Airplane, error)
	Airplanes(ctx context.Context, airlineName string) ([]domain.Airplane, error)
	CreateFlight(ctx context.Context, airlineName string, input FlightInput) (*domain.Flight, error)
	AddAgent(ctx context.Context, airlineName, agentEmail string) error
	UpdateStatus(ctx context.Context, airlineName string, input StatusUpdate) error
}

// FlightCache stores public listings. Implementations return nil on a miss.
type FlightCache interface {
	GetAirportOptions(ctx context.Context) (*domain.AirportOptions, error)
	SetAirportOptions(ctx context.Context, opts domain.AirportOptions) error
	GetLiveSearch(ctx context.Context, origin, destination, date string) ([]domain.Flight, bool, error)
	SetLiveSearch(ctx context.Context, origin, destination, date string, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// PassengerLister resolves who to notify about a status change.
type PassengerLister interface {
	Passengers(ctx context.Context, key domain.FlightKey) ([]domain.Passenger, error)
}

type FlightService struct {
	flights         repository.FlightRepository
	fleet           repository.FleetRepository
	accounts        repository.AccountRepository
	cache           FlightCache
	producer        Producer
	passengers      PassengerLister
	flightsTopic    string
	liveSearchLimit uint64
	statusLimit     uint64
	location        *time.Location
	now             func() time.Time
}

type FlightServiceOption func(*FlightService)

func WithCache(cache FlightCache) FlightServiceOption {
	return func(s *FlightService) {
		s.cache = cache
	}
}

// WithStatusEvents publishes flight_status_changed events to topic.
func WithStatusEvents(producer Producer, topic string, passengers PassengerLister) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.flightsTopic = topic
		s.passengers = passengers
	}
}

func WithLimits(liveSearch, status int) FlightServiceOption {
	return func(s *FlightService) {
		if liveSearch > 0 {
			s.liveSearchLimit = uint64(liveSearch)
		}
		if status > 0 {
			s.statusLimit = uint64(status)
		}
	}
}

func WithClock(now func() time.Time) FlightServiceOption {
	return func(s *FlightService) {
		s.now = now
	}
}

func NewFlightService(
	flights repository.FlightRepository,
	fleet repository.FleetRepository,
	accounts repository.AccountRepository,
	opts ...FlightServiceOption,
) *FlightService {
	service := &FlightService{
		flights:         flights,
		fleet:           fleet,
		accounts:        accounts,
		liveSearchLimit: 50,
		statusLimit:     20,
		location:        time.UTC,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *FlightService) AirportOptions(ctx context.Context) (domain.AirportOptions, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetAirportOptions(ctx); err == nil && cached != nil {
			return *cached, nil
		}
	}

	opts, err := s.flights.AirportOptions(ctx, s.now())
	if err != nil {
		return domain.AirportOptions{}, err
	}
	if s.cache != nil {
		if err := s.cache.SetAirportOptions(ctx, opts); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("cache airport options")
		}
	}
	return opts, nil
}

func (s *FlightService) LiveSearch(ctx context.Context, input LiveSearchInput) ([]domain.Flight, error) {
	origin := strings.TrimSpace(input.Origin)
	destination := strings.TrimSpace(input.Destination)
	date, err := ParseDate(input.Date, s.location)
	if err != nil {
		return nil, err
	}
	dateKey := strings.TrimSpace(input.Date)

	if s.cache != nil {
		if cached, hit, err := s.cache.GetLiveSearch(ctx, origin, destination, dateKey); err == nil && hit {
			return cached, nil
		}
	}

	flights, err := s.flights.LiveSearch(ctx, repository.LiveSearchQuery{
		Origin:      origin,
		Destination: destination,
		Date:        date,
		Now:         s.now(),
		Limit:       s.liveSearchLimit,
	})
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetLiveSearch(ctx, origin, destination, dateKey, flights); err != nil {
			logger.FromContext(ctx).WithError(err).Warn("cache live search")
		}
	}
	return flights, nil
}

// CheckStatus lists in-progress and delayed flights. It is never cached.
func (s *FlightService) CheckStatus(ctx context.Context, input StatusInput) ([]domain.Flight, error) {
	date, err := ParseDate(input.Date, s.location)
	if err != nil {
		return nil, err
	}
	return s.flights.StatusBoard(ctx, repository.StatusQuery{
		AirlineName:  strings.TrimSpace(input.Airline),
		FlightNumber: strings.TrimSpace(input.FlightNumber),
		Date:         date,
		Limit:        s.statusLimit,
	})
}

func (s *FlightService) Search(ctx context.Context, input SearchInput) ([]domain.Flight, error) {
	filter, err := s.searchFilter(input)
	if err != nil {
		return nil, err
	}
	return s.flights.Search(ctx, filter)
}

// AgentSearch only returns flights of airlines the agent works with.
func (s *FlightService) AgentSearch(ctx context.Context, agentEmail string, input SearchInput) ([]domain.Flight, error) {
	filter, err := s.searchFilter(input)
	if err != nil {
		return nil, err
	}
	airlines, err := s.accounts.AgentAirlines(ctx, agentEmail)
	if err != nil {
		return nil, err
	}
	if len(airlines) == 0 {
		return nil, domain.Invalid("you are not associated with any airline")
	}
	filter.AirlineNames = airlines
	return s.flights.Search(ctx, filter)
}

func (s *FlightService) searchFilter(input SearchInput) (domain.FlightFilter, error) {
	if strings.TrimSpace(input.Date) == "" {
		return domain.FlightFilter{}, domain.Invalid("date is required")
	}
	date, err := ParseDate(input.Date, s.location)
	if err != nil {
		return domain.FlightFilter{}, err
	}
	return domain.FlightFilter{
		Origin:      strings.TrimSpace(input.Origin),
		Destination: strings.TrimSpace(input.Destination),
		Date:        date,
		Status:      []domain.FlightStatus{domain.FlightStatusUpcoming},
	}, nil
}

// StaffFlights lists the airline's flights. Without a date range it covers
// the next 30 days.
func (s *FlightService) StaffFlights(ctx context.Context, airlineName string, input RangeInput) ([]domain.Flight, error) {
	start, err := ParseDate(input.StartDate, s.location)
	if err != nil {
		return nil, err
	}
	end, err := ParseDate(input.EndDate, s.location)
	if err != nil {
		return nil, err
	}

	filter := domain.FlightFilter{
		AirlineNames: []string{airlineName},
		Origin:       strings.TrimSpace(input.Origin),
		Destination:  strings.TrimSpace(input.Destination),
	}
	if start == nil && end == nil {
		now := s.now()
		until := now.AddDate(0, 0, 30)
		filter.From, filter.To = &now, &until
	} else {
		filter.From = start
		if end != nil {
			next := end.AddDate(0, 0, 1)
			filter.To = &next
		}
	}
	return s.flights.Search(ctx, filter)
}

func (s *FlightService) CreateAirport(ctx context.Context, airport domain.Airport) error {
	airport.Name = strings.TrimSpace(airport.Name)
	airport.City = strings.TrimSpace(airport.City)
	if airport.Name == "" || airport.City == "" {
		return domain.Invalid("name and city are required")
	}
	return s.fleet.CreateAirport(ctx, airport)
}

func (s *FlightService) CreateAirplane(ctx context.Context, airlineName string, input AirplaneInput) (*domain.Airplane, error) {
	id := strings.TrimSpace(input.AirplaneID)
	seats := strings.TrimSpace(input.SeatCapacity)
	if id == "" || seats == "" {
		return nil, domain.Invalid("airplane ID and seat capacity are required")
	}
	capacity, err := strconv.Atoi(seats)
	if err != nil || capacity <= 0 {
		return nil, domain.Invalid("seat capacity must be a positive number")
	}

	airplane := domain.Airplane{AirlineName: airlineName, AirplaneID: id, SeatCapacity: capacity}
	if err := s.fleet.CreateAirplane(ctx, airplane); err != nil {
		return nil, err
	}
	return &airplane, nil
}

func (s *FlightService) Airplanes(ctx context.Context, airlineName string) ([]domain.Airplane, error) {
	return s.fleet.ListAirplanes(ctx, airlineName)
}

func (s *FlightService) CreateFlight(ctx context.Context, airlineName string, input FlightInput) (*domain.Flight, error) {
	fields := []string{input.FlightNumber, input.DepartureAirport, input.ArrivalAirport, input.DepartureTime, input.ArrivalTime, input.Price, input.AirplaneAssigned}
	for _, f := range fields {
		if strings.TrimSpace(f) == "" {
			return nil, domain.Invalid("all fields are required")
		}
	}

	departure, err := parseDateTime(strings.TrimSpace(input.DepartureTime), s.location)
	if err != nil {
		return nil, err
	}
	arrival, err := parseDateTime(strings.TrimSpace(input.ArrivalTime), s.location)
	if err != nil {
		return nil, err
	}
	if !arrival.After(departure) {
		return nil, domain.Invalid("arrival time must be after departure time")
	}
	price, err := ParsePriceCents(input.Price)
	if err != nil {
		return nil, err
	}
	status := domain.FlightStatus(strings.TrimSpace(input.Status))
	if status == "" {
		status = domain.FlightStatusUpcoming
	}
	if !status.Valid() {
		return nil, domain.Invalid("unknown flight status")
	}

	created, err := s.flights.Create(ctx, domain.Flight{
		AirlineName:      airlineName,
		FlightNumber:     strings.TrimSpace(input.FlightNumber),
		DepartureAirport: strings.TrimSpace(input.DepartureAirport),
		DepartureTime:    departure,
		ArrivalAirport:   strings.TrimSpace(input.ArrivalAirport),
		ArrivalTime:      arrival,
		PriceCents:       price,
		Status:           status,
		AirplaneID:       strings.TrimSpace(input.AirplaneAssigned),
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return created, nil
}

func (s *FlightService) AddAgent(ctx context.Context, airlineName, agentEmail string) error {
	agentEmail = strings.TrimSpace(agentEmail)
	if agentEmail == "" {
		return domain.Invalid("agent email is required")
	}
	return s.accounts.AddAffiliation(ctx, agentEmail, airlineName)
}

// UpdateStatus changes the status of one of the airline's flights and tells
// its passengers.
func (s *FlightService) UpdateStatus(ctx context.Context, airlineName string, input StatusUpdate) error {
	key := domain.FlightKey{AirlineName: airlineName, FlightNumber: strings.TrimSpace(input.FlightNumber)}
	status := domain.FlightStatus(strings.TrimSpace(input.Status))
	if key.FlightNumber == "" || status == "" {
		return domain.Invalid("flight number and status are required")
	}
	if !status.Valid() {
		return domain.Invalid("unknown flight status")
	}

	if err := s.flights.UpdateStatus(ctx, key, status); err != nil {
		return err
	}
	s.invalidate(ctx)

	log := logger.FromContext(ctx).WithFields(logrus.Fields{"airline": key.AirlineName, "flight": key.FlightNumber, "status": status})
	log.Info("flight status updated")
	if err := s.publishStatus(ctx, key, status); err != nil {
		log.WithError(err).Warn("failed to publish flight_status_changed event")
	}
	return nil
}

func (s *FlightService) publishStatus(ctx context.Context, key domain.FlightKey, status domain.FlightStatus) error {
	if s.producer == nil || s.flightsTopic == "" {
		return nil
	}
	event := kafka.FlightStatusEvent{
		Type:         kafka.EventFlightStatusChanged,
		AirlineName:  key.AirlineName,
		FlightNumber: key.FlightNumber,
		Status:       string(status),
		ChangedAt:    s.now().UTC(),
	}
	if s.passengers != nil {
		passengers, err := s.passengers.Passengers(ctx, key)
		if err != nil {
			return err
		}
		seen := make(map[string]bool, len(passengers))
		for _, p := range passengers {
			if !seen[p.Email] {
				seen[p.Email] = true
				event.Passengers = append(event.Passengers, p.Email)
			}
		}
	}
	return s.producer.Publish(ctx, s.flightsTopic, key.AirlineName+"/"+key.FlightNumber, event)
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		logger.FromContext(ctx).WithError(err).Warn("invalidate flight cache")
	}
}

var _ FlightUseCase = (*FlightService)(nil)
