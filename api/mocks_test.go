package api

import (
	"context"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/accounts"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/service/reports"
	"github.com/stretchr/testify/mock"
)

type MockAccountUseCase struct {
	mock.Mock
}

func (m *MockAccountUseCase) Register(ctx context.Context, input accounts.RegisterInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAccountUseCase) Login(ctx context.Context, input accounts.LoginInput) (*accounts.Session, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounts.Session), args.Error(1)
}

func (m *MockAccountUseCase) Logout(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

func (m *MockAccountUseCase) Identity(ctx context.Context, sessionID string) (*domain.Identity, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) AirportOptions(ctx context.Context) (domain.AirportOptions, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.AirportOptions), args.Error(1)
}

func (m *MockFlightUseCase) LiveSearch(ctx context.Context, input flights.LiveSearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) CheckStatus(ctx context.Context, input flights.StatusInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, input flights.SearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) AgentSearch(ctx context.Context, agentEmail string, input flights.SearchInput) ([]domain.Flight, error) {
	args := m.Called(ctx, agentEmail, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) StaffFlights(ctx context.Context, airlineName string, input flights.RangeInput) ([]domain.Flight, error) {
	args := m.Called(ctx, airlineName, input)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) CreateAirport(ctx context.Context, airport domain.Airport) error {
	return m.Called(ctx, airport).Error(0)
}

func (m *MockFlightUseCase) CreateAirplane(ctx context.Context, airlineName string, input flights.AirplaneInput) (*domain.Airplane, error) {
	args := m.Called(ctx, airlineName, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airplane), args.Error(1)
}

func (m *MockFlightUseCase) Airplanes(ctx context.Context, airlineName string) ([]domain.Airplane, error) {
	args := m.Called(ctx, airlineName)
	return args.Get(0).([]domain.Airplane), args.Error(1)
}

func (m *MockFlightUseCase) CreateFlight(ctx context.Context, airlineName string, input flights.FlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, airlineName, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) AddAgent(ctx context.Context, airlineName, agentEmail string) error {
	return m.Called(ctx, airlineName, agentEmail).Error(0)
}

func (m *MockFlightUseCase) UpdateStatus(ctx context.Context, airlineName string, input flights.StatusUpdate) error {
	return m.Called(ctx, airlineName, input).Error(0)
}

type MockPurchaseUseCase struct {
	mock.Mock
}

func (m *MockPurchaseUseCase) CheckCapacity(ctx context.Context, key domain.FlightKey) (domain.Capacity, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(domain.Capacity), args.Error(1)
}

func (m *MockPurchaseUseCase) Purchase(ctx context.Context, input purchase.PurchaseInput) (*domain.Purchase, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Purchase), args.Error(1)
}

func (m *MockPurchaseUseCase) Audit(ctx context.Context, key domain.FlightKey) (*domain.Reconciliation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reconciliation), args.Error(1)
}

func (m *MockPurchaseUseCase) ReconcileAll(ctx context.Context) ([]domain.Reconciliation, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Reconciliation), args.Error(1)
}

type MockReportUseCase struct {
	mock.Mock
}

func (m *MockReportUseCase) CustomerDashboard(ctx context.Context, customerEmail string) ([]domain.PurchasedFlight, error) {
	args := m.Called(ctx, customerEmail)
	return args.Get(0).([]domain.PurchasedFlight), args.Error(1)
}

func (m *MockReportUseCase) CustomerFlights(ctx context.Context, customerEmail string, input reports.HistoryInput) ([]domain.PurchasedFlight, error) {
	args := m.Called(ctx, customerEmail, input)
	return args.Get(0).([]domain.PurchasedFlight), args.Error(1)
}

func (m *MockReportUseCase) CustomerSpending(ctx context.Context, customerEmail string, input reports.SpendingInput) (*domain.Spending, error) {
	args := m.Called(ctx, customerEmail, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Spending), args.Error(1)
}

func (m *MockReportUseCase) AgentDashboard(ctx context.Context, agentEmail string) ([]domain.PurchasedFlight, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).([]domain.PurchasedFlight), args.Error(1)
}

func (m *MockReportUseCase) AgentSales(ctx context.Context, agentEmail string, input reports.HistoryInput) ([]domain.PurchasedFlight, error) {
	args := m.Called(ctx, agentEmail, input)
	return args.Get(0).([]domain.PurchasedFlight), args.Error(1)
}

func (m *MockReportUseCase) AgentAnalytics(ctx context.Context, agentEmail string) (*domain.AgentAnalytics, error) {
	args := m.Called(ctx, agentEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AgentAnalytics), args.Error(1)
}

func (m *MockReportUseCase) Passengers(ctx context.Context, key domain.FlightKey) ([]domain.Passenger, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

func (m *MockReportUseCase) CustomerFlightsOnAirline(ctx context.Context, airlineName, customerEmail string) ([]domain.PurchasedFlight, error) {
	args := m.Called(ctx, airlineName, customerEmail)
	return args.Get(0).([]domain.PurchasedFlight), args.Error(1)
}

func (m *MockReportUseCase) StaffAnalytics(ctx context.Context, airlineName string) (*domain.StaffAnalytics, error) {
	args := m.Called(ctx, airlineName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StaffAnalytics), args.Error(1)
}
