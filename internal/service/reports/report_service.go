package reports

import (
	"context"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"golang.org/x/sync/errgroup"
)

const (
	agentRecentSales = 20
	topN             = 5
)

type ReportUseCase interface {
	CustomerDashboard(ctx context.Context, customerEmail string) ([]domain.PurchasedFlight, error)
	CustomerFlights(ctx context.Context, customerEmail string, input HistoryInput) ([]domain.PurchasedFlight, error)
	CustomerSpending(ctx context.Context, customerEmail string, input SpendingInput) (*domain.Spending, error)

	AgentDashboard(ctx context.Context, agentEmail string) ([]domain.PurchasedFlight, error)
	AgentSales(ctx context.Context, agentEmail string, input HistoryInput) ([]domain.PurchasedFlight, error)
	AgentAnalytics(ctx context.Context, agentEmail string) (*domain.AgentAnalytics, error)

	Passengers(ctx context.Context, key domain.FlightKey) ([]domain.Passenger, error)
	CustomerFlightsOnAirline(ctx context.Context, airlineName, customerEmail string) ([]domain.PurchasedFlight, error)
	StaffAnalytics(ctx context.Context, airlineName string) (*domain.StaffAnalytics, error)
}

type HistoryInput struct {
	StartDate   string `form:"start_date" json:"start_date"`
	EndDate     string `form:"end_date" json:"end_date"`
	Origin      string `form:"origin" json:"origin"`
	Destination string `form:"destination" json:"destination"`
}

// SpendingInput selects an inclusive day range. Both empty means the last year.
type SpendingInput struct {
	StartDate string `form:"start_date" json:"start_date"`
	EndDate   string `form:"end_date" json:"end_date"`
}

type ReportService struct {
	reports repository.ReportRepository
	now     func() time.Time
}

func NewReportService(reports repository.ReportRepository, now func() time.Time) *ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportService{reports: reports, now: now}
}

func (s *ReportService) CustomerDashboard(ctx context.Context, customerEmail string) ([]domain.PurchasedFlight, error) {
	return s.reports.CustomerUpcoming(ctx, customerEmail, s.now())
}

func (s *ReportService) CustomerFlights(ctx context.Context, customerEmail string, input HistoryInput) ([]domain.PurchasedFlight, error) {
	filter, err := historyFilter(input)
	if err != nil {
		return nil, err
	}
	return s.reports.CustomerFlights(ctx, customerEmail, filter)
}

func (s *ReportService) CustomerSpending(ctx context.Context, customerEmail string, input SpendingInput) (*domain.Spending, error) {
	today := truncateDay(s.now())
	from, to := today.AddDate(0, 0, -365), today
	if input.StartDate != "" || input.EndDate != "" {
		start, err := parseDay(input.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDay(input.EndDate)
		if err != nil {
			return nil, err
		}
		if start == nil || end == nil {
			return nil, domain.Invalid("start and end date are required")
		}
		if end.Before(*start) {
			return nil, domain.Invalid("end date must not be before start date")
		}
		from, to = *start, *end
	}

	total, months, err := s.reports.CustomerSpending(ctx, customerEmail, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}
	return &domain.Spending{From: from, To: to, TotalCents: total, ByMonth: months}, nil
}

func (s *ReportService) AgentDashboard(ctx context.Context, agentEmail string) ([]domain.PurchasedFlight, error) {
	return s.reports.AgentRecentSales(ctx, agentEmail, agentRecentSales)
}

func (s *ReportService) AgentSales(ctx context.Context, agentEmail string, input HistoryInput) ([]domain.PurchasedFlight, error) {
	filter, err := historyFilter(input)
	if err != nil {
		return nil, err
	}
	return s.reports.AgentSales(ctx, agentEmail, filter)
}

// AgentAnalytics covers commission over the last 30 days, top customers by
// tickets over 6 months and by commission over a year.
func (s *ReportService) AgentAnalytics(ctx context.Context, agentEmail string) (*domain.AgentAnalytics, error) {
	now := s.now()
	out := &domain.AgentAnalytics{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.TotalCommissionCents, out.AverageCommissionCents, out.TicketCount, err = s.reports.AgentCommission(gctx, agentEmail, now.AddDate(0, 0, -30))
		return err
	})
	g.Go(func() error {
		var err error
		out.TopByTickets, err = s.reports.AgentTopCustomersByTickets(gctx, agentEmail, now.AddDate(0, -6, 0), topN)
		return err
	})
	g.Go(func() error {
		var err error
		out.TopByCommission, err = s.reports.AgentTopCustomersByCommission(gctx, agentEmail, now.AddDate(-1, 0, 0), topN)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReportService) Passengers(ctx context.Context, key domain.FlightKey) ([]domain.Passenger, error) {
	key.AirlineName = strings.TrimSpace(key.AirlineName)
	key.FlightNumber = strings.TrimSpace(key.FlightNumber)
	if key.AirlineName == "" || key.FlightNumber == "" {
		return nil, domain.Invalid("airline and flight number are required")
	}
	return s.reports.Passengers(ctx, key)
}

func (s *ReportService) CustomerFlightsOnAirline(ctx context.Context, airlineName, customerEmail string) ([]domain.PurchasedFlight, error) {
	customerEmail = strings.TrimSpace(customerEmail)
	if customerEmail == "" {
		return nil, domain.Invalid("customer email required")
	}
	return s.reports.CustomerFlightsOnAirline(ctx, airlineName, customerEmail)
}

func (s *ReportService) StaffAnalytics(ctx context.Context, airlineName string) (*domain.StaffAnalytics, error) {
	now := s.now()
	monthAgo, yearAgo := now.AddDate(0, -1, 0), now.AddDate(-1, 0, 0)
	out := &domain.StaffAnalytics{AirlineName: airlineName}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.TopAgentsMonth, err = s.reports.TopAgents(gctx, airlineName, monthAgo, topN)
		return err
	})
	g.Go(func() (err error) {
		out.TopAgentsYear, err = s.reports.TopAgents(gctx, airlineName, yearAgo, topN)
		return err
	})
	g.Go(func() (err error) {
		out.MostFrequentCustomer, err = s.reports.MostFrequentCustomer(gctx, airlineName, yearAgo)
		return err
	})
	g.Go(func() (err error) {
		out.TicketsByMonth, err = s.reports.TicketsByMonth(gctx, airlineName)
		return err
	})
	g.Go(func() (err error) {
		out.StatusCounts, err = s.reports.StatusCounts(gctx, airlineName)
		return err
	})
	g.Go(func() (err error) {
		out.TopDestinations3M, err = s.reports.TopDestinations(gctx, airlineName, now.AddDate(0, -3, 0), topN)
		return err
	})
	g.Go(func() (err error) {
		out.TopDestinations1Y, err = s.reports.TopDestinations(gctx, airlineName, yearAgo, topN)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func historyFilter(input HistoryInput) (domain.HistoryFilter, error) {
	from, err := parseDay(input.StartDate)
	if err != nil {
		return domain.HistoryFilter{}, err
	}
	to, err := parseDay(input.EndDate)
	if err != nil {
		return domain.HistoryFilter{}, err
	}
	return domain.HistoryFilter{
		From:        from,
		To:          to,
		Origin:      strings.TrimSpace(input.Origin),
		Destination: strings.TrimSpace(input.Destination),
	}, nil
}

func parseDay(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, domain.Invalid("invalid date " + value + ", expected YYYY-MM-DD")
	}
	return &t, nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

var _ ReportUseCase = (*ReportService)(nil)
