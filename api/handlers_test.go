package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/accounts"
	"github.com/Domenick1991/airline-booking/internal/service/flights"
	"github.com/Domenick1991/airline-booking/internal/service/purchase"
	"github.com/Domenick1991/airline-booking/internal/service/reports"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	customer = &domain.Identity{Role: domain.RoleCustomer, UserID: "alice@example.com", DisplayName: "Alice"}
	agent    = &domain.Identity{Role: domain.RoleAgent, UserID: "agent@example.com", DisplayName: "agent@example.com"}
	staff    = &domain.Identity{Role: domain.RoleStaff, UserID: "admin", DisplayName: "Ada Lee", AirlineName: "China Eastern",
		Permissions: []domain.Permission{domain.PermissionAdmin, domain.PermissionOperator}}
)

func newContext(method, path, body string, identity *domain.Identity) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if body != "" {
		c.Request = httptest.NewRequest(method, path, strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
	} else {
		c.Request = httptest.NewRequest(method, path, nil)
	}
	if identity != nil {
		c.Set(identityKey, identity)
	}
	return c, w
}

func TestCustomerHandler_purchase(t *testing.T) {
	purchases := &MockPurchaseUseCase{}
	handler := NewCustomerHandler(&MockFlightUseCase{}, purchases, &MockReportUseCase{})

	c, w := newContext(http.MethodPost, "/customer/purchase", `{"airline_name":"China Eastern","flight_number":"MU101","customer_email":"mallory@example.com"}`, customer)
	input := purchase.PurchaseInput{CustomerEmail: "alice@example.com", AirlineName: "China Eastern", FlightNumber: "MU101"}
	purchases.On("Purchase", mock.Anything, input).Return(&domain.Purchase{
		Ticket:        domain.Ticket{ID: "t-1", PriceCents: 25000, Status: domain.TicketStatusConfirmed},
		CustomerEmail: "alice@example.com",
		PurchasedAt:   time.Now(),
	}, nil).Once()

	handler.purchase(c)

	require.Equal(t, http.StatusOK, w.Code)
	out := decodeOutcome(t, w)
	assert.Equal(t, "Ticket purchased successfully.", out.Message)
	assert.Equal(t, "/customer/dashboard", out.Redirect)
	purchases.AssertExpectations(t)
}

func TestCustomerHandler_purchase_SoldOut(t *testing.T) {
	purchases := &MockPurchaseUseCase{}
	handler := NewCustomerHandler(&MockFlightUseCase{}, purchases, &MockReportUseCase{})

	c, w := newContext(http.MethodPost, "/customer/purchase", `{"airline_name":"China Eastern","flight_number":"MU101"}`, customer)
	purchases.On("Purchase", mock.Anything, mock.Anything).Return(nil, domain.ErrNoSeats).Once()

	handler.purchase(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	out := decodeOutcome(t, w)
	assert.Equal(t, "No available seats.", out.Message)
	assert.Equal(t, "/customer/search", out.Redirect)
}

func TestAgentHandler_purchase(t *testing.T) {
	purchases := &MockPurchaseUseCase{}
	handler := NewAgentHandler(&MockFlightUseCase{}, purchases, &MockReportUseCase{})

	c, w := newContext(http.MethodPost, "/agent/purchase", `{"customer_email":"alice@example.com","airline_name":"Delta","flight_number":"DL1"}`, agent)
	input := purchase.PurchaseInput{CustomerEmail: "alice@example.com", AgentEmail: "agent@example.com", AirlineName: "Delta", FlightNumber: "DL1"}
	purchases.On("Purchase", mock.Anything, input).Return(nil, domain.ErrNotAuthorized).Once()

	handler.purchase(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
	out := decodeOutcome(t, w)
	assert.Equal(t, "Not authorized to sell for this airline.", out.Message)
	assert.Equal(t, "/agent/search", out.Redirect)
	purchases.AssertExpectations(t)
}

func TestAgentHandler_search(t *testing.T) {
	flightsSvc := &MockFlightUseCase{}
	handler := NewAgentHandler(flightsSvc, &MockPurchaseUseCase{}, &MockReportUseCase{})

	c, w := newContext(http.MethodPost, "/agent/search", `{"origin":"PVG","destination":"JFK","date":"2026-05-01"}`, agent)
	flightsSvc.On("AgentSearch", mock.Anything, "agent@example.com", flights.SearchInput{Origin: "PVG", Destination: "JFK", Date: "2026-05-01"}).
		Return([]domain.Flight{}, domain.Invalid("you are not associated with any airline")).Once()

	handler.search(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You are not associated with any airline.", decodeOutcome(t, w).Message)
}

func TestCustomerHandler_spending(t *testing.T) {
	reportsSvc := &MockReportUseCase{}
	handler := NewCustomerHandler(&MockFlightUseCase{}, &MockPurchaseUseCase{}, reportsSvc)

	c, w := newContext(http.MethodPost, "/customer/spending", `{"start_date":"2026-01-01","end_date":"2026-03-31"}`, customer)
	reportsSvc.On("CustomerSpending", mock.Anything, "alice@example.com", reports.SpendingInput{StartDate: "2026-01-01", EndDate: "2026-03-31"}).
		Return(&domain.Spending{TotalCents: 50000}, nil).Once()

	handler.spending(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_cents":50000`)
}

func TestStaffHandler_ScopedToOwnAirline(t *testing.T) {
	flightsSvc := &MockFlightUseCase{}
	purchases := &MockPurchaseUseCase{}
	reportsSvc := &MockReportUseCase{}
	handler := NewStaffHandler(flightsSvc, purchases, reportsSvc)
	key := domain.FlightKey{AirlineName: "China Eastern", FlightNumber: "MU101"}

	c, w := newContext(http.MethodPost, "/staff/passengers", `{"flight_number":"MU101"}`, staff)
	reportsSvc.On("Passengers", mock.Anything, key).Return([]domain.Passenger{{Email: "alice@example.com", Name: "Alice", TicketID: "t-1"}}, nil).Once()
	handler.passengers(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodGet, "/staff/flights/MU101/audit", "", staff)
	c.Params = gin.Params{{Key: "flight_number", Value: "MU101"}}
	purchases.On("Audit", mock.Anything, key).Return(&domain.Reconciliation{FlightKey: key, Consistent: true}, nil).Once()
	handler.audit(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newContext(http.MethodPost, "/staff/operator/status", `{"flight_number":"MU101","status":"delayed"}`, staff)
	flightsSvc.On("UpdateStatus", mock.Anything, "China Eastern", flights.StatusUpdate{FlightNumber: "MU101", Status: "delayed"}).Return(nil).Once()
	handler.updateStatus(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Flight status updated successfully.", decodeOutcome(t, w).Message)

	flightsSvc.AssertExpectations(t)
	purchases.AssertExpectations(t)
	reportsSvc.AssertExpectations(t)
}

func TestStaffHandler_createFlight_PersistenceError(t *testing.T) {
	flightsSvc := &MockFlightUseCase{}
	handler := NewStaffHandler(flightsSvc, &MockPurchaseUseCase{}, &MockReportUseCase{})

	c, w := newContext(http.MethodPost, "/staff/admin/flight", `{"flight_number":"MU102"}`, staff)
	flightsSvc.On("CreateFlight", mock.Anything, "China Eastern", flights.FlightInput{FlightNumber: "MU102"}).
		Return(nil, domain.ErrPersistence).Once()

	handler.createFlight(c)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Operation failed.", decodeOutcome(t, w).Message)
}

func TestAuthHandler_login(t *testing.T) {
	r := newTestRouter(nil)
	input := accounts.LoginInput{Role: "customer", EmailOrUsername: "alice@example.com", Password: "secret"}
	r.accounts.On("Login", mock.Anything, input).Return(&accounts.Session{ID: "sess-1", Identity: *customer}, nil).Once()

	w := r.do(http.MethodPost, "/login", "", `{"role":"customer","email_or_username":"alice@example.com","password":"secret"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/customer/dashboard", decodeOutcome(t, w).Redirect)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Equal(t, "sess-1", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestAuthHandler_login_InvalidCredentials(t *testing.T) {
	r := newTestRouter(nil)
	r.accounts.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials).Once()

	w := r.do(http.MethodPost, "/login", "", `{"role":"agent","email_or_username":"agent@example.com","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	out := decodeOutcome(t, w)
	assert.Equal(t, "Invalid credentials.", out.Message)
	assert.Equal(t, "/login", out.Redirect)
	assert.Empty(t, w.Result().Cookies())
}

func TestAuthHandler_logout(t *testing.T) {
	r := newTestRouter(nil)
	r.login("sess-1", customer)
	r.accounts.On("Logout", mock.Anything, "sess-1").Return(nil).Once()

	w := r.do(http.MethodPost, "/logout", "sess-1", "")

	require.Equal(t, http.StatusOK, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
	r.accounts.AssertExpectations(t)
}

func TestAuthHandler_register(t *testing.T) {
	r := newTestRouter(nil)
	r.accounts.On("Register", mock.Anything, accounts.RegisterInput{Role: "agent", EmailOrUsername: "agent@example.com", Password: "pw", ConfirmPassword: "pw"}).
		Return(domain.Invalid("booking agent already exists")).Once()

	w := r.do(http.MethodPost, "/register", "", `{"role":"agent","email_or_username":"agent@example.com","password":"pw","confirm_password":"pw"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Booking agent already exists.", decodeOutcome(t, w).Message)
}
