package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/Domenick1991/airline-booking/internal/auth"
	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) CreateCustomer(ctx context.Context, c domain.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockAccountRepository) CreateAgent(ctx context.Context, a domain.Agent) error {
	return m.Called(ctx, a).Error(0)
}

func (m *MockAccountRepository) CreateStaff(ctx context.Context, s domain.Staff) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockAccountRepository) GetCustomer(ctx context.Context, email string) (*domain.Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *MockAccountRepository) GetAgent(ctx context.Context, email string) (*domain.Agent, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Agent), args.Error(1)
}

func (m *MockAccountRepository) GetStaff(ctx context.Context, username string) (*domain.Staff, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Staff), args.Error(1)
}

func (m *MockAccountRepository) AgentAirlines(ctx context.Context, agentEmail string) ([]string, error) {
	args := m.Called(ctx, agentEmail)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAccountRepository) AddAffiliation(ctx context.Context, agentEmail, airlineName string) error {
	return m.Called(ctx, agentEmail, airlineName).Error(0)
}

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Create(ctx context.Context, identity domain.Identity) (string, error) {
	args := m.Called(ctx, identity)
	return args.String(0), args.Error(1)
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*domain.Identity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Identity), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newTestService() (*AccountService, *MockAccountRepository, *MockSessionStore, *auth.Hasher) {
	repo := &MockAccountRepository{}
	sessions := &MockSessionStore{}
	hasher := auth.NewHasher(bcrypt.MinCost)
	return NewAccountService(repo, sessions, hasher), repo, sessions, hasher
}

func TestAccountService_Register_Validation(t *testing.T) {
	service, repo, _, _ := newTestService()

	testCases := []struct {
		name  string
		input RegisterInput
		msg   string
	}{
		{"missing password", RegisterInput{Role: "customer", EmailOrUsername: "a@x.com"}, "All fields are required."},
		{"mismatch", RegisterInput{Role: "agent", EmailOrUsername: "a@x.com", Password: "a", ConfirmPassword: "b"}, "Passwords do not match."},
		{"bad role", RegisterInput{Role: "pilot", EmailOrUsername: "a@x.com", Password: "a", ConfirmPassword: "a"}, "Invalid role."},
		{"customer without name", RegisterInput{Role: "customer", EmailOrUsername: "a@x.com", Password: "a", ConfirmPassword: "a"}, "Name is required for customer."},
		{"staff without airline", RegisterInput{Role: "staff", EmailOrUsername: "ops", Password: "a", ConfirmPassword: "a", FirstName: "Ada", LastName: "L"}, "Staff requires first name, last name and airline."},
		{"bad birth date", RegisterInput{Role: "customer", EmailOrUsername: "a@x.com", Password: "a", ConfirmPassword: "a", Name: "A", DateOfBirth: "yesterday"}, "Invalid date yesterday, expected YYYY-MM-DD."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.Register(context.Background(), tc.input)
			assert.Equal(t, tc.msg, domain.UserMessage(err))
		})
	}
	repo.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "CreateStaff", mock.Anything, mock.Anything)
}

func TestAccountService_Register_Customer(t *testing.T) {
	service, repo, _, hasher := newTestService()
	ctx := context.Background()

	repo.On("CreateCustomer", ctx, mock.MatchedBy(func(c domain.Customer) bool {
		ok, _ := hasher.Verify(c.PasswordHash, "pw")
		return ok && c.Email == "alice@example.com" && c.Name == "Alice" &&
			c.PassportCountry == "N/A" && c.DateOfBirth.Equal(time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC))
	})).Return(nil).Once()

	err := service.Register(ctx, RegisterInput{Role: "customer", EmailOrUsername: " alice@example.com ", Password: "pw", ConfirmPassword: "pw", Name: "Alice"})

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAccountService_Register_Duplicate(t *testing.T) {
	service, repo, _, _ := newTestService()

	repo.On("CreateAgent", mock.Anything, mock.AnythingOfType("domain.Agent")).Return(domain.ErrAlreadyExists).Once()

	err := service.Register(context.Background(), RegisterInput{Role: "agent", EmailOrUsername: "agent@example.com", Password: "pw", ConfirmPassword: "pw"})

	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	assert.Equal(t, "Booking agent already exists.", domain.UserMessage(err))
}

func TestAccountService_Login_Staff(t *testing.T) {
	service, repo, sessions, hasher := newTestService()
	ctx := context.Background()
	hash, err := hasher.Hash("pw")
	require.NoError(t, err)

	repo.On("GetStaff", ctx, "ops").Return(&domain.Staff{
		Username: "ops", PasswordHash: hash, FirstName: "Ada", LastName: "Lovelace",
		AirlineName: "China Eastern", Permissions: []domain.Permission{domain.PermissionOperator},
	}, nil).Once()
	want := domain.Identity{
		Role:        domain.RoleStaff,
		UserID:      "ops",
		DisplayName: "Ada Lovelace",
		AirlineName: "China Eastern",
		Permissions: []domain.Permission{domain.PermissionOperator},
	}
	sessions.On("Create", ctx, want).Return("abc123", nil).Once()

	got, err := service.Login(ctx, LoginInput{Role: "staff", EmailOrUsername: "ops", Password: "pw"})

	require.NoError(t, err)
	assert.Equal(t, "abc123", got.ID)
	assert.Equal(t, want, got.Identity)
	sessions.AssertExpectations(t)
}

func TestAccountService_Login_Failures(t *testing.T) {
	service, repo, sessions, hasher := newTestService()
	ctx := context.Background()
	hash, err := hasher.Hash("pw")
	require.NoError(t, err)

	repo.On("GetCustomer", ctx, "alice@example.com").Return(&domain.Customer{Email: "alice@example.com", PasswordHash: hash}, nil)
	repo.On("GetAgent", ctx, "ghost@example.com").Return(nil, domain.ErrUserNotFound)
	repo.On("GetAgent", ctx, "legacy@example.com").Return(&domain.Agent{Email: "legacy@example.com", PasswordHash: "pbkdf2:sha256:1$$"}, nil)

	_, err = service.Login(ctx, LoginInput{Role: "customer", EmailOrUsername: "alice@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginInput{Role: "agent", EmailOrUsername: "ghost@example.com", Password: "pw"})
	assert.Equal(t, "User not found.", domain.UserMessage(err))

	_, err = service.Login(ctx, LoginInput{Role: "agent", EmailOrUsername: "legacy@example.com", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginInput{Role: "pilot", EmailOrUsername: "x", Password: "pw"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAccountService_LogoutAndIdentity(t *testing.T) {
	service, _, sessions, _ := newTestService()
	ctx := context.Background()
	identity := &domain.Identity{Role: domain.RoleCustomer, UserID: "alice@example.com"}

	sessions.On("Get", ctx, "abc").Return(identity, nil).Once()
	sessions.On("Delete", ctx, "abc").Return(nil).Once()

	got, err := service.Identity(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, identity, got)
	require.NoError(t, service.Logout(ctx, "abc"))
	sessions.AssertExpectations(t)
}
