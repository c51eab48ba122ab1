package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/Domenick1991/airline-booking/internal/session"
)

type AccountUseCase interface {
	Register(ctx context.Context, input RegisterInput) error
	Login(ctx context.Context, input LoginInput) (*Session, error)
	Logout(ctx context.Context, sessionID string) error
	Identity(ctx context.Context, sessionID string) (*domain.Identity, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

type RegisterInput struct {
	Role            string `form:"role" json:"role"`
	EmailOrUsername string `form:"email_or_username" json:"email_or_username"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`

	Name                   string `form:"name" json:"name"`
	BuildingNumber         string `form:"building_number" json:"building_number"`
	Street                 string `form:"street" json:"street"`
	City                   string `form:"city" json:"city"`
	State                  string `form:"state" json:"state"`
	PhoneNumber            string `form:"phone_number" json:"phone_number"`
	PassportNumber         string `form:"passport_number" json:"passport_number"`
	PassportExpirationDate string `form:"passport_expiration_date" json:"passport_expiration_date"`
	PassportCountry        string `form:"passport_country" json:"passport_country"`
	DateOfBirth            string `form:"date_of_birth" json:"date_of_birth"`

	FirstName   string `form:"first_name" json:"first_name"`
	LastName    string `form:"last_name" json:"last_name"`
	AirlineName string `form:"airline_name" json:"airline_name"`
}

type LoginInput struct {
	Role            string `form:"role" json:"role"`
	EmailOrUsername string `form:"email_or_username" json:"email_or_username"`
	Password        string `form:"password" json:"password"`
}

// Session is a logged in identity and the id the client presents back.
type Session struct {
	ID       string          `json:"-"`
	Identity domain.Identity `json:"identity"`
}

var (
	defaultPassportExpiry = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)
	defaultDateOfBirth    = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	defaultStaffBirth     = time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
)

type AccountService struct {
	accounts repository.AccountRepository
	sessions session.Store
	hasher   PasswordHasher
}

func NewAccountService(accounts repository.AccountRepository, sessions session.Store, hasher PasswordHasher) *AccountService {
	return &AccountService{accounts: accounts, sessions: sessions, hasher: hasher}
}

func (s *AccountService) Register(ctx context.Context, input RegisterInput) error {
	role := domain.Role(strings.TrimSpace(input.Role))
	id := strings.TrimSpace(input.EmailOrUsername)
	if role == "" || id == "" || input.Password == "" {
		return domain.Invalid("all fields are required")
	}
	if input.Password != input.ConfirmPassword {
		return domain.Invalid("passwords do not match")
	}
	if !role.Valid() {
		return domain.Invalid("invalid role")
	}

	var err error
	switch role {
	case domain.RoleCustomer:
		err = s.registerCustomer(ctx, id, input)
	case domain.RoleAgent:
		err = s.registerAgent(ctx, id, input)
	case domain.RoleStaff:
		err = s.registerStaff(ctx, id, input)
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		return fmt.Errorf("%w: %w", domain.Invalid(roleLabel(role)+" already exists"), err)
	}
	if err != nil {
		return err
	}
	logger.FromContext(ctx).WithField("role", role).WithField("user", id).Info("account registered")
	return nil
}

func (s *AccountService) registerCustomer(ctx context.Context, email string, input RegisterInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.Invalid("name is required for customer")
	}
	expiry, err := optionalDate(input.PassportExpirationDate, defaultPassportExpiry)
	if err != nil {
		return err
	}
	dob, err := optionalDate(input.DateOfBirth, defaultDateOfBirth)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	return s.accounts.CreateCustomer(ctx, domain.Customer{
		Email:                  email,
		PasswordHash:           hash,
		Name:                   name,
		BuildingNumber:         withDefault(input.BuildingNumber, "0"),
		Street:                 strings.TrimSpace(input.Street),
		City:                   strings.TrimSpace(input.City),
		State:                  strings.TrimSpace(input.State),
		PhoneNumber:            withDefault(input.PhoneNumber, "0000000000"),
		PassportNumber:         strings.TrimSpace(input.PassportNumber),
		PassportExpirationDate: expiry,
		PassportCountry:        withDefault(input.PassportCountry, "N/A"),
		DateOfBirth:            dob,
	})
}

func (s *AccountService) registerAgent(ctx context.Context, email string, input RegisterInput) error {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	return s.accounts.CreateAgent(ctx, domain.Agent{Email: email, PasswordHash: hash})
}

func (s *AccountService) registerStaff(ctx context.Context, username string, input RegisterInput) error {
	first := strings.TrimSpace(input.FirstName)
	last := strings.TrimSpace(input.LastName)
	airline := strings.TrimSpace(input.AirlineName)
	if first == "" || last == "" || airline == "" {
		return domain.Invalid("staff requires first name, last name and airline")
	}
	dob, err := optionalDate(input.DateOfBirth, defaultStaffBirth)
	if err != nil {
		return err
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return err
	}
	return s.accounts.CreateStaff(ctx, domain.Staff{
		Username:     username,
		PasswordHash: hash,
		FirstName:    first,
		LastName:     last,
		DateOfBirth:  dob,
		AirlineName:  airline,
	})
}

// Login checks the credentials against the store of the chosen role and opens
// a new session.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	role := domain.Role(strings.TrimSpace(input.Role))
	id := strings.TrimSpace(input.EmailOrUsername)
	if role == "" || id == "" || input.Password == "" {
		return nil, domain.Invalid("all fields are required")
	}

	var (
		hash     string
		identity = domain.Identity{Role: role, UserID: id}
	)
	switch role {
	case domain.RoleCustomer:
		c, err := s.accounts.GetCustomer(ctx, id)
		if err != nil {
			return nil, err
		}
		hash, identity.DisplayName = c.PasswordHash, c.Name
		if identity.DisplayName == "" {
			identity.DisplayName = c.Email
		}
	case domain.RoleAgent:
		a, err := s.accounts.GetAgent(ctx, id)
		if err != nil {
			return nil, err
		}
		hash, identity.DisplayName = a.PasswordHash, a.Email
	case domain.RoleStaff:
		st, err := s.accounts.GetStaff(ctx, id)
		if err != nil {
			return nil, err
		}
		hash = st.PasswordHash
		identity.DisplayName = st.FirstName + " " + st.LastName
		identity.AirlineName = st.AirlineName
		identity.Permissions = st.Permissions
	default:
		return nil, domain.Invalid("invalid role")
	}

	ok, err := s.hasher.Verify(hash, input.Password)
	if err != nil {
		logger.FromContext(ctx).WithError(err).WithField("user", id).Warn("stored password hash is unreadable")
		return nil, domain.ErrInvalidCredentials
	}
	if !ok {
		return nil, domain.ErrInvalidCredentials
	}

	sessionID, err := s.sessions.Create(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &Session{ID: sessionID, Identity: identity}, nil
}

func (s *AccountService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Identity resolves a session id. Unknown ids yield session.ErrNotFound.
func (s *AccountService) Identity(ctx context.Context, sessionID string) (*domain.Identity, error) {
	return s.sessions.Get(ctx, sessionID)
}

func roleLabel(role domain.Role) string {
	switch role {
	case domain.RoleAgent:
		return "booking agent"
	case domain.RoleStaff:
		return "staff"
	}
	return "customer"
}

func withDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func optionalDate(value string, fallback time.Time) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, domain.Invalid("invalid date " + value + ", expected YYYY-MM-DD")
	}
	return t, nil
}

var _ AccountUseCase = (*AccountService)(nil)
