package domain

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAgent    Role = "agent"
	RoleStaff    Role = "staff"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAgent || r == RoleStaff
}

type Permission string

const (
	PermissionAdmin    Permission = "Admin"
	PermissionOperator Permission = "Operator"
)

type Customer struct {
	Email                  string    `json:"email"`
	PasswordHash           string    `json:"-"`
	Name                   string    `json:"name"`
	BuildingNumber         string    `json:"building_number"`
	Street                 string    `json:"street"`
	City                   string    `json:"city"`
	State                  string    `json:"state"`
	PhoneNumber            string    `json:"phone_number"`
	PassportNumber         string    `json:"passport_number"`
	PassportExpirationDate time.Time `json:"passport_expiration_date"`
	PassportCountry        string    `json:"passport_country"`
	DateOfBirth            time.Time `json:"date_of_birth"`
}

type Agent struct {
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
}

type Staff struct {
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"`
	FirstName    string       `json:"first_name"`
	LastName     string       `json:"last_name"`
	DateOfBirth  time.Time    `json:"date_of_birth"`
	AirlineName  string       `json:"airline_name"`
	Permissions  []Permission `json:"permissions"`
}

// Identity is the verified principal of a single request.
type Identity struct {
	Role        Role         `json:"role"`
	UserID      string       `json:"user_id"`
	DisplayName string       `json:"display_name"`
	AirlineName string       `json:"airline_name,omitempty"`
	Permissions []Permission `json:"permissions,omitempty"`
}

func (i *Identity) Authenticated() bool {
	return i != nil && i.Role.Valid() && i.UserID != ""
}

func (i *Identity) Has(p Permission) bool {
	if i == nil || i.Role != RoleStaff {
		return false
	}
	for _, granted := range i.Permissions {
		if granted == p {
			return true
		}
	}
	return false
}
