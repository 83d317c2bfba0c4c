package entity

import (
	"time"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in Password field
type User struct {
	ID          string
	Status      Status
	FirstName   string
	LastName    string
	Email       string
	Password    string
	Role        Role
	Balance     int
	Address     []string
	PhoneNumber string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBuyer builds the record created by self-registration.
func NewBuyer(firstName, lastName, email, passwordHash string) *User {
	return &User{
		Status:      StatusActive,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Password:    passwordHash,
		Role:        RoleBuyer,
		Balance:     0,
		Address:     []string{},
		PhoneNumber: "",
	}
}

func (u *User) IsActive() bool { return u.Status == StatusActive }

// Public returns a copy without credential material.
func (u *User) Public() *User {
	c := *u
	c.Password = ""
	if c.Address == nil {
		c.Address = []string{}
	}
	return &c
}
