package user

import (
	"time"

	"panchayat-portal/internal/domain"
)

// View is the password-free projection returned to callers.
type View struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	Usertype           string    `json:"usertype"`
	UserID             string    `json:"userId"`
	Email              string    `json:"email"`
	MobileNo           string    `json:"mobileNo"`
	Address            string    `json:"address"`
	AccountStatus      bool      `json:"accountStatus"`
	DateOfRegistration time.Time `json:"dateOfRegistration"`
}

func ViewOf(u *domain.User) *View {
	return &View{
		ID:                 u.ID,
		Username:           u.Username,
		Usertype:           u.Usertype,
		UserID:             u.UserID,
		Email:              u.Email,
		MobileNo:           u.MobileNo,
		Address:            u.Address,
		AccountStatus:      u.AccountStatus,
		DateOfRegistration: u.DateOfRegistration,
	}
}

type RegisterInput struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Usertype string `json:"usertype" validate:"required,max=16"`
	UserID   string `json:"userId" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email,max=191"`
	MobileNo string `json:"mobileNo" validate:"required,max=20"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Address  string `json:"address" validate:"max=255"`
}

type LoginInput struct {
	EmailOrMobile string `json:"emailOrMobile"`
	Password      string `json:"password"`
}

type AddressInput struct {
	Address string `json:"address" validate:"max=255"`
}

// Seed describes the bootstrap admin account.
type Seed struct {
	Username string
	UserID   string
	Email    string
	MobileNo string
	Password string
}
