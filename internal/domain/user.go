package domain

import (
	"context"
	"time"
)

const (
	RoleCitizen = "citizen"
	RoleAdmin   = "admin"
)

type User struct {
	ID                 string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	Username           string    `gorm:"size:20;not null" bson:"username" json:"username"`
	Usertype           string    `gorm:"size:16;not null;default:citizen" bson:"usertype" json:"usertype"` // "citizen"/"admin", open string
	UserID             string    `gorm:"column:user_id;uniqueIndex;size:20;not null" bson:"userId" json:"userId"`
	Email              string    `gorm:"uniqueIndex;size:191;not null" bson:"email" json:"email"`
	MobileNo           string    `gorm:"index;size:20;not null" bson:"mobileNo" json:"mobileNo"`
	Address            string    `gorm:"size:255" bson:"address" json:"address"`
	PasswordHash       string    `gorm:"size:100;not null" bson:"password" json:"-"`
	AccountStatus      bool      `gorm:"not null;default:false" bson:"accountStatus" json:"accountStatus"`
	DateOfRegistration time.Time `gorm:"not null" bson:"dateOfRegistration" json:"dateOfRegistration"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Identity is the minimal projection carried by a session.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	UserID   string `json:"userId"`
	Usertype string `json:"usertype"`
}

func (i Identity) IsAdmin() bool { return i.Usertype == RoleAdmin }

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Name: u.Username, UserID: u.UserID, Usertype: u.Usertype}
}

type UserFilter struct {
	Offset int
	Limit  int
	Q      string // matches email, userId or username
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// FindByEmailOrMobile returns the first user whose email or mobile number equals identifier.
	FindByEmailOrMobile(ctx context.Context, identifier string) (*User, error)
	UpdateAddress(ctx context.Context, id, address string, at time.Time) error
	SetAccountStatus(ctx context.Context, id string, active bool, at time.Time) error
	List(ctx context.Context, f UserFilter) ([]User, int64, error)
}
