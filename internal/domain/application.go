package domain

import (
	"context"
	"time"
)

// LatestLimit caps the public application listing.
const LatestLimit = 10

type Status string

const (
	StatusSubmitted   Status = "Submitted"
	StatusUnderReview Status = "UnderReview"
	StatusApproved    Status = "Approved"
	StatusRejected    Status = "Rejected"
)

var transitions = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview, StatusRejected},
	StatusUnderReview: {StatusApproved, StatusRejected},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected:
		return st, true
	}
	return "", false
}

// CanTransition reports whether an application may move from s to next.
// Approved and Rejected are terminal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Application struct {
	ID           string    `gorm:"primaryKey;size:36" bson:"_id" json:"id"`
	OwnerID      *string   `gorm:"size:36;index" bson:"ownerId,omitempty" json:"ownerId,omitempty"`
	Service      string    `gorm:"size:128;not null" bson:"service" json:"service"`
	Name         string    `gorm:"size:128;not null" bson:"name" json:"name"`
	MobileNo     string    `gorm:"size:10;not null" bson:"mobileNo" json:"mobileNo"`
	Address      string    `gorm:"size:255;not null" bson:"address" json:"address"`
	DocumentType string    `gorm:"size:64;not null" bson:"documentType" json:"documentType"`
	Status       Status    `gorm:"size:16;not null;default:Submitted;index" bson:"status" json:"status"`
	CreatedAt    time.Time `gorm:"index" bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (Application) TableName() string { return "applications" }

type ApplicationFilter struct {
	Offset  int
	Limit   int
	OwnerID string
	Status  Status
}

type ApplicationRepository interface {
	Create(ctx context.Context, a *Application) error
	FindByID(ctx context.Context, id string) (*Application, error)
	// List orders newest first.
	List(ctx context.Context, f ApplicationFilter) ([]Application, int64, error)
	// Update overwrites the mutable fields of a; last write wins.
	Update(ctx context.Context, a *Application) error
	Delete(ctx context.Context, id string) (*Application, error)
}

// Catalog values offered by the application form. Stored values stay free text.
var (
	Services = []string{
		"Income Certificate",
		"Caste Certificate",
		"Permanent Residence Of Tripura Certificate",
		"Birth Certificate",
	}
	DocumentTypes = []string{
		"Aadhaar Card",
		"Voter ID",
		"Ration Card",
	}
)
