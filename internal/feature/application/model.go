package application

import "panchayat-portal/internal/domain"

type CreateInput struct {
	Service      string `json:"service" validate:"required,max=128"`
	Name         string `json:"name" validate:"required,max=128"`
	MobileNo     string `json:"mobileNo" validate:"required,len=10,numeric"`
	Address      string `json:"address" validate:"required,max=255"`
	DocumentType string `json:"documentType" validate:"required,max=64"`
}

// Patch carries the fields an update may overwrite; nil leaves a field as is.
type Patch struct {
	Service      *string `json:"service" validate:"omitempty,max=128"`
	Name         *string `json:"name" validate:"omitempty,max=128"`
	MobileNo     *string `json:"mobileNo" validate:"omitempty,len=10,numeric"`
	Address      *string `json:"address" validate:"omitempty,max=255"`
	DocumentType *string `json:"documentType" validate:"omitempty,max=64"`
}

type StatusInput struct {
	Status string `json:"status" validate:"required"`
}

type Catalog struct {
	Services      []string        `json:"services"`
	DocumentTypes []string        `json:"documentTypes"`
	Statuses      []domain.Status `json:"statuses"`
}
