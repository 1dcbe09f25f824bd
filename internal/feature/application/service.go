package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"panchayat-portal/internal/core/cache"
	"panchayat-portal/internal/core/metrics"
	"panchayat-portal/internal/domain"
	"panchayat-portal/pkg/utils"
)

const latestKey = "applications:latest"

type Service struct {
	repo  domain.ApplicationRepository
	cache cache.Store // nil disables caching
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewService(repo domain.ApplicationRepository, store cache.Store, ttl time.Duration, l *zap.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: store,
		ttl:   ttl,
		log:   l,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func count(op string, err error) {
	metrics.ApplicationOpsTotal.WithLabelValues(op, metrics.Result(err)).Inc()
}

// Create stores a new Submitted application. owner is recorded when the caller has a session.
func (s *Service) Create(ctx context.Context, in CreateInput, owner *domain.Identity) (a *domain.Application, err error) {
	defer func() { count("create", err) }()

	in.Service = strings.TrimSpace(in.Service)
	in.Name = strings.TrimSpace(in.Name)
	in.Address = strings.TrimSpace(in.Address)
	in.DocumentType = strings.TrimSpace(in.DocumentType)
	if in.Service == "" || in.Name == "" || strings.TrimSpace(in.MobileNo) == "" || in.Address == "" || in.DocumentType == "" {
		return nil, domain.Invalid("All fields are required")
	}
	// mobileNo is checked as sent; padding counts toward its length
	if len(in.MobileNo) != 10 {
		return nil, domain.Invalid("Invalid mobile number")
	}
	if err := utils.ValidateStruct(in); err != nil {
		return nil, domain.Invalid(err.Error())
	}

	now := s.now()
	a = &domain.Application{
		ID:           utils.NewID(),
		Service:      in.Service,
		Name:         in.Name,
		MobileNo:     in.MobileNo,
		Address:      in.Address,
		DocumentType: in.DocumentType,
		Status:       domain.StatusSubmitted,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if owner != nil && owner.ID != "" {
		oid := owner.ID
		a.OwnerID = &oid
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("application submitted", zap.String("id", a.ID), zap.String("service", a.Service))
	return a, nil
}

// Latest returns the newest applications, at most domain.LatestLimit.
func (s *Service) Latest(ctx context.Context) ([]domain.Application, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, latestKey, s.ttl, func(ctx context.Context) ([]domain.Application, error) {
		out, _, err := s.repo.List(ctx, domain.ApplicationFilter{Limit: domain.LatestLimit})
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = []domain.Application{}
		}
		return out, nil
	})
}

// Mine lists the caller's own applications, newest first.
func (s *Service) Mine(ctx context.Context, id domain.Identity, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	if id.ID == "" {
		return nil, 0, domain.ErrUnauthenticated
	}
	f.OwnerID = id.ID
	return s.repo.List(ctx, f)
}

func (s *Service) Page(ctx context.Context, actor domain.Identity, f domain.ApplicationFilter) ([]domain.Application, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, actor domain.Identity, id string) (*domain.Application, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (a.OwnerID == nil || *a.OwnerID != actor.ID) {
		// hide other people's records
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// Update overwrites the supplied fields. Status is changed only through SetStatus.
func (s *Service) Update(ctx context.Context, actor domain.Identity, id string, p Patch) (a *domain.Application, err error) {
	defer func() { count("update", err) }()

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	trim(p.Service, p.Name, p.Address, p.DocumentType)
	if err := utils.ValidateStruct(p); err != nil {
		return nil, domain.Invalid(err.Error())
	}
	a, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, f := range []struct {
		src *string
		dst *string
	}{
		{p.Service, &a.Service},
		{p.Name, &a.Name},
		{p.MobileNo, &a.MobileNo},
		{p.Address, &a.Address},
		{p.DocumentType, &a.DocumentType},
	} {
		if f.src == nil {
			continue
		}
		if *f.src == "" {
			return nil, domain.Invalid("fields cannot be blank")
		}
		*f.dst = *f.src
	}
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("application updated", zap.String("id", id), zap.String("by", actor.UserID))
	return a, nil
}

// SetStatus moves an application along its review workflow.
func (s *Service) SetStatus(ctx context.Context, actor domain.Identity, id string, in StatusInput) (a *domain.Application, err error) {
	defer func() { count("status", err) }()

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	next, ok := domain.ParseStatus(strings.TrimSpace(in.Status))
	if !ok {
		return nil, domain.Invalid(fmt.Sprintf("unknown status %q", in.Status))
	}
	a, err = s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s to %s", domain.ErrInvalidTransition, a.Status, next)
	}
	a.Status = next
	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("application status changed", zap.String("id", id), zap.String("status", string(next)), zap.String("by", actor.UserID))
	return a, nil
}

// Delete removes the application and returns the removed record.
func (s *Service) Delete(ctx context.Context, actor domain.Identity, id string) (a *domain.Application, err error) {
	defer func() { count("delete", err) }()

	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	a, err = s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info("application deleted", zap.String("id", id), zap.String("by", actor.UserID))
	return a, nil
}

func (s *Service) Catalog() Catalog {
	return Catalog{
		Services:      domain.Services,
		DocumentTypes: domain.DocumentTypes,
		Statuses: []domain.Status{
			domain.StatusSubmitted, domain.StatusUnderReview, domain.StatusApproved, domain.StatusRejected,
		},
	}
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, latestKey); err != nil {
		s.log.Warn("cache invalidate failed", zap.String("key", latestKey), zap.Error(err))
	}
}

func trim(fields ...*string) {
	for _, f := range fields {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}
