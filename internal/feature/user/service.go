package user

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"panchayat-portal/internal/core/metrics"
	"panchayat-portal/internal/domain"
	"panchayat-portal/pkg/utils"
)

type Options struct {
	ActivateOnRegister bool
	SelfRegisterRoles  []string // empty allows any role
}

type Service struct {
	repo domain.UserRepository
	opts Options
	log  *zap.Logger
	now  func() time.Time

	// compared against when the identifier is unknown so both paths cost a bcrypt round
	dummyHash string
	check     func(pw, hash string) bool
}

func NewService(repo domain.UserRepository, opts Options, l *zap.Logger) *Service {
	dummy, _ := utils.HashPassword("not-a-real-password")
	return &Service{
		repo:      repo,
		opts:      opts,
		log:       l,
		now:       func() time.Time { return time.Now().UTC() },
		dummyHash: dummy,
		check:     utils.CheckPassword,
	}
}

// WithClock replaces the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (v *View, err error) {
	defer func() { metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	in.Username = strings.TrimSpace(in.Username)
	in.Usertype = strings.TrimSpace(in.Usertype)
	in.UserID = strings.TrimSpace(in.UserID)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.MobileNo = strings.TrimSpace(in.MobileNo)
	in.Address = strings.TrimSpace(in.Address)

	if err := utils.ValidateStruct(in); err != nil {
		return nil, domain.Invalid(err.Error())
	}
	if len(in.Password) > utils.MaxPasswordBytes {
		return nil, domain.Invalid(fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
	}
	if len(s.opts.SelfRegisterRoles) > 0 && !slices.Contains(s.opts.SelfRegisterRoles, in.Usertype) {
		return nil, domain.Invalid(fmt.Sprintf("usertype must be one of [%s]", strings.Join(s.opts.SelfRegisterRoles, " ")))
	}
	return s.create(ctx, in, s.opts.ActivateOnRegister)
}

func (s *Service) create(ctx context.Context, in RegisterInput, active bool) (*View, error) {
	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.Invalid(fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes))
	} else if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.now()
	u := &domain.User{
		ID:                 utils.NewID(),
		Username:           in.Username,
		Usertype:           in.Usertype,
		UserID:             in.UserID,
		Email:              in.Email,
		MobileNo:           in.MobileNo,
		Address:            in.Address,
		PasswordHash:       hash,
		AccountStatus:      active,
		DateOfRegistration: now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.log.Info("user registered", zap.String("id", u.ID), zap.String("user_id", u.UserID), zap.String("usertype", u.Usertype))
	return ViewOf(u), nil
}

// Authenticate checks identifier (email or mobile number) and password.
// The error tells the cause apart; callers must not show it to the client.
func (s *Service) Authenticate(ctx context.Context, identifier, password string) (id domain.Identity, err error) {
	defer func() { metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc() }()

	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return domain.Identity{}, domain.Invalid("Please enter email/mobile and password")
	}
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}
	u, err := s.repo.FindByEmailOrMobile(ctx, identifier)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.check(password, s.dummyHash)
		return domain.Identity{}, domain.ErrUserNotFound
	case err != nil:
		return domain.Identity{}, err
	}
	// the password is checked first so an inactive account costs the same bcrypt round
	ok := s.check(password, u.PasswordHash)
	if !u.AccountStatus {
		return domain.Identity{}, domain.ErrAccountInactive
	}
	if !ok {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	return u.Identity(), nil
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUserNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAccountInactive):
		return "inactive"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "bad_password"
	}
	return "error"
}

func (s *Service) GetSelf(ctx context.Context, id domain.Identity) (*View, error) {
	if id.Email == "" {
		return nil, domain.ErrUnauthenticated
	}
	u, err := s.repo.FindByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	return ViewOf(u), nil
}

// UpdateAddress writes only the address of the caller's own record.
func (s *Service) UpdateAddress(ctx context.Context, id domain.Identity, in AddressInput) (*View, error) {
	if id.Email == "" {
		return nil, domain.ErrUnauthenticated
	}
	in.Address = strings.TrimSpace(in.Address)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, domain.Invalid(err.Error())
	}
	u, err := s.repo.FindByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if err := s.repo.UpdateAddress(ctx, u.ID, in.Address, now); err != nil {
		return nil, err
	}
	u.Address = in.Address
	u.UpdatedAt = now
	return ViewOf(u), nil
}

func (s *Service) Page(ctx context.Context, actor domain.Identity, f domain.UserFilter) ([]View, int64, error) {
	if !actor.IsAdmin() {
		return nil, 0, domain.ErrForbidden
	}
	us, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]View, 0, len(us))
	for i := range us {
		out = append(out, *ViewOf(&us[i]))
	}
	return out, total, nil
}

// SetAccountStatus enables or disables login for the user with internal id.
func (s *Service) SetAccountStatus(ctx context.Context, actor domain.Identity, id string, active bool) (*View, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	if actor.ID == id && !active {
		return nil, domain.Invalid("admins cannot deactivate their own account")
	}
	if err := s.repo.SetAccountStatus(ctx, id, active, s.now()); err != nil {
		return nil, err
	}
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.log.Info("account status changed", zap.String("id", id), zap.Bool("active", active), zap.String("by", actor.UserID))
	return ViewOf(u), nil
}

// EnsureAdmin creates the seed admin unless its email is already registered.
func (s *Service) EnsureAdmin(ctx context.Context, seed Seed) (bool, error) {
	if seed.Email == "" {
		return false, nil
	}
	email := strings.ToLower(strings.TrimSpace(seed.Email))
	_, err := s.repo.FindByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, err
	}
	in := RegisterInput{
		Username: seed.Username,
		Usertype: domain.RoleAdmin,
		UserID:   seed.UserID,
		Email:    email,
		MobileNo: seed.MobileNo,
		Password: seed.Password,
	}
	if err := utils.ValidateStruct(in); err != nil {
		return false, domain.Invalid("admin seed: " + err.Error())
	}
	if _, err := s.create(ctx, in, true); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
