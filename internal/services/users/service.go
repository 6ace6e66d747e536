package users

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
	"github.com/OkayJosh/wrappai/internal/domain/errs"
	"github.com/OkayJosh/wrappai/internal/domain/model"
	"github.com/OkayJosh/wrappai/internal/pkg/validate"
)

type Store interface {
	Create(ctx context.Context, user model.User) (model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	SetEmailValidated(ctx context.Context, id uuid.UUID, validated bool) error
	SetPhoneValidated(ctx context.Context, id uuid.UUID, validated bool) error
	DeleteCascade(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

type RegisterInput struct {
	AccountType          *enums.AccountType
	SignupChannel        *enums.SignupChannel
	Email                string
	SecondaryEmail       *string
	PhoneNumber          *string
	SecondaryPhoneNumber *string
	PIN                  string
	Password             string
	DateOfBirth          *time.Time
}

// Register validates the account payload, hashes both secrets and persists
// the user. Email and phone uniqueness is the store's job: a racing
// duplicate insert comes back as ConflictError, never a silent overwrite.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("users store is not configured")
	}

	in.Email = strings.TrimSpace(in.Email)
	if !validate.Email(in.Email) {
		return model.User{}, errs.Validationf("email %q is malformed", in.Email)
	}
	if in.AccountType != nil && !in.AccountType.Valid() {
		return model.User{}, errs.Validationf("account type %q", *in.AccountType)
	}
	if in.SignupChannel != nil && !in.SignupChannel.Valid() {
		return model.User{}, errs.Validationf("signup channel %q", *in.SignupChannel)
	}
	if in.PhoneNumber != nil && !validate.Phone(*in.PhoneNumber) {
		return model.User{}, errs.Validationf("phone number %q is malformed", *in.PhoneNumber)
	}
	if !validate.Required(in.PIN) {
		return model.User{}, errs.Validationf("pin is required")
	}
	if !validate.Required(in.Password) {
		return model.User{}, errs.Validationf("password is required")
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(in.PIN), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash pin: %w", err)
	}
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		AccountType:          in.AccountType,
		SignupChannel:        in.SignupChannel,
		Email:                in.Email,
		SecondaryEmail:       in.SecondaryEmail,
		PhoneNumber:          in.PhoneNumber,
		SecondaryPhoneNumber: in.SecondaryPhoneNumber,
		PinHash:              string(pinHash),
		PasswordHash:         string(passwordHash),
		DateOfBirth:          in.DateOfBirth,
	}

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return model.User{}, err
	}

	return created, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("users store is not configured")
	}
	return s.store.GetByID(ctx, id)
}

func (s *Service) GetByEmail(ctx context.Context, email string) (model.User, error) {
	if s.store == nil {
		return model.User{}, fmt.Errorf("users store is not configured")
	}
	return s.store.GetByEmail(ctx, strings.TrimSpace(email))
}

func (s *Service) VerifyEmail(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("users store is not configured")
	}
	return s.store.SetEmailValidated(ctx, id, true)
}

func (s *Service) VerifyPhone(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("users store is not configured")
	}
	return s.store.SetPhoneValidated(ctx, id, true)
}

// Delete removes the user and everything it owns. Notifications survive with
// their user reference nulled; that detach happens inside the store cascade.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if s.store == nil {
		return fmt.Errorf("users store is not configured")
	}
	return s.store.DeleteCascade(ctx, id)
}
