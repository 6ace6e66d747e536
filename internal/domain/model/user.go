package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/OkayJosh/wrappai/internal/domain/enums"
)

type User struct {
	ID                   uuid.UUID            `json:"id"`
	AccountType          *enums.AccountType   `json:"account_type,omitempty"`
	SignupChannel        *enums.SignupChannel `json:"signup_channel,omitempty"`
	Email                string               `json:"email"`
	SecondaryEmail       *string              `json:"secondary_email,omitempty"`
	PhoneNumber          *string              `json:"phone_number,omitempty"`
	SecondaryPhoneNumber *string              `json:"secondary_phone_number,omitempty"`
	ValidatedEmail       bool                 `json:"validated_email"`
	ValidatedPhoneNumber bool                 `json:"validated_phone_number"`
	PinHash              string               `json:"-"`
	PasswordHash         string               `json:"-"`
	DateOfBirth          *time.Time           `json:"date_of_birth,omitempty"`
	CreatedAt            time.Time            `json:"created_at"`
	UpdatedAt            time.Time            `json:"updated_at"`
}
