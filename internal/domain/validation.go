package domain

import (
	"net/mail"
	"strings"
	"time"
)

const (
	maxNameLen       = 255
	maxEmailLen      = 255
	maxCardNumberLen = 64
	maxHolderLen     = 255
)

// NewUserInput is the validated shape shared by create, update and
// registration flows.
type NewUserInput struct {
	Name      string
	Surname   *string
	BirthDate *time.Time
	Email     string
}

// NewCardInput is a card creation request before it is bound to a user.
type NewCardInput struct {
	Number         string
	Holder         string
	ExpirationDate time.Time
}

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ValidateNewUser checks required fields, lengths, email shape and that the
// birth date, when present, is strictly before today.
func ValidateNewUser(in NewUserInput, today time.Time) error {
	errs := FieldErrors{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		errs["name"] = "must not be blank"
	} else if len(name) > maxNameLen {
		errs["name"] = "must be at most 255 characters"
	}
	if in.Surname != nil && len(*in.Surname) > maxNameLen {
		errs["surname"] = "must be at most 255 characters"
	}
	email := NormalizeEmail(in.Email)
	if email == "" {
		errs["email"] = "must not be blank"
	} else if len(email) > maxEmailLen {
		errs["email"] = "must be at most 255 characters"
	} else if _, err := mail.ParseAddress(email); err != nil {
		errs["email"] = "must be a well-formed email address"
	}
	if in.BirthDate != nil && !in.BirthDate.Before(today) {
		errs["birthDate"] = "must be in the past"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateNewCard checks required fields and lengths. The future-dated
// expiration rule is configurable, so the caller decides whether it applies.
func ValidateNewCard(in NewCardInput, today time.Time, requireFutureExpiration bool) error {
	errs := FieldErrors{}
	number := strings.TrimSpace(in.Number)
	if number == "" {
		errs["cardNumber"] = "must not be blank"
	} else if len(number) > maxCardNumberLen {
		errs["cardNumber"] = "must be at most 64 characters"
	}
	holder := strings.TrimSpace(in.Holder)
	if holder == "" {
		errs["cardHolderName"] = "must not be blank"
	} else if len(holder) > maxHolderLen {
		errs["cardHolderName"] = "must be at most 255 characters"
	}
	if in.ExpirationDate.IsZero() {
		errs["expirationDate"] = "must not be null"
	} else if requireFutureExpiration && !in.ExpirationDate.After(today) {
		errs["expirationDate"] = "must be in the future"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
