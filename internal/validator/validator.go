package validator

import (
	"errors"
	"regexp"
)

var (
	ErrInvalidEmail       = errors.New("invalid email")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrInvalidRole        = errors.New("invalid role")
)

var (
	emailRegex    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)
)

var accountTypes = map[string]struct{}{
	"asset":     {},
	"liability": {},
	"equity":    {},
	"income":    {},
	"expense":   {},
	"cogs":      {},
}

var companyRoles = map[string]struct{}{
	"owner":    {},
	"admin":    {},
	"employee": {},
}

func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}
	return nil
}

func ValidateUsername(username string) error {
	if !usernameRegex.MatchString(username) {
		return ErrInvalidUsername
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 8 {
		return ErrInvalidPassword
	}
	return nil
}

func ValidateAccountType(accountType string) error {
	if _, ok := accountTypes[accountType]; !ok {
		return ErrInvalidAccountType
	}
	return nil
}

func ValidateRole(role string) error {
	if _, ok := companyRoles[role]; !ok {
		return ErrInvalidRole
	}
	return nil
}
