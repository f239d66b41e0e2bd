package provider

import (
	"strings"

	"signup-gateway/internal/domain"
)

// SignupForm carries the manual sign-up fields.
type SignupForm struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Phone           string `json:"phone"`
	BirthDate       string `json:"birthDate"`
	Gender          string `json:"gender"`
}

func (f SignupForm) Method() domain.AuthMethod {
	return domain.AuthMethodManual
}

func (f SignupForm) Identity() (*domain.Identity, error) {
	return &domain.Identity{
		Email:           strings.TrimSpace(f.Email),
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		Phone:           strings.TrimSpace(f.Phone),
		BirthDate:       strings.TrimSpace(f.BirthDate),
		Gender:          strings.TrimSpace(f.Gender),
		Password:        f.Password,
		ConfirmPassword: f.ConfirmPassword,
	}, nil
}

// SigninForm carries the manual sign-in fields.
type SigninForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (f SigninForm) Method() domain.AuthMethod {
	return domain.AuthMethodManualSignin
}

func (f SigninForm) Identity() (*domain.Identity, error) {
	return &domain.Identity{
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
	}, nil
}
