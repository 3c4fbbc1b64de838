package domain

import (
	"strings"
	"unicode/utf8"
)

// CompanyProfilePatch changes only the non-nil fields of a company profile.
type CompanyProfilePatch struct {
	Name        *string
	Description *string
	Address     *string
	Prefecture  *string
	City        *string
	PhoneNumber *string
	Email       *string
	WebsiteURL  *string
	LogoURL     *string
}

// ApplyProfile validates and applies p. c is left untouched on error.
func (c *Company) ApplyProfile(p CompanyProfilePatch) error {
	next := *c
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return Validation("会社名は必須です")
		}
		if utf8.RuneCountInString(name) > 200 {
			return Validation("会社名は200文字以内で入力してください")
		}
		next.Name = name
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
	}
	if p.Address != nil {
		next.Address = strings.TrimSpace(*p.Address)
	}
	if p.Prefecture != nil {
		pref, err := NewPrefecture(*p.Prefecture)
		if err != nil {
			return err
		}
		next.Prefecture = pref
	}
	if p.City != nil {
		next.City = strings.TrimSpace(*p.City)
	}
	if p.PhoneNumber != nil {
		next.PhoneNumber = strings.TrimSpace(*p.PhoneNumber)
	}
	if p.Email != nil {
		email, err := NormalizeEmail(*p.Email)
		if err != nil {
			return err
		}
		next.Email = email
	}
	if p.WebsiteURL != nil {
		u, err := NormalizeURL(*p.WebsiteURL)
		if err != nil {
			return err
		}
		next.WebsiteURL = u
	}
	if p.LogoURL != nil {
		u, err := NormalizeURL(*p.LogoURL)
		if err != nil {
			return err
		}
		next.LogoURL = u
	}
	*c = next
	return nil
}
