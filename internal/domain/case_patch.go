package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// CasePatch changes only the non-nil fields of a construction case. Tags and
// images are resolved by the caller since they need repository access.
type CasePatch struct {
	Title          *string
	Description    *string
	Prefecture     *string
	City           *string
	BuildingArea   *decimal.Decimal
	Budget         *int
	CompletionYear *int
	MainImageURL   *string
	Status         *string
}

var maxBuildingArea = decimal.NewFromInt(100000)

// ApplyPatch validates and applies p. c is left untouched on error.
func (c *ConstructionCase) ApplyPatch(p CasePatch, now time.Time) error {
	next := *c
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" {
			return Validation("タイトルは必須です")
		}
		if utf8.RuneCountInString(title) > 200 {
			return Validation("タイトルは200文字以内で入力してください")
		}
		next.Title = title
	}
	if p.Description != nil {
		next.Description = strings.TrimSpace(*p.Description)
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
	if p.BuildingArea != nil {
		area := p.BuildingArea.Round(2)
		if area.IsNegative() || area.GreaterThan(maxBuildingArea) {
			return Validation(fmt.Sprintf("延床面積が不正です: %s", area.String()))
		}
		next.BuildingArea = decimal.NewNullDecimal(area)
	}
	if p.Budget != nil {
		if *p.Budget < 0 {
			return Validation("予算は0以上で入力してください")
		}
		budget := *p.Budget
		next.Budget = &budget
	}
	if p.CompletionYear != nil {
		if err := ValidateCompletionYear(p.CompletionYear, now); err != nil {
			return err
		}
		year := *p.CompletionYear
		next.CompletionYear = &year
	}
	if p.MainImageURL != nil {
		u, err := NormalizeURL(*p.MainImageURL)
		if err != nil {
			return err
		}
		next.MainImageURL = u
	}
	if p.Status != nil {
		status, err := ParseCaseStatus(*p.Status)
		if err != nil {
			return err
		}
		next.SetStatus(status, now)
	}
	*c = next
	return nil
}

// BuildCaseImages turns ordered URLs into images numbered from 1.
func BuildCaseImages(urls []string) ([]CaseImage, error) {
	images := make([]CaseImage, 0, len(urls))
	for _, raw := range urls {
		u, err := NormalizeURL(raw)
		if err != nil {
			return nil, err
		}
		if u == "" {
			continue
		}
		images = append(images, CaseImage{ImageURL: u, DisplayOrder: len(images) + 1})
	}
	return images, nil
}
